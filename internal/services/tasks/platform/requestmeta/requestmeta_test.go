package requestmeta

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHasSameOriginProof(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  string
		headers map[string]string
		policy  SchemePolicy
		want    bool
	}{
		{
			name:    "origin same host and scheme",
			target:  "https://tasks.example.test/app/tasks/new",
			headers: map[string]string{"Origin": "https://tasks.example.test"},
			want:    true,
		},
		{
			name:    "referer same host and scheme",
			target:  "https://tasks.example.test/logout",
			headers: map[string]string{"Referer": "https://tasks.example.test/app/tasks"},
			want:    true,
		},
		{
			name:    "origin wins over referer",
			target:  "https://tasks.example.test/logout",
			headers: map[string]string{"Origin": "https://evil.example.test", "Referer": "https://tasks.example.test/app/tasks"},
			want:    false,
		},
		{
			name:    "different port",
			target:  "http://localhost:8080/app/tasks/new",
			headers: map[string]string{"Origin": "http://localhost:9090"},
			want:    false,
		},
		{
			name:    "explicit default port matches",
			target:  "https://tasks.example.test/app/tasks/new",
			headers: map[string]string{"Origin": "https://tasks.example.test:443"},
			want:    true,
		},
		{
			name:   "missing proof",
			target: "https://tasks.example.test/app/tasks/new",
			want:   false,
		},
		{
			name:    "malformed origin",
			target:  "https://tasks.example.test/app/tasks/new",
			headers: map[string]string{"Origin": "://"},
			want:    false,
		},
		{
			name:    "untrusted forwarded proto is ignored",
			target:  "https://tasks.example.test/app/tasks/new",
			headers: map[string]string{"Origin": "http://tasks.example.test", "X-Forwarded-Proto": "http"},
			want:    false,
		},
		{
			name:    "trusted forwarded proto is used",
			target:  "https://tasks.example.test/app/tasks/new",
			headers: map[string]string{"Origin": "http://tasks.example.test", "X-Forwarded-Proto": "http"},
			policy:  SchemePolicy{TrustForwardedProto: true},
			want:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, tc.target, nil)
			for key, value := range tc.headers {
				req.Header.Set(key, value)
			}
			if got := HasSameOriginProofWithPolicy(req, tc.policy); got != tc.want {
				t.Fatalf("HasSameOriginProofWithPolicy() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHasSameOriginProofNilRequest(t *testing.T) {
	t.Parallel()

	if HasSameOriginProofWithPolicy(nil, SchemePolicy{}) {
		t.Fatal("expected nil request to have no proof")
	}
}

func TestIsHTTPSWithPolicy(t *testing.T) {
	t.Parallel()

	if !IsHTTPSWithPolicy(httptest.NewRequest(http.MethodGet, "https://tasks.example.test/", nil), SchemePolicy{}) {
		t.Fatal("expected https url to be https")
	}
	if IsHTTPSWithPolicy(httptest.NewRequest(http.MethodGet, "http://tasks.example.test/", nil), SchemePolicy{}) {
		t.Fatal("expected http url not to be https")
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Scheme = ""
	req.TLS = &tls.ConnectionState{}
	if !IsHTTPSWithPolicy(req, SchemePolicy{}) {
		t.Fatal("expected tls request to be https")
	}
}
