package flash

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/taskboard/internal/services/tasks/platform/requestmeta"
)

func TestWriteThenReadAndClear(t *testing.T) {
	t.Parallel()

	writeRR := httptest.NewRecorder()
	WriteWithPolicy(writeRR, httptest.NewRequest(http.MethodPost, "/app/tasks/new", nil), NoticeSuccess("tasks.notice.created"), requestmeta.SchemePolicy{})
	cookies := writeRR.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("cookies = %v, want one %s cookie", cookies, CookieName)
	}

	req := httptest.NewRequest(http.MethodGet, "/app/tasks", nil)
	req.AddCookie(cookies[0])
	readRR := httptest.NewRecorder()
	notice, ok := ReadAndClearWithPolicy(readRR, req, requestmeta.SchemePolicy{})
	if !ok {
		t.Fatal("expected notice")
	}
	if notice.Kind != KindSuccess || notice.Key != "tasks.notice.created" {
		t.Fatalf("notice = %+v", notice)
	}
	if !strings.Contains(readRR.Header().Get("Set-Cookie"), "Max-Age=0") {
		t.Fatalf("Set-Cookie = %q, want cleared cookie", readRR.Header().Get("Set-Cookie"))
	}
}

func TestWriteSkipsInvalidNotice(t *testing.T) {
	t.Parallel()

	for _, notice := range []Notice{{Kind: KindSuccess}, {Kind: "loud", Key: "x"}} {
		rr := httptest.NewRecorder()
		WriteWithPolicy(rr, httptest.NewRequest(http.MethodPost, "/", nil), notice, requestmeta.SchemePolicy{})
		if got := rr.Header().Get("Set-Cookie"); got != "" {
			t.Fatalf("Set-Cookie = %q for %+v, want none", got, notice)
		}
	}
}

func TestReadAndClearRejectsTamperedCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/app/tasks", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "kind=loud&key="})
	if _, ok := ReadAndClearWithPolicy(httptest.NewRecorder(), req, requestmeta.SchemePolicy{}); ok {
		t.Fatal("expected tampered cookie to be ignored")
	}
	if _, ok := ReadAndClearWithPolicy(nil, nil, requestmeta.SchemePolicy{}); ok {
		t.Fatal("expected nil request to have no notice")
	}
}

func TestClearKeepsSecureBehindTrustedProxy(t *testing.T) {
	t.Parallel()

	policy := requestmeta.SchemePolicy{TrustForwardedProto: true}
	proxied := func(method string) *http.Request {
		req := httptest.NewRequest(method, "http://tasks.example.test/app/tasks", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		return req
	}

	writeRR := httptest.NewRecorder()
	WriteWithPolicy(writeRR, proxied(http.MethodPost), NoticeSuccess("tasks.notice.deleted"), policy)
	written := writeRR.Result().Cookies()
	if len(written) != 1 || !written[0].Secure {
		t.Fatalf("written cookies = %v, want one secure cookie", written)
	}

	req := proxied(http.MethodGet)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: written[0].Value})
	readRR := httptest.NewRecorder()
	notice, ok := ReadAndClearWithPolicy(readRR, req, policy)
	if !ok || notice.Key != "tasks.notice.deleted" {
		t.Fatalf("ReadAndClearWithPolicy() = %+v, %v", notice, ok)
	}
	cleared := readRR.Result().Cookies()
	if len(cleared) != 1 || !cleared[0].Secure || cleared[0].MaxAge >= 0 {
		t.Fatalf("cleared cookies = %v, want one expired secure cookie", cleared)
	}
}
