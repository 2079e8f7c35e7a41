package public

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	"github.com/louisbranch/taskboard/internal/services/tasks/user"
)

func TestMountRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New().Mount(module.Dependencies{}); err == nil {
		t.Fatal("expected missing dependency error")
	}
}

func TestModuleIDReturnsPublic(t *testing.T) {
	t.Parallel()

	if got := New().ID(); got != "public" {
		t.Fatalf("ID() = %q, want %q", got, "public")
	}
}

func TestHealthReturnsOK(t *testing.T) {
	t.Parallel()

	h := mountPublic(t, newFakeUserStore(), &fakeSessions{})
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/up", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "ok" {
		t.Fatalf("body = %q, want %q", got, "ok")
	}
}

func TestHomeRendersForAnonymousAndSignedIn(t *testing.T) {
	t.Parallel()

	h := mountPublic(t, newFakeUserStore(), &fakeSessions{})
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), `href="/signup"`) {
		t.Fatalf("anonymous home missing signup link: %q", rr.Body.String())
	}

	deps := testDependencies(newFakeUserStore(), &fakeSessions{})
	deps.ResolveViewer = func(*http.Request) module.Viewer { return module.Viewer{UserID: "user-1", Username: "alice"} }
	mount, err := New().Mount(deps)
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	rr = serve(mount.Handler, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rr.Body.String(), "Signed in as alice") {
		t.Fatalf("signed-in home missing username: %q", rr.Body.String())
	}
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	t.Parallel()

	h := mountPublic(t, newFakeUserStore(), &fakeSessions{})
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		rr := serve(h, httptest.NewRequest(method, "/nope", nil))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s /nope status = %d, want %d", method, rr.Code, http.StatusNotFound)
		}
		if !strings.Contains(rr.Header().Get("Content-Type"), "text/html") {
			t.Fatalf("%s /nope content-type = %q, want app error page", method, rr.Header().Get("Content-Type"))
		}
	}
}

func TestSignupFormRenders(t *testing.T) {
	t.Parallel()

	h := mountPublic(t, newFakeUserStore(), &fakeSessions{})
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/signup", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	for _, field := range []string{`name="username"`, `name="password1"`, `name="password2"`} {
		if !strings.Contains(rr.Body.String(), field) {
			t.Fatalf("signup form missing %s", field)
		}
	}
}

func TestSignupCreatesUserAndSession(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	sessions := &fakeSessions{}
	h := mountPublic(t, users, sessions)

	rr := serve(h, formRequest("/signup", url.Values{"username": {" alice "}, "password1": {"s3cret"}, "password2": {"s3cret"}}))
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != "/app/tasks" {
		t.Fatalf("Location = %q, want %q", got, "/app/tasks")
	}
	created, ok := users.byUsername["alice"]
	if !ok {
		t.Fatal("expected alice to be stored")
	}
	if created.PasswordHash == "s3cret" {
		t.Fatal("password stored without hashing")
	}
	if len(sessions.started) != 1 || sessions.started[0] != created.ID {
		t.Fatalf("started sessions = %v, want [%s]", sessions.started, created.ID)
	}
}

func TestSignupPasswordMismatchCreatesNothing(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	sessions := &fakeSessions{}
	h := mountPublic(t, users, sessions)

	rr := serve(h, formRequest("/signup", url.Values{"username": {"alice"}, "password1": {"one"}, "password2": {"two"}}))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rr.Body.String(), "passwords do not match") {
		t.Fatalf("body missing mismatch message: %q", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `value="alice"`) {
		t.Fatalf("expected username to be kept in form: %q", rr.Body.String())
	}
	if users.inserted != 0 {
		t.Fatalf("inserted = %d, want 0", users.inserted)
	}
	if len(sessions.started) != 0 {
		t.Fatalf("started sessions = %v, want none", sessions.started)
	}
	if rr.Header().Get("Set-Cookie") != "" {
		t.Fatalf("unexpected cookie: %q", rr.Header().Get("Set-Cookie"))
	}
}

func TestSignupDuplicateUsernameConflicts(t *testing.T) {
	t.Parallel()

	existing := user.User{ID: "user-0", Username: "alice", PasswordHash: "plain:original"}
	users := newFakeUserStore(existing)
	sessions := &fakeSessions{}
	h := mountPublic(t, users, sessions)

	rr := serve(h, formRequest("/signup", url.Values{"username": {"alice"}, "password1": {"other"}, "password2": {"other"}}))
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusConflict)
	}
	if !strings.Contains(rr.Body.String(), "username taken") {
		t.Fatalf("body missing conflict message: %q", rr.Body.String())
	}
	if got := users.byUsername["alice"]; got != existing {
		t.Fatalf("existing user = %+v, want %+v", got, existing)
	}
	if len(sessions.started) != 0 {
		t.Fatalf("started sessions = %v, want none", sessions.started)
	}
}

func TestSignupInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		form url.Values
	}{
		{name: "blank username", form: url.Values{"username": {"  "}, "password1": {"pw"}, "password2": {"pw"}}},
		{name: "malformed username", form: url.Values{"username": {"al ice"}, "password1": {"pw"}, "password2": {"pw"}}},
		{name: "blank password", form: url.Values{"username": {"alice"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			users := newFakeUserStore()
			h := mountPublic(t, users, &fakeSessions{})
			rr := serve(h, formRequest("/signup", tc.form))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if users.inserted != 0 {
				t.Fatalf("inserted = %d, want 0", users.inserted)
			}
		})
	}
}

func TestSignupStoreFailureRendersServerError(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	users.insertErr = errors.New("disk I/O error")
	h := mountPublic(t, users, &fakeSessions{})

	rr := serve(h, formRequest("/signup", url.Values{"username": {"alice"}, "password1": {"pw"}, "password2": {"pw"}}))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rr.Body.String(), "disk I/O error") {
		t.Fatalf("body leaked internal error: %q", rr.Body.String())
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	alice := user.User{ID: "user-1", Username: "alice", PasswordHash: "plain:s3cret"}
	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
	}{
		{name: "success", form: url.Values{"username": {"alice"}, "password": {"s3cret"}}, wantStatus: http.StatusFound},
		{name: "wrong password", form: url.Values{"username": {"alice"}, "password": {"nope"}}, wantStatus: http.StatusUnauthorized},
		{name: "unknown user", form: url.Values{"username": {"bob"}, "password": {"s3cret"}}, wantStatus: http.StatusUnauthorized},
		{name: "blank", form: url.Values{}, wantStatus: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			sessions := &fakeSessions{}
			h := mountPublic(t, newFakeUserStore(alice), sessions)
			rr := serve(h, formRequest("/login", tc.form))
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusFound {
				if got := rr.Header().Get("Location"); got != "/app/tasks" {
					t.Fatalf("Location = %q, want %q", got, "/app/tasks")
				}
				if len(sessions.started) != 1 || sessions.started[0] != "user-1" {
					t.Fatalf("started sessions = %v", sessions.started)
				}
				return
			}
			if !strings.Contains(rr.Body.String(), "invalid credentials") {
				t.Fatalf("body missing credentials message: %q", rr.Body.String())
			}
			if len(sessions.started) != 0 {
				t.Fatalf("started sessions = %v, want none", sessions.started)
			}
		})
	}
}

func TestLoginStoreFailureIsNotReportedAsBadCredentials(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	users.findErr = errors.New("connection reset")
	h := mountPublic(t, users, &fakeSessions{})
	rr := serve(h, formRequest("/login", url.Values{"username": {"alice"}, "password": {"pw"}}))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	h := mountPublic(t, newFakeUserStore(), sessions)

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/logout", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
	if got := rr.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("Allow = %q, want %q", got, http.MethodPost)
	}
	if sessions.ended != 0 {
		t.Fatalf("GET ended %d sessions, want 0", sessions.ended)
	}

	rr = serve(h, httptest.NewRequest(http.MethodPost, "/logout", nil))
	if rr.Code != http.StatusFound {
		t.Fatalf("POST status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != "/" {
		t.Fatalf("Location = %q, want %q", got, "/")
	}
	if sessions.ended != 1 {
		t.Fatalf("ended = %d, want 1", sessions.ended)
	}
}

func mountPublic(t *testing.T, users *fakeUserStore, sessions *fakeSessions) http.Handler {
	t.Helper()
	mount, err := New().Mount(testDependencies(users, sessions))
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return mount.Handler
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
