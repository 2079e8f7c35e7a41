package websession

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louisbranch/taskboard/internal/services/tasks/platform/sessioncookie"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage"
)

type fakeSessionStore struct {
	sessions  map[string]storage.Session
	putErr    error
	deleteErr error
	deleted   []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]storage.Session{}}
}

func (f *fakeSessionStore) PutSession(_ context.Context, session storage.Session) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) FindSession(_ context.Context, sessionID string, now time.Time) (storage.Session, error) {
	session, ok := f.sessions[sessionID]
	if !ok || !session.ExpiresAt.After(now) {
		return storage.Session{}, storage.ErrNotFound
	}
	return session, nil
}

func (f *fakeSessionStore) DeleteSession(_ context.Context, sessionID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, sessionID)
	delete(f.sessions, sessionID)
	return nil
}

func TestNewManagerRequiresStore(t *testing.T) {
	t.Parallel()

	if _, err := NewManager(Config{}); err == nil {
		t.Fatal("expected missing store error")
	}
}

func TestStartResolveEnd(t *testing.T) {
	t.Parallel()

	store := newFakeSessionStore()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	manager := newTestManager(t, store, func() time.Time { return now })

	startRR := httptest.NewRecorder()
	if err := manager.Start(startRR, httptest.NewRequest(http.MethodPost, "/login", nil), "user-1"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	stored, ok := store.sessions["sess-1"]
	if !ok {
		t.Fatal("expected session sess-1 to be stored")
	}
	if stored.UserID != "user-1" || !stored.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("stored session = %+v", stored)
	}
	cookies := startRR.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessioncookie.Name {
		t.Fatalf("cookies = %v", cookies)
	}
	if cookies[0].Value == "sess-1" {
		t.Fatal("cookie carries the raw session id, want signed token")
	}

	req := httptest.NewRequest(http.MethodGet, "/app/tasks", nil)
	req.AddCookie(cookies[0])
	session, ok := manager.Resolve(req)
	if !ok || session.UserID != "user-1" {
		t.Fatalf("Resolve() = %+v, %v", session, ok)
	}

	endRR := httptest.NewRecorder()
	if err := manager.End(endRR, req); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "sess-1" {
		t.Fatalf("deleted = %v, want [sess-1]", store.deleted)
	}
	if _, ok := manager.Resolve(req); ok {
		t.Fatal("expected revoked session not to resolve")
	}
	if endRR.Result().Cookies()[0].MaxAge >= 0 {
		t.Fatal("expected End to clear cookie")
	}
}

func TestResolveRejectsUnsignedCookie(t *testing.T) {
	t.Parallel()

	store := newFakeSessionStore()
	store.sessions["sess-1"] = storage.Session{ID: "sess-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}
	manager := newTestManager(t, store, time.Now)

	req := httptest.NewRequest(http.MethodGet, "/app/tasks", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "sess-1"})
	if _, ok := manager.Resolve(req); ok {
		t.Fatal("expected raw session id cookie to be rejected")
	}
}

func TestEndWithoutCookieClearsOnly(t *testing.T) {
	t.Parallel()

	store := newFakeSessionStore()
	manager := newTestManager(t, store, time.Now)
	rr := httptest.NewRecorder()
	if err := manager.End(rr, httptest.NewRequest(http.MethodPost, "/logout", nil)); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("deleted = %v, want none", store.deleted)
	}
	if rr.Header().Get("Set-Cookie") == "" {
		t.Fatal("expected cookie clear header")
	}
}

func TestStartPropagatesStoreError(t *testing.T) {
	t.Parallel()

	store := newFakeSessionStore()
	store.putErr = errors.New("disk full")
	manager := newTestManager(t, store, time.Now)
	rr := httptest.NewRecorder()
	if err := manager.Start(rr, httptest.NewRequest(http.MethodPost, "/login", nil), "user-1"); err == nil {
		t.Fatal("expected store error")
	}
	if rr.Header().Get("Set-Cookie") != "" {
		t.Fatal("cookie written despite store failure")
	}
}

func newTestManager(t *testing.T, store *fakeSessionStore, now func() time.Time) *Manager {
	t.Helper()

	signer, err := sessioncookie.NewSigner("websession-test-secret", nil)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	next := 0
	manager, err := NewManager(Config{
		Store:  store,
		Signer: signer,
		TTL:    time.Hour,
		Now:    now,
		NewID: func() (string, error) {
			next++
			return "sess-" + string(rune('0'+next)), nil
		},
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return manager
}
