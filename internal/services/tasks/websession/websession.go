// Package websession manages server-side login sessions bound to a signed
// browser cookie.
package websession

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/taskboard/internal/platform/id"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/requestmeta"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/sessioncookie"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage"
)

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 14 * 24 * time.Hour

// Config holds the collaborators a Manager needs.
type Config struct {
	Store        storage.SessionStore
	Signer       sessioncookie.Signer
	TTL          time.Duration
	SchemePolicy requestmeta.SchemePolicy
	Now          func() time.Time
	NewID        func() (string, error)
}

// Manager starts, resolves, and ends browser sessions.
type Manager struct {
	store  storage.SessionStore
	signer sessioncookie.Signer
	ttl    time.Duration
	policy requestmeta.SchemePolicy
	now    func() time.Time
	newID  func() (string, error)
}

// NewManager validates cfg and builds a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = id.NewID
	}
	return &Manager{
		store:  cfg.Store,
		signer: cfg.Signer.WithClock(cfg.Now),
		ttl:    cfg.TTL,
		policy: cfg.SchemePolicy,
		now:    cfg.Now,
		newID:  cfg.NewID,
	}, nil
}

// Start persists a new session for userID and writes its cookie.
func (m *Manager) Start(w http.ResponseWriter, r *http.Request, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("user id is required")
	}
	sessionID, err := m.newID()
	if err != nil {
		return fmt.Errorf("generate session id: %w", err)
	}
	now := m.now().UTC()
	session := storage.Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.PutSession(requestContext(r), session); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	token, err := m.signer.Sign(sessionID, session.ExpiresAt)
	if err != nil {
		return err
	}
	sessioncookie.WriteWithPolicy(w, r, token, session.ExpiresAt, m.policy)
	return nil
}

// Resolve returns the live session named by r's cookie.
func (m *Manager) Resolve(r *http.Request) (storage.Session, bool) {
	sessionID, ok := m.sessionID(r)
	if !ok {
		return storage.Session{}, false
	}
	session, err := m.store.FindSession(requestContext(r), sessionID, m.now().UTC())
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("resolve session failed err=%v", err)
		}
		return storage.Session{}, false
	}
	return session, true
}

// End revokes the session named by r's cookie, if any, and clears the cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	defer sessioncookie.ClearWithPolicy(w, r, m.policy)
	sessionID, ok := m.sessionID(r)
	if !ok {
		return nil
	}
	if err := m.store.DeleteSession(requestContext(r), sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (m *Manager) sessionID(r *http.Request) (string, bool) {
	token, ok := sessioncookie.Read(r)
	if !ok {
		return "", false
	}
	sessionID, err := m.signer.Verify(token)
	if err != nil {
		return "", false
	}
	return sessionID, true
}

func requestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}
