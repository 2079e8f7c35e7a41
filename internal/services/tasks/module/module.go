// Package module defines the feature contract used by task service composition.
package module

import (
	"net/http"
	"time"

	"github.com/louisbranch/taskboard/internal/services/tasks/platform/requestmeta"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage"
)

// Viewer contains user-facing chrome data for signed-in pages.
type Viewer struct {
	UserID   string
	Username string
}

// SignedIn reports whether the viewer belongs to an authenticated request.
func (v Viewer) SignedIn() bool {
	return v.UserID != ""
}

// ResolveViewer resolves chrome viewer state for a request.
type ResolveViewer func(*http.Request) Viewer

// ResolveUserID resolves the authenticated user id for a request.
type ResolveUserID func(*http.Request) string

// ResolveLanguage returns the effective request language.
type ResolveLanguage func(*http.Request) string

// Sessions starts and ends browser login sessions.
type Sessions interface {
	Start(w http.ResponseWriter, r *http.Request, userID string) error
	End(w http.ResponseWriter, r *http.Request) error
}

// PasswordHasher hashes new passwords and verifies login attempts.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hash string, password string) bool
}

// Dependencies carries shared collaborators handed to every module.
type Dependencies struct {
	Users    storage.UserStore
	Tasks    storage.TaskStore
	Sessions Sessions
	Hasher   PasswordHasher
	Now      func() time.Time
	NewID    func() (string, error)

	SchemePolicy requestmeta.SchemePolicy

	ResolveUserID   ResolveUserID
	ResolveViewer   ResolveViewer
	ResolveLanguage ResolveLanguage
}

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by composition.
type Module interface {
	ID() string
	Mount(Dependencies) (Mount, error)
}
