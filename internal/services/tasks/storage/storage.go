package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/taskboard/internal/services/tasks/task"
	"github.com/louisbranch/taskboard/internal/services/tasks/user"
)

var (
	// ErrNotFound indicates a missing row, or a task owned by another user.
	ErrNotFound = errors.New("record not found")
	// ErrUsernameTaken indicates a unique violation on users.username.
	ErrUsernameTaken = errors.New("username taken")
)

// TaskFilter selects tasks by completion state.
type TaskFilter int

const (
	// TaskFilterAll returns every owned task ordered by creation time.
	TaskFilterAll TaskFilter = iota
	// TaskFilterPending returns tasks without a completion time, oldest first.
	TaskFilterPending
	// TaskFilterCompleted returns completed tasks, most recently completed first.
	TaskFilterCompleted
)

// Session is a server-side login session.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// UserStore persists accounts.
type UserStore interface {
	// InsertUser stores u, returning ErrUsernameTaken when the username exists.
	InsertUser(ctx context.Context, u user.User) error
	FindUserByUsername(ctx context.Context, username string) (user.User, error)
	FindUser(ctx context.Context, userID string) (user.User, error)
}

// TaskStore persists tasks. All lookups and mutations match on owner id.
type TaskStore interface {
	InsertTask(ctx context.Context, t task.Task) error
	FindTask(ctx context.Context, ownerID string, taskID string) (task.Task, error)
	FindTasksByOwner(ctx context.Context, ownerID string, filter TaskFilter) ([]task.Task, error)
	// UpdateTask rewrites the editable columns and do_date of the row matching
	// (t.OwnerID, t.ID).
	UpdateTask(ctx context.Context, t task.Task) error
	DeleteTask(ctx context.Context, ownerID string, taskID string) error
}

// SessionStore persists login sessions. Only a hash of the session id is stored.
type SessionStore interface {
	// PutSession stores s and prunes sessions that expired before s.CreatedAt.
	PutSession(ctx context.Context, s Session) error
	// FindSession returns the session when it exists and has not expired at now.
	FindSession(ctx context.Context, sessionID string, now time.Time) (Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Store is the full persistence contract backing the service.
type Store interface {
	UserStore
	TaskStore
	SessionStore
	Close() error
}
