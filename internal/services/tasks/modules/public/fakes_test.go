package public

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage"
	"github.com/louisbranch/taskboard/internal/services/tasks/user"
)

type fakeUserStore struct {
	byUsername map[string]user.User
	insertErr  error
	findErr    error
	inserted   int
}

func newFakeUserStore(users ...user.User) *fakeUserStore {
	store := &fakeUserStore{byUsername: map[string]user.User{}}
	for _, u := range users {
		store.byUsername[u.Username] = u
	}
	return store
}

func (f *fakeUserStore) InsertUser(_ context.Context, u user.User) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, ok := f.byUsername[u.Username]; ok {
		return storage.ErrUsernameTaken
	}
	f.byUsername[u.Username] = u
	f.inserted++
	return nil
}

func (f *fakeUserStore) FindUserByUsername(_ context.Context, username string) (user.User, error) {
	if f.findErr != nil {
		return user.User{}, f.findErr
	}
	u, ok := f.byUsername[username]
	if !ok {
		return user.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindUser(_ context.Context, userID string) (user.User, error) {
	for _, u := range f.byUsername {
		if u.ID == userID {
			return u, nil
		}
	}
	return user.User{}, storage.ErrNotFound
}

type fakeSessions struct {
	started  []string
	ended    int
	startErr error
	endErr   error
}

func (f *fakeSessions) Start(w http.ResponseWriter, _ *http.Request, userID string) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, userID)
	http.SetCookie(w, &http.Cookie{Name: "tasks_session", Value: "token-" + userID, Path: "/"})
	return nil
}

func (f *fakeSessions) End(w http.ResponseWriter, _ *http.Request) error {
	f.ended++
	http.SetCookie(w, &http.Cookie{Name: "tasks_session", Value: "", Path: "/", MaxAge: -1})
	return f.endErr
}

// plainHasher stores passwords with a marker prefix so tests avoid bcrypt cost.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	if password == "explode" {
		return "", errors.New("hash failed")
	}
	return "plain:" + password, nil
}

func (plainHasher) Matches(hash string, password string) bool {
	return strings.TrimPrefix(hash, "plain:") == password && strings.HasPrefix(hash, "plain:")
}

func testDependencies(users *fakeUserStore, sessions *fakeSessions) module.Dependencies {
	next := 0
	return module.Dependencies{
		Users:    users,
		Sessions: sessions,
		Hasher:   plainHasher{},
		Now:      func() time.Time { return time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC) },
		NewID: func() (string, error) {
			next++
			return "user-" + string(rune('0'+next)), nil
		},
	}
}
