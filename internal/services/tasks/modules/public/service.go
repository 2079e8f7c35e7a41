package public

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	apperrors "github.com/louisbranch/taskboard/internal/services/tasks/platform/errors"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage"
	"github.com/louisbranch/taskboard/internal/services/tasks/user"
)

type service struct {
	users  storage.UserStore
	hasher module.PasswordHasher
	now    func() time.Time
	newID  func() (string, error)
}

func newService(deps module.Dependencies) service {
	return service{
		users:  deps.Users,
		hasher: deps.Hasher,
		now:    deps.Now,
		newID:  deps.NewID,
	}
}

func (service) healthBody() string {
	return "ok"
}

// signup validates input, stores a new account and returns it.
func (s service) signup(ctx context.Context, input user.SignupInput) (user.User, error) {
	normalized, err := user.NormalizeSignup(input)
	if err != nil {
		if errors.Is(err, user.ErrPasswordMismatch) {
			return user.User{}, apperrors.EK(apperrors.KindInvalidInput, "error.passwords_mismatch", err.Error())
		}
		return user.User{}, apperrors.EK(apperrors.KindInvalidInput, "error.invalid_signup", err.Error())
	}
	hash, err := s.hasher.Hash(normalized.Password)
	if err != nil {
		return user.User{}, err
	}
	account, err := user.New(normalized, hash, s.now, s.newID)
	if err != nil {
		return user.User{}, err
	}
	if err := s.users.InsertUser(ctx, account); err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			return user.User{}, apperrors.EK(apperrors.KindConflict, "error.username_taken", "username taken")
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return account, nil
}

// login returns the account matching creds. Unknown usernames and wrong
// passwords fail with the same error.
func (s service) login(ctx context.Context, creds user.Credentials) (user.User, error) {
	invalid := apperrors.EK(apperrors.KindUnauthorized, "error.invalid_credentials", "invalid credentials")
	username := strings.TrimSpace(creds.Username)
	if username == "" || creds.Password == "" {
		return user.User{}, invalid
	}
	account, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, invalid
		}
		return user.User{}, fmt.Errorf("find user: %w", err)
	}
	if !s.hasher.Matches(account.PasswordHash, creds.Password) {
		return user.User{}, invalid
	}
	return account, nil
}
