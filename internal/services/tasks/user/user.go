// Package user defines account identities and signup/login credential rules.
package user

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/louisbranch/taskboard/internal/platform/id"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordMismatch indicates the confirmation differs from the password.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrEmptyUsername indicates a missing username.
	ErrEmptyUsername = errors.New("username is required")
	// ErrInvalidUsername indicates a username outside the allowed alphabet.
	ErrInvalidUsername = errors.New("username must be 1-150 letters, digits, or @.+-_ characters")
	// ErrEmptyPassword indicates a missing password.
	ErrEmptyPassword = errors.New("password is required")
	// ErrPasswordTooLong indicates a password bcrypt cannot hash.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9@.+_-]{1,150}$`)
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// User is an account that owns tasks.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// SignupInput is the signup form payload.
type SignupInput struct {
	Username     string
	Password     string
	Confirmation string
}

// Credentials is the login form payload.
type Credentials struct {
	Username string
	Password string
}

// NormalizeSignup validates signup input. The confirmation check runs first
// so a mismatch is reported regardless of the other fields.
func NormalizeSignup(input SignupInput) (SignupInput, error) {
	if input.Password != input.Confirmation {
		return SignupInput{}, ErrPasswordMismatch
	}
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		return SignupInput{}, ErrEmptyUsername
	}
	if !usernamePattern.MatchString(input.Username) {
		return SignupInput{}, ErrInvalidUsername
	}
	if input.Password == "" {
		return SignupInput{}, ErrEmptyPassword
	}
	if len(input.Password) > maxPasswordBytes {
		return SignupInput{}, ErrPasswordTooLong
	}
	return input, nil
}

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	Cost int
}

// Hash returns the bcrypt hash of password.
func (h Hasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Matches reports whether password matches the stored hash.
func (Hasher) Matches(hash string, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// New builds a user record from normalized signup input and a password hash.
func New(input SignupInput, passwordHash string, now func() time.Time, idGenerator func() (string, error)) (User, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	userID, err := idGenerator()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}
	return User{
		ID:           userID,
		Username:     input.Username,
		PasswordHash: passwordHash,
		CreatedAt:    now().UTC(),
	}, nil
}
