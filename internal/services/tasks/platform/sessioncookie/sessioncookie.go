// Package sessioncookie centralizes web session cookie behavior.
//
// The cookie carries an HS256-signed token whose ID claim is the opaque
// session id. Signature and expiry are checked before the session store is
// consulted.
package sessioncookie

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/louisbranch/taskboard/internal/services/tasks/platform/requestmeta"
)

// Name is the canonical web session cookie name.
const Name = "tasks_session"

const issuer = "taskboard"

// ErrInvalidToken indicates a cookie value that failed verification.
var ErrInvalidToken = errors.New("invalid session token")

// Signer signs and verifies session cookie values.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner builds a Signer from a shared secret. Issue and expiry times are
// read from now, which defaults to time.Now when nil.
func NewSigner(secret string, now func() time.Time) (Signer, error) {
	secret = strings.TrimSpace(secret)
	if len(secret) < 16 {
		return Signer{}, fmt.Errorf("session secret must be at least 16 characters")
	}
	if now == nil {
		now = time.Now
	}
	return Signer{secret: []byte(secret), now: now}, nil
}

// WithClock returns a copy of s that checks expiry against now.
func (s Signer) WithClock(now func() time.Time) Signer {
	if now != nil {
		s.now = now
	}
	return s
}

// Sign returns a token binding sessionID until expiresAt.
func (s Signer) Sign(sessionID string, expiresAt time.Time) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", fmt.Errorf("session id is required")
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("session signer is not configured")
	}
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(s.clock()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify returns the session id bound by a token produced by Sign.
func (s Signer) Verify(value string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		strings.TrimSpace(value),
		claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sessionID := strings.TrimSpace(claims.ID)
	if sessionID == "" {
		return "", ErrInvalidToken
	}
	return sessionID, nil
}

func (s Signer) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Read returns the trimmed session cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// WriteWithPolicy sets the session cookie to value until expiresAt.
func WriteWithPolicy(w http.ResponseWriter, r *http.Request, value string, expiresAt time.Time, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    strings.TrimSpace(value),
		Path:     "/",
		Expires:  expiresAt.UTC(),
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPSWithPolicy(r, policy),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearWithPolicy expires the session cookie.
func ClearWithPolicy(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPSWithPolicy(r, policy),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
