// Package requestctx carries request-scoped identity through context.
package requestctx

import (
	"context"
	"strings"
)

type userIDContextKey struct{}

// WithUserID stores the authenticated user id in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userIDContextKey{}, strings.TrimSpace(userID))
}

// UserIDFromContext returns the authenticated user id, or "" for anonymous requests.
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(userIDContextKey{}).(string)
	return value
}

// IsAuthenticated reports whether ctx carries a user id.
func IsAuthenticated(ctx context.Context) bool {
	return UserIDFromContext(ctx) != ""
}
