package auth

import (
	"context"

	"github.com/leadline-crm/leadline-api/internal/domain"
)

type contextKey string

const userContextKey contextKey = "userContext"

// WithUser stores the resolved employee on the request context. Services
// never read it back themselves; handlers extract the user and pass it as an
// explicit argument.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts the authenticated employee from the context
func FromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}
