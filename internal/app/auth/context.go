package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/edubridge/platform/internal/app/models"
)

type identityContextKey struct{}

// Identity is the authenticated caller attached to a request
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   models.RoleType
}

// WithIdentity attaches the authenticated caller to ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext returns the caller stored by WithIdentity
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok && id.UserID != uuid.Nil
}
