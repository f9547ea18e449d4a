package auth

import (
	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/pkg/apperrors"
)

// HasRole reports whether the identity holds one of roles
func (i Identity) HasRole(roles ...models.RoleType) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// RequireRole returns ErrPermissionDenied unless the identity holds one of roles
func RequireRole(id Identity, roles ...models.RoleType) error {
	if !id.HasRole(roles...) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
