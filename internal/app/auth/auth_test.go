package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/pkg/apperrors"
)

func TestIdentityContextRoundTrip(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	id := Identity{UserID: uuid.New(), Email: "a@example.com", Role: models.RoleParent}
	got, ok := IdentityFromContext(WithIdentity(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestIdentityContextRejectsNilUser(t *testing.T) {
	_, ok := IdentityFromContext(WithIdentity(context.Background(), Identity{Role: models.RoleSchool}))
	assert.False(t, ok)
}

func TestRequireRole(t *testing.T) {
	parent := Identity{UserID: uuid.New(), Role: models.RoleParent}

	assert.NoError(t, RequireRole(parent, models.RoleParent))
	assert.NoError(t, RequireRole(parent, models.RoleSchool, models.RoleParent))
	assert.ErrorIs(t, RequireRole(parent, models.RoleSchool), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, RequireRole(parent), apperrors.ErrPermissionDenied)
}
