package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/platform/internal/app/models"
)

type sample struct {
	Role models.RoleType `json:"userType" validate:"required,role"`
	Born *string         `json:"dateOfBirth" validate:"omitempty,isodate"`
}

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, RegisterRules(v))
	return v
}

func TestRoleRule(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(sample{Role: models.RoleParent}))

	err := v.Struct(sample{Role: "TEACHER"})
	require.Error(t, err)
	fe := err.(validator.ValidationErrors)[0]
	assert.Equal(t, "role", fe.Tag())
	assert.Equal(t, "userType", fe.Field())
}

func TestISODateRule(t *testing.T) {
	v := newValidator(t)

	for _, ok := range []string{"2010-05-14", "2010-05-14T08:00:00Z"} {
		d := ok
		assert.NoError(t, v.Struct(sample{Role: models.RoleStudent, Born: &d}), ok)
	}

	bad := "14/05/2010"
	err := v.Struct(sample{Role: models.RoleStudent, Born: &bad})
	require.Error(t, err)
	assert.Equal(t, "isodate", err.(validator.ValidationErrors)[0].Tag())
}
