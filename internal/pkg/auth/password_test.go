package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, h.Check(hash, "secret1"))
	assert.False(t, h.Check(hash, "secret2"))
	assert.True(t, CheckPassword(hash, "secret1"))
}

func TestNewPasswordHasherFallsBackToDefaultCost(t *testing.T) {
	assert.Equal(t, BcryptCost, NewPasswordHasher(0).Cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost).Cost)
}
