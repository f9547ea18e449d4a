package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/pkg/apperrors"
	"github.com/edubridge/platform/internal/pkg/auth"
	"github.com/edubridge/platform/internal/pkg/events"
	"github.com/edubridge/platform/internal/pkg/oauth"
)

func TestRegisterReturnsUserAndVerifiableToken(t *testing.T) {
	env := newTestEnv(t)

	res := env.register(t, "Alice@Example.com", models.RoleStudent)

	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, models.RoleStudent, res.User.RoleType)
	require.True(t, res.User.HasPassword())
	assert.NotEqual(t, "secret1", *res.User.Password)

	userID, err := env.auth.VerifyToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
	assert.Equal(t, []string{events.TopicUserRegistered}, env.emitter.topics())
}

func TestRegisterDuplicateEmailCreatesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", models.RoleStudent)
	require.Equal(t, 1, env.store.UserCount())

	_, err := env.auth.Register(context.Background(), "ALICE@example.com", "other-secret", models.RoleParent)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.Equal(t, 1, env.store.UserCount())
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Register(context.Background(), "x@example.com", "secret1", "ADMIN")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	assert.Equal(t, 0, env.store.UserCount())
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	registered := env.register(t, "alice@example.com", models.RoleStudent)

	t.Run("valid credentials", func(t *testing.T) {
		res, err := env.auth.Login(context.Background(), "alice@example.com", "secret1")
		require.NoError(t, err)

		userID, err := env.auth.VerifyToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, userID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.auth.Login(context.Background(), "alice@example.com", "wrong")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.auth.Login(context.Background(), "nobody@example.com", "secret1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestLoginRejectsOAuthOnlyAccount(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.LinkOAuthIdentity(context.Background(),
		&oauth.Profile{ID: "g-1", Email: "oauth@example.com", EmailVerified: true}, models.RoleParent)
	require.NoError(t, err)

	_, err = env.auth.Login(context.Background(), "oauth@example.com", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	env := newTestEnv(t)
	res := env.register(t, "alice@example.com", models.RoleStudent)

	stale := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Minute,
		TokenIssuer:    "edubridge.test",
	}).WithClock(func() time.Time { return time.Now().Add(-time.Hour) })

	token, err := stale.IssueToken(res.User.ID)
	require.NoError(t, err)

	_, err = env.auth.VerifyToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestResolveTokenForDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	token, err := env.jwt.IssueToken(uuid.New())
	require.NoError(t, err)

	_, err = env.auth.ResolveToken(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLinkOAuthIdentityIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	profile := &oauth.Profile{ID: "g-123", Email: "bob@example.com", EmailVerified: true}

	first, err := env.auth.LinkOAuthIdentity(context.Background(), profile, models.RoleParent)
	require.NoError(t, err)
	second, err := env.auth.LinkOAuthIdentity(context.Background(), profile, models.RoleSchool)
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, models.RoleParent, second.User.RoleType)
	assert.False(t, first.User.HasPassword())
	assert.Equal(t, 1, env.store.UserCount())

	userID, err := env.auth.VerifyToken(second.Token)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, userID)
}

func TestLinkOAuthIdentityBackfillsExistingAccount(t *testing.T) {
	env := newTestEnv(t)
	local := env.register(t, "carol@example.com", models.RoleSchool)

	res, err := env.auth.LinkOAuthIdentity(context.Background(),
		&oauth.Profile{ID: "g-carol", Email: "Carol@example.com", EmailVerified: true}, "")
	require.NoError(t, err)

	assert.Equal(t, local.User.ID, res.User.ID)
	stored, err := env.store.Users().GetByID(context.Background(), local.User.ID)
	require.NoError(t, err)
	require.True(t, stored.HasGoogleID())
	assert.Equal(t, "g-carol", *stored.GoogleID)
	assert.True(t, stored.HasPassword())
}

func TestLinkOAuthIdentityRejectsSecondProviderIdentity(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.LinkOAuthIdentity(context.Background(),
		&oauth.Profile{ID: "g-1", Email: "dave@example.com", EmailVerified: true}, "")
	require.NoError(t, err)

	_, err = env.auth.LinkOAuthIdentity(context.Background(),
		&oauth.Profile{ID: "g-2", Email: "dave@example.com", EmailVerified: true}, "")
	assert.ErrorIs(t, err, apperrors.ErrIdentityConflict)

	stored, err := env.store.Users().GetByEmail(context.Background(), "dave@example.com")
	require.NoError(t, err)
	assert.Equal(t, "g-1", *stored.GoogleID)
}

func TestLinkOAuthIdentityDefaultsRoleAndRequiresVerifiedEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.LinkOAuthIdentity(context.Background(),
		&oauth.Profile{ID: "g-x", Email: "x@example.com"}, models.RoleParent)
	assert.ErrorIs(t, err, apperrors.ErrEmailNotVerified)
	assert.Equal(t, 0, env.store.UserCount())

	res, err := env.auth.LinkOAuthIdentity(context.Background(),
		&oauth.Profile{ID: "g-x", Email: "x@example.com", EmailVerified: true}, "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, res.User.RoleType)
}

func TestGoogleHandshake(t *testing.T) {
	env := newTestEnv(t)
	env.provider.profile = &oauth.Profile{ID: "g-9", Email: "eve@example.com", EmailVerified: true}

	redirect, nonce, err := env.auth.GoogleAuthURL(models.RoleParent)
	require.NoError(t, err)
	require.NotEmpty(t, nonce)
	state := redirect[len("https://accounts.example.com/auth?state="):]

	role, gotNonce, err := env.jwt.VerifyState(state)
	require.NoError(t, err)
	assert.Equal(t, "PARENT", role)
	assert.Equal(t, nonce, gotNonce)

	_, err = env.auth.GoogleCallback(context.Background(), "code", state, "other-nonce")
	assert.ErrorIs(t, err, apperrors.ErrOAuthStateInvalid)
	assert.Empty(t, env.provider.codes)

	res, err := env.auth.GoogleCallback(context.Background(), "code", state, nonce)
	require.NoError(t, err)
	assert.Equal(t, models.RoleParent, res.User.RoleType)
	assert.Equal(t, []string{"code"}, env.provider.codes)
}

func TestGoogleCallbackRejectsAccessTokenAsState(t *testing.T) {
	env := newTestEnv(t)
	res := env.register(t, "alice@example.com", models.RoleStudent)

	_, err := env.auth.GoogleCallback(context.Background(), "code", res.Token, "nonce")
	assert.ErrorIs(t, err, apperrors.ErrOAuthStateInvalid)
}

func TestGoogleAuthURLRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.auth.GoogleAuthURL("ADMIN")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestGoogleNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	env.auth.provider = nil

	_, _, err := env.auth.GoogleAuthURL(models.RoleStudent)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
}
