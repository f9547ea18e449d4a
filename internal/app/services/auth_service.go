package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/app/repositories"
	"github.com/edubridge/platform/internal/pkg/apperrors"
	"github.com/edubridge/platform/internal/pkg/auth"
	"github.com/edubridge/platform/internal/pkg/events"
	"github.com/edubridge/platform/internal/pkg/oauth"
)

// AuthResult is a user together with a freshly issued access token
type AuthResult struct {
	User  *models.User
	Token string
}

// AuthService handles local credentials, token issuance and Google account linking
type AuthService struct {
	store    repositories.Store
	jwt      *auth.JWTService
	hasher   *auth.PasswordHasher
	provider oauth.Provider
	events   events.Emitter
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService. provider may be nil when Google sign-in is not configured.
func NewAuthService(
	store repositories.Store,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	provider oauth.Provider,
	emitter events.Emitter,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		store:    store,
		jwt:      jwtService,
		hasher:   hasher,
		provider: provider,
		events:   emitter,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// NormalizeEmail lowercases and trims an address so lookups are case insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a local account and returns it with a token
func (s *AuthService) Register(ctx context.Context, email, password string, role models.RoleType) (*AuthResult, error) {
	var user *models.User
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		user, err = s.createLocalUser(ctx, tx, email, password, role)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.emitRegistered(ctx, user, "local")
	return s.withToken(user)
}

// createLocalUser inserts a password account through tx; callers add the profile in the same transaction
func (s *AuthService) createLocalUser(ctx context.Context, tx repositories.Store, email, password string, role models.RoleType) (*models.User, error) {
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	email = NormalizeEmail(email)
	exists, err := tx.Users().EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{Email: email, Password: &hash, RoleType: role}
	if err := tx.Users().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID.String()).Str("userType", string(role)).Msg("User registered")
	return user, nil
}

// Login checks local credentials. Unknown emails, password-less accounts and wrong
// passwords all yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.Users().GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.HasPassword() || !s.hasher.Check(*user.Password, password) {
		s.logger.Debug().Str("userID", user.ID.String()).Msg("Login rejected")
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.withToken(user)
}

// IssueToken signs an access token for userID
func (s *AuthService) IssueToken(userID uuid.UUID) (string, error) {
	return s.jwt.IssueToken(userID)
}

// VerifyToken returns the user id encoded in a valid access token
func (s *AuthService) VerifyToken(token string) (uuid.UUID, error) {
	return s.jwt.VerifyToken(token)
}

// ResolveToken verifies token and loads the user it names. A token for a user
// that no longer exists is rejected as ErrUnauthorized.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.jwt.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// GetMe returns the user record of the caller
func (s *AuthService) GetMe(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.store.Users().GetByID(ctx, userID)
}

// GoogleAuthURL starts the Google handshake. The returned nonce must be stored
// client side (cookie) and presented again on callback.
func (s *AuthService) GoogleAuthURL(role models.RoleType) (redirectURL, nonce string, err error) {
	if s.provider == nil {
		return "", "", apperrors.NewCustomError(apperrors.ErrServiceUnavailable, "Google sign-in is not configured")
	}
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return "", "", apperrors.ErrInvalidRole
	}

	nonce = uuid.NewString()
	state, err := s.jwt.IssueState(string(role), nonce)
	if err != nil {
		return "", "", err
	}
	return s.provider.AuthCodeURL(state), nonce, nil
}

// GoogleCallback finishes the handshake: it checks state against the nonce cookie,
// exchanges the code and links the resulting profile.
func (s *AuthService) GoogleCallback(ctx context.Context, code, state, cookieNonce string) (*AuthResult, error) {
	if s.provider == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrServiceUnavailable, "Google sign-in is not configured")
	}

	role, nonce, err := s.jwt.VerifyState(state)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Rejected OAuth state")
		return nil, apperrors.ErrOAuthStateInvalid
	}
	if cookieNonce == "" || cookieNonce != nonce {
		return nil, apperrors.ErrOAuthStateInvalid
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Msg("Google code exchange failed")
		return nil, apperrors.NewCustomError(apperrors.ErrExternalService, "Google authentication failed")
	}

	return s.LinkOAuthIdentity(ctx, profile, models.RoleType(role))
}

// LinkOAuthIdentity resolves a provider profile to a local user:
//  1. a user already bound to profile.ID is reused;
//  2. otherwise a user with the same email is reused, binding profile.ID if it has
//     no Google id yet, and failing with ErrIdentityConflict if it is bound to another one;
//  3. otherwise a password-less user is created with role (STUDENT when empty).
//
// Profiles whose email the provider has not verified are rejected.
func (s *AuthService) LinkOAuthIdentity(ctx context.Context, profile *oauth.Profile, role models.RoleType) (*AuthResult, error) {
	if profile == nil || profile.ID == "" || profile.Email == "" {
		return nil, apperrors.NewBadRequestError("incomplete identity provider profile")
	}
	if !profile.EmailVerified {
		return nil, apperrors.ErrEmailNotVerified
	}
	if role == "" || !role.Valid() {
		role = models.RoleStudent
	}

	var (
		user    *models.User
		created bool
		linked  bool
	)
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		user, err = tx.Users().GetByGoogleID(ctx, profile.ID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return err
		}

		email := NormalizeEmail(profile.Email)
		user, err = tx.Users().GetByEmail(ctx, email)
		switch {
		case err == nil:
			if user.HasGoogleID() {
				s.logger.Warn().
					Str("userID", user.ID.String()).
					Msg("Email already bound to a different Google account")
				return apperrors.ErrIdentityConflict
			}
			if err := tx.Users().SetGoogleID(ctx, user.ID, profile.ID); err != nil {
				return err
			}
			gid := profile.ID
			user.GoogleID = &gid
			linked = true
			return nil
		case errors.Is(err, apperrors.ErrUserNotFound):
			gid := profile.ID
			user = &models.User{Email: email, GoogleID: &gid, RoleType: role}
			if err := tx.Users().Create(ctx, user); err != nil {
				return err
			}
			created = true
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.emitRegistered(ctx, user, "google")
	}
	events.EmitAfterCommit(ctx, s.events, s.logger, events.TopicOAuthLinked, events.OAuthLinked{
		UserID:  user.ID.String(),
		Created: created,
		Linked:  linked,
	})

	return s.withToken(user)
}

func (s *AuthService) withToken(user *models.User) (*AuthResult, error) {
	token, err := s.jwt.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) emitRegistered(ctx context.Context, user *models.User, provider string) {
	events.EmitAfterCommit(ctx, s.events, s.logger, events.TopicUserRegistered, events.UserRegistered{
		UserID:   user.ID.String(),
		Email:    user.Email,
		UserType: string(user.RoleType),
		Provider: provider,
	})
}
