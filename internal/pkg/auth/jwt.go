package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/edubridge/platform/internal/pkg/apperrors"
)

// JWT errors
var (
	ErrInvalidToken  = apperrors.ErrTokenInvalid
	ErrExpiredToken  = apperrors.ErrTokenExpired
	ErrInvalidFormat = apperrors.ErrInvalidFormat
)

// Token types carried in the typ claim
const (
	TokenTypeAccess     = "access"
	TokenTypeOAuthState = "oauth_state"
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey      string
	AccessTokenExp time.Duration
	StateTokenExp  time.Duration
	TokenIssuer    string
}

// JWTService signs and verifies access tokens and OAuth state tokens
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
		now:    time.Now,
	}
}

// WithClock replaces the time source, used by tests to mint already expired tokens
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

// Claims defines JWT token content
type Claims struct {
	UserID string `json:"id,omitempty"`
	Type   string `json:"typ"`
	Role   string `json:"role,omitempty"`
	Nonce  string `json:"nonce,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed access token bound to userID
func (s *JWTService) IssueToken(userID uuid.UUID) (string, error) {
	claims := &Claims{
		UserID:           userID.String(),
		Type:             TokenTypeAccess,
		RegisteredClaims: s.registered(userID.String(), s.config.AccessTokenExp),
	}
	return s.sign(claims)
}

// VerifyToken validates an access token and returns the user id it encodes
func (s *JWTService) VerifyToken(tokenString string) (uuid.UUID, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.Type != TokenTypeAccess {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil || claims.Subject != claims.UserID {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// IssueState creates the signed state parameter of an OAuth handshake.
// It carries the requested role and a nonce that must also come back in a cookie.
func (s *JWTService) IssueState(role, nonce string) (string, error) {
	claims := &Claims{
		Type:             TokenTypeOAuthState,
		Role:             role,
		Nonce:            nonce,
		RegisteredClaims: s.registered("", s.config.StateTokenExp),
	}
	return s.sign(claims)
}

// VerifyState validates an OAuth state token and returns its role and nonce
func (s *JWTService) VerifyState(tokenString string) (role, nonce string, err error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", "", err
	}
	if claims.Type != TokenTypeOAuthState || claims.Nonce == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Role, claims.Nonce, nil
}

func (s *JWTService) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    s.config.TokenIssuer,
		Subject:   subject,
		ID:        uuid.New().String(),
	}
}

func (s *JWTService) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.TokenIssuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.TokenIssuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractBearerToken extracts the token from an Authorization header of the form "Bearer <token>"
func ExtractBearerToken(authHeader string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidFormat
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidFormat
	}
	return token, nil
}
