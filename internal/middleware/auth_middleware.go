package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appauth "github.com/edubridge/platform/internal/app/auth"
	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/pkg/apperrors"
	"github.com/edubridge/platform/internal/pkg/auth"
)

// TokenResolver turns a bearer token into the user it was issued for
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	resolver TokenResolver
	logger   zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(resolver TokenResolver, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, logger: logger}
}

// Authenticate requires a valid "Authorization: Bearer <token>" header naming an existing
// user and stores the caller's identity in the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		user, err := m.resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrTokenExpired):
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
			case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat, apperrors.ErrUnauthorized):
				abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			default:
				m.logger.Error().Err(err).Msg("Failed to resolve bearer token")
				HandleAPIError(c, err)
				c.Abort()
			}
			return
		}

		ctx := appauth.WithIdentity(c.Request.Context(), appauth.Identity{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.RoleType,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles lets the request through only when the authenticated caller holds one of roles
func (m *AuthMiddleware) RequireRoles(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := appauth.IdentityFromContext(c.Request.Context())
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		if err := appauth.RequireRole(id, roles...); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrorCodeForbidden, "You don't have permission to access this resource"))
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message))
}
