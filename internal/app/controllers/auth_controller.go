// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/app/services"
	"github.com/edubridge/platform/internal/middleware"
)

// OAuthNonceCookie holds the nonce bound into the signed OAuth state
const OAuthNonceCookie = "oauth_nonce"

// AuthControllerConfig carries the HTTP-level settings of the sign-in flows
type AuthControllerConfig struct {
	// FrontendURL receives the token after a Google sign-in. When empty the
	// callback answers with JSON instead of redirecting.
	FrontendURL  string
	StateTTL     time.Duration
	SecureCookie bool
}

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	config      AuthControllerConfig
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, config AuthControllerConfig, logger zerolog.Logger) *AuthController {
	if config.StateTTL <= 0 {
		config.StateTTL = 10 * time.Minute
	}
	return &AuthController{
		authService: authService,
		config:      config,
		logger:      logger,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates a local account and returns it with a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "User registered"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.authService.Register(ctx.Request.Context(), req.Email, req.Password, req.UserType)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Str("userID", result.User.ID.String()).
		Str("userType", string(result.User.RoleType)).
		Msg("User registered")

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.AuthResponse{
		User:  dto.NewUserResponse(result.User),
		Token: result.Token,
	}))
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user with email and password and returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AuthResponse{
		User:  dto.NewUserResponse(result.User),
		Token: result.Token,
	}))
}

// GoogleAuth starts the Google sign-in
// @Summary Start Google sign-in
// @Description Redirects to the Google consent screen. The chosen userType is carried in a signed state parameter.
// @Tags auth
// @Param userType query string false "Role for a newly created account (STUDENT, PARENT, SCHOOL)"
// @Success 302 "Redirect to Google"
// @Failure 400 {object} dto.APIResponse "Invalid user type"
// @Failure 503 {object} dto.APIResponse "Google sign-in is not configured"
// @Router /auth/google [get]
func (c *AuthController) GoogleAuth(ctx *gin.Context) {
	var query dto.GoogleAuthQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	redirectURL, nonce, err := c.authService.GoogleAuthURL(query.UserType)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(OAuthNonceCookie, nonce, int(c.config.StateTTL.Seconds()), "/", "", c.config.SecureCookie, true)
	ctx.Redirect(http.StatusFound, redirectURL)
}

// GoogleCallback completes the Google sign-in
// @Summary Google sign-in callback
// @Description Verifies the state, links the Google identity to a user and hands the token to the frontend
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "Signed state"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Signed in (no frontend configured)"
// @Success 302 "Redirect to the frontend with the token"
// @Failure 401 {object} dto.APIResponse "Invalid state or unverified email"
// @Failure 409 {object} dto.APIResponse "Email linked to a different Google account"
// @Failure 502 {object} dto.APIResponse "Google exchange failed"
// @Router /auth/google/callback [get]
func (c *AuthController) GoogleCallback(ctx *gin.Context) {
	var query dto.GoogleCallbackQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	nonce, _ := ctx.Cookie(OAuthNonceCookie)
	// single use
	ctx.SetCookie(OAuthNonceCookie, "", -1, "/", "", c.config.SecureCookie, true)

	result, err := c.authService.GoogleCallback(ctx.Request.Context(), query.Code, query.State, nonce)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Google sign-in failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	if c.config.FrontendURL == "" {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AuthResponse{
			User:  dto.NewUserResponse(result.User),
			Token: result.Token,
		}))
		return
	}

	target := strings.TrimRight(c.config.FrontendURL, "/") + "/auth/callback?" +
		url.Values{"token": {result.Token}}.Encode()
	ctx.Redirect(http.StatusFound, target)
}
