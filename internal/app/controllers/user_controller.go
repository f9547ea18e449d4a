package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/app/services"
	"github.com/edubridge/platform/internal/middleware"
)

// UserController serves the caller's own account
type UserController struct {
	authService *services.AuthService
}

// NewUserController creates a new user controller
func NewUserController(authService *services.AuthService) *UserController {
	return &UserController{authService: authService}
}

// Me returns the authenticated user
// @Summary Current user
// @Description Returns the account the bearer token was issued for
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MeResponse} "Current user"
// @Failure 401 {object} dto.APIResponse "Unauthorized - Invalid or missing token"
// @Router /auth/me [get]
func (c *UserController) Me(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	user, err := c.authService.GetMe(ctx.Request.Context(), identity.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MeResponse{User: dto.NewUserResponse(user)}))
}
