package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "github.com/edubridge/platform/internal/app/auth"
	"github.com/edubridge/platform/internal/app/models/dto"
)

// requireIdentity reads the identity placed by the auth middleware and answers 401 when absent
func requireIdentity(ctx *gin.Context) (appauth.Identity, bool) {
	identity, ok := appauth.IdentityFromContext(ctx.Request.Context())
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authentication required"))
		return appauth.Identity{}, false
	}
	return identity, true
}
