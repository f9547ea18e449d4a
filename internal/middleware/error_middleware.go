package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/pkg/apperrors"
)

// HandleAPIError maps a service error to its status code and error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}
	c.JSON(status, body)
}

func errorResponse(err error) (int, dto.APIResponse) {
	var custom *apperrors.CustomError
	errors.As(err, &custom)

	message := func(fallback string) string {
		if custom != nil && custom.Message != "" {
			return custom.Message
		}
		return fallback
	}
	withDetails := func(resp dto.APIResponse) dto.APIResponse {
		if custom != nil && custom.Details != nil {
			return resp.WithDetails(custom.Details)
		}
		return resp
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeExpiredToken, "Token has expired")
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrOAuthStateInvalid):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidToken, "Invalid or expired sign-in state")
	case errors.Is(err, apperrors.ErrEmailNotVerified):
		return http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Email address is not verified by the identity provider")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeForbidden, message("Permission denied"))
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeResourceAlreadyExists, "User with this email already exists")
	case errors.Is(err, apperrors.ErrIdentityConflict):
		return http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeIdentityConflict, "Email is already linked to a different Google account")
	case apperrors.Is(err, apperrors.ErrProfileExists, apperrors.ErrResourceAlreadyExists, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeResourceAlreadyExists, message("Resource already exists"))
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrStudentNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, "Student profile not found")
	case errors.Is(err, apperrors.ErrParentNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, "Parent profile not found")
	case errors.Is(err, apperrors.ErrSchoolNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, "School profile not found")
	case errors.Is(err, apperrors.ErrProgramNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, "Program not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, message("Resource not found"))
	case errors.Is(err, apperrors.ErrInvalidRole):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "userType must be one of STUDENT, PARENT, SCHOOL")
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		return http.StatusBadRequest, withDetails(dto.NewErrorResponse(dto.ErrorCodeValidationFailed, message("Validation failed")))
	case errors.Is(err, apperrors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, dto.NewErrorResponse(dto.ErrorCodeExternalServiceError, message("Service unavailable"))
	case errors.Is(err, apperrors.ErrExternalService):
		return http.StatusBadGateway, dto.NewErrorResponse(dto.ErrorCodeExternalServiceError, message("External service error"))
	default:
		return http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternalServer, "Internal server error")
	}
}
