package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edubridge/platform/internal/app/models/dto"
)

// BindJSON decodes and validates the request body into obj. On failure it writes
// a 400 envelope with per-field details and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	return bindWith(c, obj, c.ShouldBindJSON)
}

// BindQuery is BindJSON for query parameters
func BindQuery(c *gin.Context, obj interface{}) bool {
	return bindWith(c, obj, c.ShouldBindQuery)
}

func bindWith(c *gin.Context, obj interface{}, bind func(interface{}) error) bool {
	if err := bind(obj); err != nil {
		if details, ok := dto.HandleValidationError(err); ok {
			c.JSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(details))
			return false
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, "Invalid request format"))
		return false
	}
	return true
}
