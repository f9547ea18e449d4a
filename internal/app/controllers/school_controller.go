package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/app/services"
	"github.com/edubridge/platform/internal/middleware"
	"github.com/edubridge/platform/internal/pkg/helpers"
)

// SchoolController handles school profile endpoints
type SchoolController struct {
	schoolService *services.SchoolService
	logger        zerolog.Logger
}

// NewSchoolController creates a new SchoolController
func NewSchoolController(schoolService *services.SchoolService, logger zerolog.Logger) *SchoolController {
	return &SchoolController{schoolService: schoolService, logger: logger}
}

// Register creates a school account
// @Summary Register a school
// @Tags schools
// @Accept json
// @Produce json
// @Param request body dto.RegisterSchoolRequest true "School registration"
// @Success 201 {object} dto.APIResponse{data=dto.SchoolResponse} "School registered"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Router /schools/register [post]
func (c *SchoolController) Register(ctx *gin.Context) {
	var req dto.RegisterSchoolRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	school, err := c.schoolService.Register(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.SchoolResponse{School: school}))
}

// GetProfile returns the caller's school profile
// @Summary Get school profile
// @Tags schools
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SchoolResponse} "School profile"
// @Failure 403 {object} dto.APIResponse "Not a school"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /schools/profile [get]
func (c *SchoolController) GetProfile(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	school, err := c.schoolService.GetProfile(ctx.Request.Context(), identity.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SchoolResponse{School: school}))
}

// List returns the registered schools, all of them unless page or size is given
// @Summary List schools
// @Tags schools
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size (max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.SchoolsResponse} "School directory"
// @Router /schools/ [get]
func (c *SchoolController) List(ctx *gin.Context) {
	schools, err := c.schoolService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, size, paged := helpers.ParsePaginationParams(ctx)
	if !paged {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SchoolsResponse{Schools: schools}))
		return
	}

	start, end := helpers.CalculateSliceIndices(page, size, len(schools))
	info := helpers.NewPaginationInfo(int64(len(schools)), page, size)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SchoolsResponse{
		Schools:    schools[start:end],
		Pagination: &info,
	}))
}

// Update changes the caller's school profile
// @Summary Update school profile
// @Tags schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSchoolRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.SchoolResponse} "Updated profile"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /schools/ [put]
func (c *SchoolController) Update(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	var req dto.UpdateSchoolRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	school, err := c.schoolService.Update(ctx.Request.Context(), identity.UserID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SchoolResponse{School: school}))
}
