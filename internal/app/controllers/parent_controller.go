package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/app/services"
	"github.com/edubridge/platform/internal/middleware"
)

// ParentController handles parent profile endpoints
type ParentController struct {
	parentService *services.ParentService
	logger        zerolog.Logger
}

// NewParentController creates a new ParentController
func NewParentController(parentService *services.ParentService, logger zerolog.Logger) *ParentController {
	return &ParentController{parentService: parentService, logger: logger}
}

// Register creates a parent account
// @Summary Register a parent
// @Tags parents
// @Accept json
// @Produce json
// @Param request body dto.RegisterParentRequest true "Parent registration"
// @Success 201 {object} dto.APIResponse{data=dto.ParentResponse} "Parent registered"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Router /parents/register [post]
func (c *ParentController) Register(ctx *gin.Context) {
	var req dto.RegisterParentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	parent, err := c.parentService.Register(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.ParentResponse{Parent: parent}))
}

// GetProfile returns the caller's parent profile
// @Summary Get parent profile
// @Description Returns the profile with the linked students
// @Tags parents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ParentResponse} "Parent profile"
// @Failure 403 {object} dto.APIResponse "Not a parent"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /parents/profile [get]
func (c *ParentController) GetProfile(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	parent, err := c.parentService.GetProfile(ctx.Request.Context(), identity.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ParentResponse{Parent: parent}))
}

// Update changes the caller's parent profile
// @Summary Update parent profile
// @Tags parents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateParentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.ParentResponse} "Updated profile"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /parents/ [put]
func (c *ParentController) Update(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	var req dto.UpdateParentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	parent, err := c.parentService.Update(ctx.Request.Context(), identity.UserID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ParentResponse{Parent: parent}))
}

// AddChild links a student to the caller
// @Summary Add a child
// @Description Sets the student's parent to the caller and optionally records the relation label on the parent
// @Tags parents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddChildRequest true "Student to link"
// @Success 200 {object} dto.APIResponse{data=dto.ParentResponse} "Parent with students"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Router /parents/add-child [post]
func (c *ParentController) AddChild(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	var req dto.AddChildRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	parent, err := c.parentService.AddChild(ctx.Request.Context(), identity.UserID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ParentResponse{Parent: parent}))
}

// ListChildren returns the students linked to the caller
// @Summary List children
// @Tags parents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ChildrenResponse} "Linked students"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /parents/children [get]
func (c *ParentController) ListChildren(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	children, err := c.parentService.ListChildren(ctx.Request.Context(), identity.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ChildrenResponse{Children: children}))
}
