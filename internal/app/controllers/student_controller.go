package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/app/services"
	"github.com/edubridge/platform/internal/middleware"
	"github.com/edubridge/platform/internal/pkg/export"
)

// StudentController handles student profile and enrollment endpoints
type StudentController struct {
	studentService *services.StudentService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{studentService: studentService, logger: logger}
}

// Register creates a student account
// @Summary Register a student
// @Description Creates a STUDENT user and its profile in one step
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.RegisterStudentRequest true "Student registration"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student registered"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 404 {object} dto.APIResponse "Parent not found"
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Router /students/register [post]
func (c *StudentController) Register(ctx *gin.Context) {
	var req dto.RegisterStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Register(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.StudentResponse{Student: student}))
}

// GetProfile returns the caller's student profile
// @Summary Get student profile
// @Description Returns the profile with its parent and enrollments
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student profile"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not a student"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /students/profile [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetProfile(ctx.Request.Context(), identity.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.StudentResponse{Student: student}))
}

// Update changes the caller's student profile
// @Summary Update student profile
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Updated profile"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /students/ [put]
func (c *StudentController) Update(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), identity.UserID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.StudentResponse{Student: student}))
}

// Enroll enrolls the caller in a program
// @Summary Enroll in a program
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Program and schedule"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrollment created"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 404 {object} dto.APIResponse "Program or profile not found"
// @Router /students/enroll [post]
func (c *StudentController) Enroll(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	var req dto.EnrollRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	enrollment, err := c.studentService.Enroll(ctx.Request.Context(), identity.UserID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.EnrollmentResponse{Enrollment: enrollment}))
}

// ListEnrollments returns the caller's enrollments
// @Summary List enrollments
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentsResponse} "Enrollments with programs"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /students/enrollments [get]
func (c *StudentController) ListEnrollments(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	enrollments, err := c.studentService.ListEnrollments(ctx.Request.Context(), identity.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.EnrollmentsResponse{Enrollments: enrollments}))
}

// ExportEnrollments downloads the caller's enrollments as a spreadsheet
// @Summary Export enrollments
// @Tags students
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "enrollments.xlsx"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /students/enrollments/export [get]
func (c *StudentController) ExportEnrollments(ctx *gin.Context) {
	identity, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	data, err := c.studentService.ExportEnrollments(ctx.Request.Context(), identity.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="enrollments.xlsx"`)
	ctx.Data(http.StatusOK, export.XLSXContentType, data)
}
