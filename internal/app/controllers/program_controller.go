package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/app/services"
	"github.com/edubridge/platform/internal/middleware"
)

// ProgramController serves the program catalogue
type ProgramController struct {
	programService *services.ProgramService
}

// NewProgramController creates a new ProgramController
func NewProgramController(programService *services.ProgramService) *ProgramController {
	return &ProgramController{programService: programService}
}

// List returns the programs students can enroll in
// @Summary List programs
// @Tags programs
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ProgramsResponse} "Program catalogue"
// @Router /programs [get]
func (c *ProgramController) List(ctx *gin.Context) {
	programs, err := c.programService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ProgramsResponse{Programs: programs}))
}
