package dto

import (
	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/pkg/helpers"
)

// RegisterSchoolRequest creates a user and its school profile
type RegisterSchoolRequest struct {
	Email       string  `json:"email" binding:"required,email" example:"office@springfield.edu"`
	Password    string  `json:"password" binding:"required,min=6" example:"secret1"`
	Name        string  `json:"name" binding:"required" example:"Springfield Middle School"`
	AdminName   string  `json:"adminName" binding:"required" example:"Seymour Skinner"`
	Certificate *string `json:"certificate" example:"CERT-2024-001"`
}

// UpdateSchoolRequest is a partial update; nil fields are left untouched
type UpdateSchoolRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	AdminName   *string `json:"adminName" binding:"omitempty,min=1"`
	Certificate *string `json:"certificate"`
}

// SchoolResponse wraps a school profile
type SchoolResponse struct {
	School *models.School `json:"school"`
}

// SchoolsResponse wraps the school directory
type SchoolsResponse struct {
	Schools    []*models.School        `json:"schools"`
	Pagination *helpers.PaginationInfo `json:"pagination,omitempty"`
}
