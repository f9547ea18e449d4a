package dto

import "github.com/edubridge/platform/internal/app/models"

// RegisterParentRequest creates a user and its parent profile
type RegisterParentRequest struct {
	Email       string  `json:"email" binding:"required,email" example:"bob@example.com"`
	Password    string  `json:"password" binding:"required,min=6" example:"secret1"`
	FirstName   string  `json:"firstName" binding:"required" example:"Bob"`
	LastName    string  `json:"lastName" binding:"required" example:"Smith"`
	PhoneNumber *string `json:"phoneNumber" example:"+1 555 0100"`
	Address     *string `json:"address" example:"12 Elm Street"`
}

// UpdateParentRequest is a partial update; nil fields are left untouched
type UpdateParentRequest struct {
	FirstName         *string `json:"firstName" binding:"omitempty,min=1"`
	LastName          *string `json:"lastName" binding:"omitempty,min=1"`
	PhoneNumber       *string `json:"phoneNumber"`
	Address           *string `json:"address"`
	RelationToStudent *string `json:"relationToStudent"`
}

// AddChildRequest links an existing student to the calling parent
type AddChildRequest struct {
	ChildID           string  `json:"childId" binding:"required,uuid"`
	RelationToStudent *string `json:"relationToStudent" example:"mother"`
}

// ParentResponse wraps a parent profile
type ParentResponse struct {
	Parent *models.Parent `json:"parent"`
}

// ChildrenResponse wraps the students linked to a parent
type ChildrenResponse struct {
	Children []*models.Student `json:"children"`
}
