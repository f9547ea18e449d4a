package models

import (
	"time"

	"github.com/google/uuid"
)

// School is the profile of a user with the SCHOOL role
type School struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Name        string    `json:"name"`
	AdminName   string    `json:"adminName"`
	Certificate *string   `json:"certificate,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
