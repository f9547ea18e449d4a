package models

import (
	"time"

	"github.com/google/uuid"
)

// Parent is the profile of a user with the PARENT role.
// RelationToStudent is a single label per parent, set by the last add-child call that carried one.
type Parent struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"userId"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	PhoneNumber       *string   `json:"phoneNumber,omitempty"`
	Address           *string   `json:"address,omitempty"`
	RelationToStudent *string   `json:"relationToStudent,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`

	Students []*Student `json:"students,omitempty"`
}
