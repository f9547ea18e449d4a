package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleType represents the role of a user in the system
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleParent  RoleType = "PARENT"
	RoleSchool  RoleType = "SCHOOL"
)

// Roles lists every valid role
var Roles = []RoleType{RoleStudent, RoleParent, RoleSchool}

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents the identity record shared by every profile type.
// Password is nil for accounts created through an external identity provider.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  *string   `json:"-"`
	GoogleID  *string   `json:"-"`
	RoleType  RoleType  `json:"userType"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasPassword reports whether the account can log in with local credentials
func (u *User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

// HasGoogleID reports whether a Google identity is bound to the account
func (u *User) HasGoogleID() bool {
	return u.GoogleID != nil && *u.GoogleID != ""
}
