package models

import (
	"time"

	"github.com/google/uuid"
)

// Student is the profile of a user with the STUDENT role
type Student struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	Gender        *string    `json:"gender,omitempty"`
	CurrentSchool *string    `json:"currentSchool,omitempty"`
	CurrentGrade  *string    `json:"currentGrade,omitempty"`
	ParentID      *uuid.UUID `json:"parentId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	// Eager-loaded relations
	Parent      *Parent       `json:"parent,omitempty"`
	Enrollments []*Enrollment `json:"enrollments,omitempty"`
}

// FullName returns first and last name joined by a space
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
