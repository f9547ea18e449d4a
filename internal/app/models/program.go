package models

import (
	"time"

	"github.com/google/uuid"
)

// Program is an offering a student can enroll in
type Program struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Subject     *string   `json:"subject,omitempty"`
	Level       *string   `json:"level,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Enrollment links a student to a program
type Enrollment struct {
	ID            uuid.UUID `json:"id"`
	StudentID     uuid.UUID `json:"studentId"`
	ProgramID     uuid.UUID `json:"programId"`
	Schedule      *string   `json:"schedule,omitempty"`
	LearningGoals *string   `json:"learningGoals,omitempty"`
	EnrolledAt    time.Time `json:"enrolledAt"`

	Program *Program `json:"program,omitempty"`
}
