package dto

import "github.com/edubridge/platform/internal/app/models"

// RegisterStudentRequest creates a user and its student profile
type RegisterStudentRequest struct {
	Email         string  `json:"email" binding:"required,email" example:"alice@example.com"`
	Password      string  `json:"password" binding:"required,min=6" example:"secret1"`
	FirstName     string  `json:"firstName" binding:"required" example:"Alice"`
	LastName      string  `json:"lastName" binding:"required" example:"Smith"`
	DateOfBirth   *string `json:"dateOfBirth" binding:"omitempty,isodate" example:"2010-05-14"`
	Gender        *string `json:"gender" example:"female"`
	CurrentSchool *string `json:"currentSchool" example:"Springfield Middle School"`
	CurrentGrade  *string `json:"currentGrade" example:"7"`
	ParentID      *string `json:"parentId" binding:"omitempty,uuid"`
}

// UpdateStudentRequest is a partial update; nil fields are left untouched
type UpdateStudentRequest struct {
	FirstName     *string `json:"firstName" binding:"omitempty,min=1"`
	LastName      *string `json:"lastName" binding:"omitempty,min=1"`
	DateOfBirth   *string `json:"dateOfBirth" binding:"omitempty,isodate"`
	Gender        *string `json:"gender"`
	CurrentSchool *string `json:"currentSchool"`
	CurrentGrade  *string `json:"currentGrade"`
}

// EnrollRequest enrolls the calling student in a program
type EnrollRequest struct {
	ProgramID     string  `json:"programId" binding:"required,uuid"`
	Schedule      *string `json:"schedule" example:"Mon/Wed 16:00"`
	LearningGoals *string `json:"learningGoals" example:"Prepare for the algebra exam"`
}

// StudentResponse wraps a student profile
type StudentResponse struct {
	Student *models.Student `json:"student"`
}

// EnrollmentResponse wraps a single enrollment
type EnrollmentResponse struct {
	Enrollment *models.Enrollment `json:"enrollment"`
}

// EnrollmentsResponse wraps a list of enrollments
type EnrollmentsResponse struct {
	Enrollments []*models.Enrollment `json:"enrollments"`
}

// ProgramsResponse wraps the program catalogue
type ProgramsResponse struct {
	Programs []*models.Program `json:"programs"`
}
