package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/app/repositories"
	"github.com/edubridge/platform/internal/pkg/apperrors"
	"github.com/edubridge/platform/internal/pkg/events"
	"github.com/edubridge/platform/internal/pkg/export"
)

// StudentService manages student profiles and enrollments
type StudentService struct {
	store  repositories.Store
	auth   *AuthService
	events events.Emitter
	logger zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(store repositories.Store, authService *AuthService, emitter events.Emitter, logger zerolog.Logger) *StudentService {
	return &StudentService{
		store:  store,
		auth:   authService,
		events: emitter,
		logger: logger.With().Str("service", "student").Logger(),
	}
}

// Register creates the user and its student profile in one transaction
func (s *StudentService) Register(ctx context.Context, req dto.RegisterStudentRequest) (*models.Student, error) {
	dob, err := parseOptionalDate("dateOfBirth", req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		id, err := parseID("parentId", *req.ParentID)
		if err != nil {
			return nil, err
		}
		parentID = &id
	}

	var (
		user    *models.User
		student *models.Student
	)
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		user, err = s.auth.createLocalUser(ctx, tx, req.Email, req.Password, models.RoleStudent)
		if err != nil {
			return err
		}

		student = &models.Student{
			UserID:        user.ID,
			FirstName:     req.FirstName,
			LastName:      req.LastName,
			DateOfBirth:   dob,
			Gender:        req.Gender,
			CurrentSchool: req.CurrentSchool,
			CurrentGrade:  req.CurrentGrade,
			ParentID:      parentID,
		}
		return tx.Students().Create(ctx, student)
	})
	if err != nil {
		return nil, err
	}

	s.auth.emitRegistered(ctx, user, "local")
	return student, nil
}

// GetProfile returns the caller's student profile with parent and enrollments loaded
func (s *StudentService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Student, error) {
	student, err := s.store.Students().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if student.ParentID != nil {
		parent, err := s.store.Parents().GetByID(ctx, *student.ParentID)
		switch {
		case err == nil:
			student.Parent = parent
		case !errors.Is(err, apperrors.ErrParentNotFound):
			return nil, err
		}
	}

	student.Enrollments, err = s.store.Enrollments().ListByStudentID(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// Update applies the provided fields to the caller's profile
func (s *StudentService) Update(ctx context.Context, userID uuid.UUID, req dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.store.Students().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dob, err := parseOptionalDate("dateOfBirth", req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	return s.store.Students().Update(ctx, student.ID, repositories.StudentPatch{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DateOfBirth:   dob,
		Gender:        req.Gender,
		CurrentSchool: req.CurrentSchool,
		CurrentGrade:  req.CurrentGrade,
	})
}

// Enroll links the caller to an existing program
func (s *StudentService) Enroll(ctx context.Context, userID uuid.UUID, req dto.EnrollRequest) (*models.Enrollment, error) {
	programID, err := parseID("programId", req.ProgramID)
	if err != nil {
		return nil, err
	}

	student, err := s.store.Students().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	program, err := s.store.Programs().GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID:     student.ID,
		ProgramID:     program.ID,
		Schedule:      req.Schedule,
		LearningGoals: req.LearningGoals,
	}
	if err := s.store.Enrollments().Create(ctx, enrollment); err != nil {
		return nil, err
	}
	enrollment.Program = program

	s.logger.Info().
		Str("studentID", student.ID.String()).
		Str("programID", program.ID.String()).
		Msg("Student enrolled")

	events.EmitAfterCommit(ctx, s.events, s.logger, events.TopicStudentEnrolled, events.StudentEnrolled{
		EnrollmentID: enrollment.ID.String(),
		StudentID:    student.ID.String(),
		ProgramID:    program.ID.String(),
	})
	return enrollment, nil
}

// ListEnrollments returns the caller's enrollments with their programs
func (s *StudentService) ListEnrollments(ctx context.Context, userID uuid.UUID) ([]*models.Enrollment, error) {
	student, err := s.store.Students().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.Enrollments().ListByStudentID(ctx, student.ID)
}

// ExportEnrollments renders the caller's enrollments as an xlsx workbook
func (s *StudentService) ExportEnrollments(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	student, err := s.store.Students().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.store.Enrollments().ListByStudentID(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	data, err := export.EnrollmentsWorkbook(student, enrollments)
	if err != nil {
		return nil, fmt.Errorf("building enrollment export: %w", err)
	}
	return data, nil
}
