package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/app/repositories"
	"github.com/edubridge/platform/internal/pkg/events"
)

// ParentService manages parent profiles and their link to students
type ParentService struct {
	store  repositories.Store
	auth   *AuthService
	events events.Emitter
	logger zerolog.Logger
}

// NewParentService creates a new ParentService
func NewParentService(store repositories.Store, authService *AuthService, emitter events.Emitter, logger zerolog.Logger) *ParentService {
	return &ParentService{
		store:  store,
		auth:   authService,
		events: emitter,
		logger: logger.With().Str("service", "parent").Logger(),
	}
}

// Register creates the user and its parent profile in one transaction
func (s *ParentService) Register(ctx context.Context, req dto.RegisterParentRequest) (*models.Parent, error) {
	var (
		user   *models.User
		parent *models.Parent
	)
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		user, err = s.auth.createLocalUser(ctx, tx, req.Email, req.Password, models.RoleParent)
		if err != nil {
			return err
		}

		parent = &models.Parent{
			UserID:      user.ID,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			PhoneNumber: req.PhoneNumber,
			Address:     req.Address,
		}
		return tx.Parents().Create(ctx, parent)
	})
	if err != nil {
		return nil, err
	}

	s.auth.emitRegistered(ctx, user, "local")
	return parent, nil
}

// GetProfile returns the caller's parent profile with linked students
func (s *ParentService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Parent, error) {
	parent, err := s.store.Parents().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withStudents(ctx, s.store, parent)
}

func (s *ParentService) withStudents(ctx context.Context, store repositories.Store, parent *models.Parent) (*models.Parent, error) {
	students, err := store.Students().ListByParentID(ctx, parent.ID)
	if err != nil {
		return nil, err
	}
	parent.Students = students
	return parent, nil
}

// Update applies the provided fields to the caller's profile
func (s *ParentService) Update(ctx context.Context, userID uuid.UUID, req dto.UpdateParentRequest) (*models.Parent, error) {
	parent, err := s.store.Parents().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.store.Parents().Update(ctx, parent.ID, repositories.ParentPatch{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PhoneNumber:       req.PhoneNumber,
		Address:           req.Address,
		RelationToStudent: req.RelationToStudent,
	})
}

// AddChild points an existing student at the caller. When a relation label is
// given it is stored on the parent record, replacing any previous label.
func (s *ParentService) AddChild(ctx context.Context, userID uuid.UUID, req dto.AddChildRequest) (*models.Parent, error) {
	childID, err := parseID("childId", req.ChildID)
	if err != nil {
		return nil, err
	}

	var parent *models.Parent
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		parent, err = tx.Parents().GetByUserID(ctx, userID)
		if err != nil {
			return err
		}

		if err := tx.Students().SetParent(ctx, childID, parent.ID); err != nil {
			return err
		}

		if req.RelationToStudent != nil && *req.RelationToStudent != "" {
			parent, err = tx.Parents().Update(ctx, parent.ID, repositories.ParentPatch{
				RelationToStudent: req.RelationToStudent,
			})
			if err != nil {
				return err
			}
		}

		parent, err = s.withStudents(ctx, tx, parent)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("parentID", parent.ID.String()).Str("studentID", childID.String()).Msg("Child linked to parent")
	events.EmitAfterCommit(ctx, s.events, s.logger, events.TopicChildLinked, events.ChildLinked{
		ParentID:          parent.ID.String(),
		StudentID:         childID.String(),
		RelationToStudent: req.RelationToStudent,
	})
	return parent, nil
}

// ListChildren returns the students linked to the caller
func (s *ParentService) ListChildren(ctx context.Context, userID uuid.UUID) ([]*models.Student, error) {
	parent, err := s.store.Parents().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.Students().ListByParentID(ctx, parent.ID)
}
