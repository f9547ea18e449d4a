package services

import (
	"context"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/app/repositories"
)

// ProgramService exposes the program catalogue
type ProgramService struct {
	store repositories.Store
}

// NewProgramService creates a new ProgramService
func NewProgramService(store repositories.Store) *ProgramService {
	return &ProgramService{store: store}
}

// List returns every program ordered by name
func (s *ProgramService) List(ctx context.Context) ([]*models.Program, error) {
	return s.store.Programs().List(ctx)
}
