package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/app/models/dto"
	"github.com/edubridge/platform/internal/app/repositories"
	"github.com/edubridge/platform/internal/pkg/cache"
)

const schoolListCacheKey = "schools:all"

// SchoolService manages school profiles and the public school directory
type SchoolService struct {
	store   repositories.Store
	auth    *AuthService
	cache   *cache.Helper
	listTTL time.Duration
	logger  zerolog.Logger
}

// NewSchoolService creates a new SchoolService. A nil cache disables directory caching.
func NewSchoolService(store repositories.Store, authService *AuthService, cacheHelper *cache.Helper, listTTL time.Duration, logger zerolog.Logger) *SchoolService {
	return &SchoolService{
		store:   store,
		auth:    authService,
		cache:   cacheHelper,
		listTTL: listTTL,
		logger:  logger.With().Str("service", "school").Logger(),
	}
}

// Register creates the user and its school profile in one transaction
func (s *SchoolService) Register(ctx context.Context, req dto.RegisterSchoolRequest) (*models.School, error) {
	var (
		user   *models.User
		school *models.School
	)
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		user, err = s.auth.createLocalUser(ctx, tx, req.Email, req.Password, models.RoleSchool)
		if err != nil {
			return err
		}

		school = &models.School{
			UserID:      user.ID,
			Name:        req.Name,
			AdminName:   req.AdminName,
			Certificate: req.Certificate,
		}
		return tx.Schools().Create(ctx, school)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	s.auth.emitRegistered(ctx, user, "local")
	return school, nil
}

// GetProfile returns the caller's school profile
func (s *SchoolService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.School, error) {
	return s.store.Schools().GetByUserID(ctx, userID)
}

// List returns every school, served from cache when possible
func (s *SchoolService) List(ctx context.Context) ([]*models.School, error) {
	var schools []*models.School
	err := s.cache.Get(ctx, schoolListCacheKey, &schools)
	switch {
	case err == nil:
		return schools, nil
	case !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable):
		s.logger.Warn().Err(err).Msg("School directory cache read failed")
	}

	schools, err = s.store.Schools().List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, schoolListCacheKey, schools, s.listTTL); err != nil {
		s.logger.Warn().Err(err).Msg("School directory cache write failed")
	}
	return schools, nil
}

// Update applies the provided fields to the caller's profile
func (s *SchoolService) Update(ctx context.Context, userID uuid.UUID, req dto.UpdateSchoolRequest) (*models.School, error) {
	school, err := s.store.Schools().GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Schools().Update(ctx, school.ID, repositories.SchoolPatch{
		Name:        req.Name,
		AdminName:   req.AdminName,
		Certificate: req.Certificate,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateList(ctx)
	return updated, nil
}

func (s *SchoolService) invalidateList(ctx context.Context) {
	if err := s.cache.Delete(ctx, schoolListCacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("School directory cache invalidation failed")
	}
}
