package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/pkg/apperrors"
	"github.com/edubridge/platform/internal/pkg/dberrors"
)

var schoolColumns = []string{"id", "user_id", "name", "admin_name", "certificate", "created_at", "updated_at"}

type schoolRepository struct {
	baseRepository
}

func scanSchool(row pgx.Row) (*models.School, error) {
	var s models.School
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.AdminName, &s.Certificate, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a school profile
func (r *schoolRepository) Create(ctx context.Context, school *models.School) error {
	if school.ID == uuid.Nil {
		school.ID = uuid.New()
	}
	now := time.Now().UTC()
	school.CreatedAt, school.UpdatedAt = now, now

	sql, args, err := r.sb.Insert("schools").
		Columns(schoolColumns...).
		Values(school.ID, school.UserID, school.Name, school.AdminName, school.Certificate, school.CreatedAt, school.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create school query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "schools_user_id_key") {
			return apperrors.ErrProfileExists
		}
		r.logger.Error().Err(err).Str("userID", school.UserID.String()).Msg("Error executing create school query")
		return fmt.Errorf("error creating school: %w", err)
	}
	return nil
}

// GetByUserID retrieves a school by user id
func (r *schoolRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.School, error) {
	sql, args, err := r.sb.Select(schoolColumns...).From("schools").Where(squirrel.Eq{"user_id": userID.String()}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get school query: %w", err)
	}

	s, err := scanSchool(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSchoolNotFound
		}
		return nil, fmt.Errorf("error getting school: %w", err)
	}
	return s, nil
}

// List returns every school ordered by name
func (r *schoolRepository) List(ctx context.Context) ([]*models.School, error) {
	sql, args, err := r.sb.Select(schoolColumns...).From("schools").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list schools query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing schools: %w", err)
	}
	defer rows.Close()

	schools := make([]*models.School, 0)
	for rows.Next() {
		s, err := scanSchool(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning school: %w", err)
		}
		schools = append(schools, s)
	}
	return schools, rows.Err()
}

// Update applies a partial update and returns the stored row
func (r *schoolRepository) Update(ctx context.Context, id uuid.UUID, patch SchoolPatch) (*models.School, error) {
	if patch.Empty() {
		sql, args, err := r.sb.Select(schoolColumns...).From("schools").Where(squirrel.Eq{"id": id.String()}).ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build get school query: %w", err)
		}
		s, err := scanSchool(r.db.QueryRow(ctx, sql, args...))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSchoolNotFound
		}
		return s, err
	}

	sql, args, err := r.sb.Update("schools").
		SetMap(patch.columns()).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id.String()}).
		Suffix("RETURNING " + joinColumns(schoolColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update school query: %w", err)
	}

	s, err := scanSchool(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSchoolNotFound
		}
		return nil, fmt.Errorf("error updating school: %w", err)
	}
	return s, nil
}
