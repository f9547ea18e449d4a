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

var parentColumns = []string{
	"id", "user_id", "first_name", "last_name", "phone_number", "address",
	"relation_to_student", "created_at", "updated_at",
}

type parentRepository struct {
	baseRepository
}

func scanParent(row pgx.Row) (*models.Parent, error) {
	var p models.Parent
	err := row.Scan(&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.PhoneNumber, &p.Address,
		&p.RelationToStudent, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a parent profile
func (r *parentRepository) Create(ctx context.Context, parent *models.Parent) error {
	if parent.ID == uuid.Nil {
		parent.ID = uuid.New()
	}
	now := time.Now().UTC()
	parent.CreatedAt, parent.UpdatedAt = now, now

	sql, args, err := r.sb.Insert("parents").
		Columns(parentColumns...).
		Values(parent.ID, parent.UserID, parent.FirstName, parent.LastName, parent.PhoneNumber, parent.Address,
			parent.RelationToStudent, parent.CreatedAt, parent.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create parent query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "parents_user_id_key") {
			return apperrors.ErrProfileExists
		}
		r.logger.Error().Err(err).Str("userID", parent.UserID.String()).Msg("Error executing create parent query")
		return fmt.Errorf("error creating parent: %w", err)
	}
	return nil
}

// GetByID retrieves a parent by id
func (r *parentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Parent, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id.String()})
}

// GetByUserID retrieves a parent by user id
func (r *parentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Parent, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": userID.String()})
}

func (r *parentRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Parent, error) {
	sql, args, err := r.sb.Select(parentColumns...).From("parents").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get parent query: %w", err)
	}

	p, err := scanParent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrParentNotFound
		}
		return nil, fmt.Errorf("error getting parent: %w", err)
	}
	return p, nil
}

// Update applies a partial update and returns the stored row
func (r *parentRepository) Update(ctx context.Context, id uuid.UUID, patch ParentPatch) (*models.Parent, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	sql, args, err := r.sb.Update("parents").
		SetMap(patch.columns()).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id.String()}).
		Suffix("RETURNING " + joinColumns(parentColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update parent query: %w", err)
	}

	p, err := scanParent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrParentNotFound
		}
		return nil, fmt.Errorf("error updating parent: %w", err)
	}
	return p, nil
}
