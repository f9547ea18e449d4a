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

var studentColumns = []string{
	"id", "user_id", "first_name", "last_name", "date_of_birth", "gender",
	"current_school", "current_grade", "parent_id", "created_at", "updated_at",
}

type studentRepository struct {
	baseRepository
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.UserID, &s.FirstName, &s.LastName, &s.DateOfBirth, &s.Gender,
		&s.CurrentSchool, &s.CurrentGrade, &s.ParentID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a student profile
func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == uuid.Nil {
		student.ID = uuid.New()
	}
	now := time.Now().UTC()
	student.CreatedAt, student.UpdatedAt = now, now

	sql, args, err := r.sb.Insert("students").
		Columns(studentColumns...).
		Values(student.ID, student.UserID, student.FirstName, student.LastName, student.DateOfBirth, student.Gender,
			student.CurrentSchool, student.CurrentGrade, student.ParentID, student.CreatedAt, student.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "students_user_id_key"):
			return apperrors.ErrProfileExists
		case dberrors.IsForeignKeyError(err, "students_parent_id_fkey"):
			return apperrors.ErrParentNotFound
		}
		r.logger.Error().Err(err).Str("userID", student.UserID.String()).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// GetByID retrieves a student by id
func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id.String()})
}

// GetByUserID retrieves a student by user id
func (r *studentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"user_id": userID.String()})
}

func (r *studentRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return s, nil
}

// ListByParentID returns the students linked to a parent
func (r *studentRepository) ListByParentID(ctx context.Context, parentID uuid.UUID) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"parent_id": parentID.String()}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*models.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Update applies a partial update and returns the stored row
func (r *studentRepository) Update(ctx context.Context, id uuid.UUID, patch StudentPatch) (*models.Student, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	sql, args, err := r.sb.Update("students").
		SetMap(patch.columns()).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id.String()}).
		Suffix("RETURNING " + joinColumns(studentColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	return s, nil
}

// SetParent points a student at a parent
func (r *studentRepository) SetParent(ctx context.Context, id, parentID uuid.UUID) error {
	sql, args, err := r.sb.Update("students").
		Set("parent_id", parentID).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set parent query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err, "students_parent_id_fkey") {
			return apperrors.ErrParentNotFound
		}
		return fmt.Errorf("error setting parent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
