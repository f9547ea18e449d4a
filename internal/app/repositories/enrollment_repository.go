package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/pkg/apperrors"
	"github.com/edubridge/platform/internal/pkg/dberrors"
)

type enrollmentRepository struct {
	baseRepository
}

// Create inserts an enrollment
func (r *enrollmentRepository) Create(ctx context.Context, e *models.Enrollment) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}

	sql, args, err := r.sb.Insert("enrollments").
		Columns("id", "student_id", "program_id", "schedule", "learning_goals", "enrolled_at").
		Values(e.ID, e.StudentID, e.ProgramID, e.Schedule, e.LearningGoals, e.EnrolledAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create enrollment query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyError(err, "enrollments_program_id_fkey") {
			return apperrors.ErrProgramNotFound
		}
		r.logger.Error().Err(err).
			Str("studentID", e.StudentID.String()).
			Str("programID", e.ProgramID.String()).
			Msg("Error executing create enrollment query")
		return fmt.Errorf("error creating enrollment: %w", err)
	}
	return nil
}

// ListByStudentID returns a student's enrollments joined with their program
func (r *enrollmentRepository) ListByStudentID(ctx context.Context, studentID uuid.UUID) ([]*models.Enrollment, error) {
	sql, args, err := r.sb.Select(
		"e.id", "e.student_id", "e.program_id", "e.schedule", "e.learning_goals", "e.enrolled_at",
		"p.id", "p.name", "p.description", "p.subject", "p.level", "p.created_at",
	).
		From("enrollments e").
		Join("programs p ON p.id = e.program_id").
		Where(squirrel.Eq{"e.student_id": studentID.String()}).
		OrderBy("e.enrolled_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		var e models.Enrollment
		var p models.Program
		if err := rows.Scan(&e.ID, &e.StudentID, &e.ProgramID, &e.Schedule, &e.LearningGoals, &e.EnrolledAt,
			&p.ID, &p.Name, &p.Description, &p.Subject, &p.Level, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		e.Program = &p
		enrollments = append(enrollments, &e)
	}
	return enrollments, rows.Err()
}
