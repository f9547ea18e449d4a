package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/pkg/apperrors"
)

var programColumns = []string{"id", "name", "description", "subject", "level", "created_at"}

type programRepository struct {
	baseRepository
}

func scanProgram(row pgx.Row) (*models.Program, error) {
	var p models.Program
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Subject, &p.Level, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a program by id
func (r *programRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	sql, args, err := r.sb.Select(programColumns...).From("programs").Where(squirrel.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get program query: %w", err)
	}

	p, err := scanProgram(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgramNotFound
		}
		return nil, fmt.Errorf("error getting program: %w", err)
	}
	return p, nil
}

// List returns the catalogue ordered by name
func (r *programRepository) List(ctx context.Context) ([]*models.Program, error) {
	sql, args, err := r.sb.Select(programColumns...).From("programs").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list programs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing programs: %w", err)
	}
	defer rows.Close()

	programs := make([]*models.Program, 0)
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning program: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// CreateIfNotExists inserts program unless its name is taken
func (r *programRepository) CreateIfNotExists(ctx context.Context, program *models.Program) (bool, error) {
	if program.ID == uuid.Nil {
		program.ID = uuid.New()
	}
	if program.CreatedAt.IsZero() {
		program.CreatedAt = time.Now().UTC()
	}

	sql, args, err := r.sb.Insert("programs").
		Columns(programColumns...).
		Values(program.ID, program.Name, program.Description, program.Subject, program.Level, program.CreatedAt).
		Suffix("ON CONFLICT ON CONSTRAINT programs_name_key DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build create program query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error creating program: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
