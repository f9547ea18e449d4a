package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/edubridge/platform/internal/db"
)

// PostgresStore is the pgx backed Store
type PostgresStore struct {
	pool   *pgxpool.Pool
	conn   db.DBTX
	logger zerolog.Logger
	sb     squirrel.StatementBuilderType
}

// NewPostgresStore creates a Store running on the pool
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		conn:   pool,
		logger: logger,
		sb:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *PostgresStore) base() baseRepository {
	return baseRepository{db: s.conn, sb: s.sb, logger: s.logger}
}

// Users returns the user repository
func (s *PostgresStore) Users() UserRepository { return &userRepository{s.base()} }

// Students returns the student repository
func (s *PostgresStore) Students() StudentRepository { return &studentRepository{s.base()} }

// Parents returns the parent repository
func (s *PostgresStore) Parents() ParentRepository { return &parentRepository{s.base()} }

// Schools returns the school repository
func (s *PostgresStore) Schools() SchoolRepository { return &schoolRepository{s.base()} }

// Programs returns the program repository
func (s *PostgresStore) Programs() ProgramRepository { return &programRepository{s.base()} }

// Enrollments returns the enrollment repository
func (s *PostgresStore) Enrollments() EnrollmentRepository { return &enrollmentRepository{s.base()} }

// WithTx runs fn with repositories bound to one transaction. Nested calls reuse the outer transaction.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if _, inTx := s.conn.(pgx.Tx); inTx {
		return fn(s)
	}

	return db.WithTransaction(ctx, s.pool, s.logger, func(ctx context.Context, tx pgx.Tx) error {
		return fn(&PostgresStore{pool: s.pool, conn: tx, logger: s.logger, sb: s.sb})
	})
}

// baseRepository carries what every table repository needs
type baseRepository struct {
	db     db.DBTX
	sb     squirrel.StatementBuilderType
	logger zerolog.Logger
}
