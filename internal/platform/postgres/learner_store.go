// Package postgres implements the store interfaces against a
// PostgreSQL database accessed through the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/benkyoapp/nihongo-api/internal/domain"
	"github.com/benkyoapp/nihongo-api/internal/platform/logger"
	"github.com/benkyoapp/nihongo-api/internal/store"
)

// PostgreSQL error codes relevant to the stores.
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
)

// isUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode
}

// isForeignKeyViolation checks if the given error is a PostgreSQL
// foreign key constraint violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode
}

// PostgresLearnerStore implements the store.LearnerStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLearnerStore struct {
	db         store.DBTX
	bcryptCost int
	logger     *slog.Logger
}

// NewPostgresLearnerStore creates a new PostgreSQL implementation of
// the LearnerStore interface. It accepts a database connection or
// transaction managed by the caller. If logger is nil, a default
// logger will be used.
func NewPostgresLearnerStore(db store.DBTX, bcryptCost int, logger *slog.Logger) *PostgresLearnerStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLearnerStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "learner_store")),
	}
}

// Ensure PostgresLearnerStore implements store.LearnerStore interface
var _ store.LearnerStore = (*PostgresLearnerStore)(nil)

// Create implements store.LearnerStore.Create
// It validates the learner, hashes the plaintext password, and inserts
// the row. Returns store.ErrEmailExists on a duplicate email.
func (s *PostgresLearnerStore) Create(ctx context.Context, learner *domain.Learner) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := learner.Validate(); err != nil {
		log.Warn("learner validation failed during create",
			slog.String("error", err.Error()),
			slog.String("learner_id", learner.ID.String()))
		return err
	}

	if learner.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(learner.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password",
				slog.String("error", err.Error()),
				slog.String("learner_id", learner.ID.String()))
			return fmt.Errorf("failed to hash password: %w", err)
		}
		learner.HashedPassword = string(hashed)
		learner.Password = ""
	}

	query := `
		INSERT INTO learners (id, email, hashed_password, display_name, avatar_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		learner.ID,
		learner.Email,
		learner.HashedPassword,
		learner.DisplayName,
		learner.AvatarRef,
		learner.CreatedAt,
		learner.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate email during learner creation",
				slog.String("learner_id", learner.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to create learner",
			slog.String("error", err.Error()),
			slog.String("learner_id", learner.ID.String()))
		return err
	}

	log.Info("learner created successfully",
		slog.String("learner_id", learner.ID.String()))
	return nil
}

// GetByID implements store.LearnerStore.GetByID
// Returns store.ErrLearnerNotFound if the learner does not exist.
func (s *PostgresLearnerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, email, hashed_password, display_name, avatar_ref, created_at, updated_at
		FROM learners
		WHERE id = $1
	`

	var learner domain.Learner
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&learner.ID,
		&learner.Email,
		&learner.HashedPassword,
		&learner.DisplayName,
		&learner.AvatarRef,
		&learner.CreatedAt,
		&learner.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learner not found", slog.String("learner_id", id.String()))
			return nil, store.ErrLearnerNotFound
		}
		log.Error("failed to get learner by ID",
			slog.String("error", err.Error()),
			slog.String("learner_id", id.String()))
		return nil, err
	}

	return &learner, nil
}

// GetByEmail implements store.LearnerStore.GetByEmail
// Returns store.ErrLearnerNotFound if the learner does not exist.
func (s *PostgresLearnerStore) GetByEmail(ctx context.Context, email string) (*domain.Learner, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, email, hashed_password, display_name, avatar_ref, created_at, updated_at
		FROM learners
		WHERE email = $1
	`

	var learner domain.Learner
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&learner.ID,
		&learner.Email,
		&learner.HashedPassword,
		&learner.DisplayName,
		&learner.AvatarRef,
		&learner.CreatedAt,
		&learner.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("learner not found by email")
			return nil, store.ErrLearnerNotFound
		}
		log.Error("failed to get learner by email",
			slog.String("error", err.Error()))
		return nil, err
	}

	return &learner, nil
}

// WithTx implements store.LearnerStore.WithTx
func (s *PostgresLearnerStore) WithTx(tx *sql.Tx) store.LearnerStore {
	return &PostgresLearnerStore{
		db:         tx,
		bcryptCost: s.bcryptCost,
		logger:     s.logger,
	}
}

// touchUpdatedAt stamps wall-clock update times consistently across
// the stores.
func touchUpdatedAt() time.Time {
	return time.Now().UTC()
}
