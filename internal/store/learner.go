package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/benkyoapp/nihongo-api/internal/domain"
)

// LearnerStore defines the interface for learner identity persistence.
type LearnerStore interface {
	// Create saves a new learner. It handles domain validation
	// internally and hashes the plaintext password before storage.
	// Returns ErrEmailExists if the email is already in use.
	Create(ctx context.Context, learner *domain.Learner) error

	// GetByID retrieves a learner by unique ID.
	// Returns ErrLearnerNotFound if the learner does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error)

	// GetByEmail retrieves a learner by email address.
	// Returns ErrLearnerNotFound if the learner does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Learner, error)

	// WithTx returns a LearnerStore bound to the given transaction.
	// The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) LearnerStore
}

// ProfileStore defines the interface for learner profile persistence.
// A profile is stored as one row per learner with the mastery ledgers,
// achievements, and daily progress JSON-encoded; round-trips must be
// lossless.
type ProfileStore interface {
	// Create saves a new profile. It handles domain validation
	// internally. Returns ErrDuplicate if the learner already has one.
	Create(ctx context.Context, profile *domain.LearnerProfile) error

	// Get retrieves a profile by learner ID.
	// Returns ErrProfileNotFound if the profile does not exist.
	// No row locking is applied; do not use when you plan to update
	// the row under concurrency.
	Get(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error)

	// GetForUpdate retrieves a profile with a row-level lock
	// (SELECT FOR UPDATE). Use within a transaction when the profile
	// will be updated. Returns ErrProfileNotFound if it does not exist.
	GetForUpdate(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error)

	// Update replaces an existing profile row as a whole object.
	// Returns ErrProfileNotFound if the profile does not exist.
	Update(ctx context.Context, profile *domain.LearnerProfile) error

	// Delete removes a profile. Returns ErrProfileNotFound if the
	// profile does not exist.
	Delete(ctx context.Context, learnerID uuid.UUID) error

	// WithTx returns a ProfileStore bound to the given transaction.
	// The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) ProfileStore
}
