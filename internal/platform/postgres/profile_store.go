package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/benkyoapp/nihongo-api/internal/domain"
	"github.com/benkyoapp/nihongo-api/internal/platform/logger"
	"github.com/benkyoapp/nihongo-api/internal/store"
)

// PostgresProfileStore implements the store.ProfileStore interface
// using a PostgreSQL database as the storage backend. Mastery maps,
// the achievement list, and the daily progress log are stored as
// JSONB columns on a single row per learner.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of
// the ProfileStore interface. It accepts a database connection or
// transaction managed by the caller. If logger is nil, a default
// logger will be used.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure PostgresProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// profileColumns encodes the mastery and progress fields of a profile
// into the JSONB payloads stored alongside the scalar columns.
type profileColumns struct {
	hiragana     []byte
	katakana     []byte
	kanji        []byte
	words        []byte
	sentences    []byte
	achievements []byte
	daily        []byte
}

func encodeProfileColumns(profile *domain.LearnerProfile) (*profileColumns, error) {
	cols := &profileColumns{}
	var err error

	if cols.hiragana, err = json.Marshal(profile.HiraganaMastery); err != nil {
		return nil, fmt.Errorf("failed to marshal hiragana progress: %w", err)
	}
	if cols.katakana, err = json.Marshal(profile.KatakanaMastery); err != nil {
		return nil, fmt.Errorf("failed to marshal katakana progress: %w", err)
	}
	if cols.kanji, err = json.Marshal(profile.KanjiMastery); err != nil {
		return nil, fmt.Errorf("failed to marshal kanji progress: %w", err)
	}
	if cols.words, err = json.Marshal(profile.WordMastery); err != nil {
		return nil, fmt.Errorf("failed to marshal word progress: %w", err)
	}
	if cols.sentences, err = json.Marshal(profile.SentenceMastery); err != nil {
		return nil, fmt.Errorf("failed to marshal sentence progress: %w", err)
	}
	if cols.achievements, err = json.Marshal(profile.Achievements); err != nil {
		return nil, fmt.Errorf("failed to marshal achievements: %w", err)
	}
	if cols.daily, err = json.Marshal(profile.DailyProgress); err != nil {
		return nil, fmt.Errorf("failed to marshal daily progress: %w", err)
	}

	return cols, nil
}

func scanProfileRow(row *sql.Row) (*domain.LearnerProfile, error) {
	var profile domain.LearnerProfile
	var hiragana, katakana, kanji, words, sentences, achievements, daily []byte

	err := row.Scan(
		&profile.LearnerID,
		&profile.DisplayName,
		&profile.AvatarRef,
		&profile.Level,
		&profile.XP,
		&hiragana,
		&katakana,
		&kanji,
		&words,
		&sentences,
		&achievements,
		&daily,
		&profile.HasCompletedOnboarding,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(hiragana, &profile.HiraganaMastery); err != nil {
		return nil, fmt.Errorf("failed to unmarshal hiragana progress: %w", err)
	}
	if err := json.Unmarshal(katakana, &profile.KatakanaMastery); err != nil {
		return nil, fmt.Errorf("failed to unmarshal katakana progress: %w", err)
	}
	if err := json.Unmarshal(kanji, &profile.KanjiMastery); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kanji progress: %w", err)
	}
	if err := json.Unmarshal(words, &profile.WordMastery); err != nil {
		return nil, fmt.Errorf("failed to unmarshal word progress: %w", err)
	}
	if err := json.Unmarshal(sentences, &profile.SentenceMastery); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sentence progress: %w", err)
	}
	if err := json.Unmarshal(achievements, &profile.Achievements); err != nil {
		return nil, fmt.Errorf("failed to unmarshal achievements: %w", err)
	}
	if err := json.Unmarshal(daily, &profile.DailyProgress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal daily progress: %w", err)
	}

	profile.Normalize()
	return &profile, nil
}

// Create implements store.ProfileStore.Create
// Returns store.ErrDuplicate if a profile already exists for the
// learner, and store.ErrLearnerNotFound if the learner row is missing.
func (s *PostgresProfileStore) Create(ctx context.Context, profile *domain.LearnerProfile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during create",
			slog.String("error", err.Error()),
			slog.String("learner_id", profile.LearnerID.String()))
		return err
	}

	cols, err := encodeProfileColumns(profile)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO learner_profiles (
			learner_id, display_name, avatar_ref, level, xp,
			hiragana_mastery, katakana_mastery, kanji_mastery,
			word_mastery, sentence_mastery,
			achievements, daily_progress,
			has_completed_onboarding, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		profile.LearnerID,
		profile.DisplayName,
		profile.AvatarRef,
		profile.Level,
		profile.XP,
		cols.hiragana,
		cols.katakana,
		cols.kanji,
		cols.words,
		cols.sentences,
		cols.achievements,
		cols.daily,
		profile.HasCompletedOnboarding,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("profile already exists",
				slog.String("learner_id", profile.LearnerID.String()))
			return store.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			log.Warn("learner does not exist for profile",
				slog.String("learner_id", profile.LearnerID.String()))
			return store.ErrLearnerNotFound
		}

		log.Error("failed to create profile",
			slog.String("error", err.Error()),
			slog.String("learner_id", profile.LearnerID.String()))
		return err
	}

	log.Debug("profile created successfully",
		slog.String("learner_id", profile.LearnerID.String()))
	return nil
}

const profileSelectColumns = `
	learner_id, display_name, avatar_ref, level, xp,
	hiragana_mastery, katakana_mastery, kanji_mastery,
	word_mastery, sentence_mastery,
	achievements, daily_progress,
	has_completed_onboarding, created_at, updated_at
`

// Get implements store.ProfileStore.Get
// Returns store.ErrProfileNotFound if no profile exists for the learner.
func (s *PostgresProfileStore) Get(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + profileSelectColumns + ` FROM learner_profiles WHERE learner_id = $1`

	profile, err := scanProfileRow(s.db.QueryRowContext(ctx, query, learnerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found", slog.String("learner_id", learnerID.String()))
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, err
	}

	return profile, nil
}

// GetForUpdate implements store.ProfileStore.GetForUpdate
// It locks the profile row for the duration of the enclosing
// transaction so concurrent quiz submissions serialize.
func (s *PostgresProfileStore) GetForUpdate(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + profileSelectColumns + ` FROM learner_profiles WHERE learner_id = $1 FOR UPDATE`

	profile, err := scanProfileRow(s.db.QueryRowContext(ctx, query, learnerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found for update", slog.String("learner_id", learnerID.String()))
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile for update",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, err
	}

	return profile, nil
}

// Update implements store.ProfileStore.Update
// Returns store.ErrProfileNotFound if no profile exists for the learner.
func (s *PostgresProfileStore) Update(ctx context.Context, profile *domain.LearnerProfile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during update",
			slog.String("error", err.Error()),
			slog.String("learner_id", profile.LearnerID.String()))
		return err
	}

	profile.UpdatedAt = touchUpdatedAt()

	cols, err := encodeProfileColumns(profile)
	if err != nil {
		return err
	}

	query := `
		UPDATE learner_profiles
		SET display_name = $2,
		    avatar_ref = $3,
		    level = $4,
		    xp = $5,
		    hiragana_mastery = $6,
		    katakana_mastery = $7,
		    kanji_mastery = $8,
		    word_mastery = $9,
		    sentence_mastery = $10,
		    achievements = $11,
		    daily_progress = $12,
		    has_completed_onboarding = $13,
		    updated_at = $14
		WHERE learner_id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		profile.LearnerID,
		profile.DisplayName,
		profile.AvatarRef,
		profile.Level,
		profile.XP,
		cols.hiragana,
		cols.katakana,
		cols.kanji,
		cols.words,
		cols.sentences,
		cols.achievements,
		cols.daily,
		profile.HasCompletedOnboarding,
		profile.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update profile",
			slog.String("error", err.Error()),
			slog.String("learner_id", profile.LearnerID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected after profile update",
			slog.String("error", err.Error()),
			slog.String("learner_id", profile.LearnerID.String()))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("profile not found during update",
			slog.String("learner_id", profile.LearnerID.String()))
		return store.ErrProfileNotFound
	}

	return nil
}

// Delete implements store.ProfileStore.Delete
// Returns store.ErrProfileNotFound if no profile exists for the learner.
func (s *PostgresProfileStore) Delete(ctx context.Context, learnerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM learner_profiles WHERE learner_id = $1`

	result, err := s.db.ExecContext(ctx, query, learnerID)
	if err != nil {
		log.Error("failed to delete profile",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected after profile delete",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("profile not found during delete",
			slog.String("learner_id", learnerID.String()))
		return store.ErrProfileNotFound
	}

	log.Info("profile deleted",
		slog.String("learner_id", learnerID.String()))
	return nil
}

// WithTx implements store.ProfileStore.WithTx
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{
		db:     tx,
		logger: s.logger,
	}
}
