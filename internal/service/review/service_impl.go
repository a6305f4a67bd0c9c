package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/benkyoapp/nihongo-api/internal/content"
	"github.com/benkyoapp/nihongo-api/internal/domain"
	"github.com/benkyoapp/nihongo-api/internal/domain/achievement"
	"github.com/benkyoapp/nihongo-api/internal/domain/progression"
	"github.com/benkyoapp/nihongo-api/internal/domain/srs"
	"github.com/benkyoapp/nihongo-api/internal/events"
	"github.com/benkyoapp/nihongo-api/internal/platform/logger"
	"github.com/benkyoapp/nihongo-api/internal/store"
)

// Verify interface compliance at compile time
var _ ProgressService = (*progressServiceImpl)(nil)

// progressServiceImpl implements the ProgressService interface.
type progressServiceImpl struct {
	db           *sql.DB
	profileStore store.ProfileStore
	srsService   srs.Service
	emitter      events.EventEmitter
	logger       *slog.Logger
	timeFunc     func() time.Time // Injectable for testing
	runTx        func(ctx context.Context, fn store.TxFn) error
}

// NewProgressService creates a new ProgressService implementation.
// The emitter may be nil, in which case no events are published.
func NewProgressService(
	db *sql.DB,
	profileStore store.ProfileStore,
	srsService srs.Service,
	emitter events.EventEmitter,
	logger *slog.Logger,
) ProgressService {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if profileStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("profileStore cannot be nil")
	}
	if srsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("srsService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &progressServiceImpl{
		db:           db,
		profileStore: profileStore,
		srsService:   srsService,
		emitter:      emitter,
		logger:       logger.With(slog.String("component", "progress_service")),
		timeFunc:     time.Now,
	}
	s.runTx = func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, s.db, fn)
	}
	return s
}

// getOrCreateLocked loads the learner's profile with a row lock inside
// the current transaction, creating a default profile if none exists.
// A freshly created row is already owned by the transaction, so no
// extra lock is needed.
func getOrCreateLocked(
	ctx context.Context,
	txStore store.ProfileStore,
	learnerID uuid.UUID,
) (*domain.LearnerProfile, error) {
	profile, err := txStore.GetForUpdate(ctx, learnerID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile, err = domain.NewLearnerProfile(learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to build default profile: %w", err)
	}
	if err := txStore.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create default profile: %w", err)
	}
	return profile, nil
}

// dedupeOutcomes drops outcomes whose item key already appeared
// earlier in the batch. The first occurrence wins.
func dedupeOutcomes(outcomes []QuizOutcome) []QuizOutcome {
	seen := make(map[string]struct{}, len(outcomes))
	deduped := make([]QuizOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		if _, dup := seen[o.ItemKey]; dup {
			continue
		}
		seen[o.ItemKey] = struct{}{}
		deduped = append(deduped, o)
	}
	return deduped
}

// ApplyQuizResults implements ProgressService.ApplyQuizResults.
func (s *progressServiceImpl) ApplyQuizResults(
	ctx context.Context,
	learnerID uuid.UUID,
	category domain.Category,
	outcomes []QuizOutcome,
	xpAward int,
) (*QuizResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !category.IsValid() {
		log.Warn("quiz batch with unknown category",
			slog.String("learner_id", learnerID.String()),
			slog.String("category", string(category)))
		return nil, ErrInvalidCategory
	}
	if xpAward < 0 {
		return nil, ErrNegativeAward
	}
	for _, o := range outcomes {
		if o.ItemKey == "" {
			return nil, ErrEmptyItemKey
		}
	}

	deduped := dedupeOutcomes(outcomes)
	now := s.timeFunc().UTC()

	log.Debug("applying quiz results",
		slog.String("learner_id", learnerID.String()),
		slog.String("category", string(category)),
		slog.Int("outcome_count", len(deduped)),
		slog.Int("xp_award", xpAward))

	var result *QuizResult
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.profileStore.WithTx(tx)

		profile, err := getOrCreateLocked(ctx, txStore, learnerID)
		if err != nil {
			return err
		}

		oldLevel := profile.Level

		for _, o := range deduped {
			item := profile.Mastery(category)[o.ItemKey]
			updated := s.srsService.Review(item, o.Correct, now)
			if err := profile.SetMasteryItem(category, o.ItemKey, updated); err != nil {
				return fmt.Errorf("failed to record mastery update: %w", err)
			}
		}

		progression.Grant(profile, xpAward, now)

		unlocked := achievement.Evaluate(profile, now)
		profile.AddAchievements(unlocked)

		if err := txStore.Update(ctx, profile); err != nil {
			return fmt.Errorf("failed to persist profile: %w", err)
		}

		result = &QuizResult{
			Profile:              profile,
			XPAwarded:            xpAward,
			LeveledUp:            profile.Level > oldLevel,
			UnlockedAchievements: unlocked,
		}
		return nil
	})
	if err != nil {
		log.Error("failed to apply quiz results",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()),
			slog.String("category", string(category)))
		return nil, err
	}

	log.Info("quiz results applied",
		slog.String("learner_id", learnerID.String()),
		slog.String("category", string(category)),
		slog.Int("outcome_count", len(deduped)),
		slog.Int("xp_awarded", result.XPAwarded),
		slog.Bool("leveled_up", result.LeveledUp),
		slog.Int("achievements_unlocked", len(result.UnlockedAchievements)))

	// Events fan out only after the transaction commits so handlers
	// never observe state that later rolls back.
	s.publishEvents(ctx, learnerID, result)

	return result, nil
}

// publishEvents emits level-up and achievement-unlock events for an
// applied quiz batch. Emission failures are logged, not returned: the
// profile update has already committed.
func (s *progressServiceImpl) publishEvents(ctx context.Context, learnerID uuid.UUID, result *QuizResult) {
	if s.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	if result.LeveledUp {
		event, err := events.NewProgressEvent(events.EventTypeLevelUp, learnerID, events.LevelUpPayload{
			OldLevel: result.Profile.Level - 1,
			NewLevel: result.Profile.Level,
		})
		if err == nil {
			err = s.emitter.EmitEvent(ctx, event)
		}
		if err != nil {
			log.Warn("failed to emit level-up event",
				slog.String("error", err.Error()),
				slog.String("learner_id", learnerID.String()))
		}
	}

	if len(result.UnlockedAchievements) > 0 {
		event, err := events.NewProgressEvent(
			events.EventTypeAchievementUnlocked,
			learnerID,
			events.AchievementUnlockedPayload{AchievementIDs: result.UnlockedAchievements},
		)
		if err == nil {
			err = s.emitter.EmitEvent(ctx, event)
		}
		if err != nil {
			log.Warn("failed to emit achievement event",
				slog.String("error", err.Error()),
				slog.String("learner_id", learnerID.String()))
		}
	}
}

// GetProfile implements ProgressService.GetProfile.
func (s *progressServiceImpl) GetProfile(
	ctx context.Context,
	learnerID uuid.UUID,
) (*domain.LearnerProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := s.profileStore.Get(ctx, learnerID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		log.Error("failed to get profile",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, err
	}

	// First read for this learner: materialize the default profile so
	// subsequent writes have a row to lock.
	var created *domain.LearnerProfile
	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var txErr error
		created, txErr = getOrCreateLocked(ctx, s.profileStore.WithTx(tx), learnerID)
		return txErr
	})
	if err != nil {
		log.Error("failed to create default profile",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, err
	}

	log.Info("default profile created",
		slog.String("learner_id", learnerID.String()))
	return created, nil
}

// Summary implements ProgressService.Summary.
func (s *progressServiceImpl) Summary(
	ctx context.Context,
	learnerID uuid.UUID,
	now time.Time,
) (*ProfileSummary, error) {
	profile, err := s.GetProfile(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	// Word and sentence ledgers are open-ended, so they carry no total.
	totals := map[domain.Category]int{
		domain.CategoryHiragana: len(content.Hiragana),
		domain.CategoryKatakana: len(content.Katakana),
		domain.CategoryKanji:    len(content.StarterKanji),
	}

	categories := make(map[domain.Category]CategorySummary, len(domain.Categories()))
	for _, c := range domain.Categories() {
		ledger := profile.Mastery(c)
		categories[c] = CategorySummary{
			Learned:  ledger.LearnedCount(),
			Mastered: ledger.MasteredCount(),
			Total:    totals[c],
			Due:      len(ledger.DueKeys(now)),
		}
	}

	return &ProfileSummary{
		Level:        profile.Level,
		XP:           profile.XP,
		Streak:       achievement.CurrentStreak(profile.DailyProgress, now),
		Achievements: len(profile.Achievements),
		Categories:   categories,
	}, nil
}

// DueItems implements ProgressService.DueItems.
func (s *progressServiceImpl) DueItems(
	ctx context.Context,
	learnerID uuid.UUID,
	now time.Time,
) (map[domain.Category][]string, error) {
	profile, err := s.GetProfile(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	due := make(map[domain.Category][]string)
	for _, c := range domain.Categories() {
		if keys := profile.Mastery(c).DueKeys(now); len(keys) > 0 {
			due[c] = keys
		}
	}
	return due, nil
}

// CompleteOnboarding implements ProgressService.CompleteOnboarding.
func (s *progressServiceImpl) CompleteOnboarding(
	ctx context.Context,
	learnerID uuid.UUID,
) (*domain.LearnerProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.LearnerProfile
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.profileStore.WithTx(tx)

		profile, err := getOrCreateLocked(ctx, txStore, learnerID)
		if err != nil {
			return err
		}

		if !profile.HasCompletedOnboarding {
			profile.HasCompletedOnboarding = true
			if err := txStore.Update(ctx, profile); err != nil {
				return fmt.Errorf("failed to persist profile: %w", err)
			}
		}

		updated = profile
		return nil
	})
	if err != nil {
		log.Error("failed to complete onboarding",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, err
	}

	return updated, nil
}

// ResetProfile implements ProgressService.ResetProfile.
func (s *progressServiceImpl) ResetProfile(
	ctx context.Context,
	learnerID uuid.UUID,
) (*domain.LearnerProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc().UTC()

	var updated *domain.LearnerProfile
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.profileStore.WithTx(tx)

		profile, err := getOrCreateLocked(ctx, txStore, learnerID)
		if err != nil {
			return err
		}

		profile.Reset(now)
		if err := txStore.Update(ctx, profile); err != nil {
			return fmt.Errorf("failed to persist profile: %w", err)
		}

		updated = profile
		return nil
	})
	if err != nil {
		log.Error("failed to reset profile",
			slog.String("error", err.Error()),
			slog.String("learner_id", learnerID.String()))
		return nil, err
	}

	log.Info("profile reset",
		slog.String("learner_id", learnerID.String()))
	return updated, nil
}
