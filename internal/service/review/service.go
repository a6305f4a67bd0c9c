// Package review provides the progression service: it grades quiz
// batches against the mastery ledgers, schedules the next review for
// each item, awards XP, and evaluates achievements, persisting every
// submission as a single atomic profile update.
package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/benkyoapp/nihongo-api/internal/domain"
)

// QuizOutcome is one graded answer within a quiz batch.
type QuizOutcome struct {
	// ItemKey identifies the reviewed item within its category
	// (a kana character, kanji, word, or sentence key).
	ItemKey string `json:"item_key"`

	// Correct reports whether the learner answered correctly.
	Correct bool `json:"correct"`
}

// QuizResult describes the effect of one applied quiz batch.
type QuizResult struct {
	// Profile is the learner's profile after the batch was applied.
	Profile *domain.LearnerProfile

	// XPAwarded is the XP granted for this batch.
	XPAwarded int

	// LeveledUp reports whether the award crossed a level boundary.
	LeveledUp bool

	// UnlockedAchievements lists achievement IDs newly unlocked by
	// this batch, in catalog order.
	UnlockedAchievements []string
}

// CategorySummary aggregates one mastery ledger for display.
type CategorySummary struct {
	Learned  int `json:"learned"`
	Mastered int `json:"mastered"`
	Total    int `json:"total,omitempty"`
	Due      int `json:"due"`
}

// ProfileSummary is the condensed progression overview for a learner.
type ProfileSummary struct {
	Level        int                                `json:"level"`
	XP           int                                `json:"xp"`
	Streak       int                                `json:"streak"`
	Achievements int                                `json:"achievements"`
	Categories   map[domain.Category]CategorySummary `json:"categories"`
}

// ProgressService provides operations over a learner's progression
// profile: applying quiz results, achievement evaluation, and reads.
type ProgressService interface {
	// ApplyQuizResults applies one graded quiz batch to the learner's
	// profile: each outcome reschedules its mastery item, the batch
	// grants xpAward experience points, and achievements are
	// re-evaluated. Duplicate item keys within the batch are ignored
	// after the first occurrence. The whole update commits atomically;
	// on error the profile is unchanged.
	//
	// A missing profile is created with defaults first, so a learner's
	// very first submission succeeds. An empty batch with a zero award
	// is a no-op that still returns the current profile.
	ApplyQuizResults(
		ctx context.Context,
		learnerID uuid.UUID,
		category domain.Category,
		outcomes []QuizOutcome,
		xpAward int,
	) (*QuizResult, error)

	// GetProfile returns the learner's profile, creating one with
	// default values if none exists yet.
	GetProfile(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error)

	// Summary returns the condensed progression overview.
	Summary(ctx context.Context, learnerID uuid.UUID, now time.Time) (*ProfileSummary, error)

	// DueItems returns, per category, the keys of items whose next
	// review is at or before now. Categories with nothing due are
	// omitted.
	DueItems(ctx context.Context, learnerID uuid.UUID, now time.Time) (map[domain.Category][]string, error)

	// CompleteOnboarding marks the learner's onboarding as finished.
	CompleteOnboarding(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error)

	// ResetProfile discards all progression state for the learner,
	// restoring a default profile while preserving identity fields.
	ResetProfile(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error)
}

// Common error types for ProgressService
var (
	// ErrInvalidCategory indicates the quiz batch named an unknown
	// mastery category.
	ErrInvalidCategory = errors.New("invalid mastery category")

	// ErrEmptyItemKey indicates a quiz outcome with an empty item key.
	ErrEmptyItemKey = errors.New("quiz outcome has empty item key")

	// ErrNegativeAward indicates a negative XP award was provided.
	ErrNegativeAward = errors.New("xp award cannot be negative")
)
