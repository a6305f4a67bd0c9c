package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for learner profiles.
var (
	ErrEmptyProfileLearnerID = errors.New("profile learner ID cannot be empty")
	ErrInvalidLevel          = errors.New("level must be at least 1")
	ErrInvalidXP             = errors.New("xp must be in [0, xp-per-level)")
	ErrDuplicateProgressDate = errors.New("daily progress contains duplicate dates")
)

// XPPerLevel is the fixed XP threshold for advancing one level.
// A profile's XP field always holds XP earned toward the current level,
// never cumulative lifetime XP.
const XPPerLevel = 100

// LearnerProfile is the aggregate root for one learner's study state:
// level and XP, the five mastery ledgers, unlocked achievements, daily
// progress history, and the onboarding flag.
//
// A profile is mutated exclusively through the review service's
// apply-quiz-results, complete-onboarding, and reset operations; every
// mutation is persisted as a whole-object replacement.
type LearnerProfile struct {
	LearnerID   uuid.UUID `json:"learner_id"`
	DisplayName string    `json:"display_name"`
	AvatarRef   string    `json:"avatar_ref"`

	Level int `json:"level"`
	XP    int `json:"xp"`

	HiraganaMastery CharacterMastery `json:"hiragana_mastery"`
	KatakanaMastery CharacterMastery `json:"katakana_mastery"`
	KanjiMastery    CharacterMastery `json:"kanji_mastery"`
	WordMastery     CharacterMastery `json:"word_mastery"`
	SentenceMastery CharacterMastery `json:"sentence_mastery"`

	Achievements  []string        `json:"achievements"`
	DailyProgress []DailyProgress `json:"daily_progress"`

	HasCompletedOnboarding bool `json:"has_completed_onboarding"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLearnerProfile creates a fresh profile for a learner: level 1,
// zero XP, empty mastery maps, no achievements, no daily progress, and
// onboarding not completed.
func NewLearnerProfile(learnerID uuid.UUID) (*LearnerProfile, error) {
	now := time.Now().UTC()
	profile := &LearnerProfile{
		LearnerID:       learnerID,
		Level:           1,
		XP:              0,
		HiraganaMastery: make(CharacterMastery),
		KatakanaMastery: make(CharacterMastery),
		KanjiMastery:    make(CharacterMastery),
		WordMastery:     make(CharacterMastery),
		SentenceMastery: make(CharacterMastery),
		Achievements:    make([]string, 0),
		DailyProgress:   make([]DailyProgress, 0),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Validate checks if the LearnerProfile has valid data.
// Returns an error if any field fails validation.
func (p *LearnerProfile) Validate() error {
	if p.LearnerID == uuid.Nil {
		return ErrEmptyProfileLearnerID
	}

	if p.Level < 1 {
		return ErrInvalidLevel
	}

	if p.XP < 0 || p.XP >= XPPerLevel {
		return ErrInvalidXP
	}

	for _, cat := range Categories() {
		for _, item := range p.Mastery(cat) {
			if err := item.Validate(); err != nil {
				return err
			}
		}
	}

	seen := make(map[string]struct{}, len(p.DailyProgress))
	for _, dp := range p.DailyProgress {
		if _, dup := seen[dp.Date]; dup {
			return ErrDuplicateProgressDate
		}
		seen[dp.Date] = struct{}{}
	}

	return nil
}

// Mastery returns the ledger for the given category. The returned map
// is the profile's own: writes through it mutate the profile.
// Returns nil for an invalid category.
func (p *LearnerProfile) Mastery(c Category) CharacterMastery {
	switch c {
	case CategoryHiragana:
		return p.HiraganaMastery
	case CategoryKatakana:
		return p.KatakanaMastery
	case CategoryKanji:
		return p.KanjiMastery
	case CategoryWord:
		return p.WordMastery
	case CategorySentence:
		return p.SentenceMastery
	default:
		return nil
	}
}

// SetMasteryItem writes one mastery record into the named category's
// ledger, replacing any prior entry for the key.
// Returns ErrInvalidCategory for unknown categories and
// ErrMasteryKeyEmpty for an empty key.
func (p *LearnerProfile) SetMasteryItem(c Category, key string, item MasteryItem) error {
	if key == "" {
		return ErrMasteryKeyEmpty
	}
	ledger := p.Mastery(c)
	if ledger == nil {
		return ErrInvalidCategory
	}
	ledger[key] = item
	return nil
}

// HasAchievement reports whether the achievement id has been unlocked.
func (p *LearnerProfile) HasAchievement(id string) bool {
	for _, existing := range p.Achievements {
		if existing == id {
			return true
		}
	}
	return false
}

// AddAchievements merges newly unlocked ids into the profile's
// achievement set. The set only grows: ids already held are no-ops.
func (p *LearnerProfile) AddAchievements(ids []string) {
	for _, id := range ids {
		if !p.HasAchievement(id) {
			p.Achievements = append(p.Achievements, id)
		}
	}
}

// Reset reinitializes every field except identity to creation defaults:
// empty mastery maps, level 1, zero XP, no achievements, no daily
// progress, onboarding not completed.
func (p *LearnerProfile) Reset(now time.Time) {
	p.Level = 1
	p.XP = 0
	p.HiraganaMastery = make(CharacterMastery)
	p.KatakanaMastery = make(CharacterMastery)
	p.KanjiMastery = make(CharacterMastery)
	p.WordMastery = make(CharacterMastery)
	p.SentenceMastery = make(CharacterMastery)
	p.Achievements = make([]string, 0)
	p.DailyProgress = make([]DailyProgress, 0)
	p.HasCompletedOnboarding = false
	p.UpdatedAt = now
}

// Normalize replaces nil collections with empty ones. Profiles decoded
// from JSON may carry nil maps or slices; callers normalize before
// mutating so writes through Mastery never hit a nil map.
func (p *LearnerProfile) Normalize() {
	if p.HiraganaMastery == nil {
		p.HiraganaMastery = make(CharacterMastery)
	}
	if p.KatakanaMastery == nil {
		p.KatakanaMastery = make(CharacterMastery)
	}
	if p.KanjiMastery == nil {
		p.KanjiMastery = make(CharacterMastery)
	}
	if p.WordMastery == nil {
		p.WordMastery = make(CharacterMastery)
	}
	if p.SentenceMastery == nil {
		p.SentenceMastery = make(CharacterMastery)
	}
	if p.Achievements == nil {
		p.Achievements = make([]string, 0)
	}
	if p.DailyProgress == nil {
		p.DailyProgress = make([]DailyProgress, 0)
	}
}
