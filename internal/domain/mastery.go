package domain

import (
	"errors"
	"time"
)

// Mastery level bounds. Level 0 means unseen or reset; MaxMasteryLevel
// is full mastery with the longest review interval.
const (
	MinMasteryLevel = 0
	MaxMasteryLevel = 8
)

// Common validation errors for mastery records.
var (
	ErrMasteryLevelOutOfRange = errors.New("mastery level must be between 0 and 8")
	ErrMasteryKeyEmpty        = errors.New("mastery item key cannot be empty")
)

// MasteryItem tracks how well a learner knows a single study item.
// NextReview is derived from LastReviewed and the review interval for
// Level at the time of the last update; it is never recomputed
// retroactively when interval tables change.
type MasteryItem struct {
	Level        int        `json:"level"`
	LastReviewed *time.Time `json:"last_reviewed"`
	NextReview   *time.Time `json:"next_review"`
}

// Validate checks that the MasteryItem has valid data.
func (m MasteryItem) Validate() error {
	if m.Level < MinMasteryLevel || m.Level > MaxMasteryLevel {
		return ErrMasteryLevelOutOfRange
	}
	return nil
}

// Due reports whether the item is due for review at the given instant.
// An item that has never been reviewed is always due.
func (m MasteryItem) Due(now time.Time) bool {
	if m.NextReview == nil {
		return true
	}
	return !m.NextReview.After(now)
}

// CharacterMastery maps an item key (a character, romanized token, or
// compound identifier) to its mastery record. Keys are unique within
// one category; iteration order is not significant.
type CharacterMastery map[string]MasteryItem

// LearnedCount returns the number of items with a level above zero.
func (cm CharacterMastery) LearnedCount() int {
	n := 0
	for _, item := range cm {
		if item.Level > MinMasteryLevel {
			n++
		}
	}
	return n
}

// MasteredCount returns the number of items at the maximum level.
func (cm CharacterMastery) MasteredCount() int {
	n := 0
	for _, item := range cm {
		if item.Level == MaxMasteryLevel {
			n++
		}
	}
	return n
}

// DueKeys returns the keys of all items due for review at the given
// instant. Order is unspecified.
func (cm CharacterMastery) DueKeys(now time.Time) []string {
	keys := make([]string, 0)
	for key, item := range cm {
		if item.Due(now) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Clone returns a deep copy of the mastery map. A nil map clones to an
// empty, non-nil map so callers can write to the result.
func (cm CharacterMastery) Clone() CharacterMastery {
	out := make(CharacterMastery, len(cm))
	for key, item := range cm {
		out[key] = item
	}
	return out
}
