package srs

import (
	"time"

	"github.com/benkyoapp/nihongo-api/internal/domain"
)

// calculateNewLevel determines the new mastery level after one graded
// answer. A correct answer moves the item one level up, an incorrect
// answer moves it params.DecayStep levels down; the result is always
// clamped to [0, params.MaxLevel].
func calculateNewLevel(currentLevel int, correct bool, params *Params) int {
	var newLevel int
	if correct {
		newLevel = currentLevel + 1
	} else {
		newLevel = currentLevel - params.DecayStep
	}

	if newLevel < domain.MinMasteryLevel {
		newLevel = domain.MinMasteryLevel
	}
	if newLevel > params.MaxLevel {
		newLevel = params.MaxLevel
	}

	return newLevel
}

// reviewDelayHours looks up the delay before the next review for the
// given level. Levels missing from the table map to 0 (due
// immediately), matching the level-0 semantics.
func reviewDelayHours(level int, params *Params) int {
	return params.ReviewDelayHours[level]
}

// calculateNextItem produces the updated mastery record for one graded
// answer: new level, last-reviewed set to now, and next-review derived
// from the delay table at the new level. The input item is not
// modified.
func calculateNextItem(
	item domain.MasteryItem,
	correct bool,
	now time.Time,
	params *Params,
) domain.MasteryItem {
	newLevel := calculateNewLevel(item.Level, correct, params)
	nextReview := now.Add(time.Duration(reviewDelayHours(newLevel, params)) * time.Hour)

	reviewed := now
	return domain.MasteryItem{
		Level:        newLevel,
		LastReviewed: &reviewed,
		NextReview:   &nextReview,
	}
}
