// Package progression implements the experience-point and leveling
// rules: folding XP awards into a learner's level, and aggregating
// per-day XP totals used for streak tracking.
package progression

import (
	"time"

	"github.com/benkyoapp/nihongo-api/internal/domain"
)

// XPPerLesson is the fixed award for a quiz batch in which correct
// answers outnumber incorrect ones.
const XPPerLesson = 10

// ApplyXP folds an XP amount into a (level, xp) pair using the fixed
// per-level threshold. The computation is closed-form rather than a
// subtract-and-increment loop, so arbitrarily large grants resolve in
// constant time. Amounts of zero or less leave the pair unchanged.
func ApplyXP(level, xp, amount int) (newLevel, newXP int) {
	if amount <= 0 {
		return level, xp
	}

	totalXP := (level-1)*domain.XPPerLevel + xp + amount
	return totalXP/domain.XPPerLevel + 1, totalXP % domain.XPPerLevel
}

// LessonAward returns the XP award for a graded quiz batch:
// XPPerLesson if correct answers strictly outnumber incorrect ones,
// zero otherwise.
func LessonAward(correct, incorrect int) int {
	if correct > incorrect {
		return XPPerLesson
	}
	return 0
}

// RecordDaily folds an XP amount into the per-date progress history.
// The entry for the given date is incremented in place if it exists;
// otherwise a new entry is appended, preserving insertion order.
// Zero or negative amounts record nothing.
func RecordDaily(entries []domain.DailyProgress, date string, amount int) []domain.DailyProgress {
	if amount <= 0 {
		return entries
	}

	for i := range entries {
		if entries[i].Date == date {
			entries[i].XP += amount
			return entries
		}
	}

	return append(entries, domain.DailyProgress{Date: date, XP: amount})
}

// Grant applies an XP award to a profile: level and XP roll over via
// ApplyXP, and the award is folded into the daily progress entry for
// the learner-local date of now. A non-positive amount is a no-op.
func Grant(profile *domain.LearnerProfile, amount int, now time.Time) {
	if amount <= 0 {
		return
	}

	profile.Level, profile.XP = ApplyXP(profile.Level, profile.XP, amount)
	profile.DailyProgress = RecordDaily(profile.DailyProgress, domain.ProgressDate(now), amount)
}
