package achievement

import (
	"sort"
	"time"

	"github.com/benkyoapp/nihongo-api/internal/domain"
)

// HasStreak reports whether the learner's current streak spans at
// least n consecutive days. A distinct-date count below n fails
// immediately without computing the streak.
func HasStreak(entries []domain.DailyProgress, n int, now time.Time) bool {
	if n <= 0 {
		return true
	}

	distinct := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		distinct[e.Date] = struct{}{}
	}
	if len(distinct) < n {
		return false
	}

	return CurrentStreak(entries, now) >= n
}

// CurrentStreak returns the length of the learner's current run of
// consecutive active calendar days ending at the most recent activity
// date. A streak only counts as current when that date is today or
// yesterday relative to now; otherwise the streak is broken and the
// result is 0.
func CurrentStreak(entries []domain.DailyProgress, now time.Time) int {
	if len(entries) == 0 {
		return 0
	}

	// Distinct activity dates, most recent first. Dates that fail to
	// parse are skipped rather than breaking evaluation.
	seen := make(map[string]struct{}, len(entries))
	dates := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Date]; dup {
			continue
		}
		seen[e.Date] = struct{}{}

		d, err := time.Parse(domain.ProgressDateLayout, e.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return 0
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	today, err := time.Parse(domain.ProgressDateLayout, domain.ProgressDate(now))
	if err != nil {
		return 0
	}

	// The run must reach into today or yesterday to still be alive.
	latest := dates[0]
	if latest.Before(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 1
	for i := 1; i < len(dates); i++ {
		if dates[i-1].Sub(dates[i]) == 24*time.Hour {
			streak++
			continue
		}
		break
	}
	return streak
}
