package domain

import "time"

// ProgressDateLayout is the calendar-date key format used for daily
// progress records: learner-local date, no time of day.
const ProgressDateLayout = "2006-01-02"

// DailyProgress records the cumulative XP a learner earned on one
// calendar date. At most one record exists per date; only the current
// date's total is ever mutated.
type DailyProgress struct {
	Date string `json:"date"` // YYYY-MM-DD
	XP   int    `json:"xp"`
}

// ProgressDate formats an instant as a daily-progress date key.
func ProgressDate(t time.Time) string {
	return t.Format(ProgressDateLayout)
}
