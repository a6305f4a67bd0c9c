package progression

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benkyoapp/nihongo-api/internal/domain"
)

func TestApplyXP(t *testing.T) {
	t.Parallel() // Enable parallel execution

	testCases := []struct {
		name      string
		level     int
		xp        int
		amount    int
		wantLevel int
		wantXP    int
	}{
		{"small award stays within level", 1, 0, 10, 1, 10},
		{"award exactly at threshold rolls over", 1, 90, 10, 2, 0},
		{"rollover carries remainder", 1, 95, 10, 2, 5},
		{"large award skips multiple levels", 1, 0, 250, 3, 50},
		{"zero amount is a no-op", 3, 40, 0, 3, 40},
		{"negative amount is a no-op", 3, 40, -50, 3, 40},
		{"award from higher level", 4, 99, 1, 5, 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			level, xp := ApplyXP(tc.level, tc.xp, tc.amount)
			assert.Equal(t, tc.wantLevel, level)
			assert.Equal(t, tc.wantXP, xp)
		})
	}
}

func TestLessonAward(t *testing.T) {
	t.Parallel()

	assert.Equal(t, XPPerLesson, LessonAward(7, 3))
	assert.Equal(t, 0, LessonAward(5, 5), "tie earns nothing")
	assert.Equal(t, 0, LessonAward(2, 8))
	assert.Equal(t, XPPerLesson, LessonAward(1, 0))
	assert.Equal(t, 0, LessonAward(0, 0), "empty batch earns nothing")
}

func TestRecordDaily(t *testing.T) {
	t.Parallel()

	t.Run("appends a new date entry", func(t *testing.T) {
		t.Parallel()
		entries := RecordDaily(nil, "2025-03-01", 10)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.DailyProgress{Date: "2025-03-01", XP: 10}, entries[0])
	})

	t.Run("increments an existing date in place", func(t *testing.T) {
		t.Parallel()
		entries := []domain.DailyProgress{{Date: "2025-03-01", XP: 10}}
		entries = RecordDaily(entries, "2025-03-01", 15)
		require.Len(t, entries, 1)
		assert.Equal(t, 25, entries[0].XP)
	})

	t.Run("preserves insertion order across dates", func(t *testing.T) {
		t.Parallel()
		entries := []domain.DailyProgress{{Date: "2025-03-01", XP: 10}}
		entries = RecordDaily(entries, "2025-03-02", 20)
		entries = RecordDaily(entries, "2025-03-01", 5)
		require.Len(t, entries, 2)
		assert.Equal(t, "2025-03-01", entries[0].Date)
		assert.Equal(t, 15, entries[0].XP)
		assert.Equal(t, "2025-03-02", entries[1].Date)
	})

	t.Run("zero and negative amounts record nothing", func(t *testing.T) {
		t.Parallel()
		entries := RecordDaily(nil, "2025-03-01", 0)
		assert.Empty(t, entries)
		entries = RecordDaily(entries, "2025-03-01", -5)
		assert.Empty(t, entries)
	})
}

func TestGrant(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)

	t.Run("applies XP and records the day", func(t *testing.T) {
		t.Parallel()
		profile, err := domain.NewLearnerProfile(uuid.New())
		require.NoError(t, err)
		profile.Level = 1
		profile.XP = 95

		Grant(profile, 10, now)

		assert.Equal(t, 2, profile.Level)
		assert.Equal(t, 5, profile.XP)
		require.Len(t, profile.DailyProgress, 1)
		assert.Equal(t, "2025-03-01", profile.DailyProgress[0].Date)
		assert.Equal(t, 10, profile.DailyProgress[0].XP)
	})

	t.Run("zero award leaves the profile untouched", func(t *testing.T) {
		t.Parallel()
		profile, err := domain.NewLearnerProfile(uuid.New())
		require.NoError(t, err)

		Grant(profile, 0, now)

		assert.Equal(t, 1, profile.Level)
		assert.Equal(t, 0, profile.XP)
		assert.Empty(t, profile.DailyProgress)
	})

	t.Run("same-day grants accumulate in one entry", func(t *testing.T) {
		t.Parallel()
		profile, err := domain.NewLearnerProfile(uuid.New())
		require.NoError(t, err)

		Grant(profile, 10, now)
		Grant(profile, 10, now.Add(30*time.Minute))

		require.Len(t, profile.DailyProgress, 1)
		assert.Equal(t, 20, profile.DailyProgress[0].XP)
		assert.NoError(t, profile.Validate())
	})
}
