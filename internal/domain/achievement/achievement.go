// Package achievement implements the declarative achievement catalog
// and its evaluator. Each achievement pairs an identifier with a pure
// predicate over the learner profile; the evaluator runs every
// predicate not already satisfied against a post-mutation snapshot and
// reports the newly unlocked ids.
package achievement

import (
	"time"

	"github.com/benkyoapp/nihongo-api/internal/content"
	"github.com/benkyoapp/nihongo-api/internal/domain"
)

// Condition is a pure, side-effect-free predicate over a profile
// snapshot. The evaluation instant is passed in so time-dependent
// predicates (streaks) stay deterministic under test. Conditions must
// not mutate the profile and must not depend on evaluation order.
type Condition func(p *domain.LearnerProfile, now time.Time) bool

// Achievement is one entry of the static catalog. Name and description
// are localization keys; rendering them is the UI's concern.
type Achievement struct {
	ID             string
	NameKey        string
	DescriptionKey string
	Icon           string
	Condition      Condition
}

// Catalog returns the full achievement catalog. The catalog is fixed
// at build time and treated as data, not learner state.
func Catalog() []Achievement {
	return []Achievement{
		{
			ID:             "first_steps_h",
			NameKey:        "achievement.first_steps_h.name",
			DescriptionKey: "achievement.first_steps_h.description",
			Icon:           "star",
			Condition: func(p *domain.LearnerProfile, _ time.Time) bool {
				return p.HiraganaMastery.LearnedCount() >= 10
			},
		},
		{
			ID:             "first_steps_k",
			NameKey:        "achievement.first_steps_k.name",
			DescriptionKey: "achievement.first_steps_k.description",
			Icon:           "star",
			Condition: func(p *domain.LearnerProfile, _ time.Time) bool {
				return p.KatakanaMastery.LearnedCount() >= 10
			},
		},
		{
			ID:             "kanji_beginner",
			NameKey:        "achievement.kanji_beginner.name",
			DescriptionKey: "achievement.kanji_beginner.description",
			Icon:           "book-open",
			Condition: func(p *domain.LearnerProfile, _ time.Time) bool {
				return p.KanjiMastery.LearnedCount() >= 5
			},
		},
		{
			ID:             "word_collector",
			NameKey:        "achievement.word_collector.name",
			DescriptionKey: "achievement.word_collector.description",
			Icon:           "book-open",
			Condition: func(p *domain.LearnerProfile, _ time.Time) bool {
				return p.WordMastery.LearnedCount() >= 25
			},
		},
		{
			ID:             "level_5",
			NameKey:        "achievement.level_5.name",
			DescriptionKey: "achievement.level_5.description",
			Icon:           "trophy",
			Condition: func(p *domain.LearnerProfile, _ time.Time) bool {
				return p.Level >= 5
			},
		},
		{
			ID:             "level_10",
			NameKey:        "achievement.level_10.name",
			DescriptionKey: "achievement.level_10.description",
			Icon:           "trophy",
			Condition: func(p *domain.LearnerProfile, _ time.Time) bool {
				return p.Level >= 10
			},
		},
		{
			ID:             "quick_learner",
			NameKey:        "achievement.quick_learner.name",
			DescriptionKey: "achievement.quick_learner.description",
			Icon:           "bolt",
			Condition: func(p *domain.LearnerProfile, _ time.Time) bool {
				for _, dp := range p.DailyProgress {
					if dp.XP >= 100 {
						return true
					}
				}
				return false
			},
		},
		{
			ID:             "consistent",
			NameKey:        "achievement.consistent.name",
			DescriptionKey: "achievement.consistent.description",
			Icon:           "chart-bar",
			Condition: func(p *domain.LearnerProfile, now time.Time) bool {
				return HasStreak(p.DailyProgress, 3, now)
			},
		},
		{
			ID:             "dedicated",
			NameKey:        "achievement.dedicated.name",
			DescriptionKey: "achievement.dedicated.description",
			Icon:           "chart-bar",
			Condition: func(p *domain.LearnerProfile, now time.Time) bool {
				return HasStreak(p.DailyProgress, 7, now)
			},
		},
		{
			ID:             "hiragana_master",
			NameKey:        "achievement.hiragana_master.name",
			DescriptionKey: "achievement.hiragana_master.description",
			Icon:           "academic-cap",
			Condition: func(p *domain.LearnerProfile, _ time.Time) bool {
				return p.HiraganaMastery.LearnedCount() >= len(content.Hiragana)
			},
		},
		{
			ID:             "katakana_master",
			NameKey:        "achievement.katakana_master.name",
			DescriptionKey: "achievement.katakana_master.description",
			Icon:           "academic-cap",
			Condition: func(p *domain.LearnerProfile, _ time.Time) bool {
				return p.KatakanaMastery.LearnedCount() >= len(content.Katakana)
			},
		},
	}
}

// Evaluate runs every catalog predicate not already satisfied by the
// profile's achievement set and returns the ids of newly unlocked
// achievements. The caller merges the result into the profile within
// the same transaction that produced the snapshot.
func Evaluate(p *domain.LearnerProfile, now time.Time) []string {
	unlocked := make([]string, 0)
	for _, ach := range Catalog() {
		if p.HasAchievement(ach.ID) {
			continue
		}
		if ach.Condition(p, now) {
			unlocked = append(unlocked, ach.ID)
		}
	}
	return unlocked
}
