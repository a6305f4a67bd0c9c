package srs

import (
	"time"

	"github.com/benkyoapp/nihongo-api/internal/domain"
)

// Service defines the interface for review scheduling operations.
// All operations are pure and total: they never fail and never modify
// their inputs.
type Service interface {
	// Schedule computes the new mastery level and the delay in hours
	// before the next review for one graded answer.
	Schedule(currentLevel int, correct bool) (newLevel int, delayHours int)

	// Review computes the updated mastery record for one graded
	// answer, stamping the review at the given instant.
	Review(item domain.MasteryItem, correct bool, now time.Time) domain.MasteryItem
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduler with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a scheduler with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Schedule implements the Service interface.
func (s *defaultService) Schedule(currentLevel int, correct bool) (int, int) {
	newLevel := calculateNewLevel(currentLevel, correct, s.params)
	return newLevel, reviewDelayHours(newLevel, s.params)
}

// Review implements the Service interface.
func (s *defaultService) Review(
	item domain.MasteryItem,
	correct bool,
	now time.Time,
) domain.MasteryItem {
	return calculateNextItem(item, correct, now, s.params)
}
