package srs

import "github.com/benkyoapp/nihongo-api/internal/domain"

// Params defines all configurable parameters for the review scheduler.
type Params struct {
	// MaxLevel is the highest mastery level an item can reach.
	MaxLevel int

	// DecayStep is how many levels an item drops on an incorrect
	// answer. The default is 2: a miss costs more than one correct
	// answer earns, which pulls shaky items back into rotation faster.
	DecayStep int

	// ReviewDelayHours maps a mastery level to the delay before the
	// item is next due. Level 0 maps to 0: due immediately.
	ReviewDelayHours map[int]int
}

// ParamsConfig allows overriding the default parameters when creating
// a new Params instance. Zero values leave the default in place.
type ParamsConfig struct {
	MaxLevel         int
	DecayStep        int
	ReviewDelayHours map[int]int
}

// NewDefaultParams creates a new Params instance with default values.
// The delay table grows from hours to months as mastery increases:
// 4h, 8h, 1 day, 3 days, 1 week, 2 weeks, 1 month, 3 months.
func NewDefaultParams() *Params {
	return &Params{
		MaxLevel:  domain.MaxMasteryLevel,
		DecayStep: 2,
		ReviewDelayHours: map[int]int{
			0: 0,
			1: 4,
			2: 8,
			3: 24,
			4: 72,
			5: 168,
			6: 336,
			7: 720,
			8: 2160,
		},
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MaxLevel > 0 {
		params.MaxLevel = config.MaxLevel
	}
	if config.DecayStep > 0 {
		params.DecayStep = config.DecayStep
	}
	if config.ReviewDelayHours != nil {
		params.ReviewDelayHours = config.ReviewDelayHours
	}

	return params
}
