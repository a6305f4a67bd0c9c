package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the progression services.
const (
	// EventTypeAchievementUnlocked is emitted when a quiz submission
	// causes one or more achievements to unlock.
	EventTypeAchievementUnlocked = "achievement_unlocked"

	// EventTypeLevelUp is emitted when awarded XP pushes a learner
	// past a level boundary.
	EventTypeLevelUp = "level_up"
)

// ProgressEvent represents a notable change in a learner's progression,
// such as an achievement unlock or a level-up. It carries the change as
// an opaque payload so consumers (notification fan-out, analytics) have
// no direct dependency on the service layer.
type ProgressEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what kind of progression change occurred
	Type string `json:"type"`

	// LearnerID identifies the learner whose progression changed
	LearnerID uuid.UUID `json:"learner_id"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *ProgressEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewProgressEvent creates a new ProgressEvent with the specified type and payload.
func NewProgressEvent(eventType string, learnerID uuid.UUID, payload interface{}) (*ProgressEvent, error) {
	// Serialize the payload to JSON
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &ProgressEvent{
		ID:        uuid.New(),
		Type:      eventType,
		LearnerID: learnerID,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// AchievementUnlockedPayload is the payload for EventTypeAchievementUnlocked.
type AchievementUnlockedPayload struct {
	AchievementIDs []string `json:"achievement_ids"`
}

// LevelUpPayload is the payload for EventTypeLevelUp.
type LevelUpPayload struct {
	OldLevel int `json:"old_level"`
	NewLevel int `json:"new_level"`
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ProgressEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *ProgressEvent) error
}
