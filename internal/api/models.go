package api

import (
	"github.com/google/uuid"

	"github.com/benkyoapp/nihongo-api/internal/service/review"
)

// Common request/response structures

// RegisterRequest defines the payload for the learner registration endpoint.
type RegisterRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=12,max=72"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

// LoginRequest defines the payload for the learner login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// LearnerID is the unique identifier for the authenticated learner
	LearnerID uuid.UUID `json:"learner_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	// AccessToken is the new JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the new JWT token used to obtain future access tokens
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// QuizOutcomePayload is one graded answer within a quiz submission.
type QuizOutcomePayload struct {
	ItemKey string `json:"item_key" validate:"required"`
	Correct bool   `json:"correct"`
}

// QuizResultsRequest defines the payload for the quiz results endpoint.
// When XPAward is omitted, the award is derived from the batch's
// correct/incorrect counts.
type QuizResultsRequest struct {
	Category string               `json:"category" validate:"required"`
	Outcomes []QuizOutcomePayload `json:"outcomes" validate:"dive"`
	XPAward  *int                 `json:"xp_award,omitempty" validate:"omitempty,min=0"`
}

// QuizResultsResponse defines the successful response for the quiz
// results endpoint.
type QuizResultsResponse struct {
	Level                int      `json:"level"`
	XP                   int      `json:"xp"`
	XPAwarded            int      `json:"xp_awarded"`
	LeveledUp            bool     `json:"leveled_up"`
	UnlockedAchievements []string `json:"unlocked_achievements"`
}

// AchievementPayload describes one achievement definition, flagged
// with whether the requesting learner has unlocked it.
type AchievementPayload struct {
	ID             string `json:"id"`
	NameKey        string `json:"name_key"`
	DescriptionKey string `json:"description_key"`
	Icon           string `json:"icon"`
	Unlocked       bool   `json:"unlocked"`
}

// DueReviewsResponse defines the response for the due reviews endpoint.
type DueReviewsResponse struct {
	Due map[string][]string `json:"due"`
}

// SummaryResponse wraps the progression summary.
type SummaryResponse struct {
	Summary *review.ProfileSummary `json:"summary"`
}
