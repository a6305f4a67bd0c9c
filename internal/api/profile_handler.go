package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/benkyoapp/nihongo-api/internal/api/shared"
	"github.com/benkyoapp/nihongo-api/internal/platform/logger"
	"github.com/benkyoapp/nihongo-api/internal/service/review"
)

// ProfileHandler handles learner profile HTTP requests.
type ProfileHandler struct {
	progressService review.ProgressService
	logger          *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(
	progressService review.ProgressService,
	logger *slog.Logger,
) *ProfileHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProfileHandler")
	}

	return &ProfileHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "profile_handler")),
	}
}

// GetProfile handles GET /api/profile requests.
// A missing profile is materialized with defaults, so this never 404s
// for an authenticated learner.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearnerID(w, r)
	if !ok {
		return
	}

	profile, err := h.progressService.GetProfile(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to get profile", err)
		return
	}

	log.Debug("profile retrieved", slog.String("learner_id", learnerID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// GetSummary handles GET /api/profile/summary requests.
func (h *ProfileHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearnerID(w, r)
	if !ok {
		return
	}

	summary, err := h.progressService.Summary(r.Context(), learnerID, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to get summary", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SummaryResponse{Summary: summary})
}

// CompleteOnboarding handles POST /api/profile/onboarding requests.
func (h *ProfileHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearnerID(w, r)
	if !ok {
		return
	}

	profile, err := h.progressService.CompleteOnboarding(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to complete onboarding", err)
		return
	}

	log.Debug("onboarding completed", slog.String("learner_id", learnerID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// ResetProfile handles POST /api/profile/reset requests.
// All progression state is discarded; identity fields survive.
func (h *ProfileHandler) ResetProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearnerID(w, r)
	if !ok {
		return
	}

	profile, err := h.progressService.ResetProfile(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to reset profile", err)
		return
	}

	log.Info("profile reset requested", slog.String("learner_id", learnerID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// GetDueReviews handles GET /api/reviews/due requests.
func (h *ProfileHandler) GetDueReviews(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearnerID(w, r)
	if !ok {
		return
	}

	due, err := h.progressService.DueItems(r.Context(), learnerID, time.Now().UTC())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to get due reviews", err)
		return
	}

	payload := make(map[string][]string, len(due))
	for category, keys := range due {
		payload[string(category)] = keys
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueReviewsResponse{Due: payload})
}
