package api

import (
	"log/slog"
	"net/http"

	"github.com/benkyoapp/nihongo-api/internal/api/shared"
	"github.com/benkyoapp/nihongo-api/internal/domain/achievement"
	"github.com/benkyoapp/nihongo-api/internal/service/review"
)

// AchievementHandler serves the achievement catalog annotated with the
// requesting learner's unlock state.
type AchievementHandler struct {
	progressService review.ProgressService
	logger          *slog.Logger
}

// NewAchievementHandler creates a new AchievementHandler.
func NewAchievementHandler(
	progressService review.ProgressService,
	logger *slog.Logger,
) *AchievementHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AchievementHandler")
	}

	return &AchievementHandler{
		progressService: progressService,
		logger:          logger.With(slog.String("component", "achievement_handler")),
	}
}

// ListAchievements handles GET /api/achievements requests.
func (h *AchievementHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := requireLearnerID(w, r)
	if !ok {
		return
	}

	profile, err := h.progressService.GetProfile(r.Context(), learnerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to list achievements", err)
		return
	}

	catalog := achievement.Catalog()
	payload := make([]AchievementPayload, len(catalog))
	for i, a := range catalog {
		payload[i] = AchievementPayload{
			ID:             a.ID,
			NameKey:        a.NameKey,
			DescriptionKey: a.DescriptionKey,
			Icon:           a.Icon,
			Unlocked:       profile.HasAchievement(a.ID),
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, payload)
}
