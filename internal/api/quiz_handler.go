package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/benkyoapp/nihongo-api/internal/api/shared"
	"github.com/benkyoapp/nihongo-api/internal/domain"
	"github.com/benkyoapp/nihongo-api/internal/domain/progression"
	"github.com/benkyoapp/nihongo-api/internal/platform/logger"
	"github.com/benkyoapp/nihongo-api/internal/service/review"
)

// QuizHandler handles quiz result submission HTTP requests.
type QuizHandler struct {
	progressService review.ProgressService
	validator       *validator.Validate
	logger          *slog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(
	progressService review.ProgressService,
	logger *slog.Logger,
) *QuizHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}

	return &QuizHandler{
		progressService: progressService,
		validator:       validator.New(),
		logger:          logger.With(slog.String("component", "quiz_handler")),
	}
}

// SubmitResults handles POST /api/quiz/results requests.
// It applies a graded quiz batch to the learner's mastery ledgers,
// awards XP, and reports any newly unlocked achievements.
func (h *QuizHandler) SubmitResults(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	learnerID, ok := requireLearnerID(w, r)
	if !ok {
		return
	}

	var req QuizResultsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid category")
		return
	}

	outcomes := make([]review.QuizOutcome, len(req.Outcomes))
	correct, incorrect := 0, 0
	for i, o := range req.Outcomes {
		outcomes[i] = review.QuizOutcome{ItemKey: o.ItemKey, Correct: o.Correct}
		if o.Correct {
			correct++
		} else {
			incorrect++
		}
	}

	// When the client does not name an award, the batch earns the
	// standard lesson award based on its correct/incorrect tally.
	xpAward := progression.LessonAward(correct, incorrect)
	if req.XPAward != nil {
		xpAward = *req.XPAward
	}

	result, err := h.progressService.ApplyQuizResults(r.Context(), learnerID, category, outcomes, xpAward)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("quiz results submitted",
		slog.String("learner_id", learnerID.String()),
		slog.String("category", string(category)),
		slog.Int("outcome_count", len(outcomes)))

	unlocked := result.UnlockedAchievements
	if unlocked == nil {
		unlocked = []string{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QuizResultsResponse{
		Level:                result.Profile.Level,
		XP:                   result.Profile.XP,
		XPAwarded:            result.XPAwarded,
		LeveledUp:            result.LeveledUp,
		UnlockedAchievements: unlocked,
	})
}
