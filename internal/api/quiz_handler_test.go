package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benkyoapp/nihongo-api/internal/api/shared"
	"github.com/benkyoapp/nihongo-api/internal/domain"
	"github.com/benkyoapp/nihongo-api/internal/service/review"
)

// stubProgressService implements review.ProgressService with
// per-method function fields so each test wires only what it needs.
type stubProgressService struct {
	applyQuizResults   func(ctx context.Context, learnerID uuid.UUID, category domain.Category, outcomes []review.QuizOutcome, xpAward int) (*review.QuizResult, error)
	getProfile         func(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error)
	summary            func(ctx context.Context, learnerID uuid.UUID, now time.Time) (*review.ProfileSummary, error)
	dueItems           func(ctx context.Context, learnerID uuid.UUID, now time.Time) (map[domain.Category][]string, error)
	completeOnboarding func(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error)
	resetProfile       func(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error)
}

var _ review.ProgressService = (*stubProgressService)(nil)

func (s *stubProgressService) ApplyQuizResults(ctx context.Context, learnerID uuid.UUID, category domain.Category, outcomes []review.QuizOutcome, xpAward int) (*review.QuizResult, error) {
	return s.applyQuizResults(ctx, learnerID, category, outcomes, xpAward)
}

func (s *stubProgressService) GetProfile(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error) {
	return s.getProfile(ctx, learnerID)
}

func (s *stubProgressService) Summary(ctx context.Context, learnerID uuid.UUID, now time.Time) (*review.ProfileSummary, error) {
	return s.summary(ctx, learnerID, now)
}

func (s *stubProgressService) DueItems(ctx context.Context, learnerID uuid.UUID, now time.Time) (map[domain.Category][]string, error) {
	return s.dueItems(ctx, learnerID, now)
}

func (s *stubProgressService) CompleteOnboarding(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error) {
	return s.completeOnboarding(ctx, learnerID)
}

func (s *stubProgressService) ResetProfile(ctx context.Context, learnerID uuid.UUID) (*domain.LearnerProfile, error) {
	return s.resetProfile(ctx, learnerID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// authedRequest builds a request carrying an authenticated learner ID,
// as the auth middleware would.
func authedRequest(t *testing.T, method, target string, body interface{}, learnerID uuid.UUID) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), shared.LearnerIDContextKey, learnerID)
	return req.WithContext(ctx)
}

func newQuizProfile(t *testing.T, level, xp int) *domain.LearnerProfile {
	t.Helper()
	profile, err := domain.NewLearnerProfile(uuid.New())
	require.NoError(t, err)
	profile.Level = level
	profile.XP = xp
	return profile
}

func TestSubmitResults(t *testing.T) {
	t.Parallel()
	learnerID := uuid.New()

	var gotCategory domain.Category
	var gotOutcomes []review.QuizOutcome
	var gotAward int

	service := &stubProgressService{
		applyQuizResults: func(_ context.Context, id uuid.UUID, category domain.Category, outcomes []review.QuizOutcome, xpAward int) (*review.QuizResult, error) {
			assert.Equal(t, learnerID, id)
			gotCategory = category
			gotOutcomes = outcomes
			gotAward = xpAward
			return &review.QuizResult{
				Profile:              newQuizProfile(t, 2, 5),
				XPAwarded:            xpAward,
				LeveledUp:            true,
				UnlockedAchievements: []string{"first_steps_h"},
			}, nil
		},
	}
	handler := NewQuizHandler(service, testLogger())

	req := authedRequest(t, http.MethodPost, "/api/quiz/results", QuizResultsRequest{
		Category: "hiragana",
		Outcomes: []QuizOutcomePayload{
			{ItemKey: "あ", Correct: true},
			{ItemKey: "い", Correct: true},
			{ItemKey: "う", Correct: false},
		},
	}, learnerID)
	rec := httptest.NewRecorder()

	handler.SubmitResults(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.CategoryHiragana, gotCategory)
	require.Len(t, gotOutcomes, 3)
	assert.Equal(t, review.QuizOutcome{ItemKey: "あ", Correct: true}, gotOutcomes[0])
	assert.Equal(t, 10, gotAward, "majority-correct batches earn the standard lesson award")

	var resp QuizResultsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Level)
	assert.Equal(t, 5, resp.XP)
	assert.Equal(t, 10, resp.XPAwarded)
	assert.True(t, resp.LeveledUp)
	assert.Equal(t, []string{"first_steps_h"}, resp.UnlockedAchievements)
}

func TestSubmitResultsExplicitAward(t *testing.T) {
	t.Parallel()
	learnerID := uuid.New()
	award := 25

	service := &stubProgressService{
		applyQuizResults: func(_ context.Context, _ uuid.UUID, _ domain.Category, _ []review.QuizOutcome, xpAward int) (*review.QuizResult, error) {
			assert.Equal(t, award, xpAward, "an explicit award overrides the lesson default")
			return &review.QuizResult{Profile: newQuizProfile(t, 1, 25), XPAwarded: xpAward}, nil
		},
	}
	handler := NewQuizHandler(service, testLogger())

	req := authedRequest(t, http.MethodPost, "/api/quiz/results", QuizResultsRequest{
		Category: "kanji",
		Outcomes: []QuizOutcomePayload{{ItemKey: "日", Correct: false}},
		XPAward:  &award,
	}, learnerID)
	rec := httptest.NewRecorder()

	handler.SubmitResults(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitResultsNilAchievementsSerializeEmpty(t *testing.T) {
	t.Parallel()

	service := &stubProgressService{
		applyQuizResults: func(_ context.Context, _ uuid.UUID, _ domain.Category, _ []review.QuizOutcome, xpAward int) (*review.QuizResult, error) {
			return &review.QuizResult{Profile: newQuizProfile(t, 1, 0), XPAwarded: xpAward}, nil
		},
	}
	handler := NewQuizHandler(service, testLogger())

	req := authedRequest(t, http.MethodPost, "/api/quiz/results", QuizResultsRequest{
		Category: "word",
		Outcomes: []QuizOutcomePayload{{ItemKey: "犬", Correct: true}},
	}, uuid.New())
	rec := httptest.NewRecorder()

	handler.SubmitResults(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unlocked_achievements":[]`)
}

func TestSubmitResultsErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		body       interface{}
		rawBody    string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "malformed JSON",
			rawBody:    `{"category":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing category",
			body:       QuizResultsRequest{Outcomes: []QuizOutcomePayload{{ItemKey: "あ", Correct: true}}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown category",
			body:       QuizResultsRequest{Category: "verbs", Outcomes: []QuizOutcomePayload{{ItemKey: "あ", Correct: true}}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "outcome without item key",
			body:       QuizResultsRequest{Category: "hiragana", Outcomes: []QuizOutcomePayload{{Correct: true}}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "service rejects batch",
			body:       QuizResultsRequest{Category: "hiragana", Outcomes: []QuizOutcomePayload{{ItemKey: "あ", Correct: true}}},
			serviceErr: review.ErrEmptyItemKey,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "service failure",
			body:       QuizResultsRequest{Category: "hiragana", Outcomes: []QuizOutcomePayload{{ItemKey: "あ", Correct: true}}},
			serviceErr: errors.New("database down"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service := &stubProgressService{
				applyQuizResults: func(_ context.Context, _ uuid.UUID, _ domain.Category, _ []review.QuizOutcome, _ int) (*review.QuizResult, error) {
					return nil, tc.serviceErr
				},
			}
			handler := NewQuizHandler(service, testLogger())

			var req *http.Request
			if tc.rawBody != "" {
				req = httptest.NewRequest(http.MethodPost, "/api/quiz/results", bytes.NewBufferString(tc.rawBody))
				req.Header.Set("Content-Type", "application/json")
				ctx := context.WithValue(req.Context(), shared.LearnerIDContextKey, uuid.New())
				req = req.WithContext(ctx)
			} else {
				req = authedRequest(t, http.MethodPost, "/api/quiz/results", tc.body, uuid.New())
			}
			rec := httptest.NewRecorder()

			handler.SubmitResults(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestSubmitResultsRequiresAuthentication(t *testing.T) {
	t.Parallel()

	handler := NewQuizHandler(&stubProgressService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/quiz/results", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()

	handler.SubmitResults(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
