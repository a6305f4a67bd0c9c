package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/benkyoapp/nihongo-api/internal/api/shared"
	"github.com/benkyoapp/nihongo-api/internal/domain"
	"github.com/benkyoapp/nihongo-api/internal/service/auth"
	"github.com/benkyoapp/nihongo-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	learnerStore     store.LearnerStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	validator        *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	learnerStore store.LearnerStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
) *AuthHandler {
	return &AuthHandler{
		learnerStore:     learnerStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		validator:        validator.New(),
	}
}

// issueTokenPair generates an access and refresh token pair for the learner.
func (h *AuthHandler) issueTokenPair(r *http.Request, learnerID uuid.UUID) (access, refresh string, err error) {
	access, err = h.jwtService.GenerateToken(r.Context(), learnerID)
	if err != nil {
		return "", "", err
	}
	refresh, err = h.jwtService.GenerateRefreshToken(r.Context(), learnerID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		// Default to the email local part; learners can rename later.
		displayName = req.Email
		if at := strings.Index(req.Email, "@"); at > 0 {
			displayName = req.Email[:at]
		}
	}

	learner, err := domain.NewLearner(req.Email, req.Password, displayName)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid learner data: "+err.Error())
		return
	}

	if err := h.learnerStore.Create(r.Context(), learner); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		slog.Error("failed to create learner", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create learner")
		return
	}

	access, refresh, err := h.issueTokenPair(r, learner.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "learner_id", learner.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		LearnerID:    learner.ID,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	learner, err := h.learnerStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrLearnerNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to get learner by email", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate learner")
		return
	}

	if err := h.passwordVerifier.Compare(learner.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	access, refresh, err := h.issueTokenPair(r, learner.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "learner_id", learner.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		LearnerID:    learner.ID,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// RefreshToken handles the /auth/refresh endpoint. It validates the
// presented refresh token and issues a fresh token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	// Confirm the learner still exists before minting new tokens.
	learner, err := h.learnerStore.GetByID(r.Context(), claims.LearnerID)
	if err != nil {
		if errors.Is(err, store.ErrLearnerNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		slog.Error("failed to get learner by ID", "error", err, "learner_id", claims.LearnerID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	access, refresh, err := h.issueTokenPair(r, learner.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "learner_id", learner.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	newClaims, err := h.jwtService.ValidateToken(r.Context(), access)
	expiresAt := ""
	if err == nil {
		expiresAt = newClaims.ExpiresAt.Format(time.RFC3339)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	})
}
