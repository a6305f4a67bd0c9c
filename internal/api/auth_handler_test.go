package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benkyoapp/nihongo-api/internal/domain"
	"github.com/benkyoapp/nihongo-api/internal/service/auth"
	"github.com/benkyoapp/nihongo-api/internal/store"
)

// memLearnerStore is an in-memory LearnerStore for handler tests.
type memLearnerStore struct {
	byEmail map[string]*domain.Learner
	byID    map[uuid.UUID]*domain.Learner
}

var _ store.LearnerStore = (*memLearnerStore)(nil)

func newMemLearnerStore() *memLearnerStore {
	return &memLearnerStore{
		byEmail: make(map[string]*domain.Learner),
		byID:    make(map[uuid.UUID]*domain.Learner),
	}
}

func (m *memLearnerStore) Create(_ context.Context, learner *domain.Learner) error {
	if _, exists := m.byEmail[learner.Email]; exists {
		return store.ErrEmailExists
	}
	// Mimic the real store: the plaintext never survives creation.
	learner.HashedPassword = "hashed:" + learner.Password
	learner.Password = ""
	m.byEmail[learner.Email] = learner
	m.byID[learner.ID] = learner
	return nil
}

func (m *memLearnerStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Learner, error) {
	learner, ok := m.byID[id]
	if !ok {
		return nil, store.ErrLearnerNotFound
	}
	return learner, nil
}

func (m *memLearnerStore) GetByEmail(_ context.Context, email string) (*domain.Learner, error) {
	learner, ok := m.byEmail[email]
	if !ok {
		return nil, store.ErrLearnerNotFound
	}
	return learner, nil
}

func (m *memLearnerStore) WithTx(_ *sql.Tx) store.LearnerStore {
	return m
}

// fakeJWTService issues deterministic token strings keyed by learner ID.
type fakeJWTService struct {
	refreshClaims *auth.Claims
	refreshErr    error
	generateErr   error
}

var _ auth.JWTService = (*fakeJWTService)(nil)

func (f *fakeJWTService) GenerateToken(_ context.Context, learnerID uuid.UUID) (string, error) {
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return "access-" + learnerID.String(), nil
}

func (f *fakeJWTService) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	return &auth.Claims{
		TokenType: "access",
		ExpiresAt: time.Date(2025, 3, 1, 12, 15, 0, 0, time.UTC),
	}, nil
}

func (f *fakeJWTService) GenerateRefreshToken(_ context.Context, learnerID uuid.UUID) (string, error) {
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return "refresh-" + learnerID.String(), nil
}

func (f *fakeJWTService) ValidateRefreshToken(_ context.Context, _ string) (*auth.Claims, error) {
	return f.refreshClaims, f.refreshErr
}

// fakePasswordVerifier accepts passwords hashed by memLearnerStore.
type fakePasswordVerifier struct{}

func (fakePasswordVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func registerLearner(t *testing.T, handler *AuthHandler, email string) AuthResponse {
	t.Helper()

	rec := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
		Email:    email,
		Password: "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRegister(t *testing.T) {
	t.Parallel()
	learners := newMemLearnerStore()
	handler := NewAuthHandler(learners, &fakeJWTService{}, fakePasswordVerifier{})

	resp := registerLearner(t, handler, "yuki@example.com")

	assert.NotEqual(t, uuid.Nil, resp.LearnerID)
	assert.Equal(t, "access-"+resp.LearnerID.String(), resp.AccessToken)
	assert.Equal(t, "refresh-"+resp.LearnerID.String(), resp.RefreshToken)

	stored := learners.byEmail["yuki@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, "yuki", stored.DisplayName, "display name defaults to the email local part")
	assert.Empty(t, stored.Password)
}

func TestRegisterExplicitDisplayName(t *testing.T) {
	t.Parallel()
	learners := newMemLearnerStore()
	handler := NewAuthHandler(learners, &fakeJWTService{}, fakePasswordVerifier{})

	rec := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
		Email:       "yuki@example.com",
		Password:    "correct horse battery",
		DisplayName: "Yuki T",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Yuki T", learners.byEmail["yuki@example.com"].DisplayName)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body RegisterRequest
	}{
		{name: "missing email", body: RegisterRequest{Password: "correct horse battery"}},
		{name: "invalid email", body: RegisterRequest{Email: "not-an-email", Password: "correct horse battery"}},
		{name: "short password", body: RegisterRequest{Email: "yuki@example.com", Password: "short"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			handler := NewAuthHandler(newMemLearnerStore(), &fakeJWTService{}, fakePasswordVerifier{})
			rec := postJSON(t, handler.Register, "/api/auth/register", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	handler := NewAuthHandler(newMemLearnerStore(), &fakeJWTService{}, fakePasswordVerifier{})

	registerLearner(t, handler, "yuki@example.com")

	rec := postJSON(t, handler.Register, "/api/auth/register", RegisterRequest{
		Email:    "yuki@example.com",
		Password: "another password here",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	handler := NewAuthHandler(newMemLearnerStore(), &fakeJWTService{}, fakePasswordVerifier{})
	registered := registerLearner(t, handler, "yuki@example.com")

	rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
		Email:    "yuki@example.com",
		Password: "correct horse battery",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, registered.LearnerID, resp.LearnerID)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	handler := NewAuthHandler(newMemLearnerStore(), &fakeJWTService{}, fakePasswordVerifier{})
	registerLearner(t, handler, "yuki@example.com")

	testCases := []struct {
		name string
		body LoginRequest
	}{
		{name: "wrong password", body: LoginRequest{Email: "yuki@example.com", Password: "wrong password!"}},
		{name: "unknown email", body: LoginRequest{Email: "nobody@example.com", Password: "correct horse battery"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := postJSON(t, handler.Login, "/api/auth/login", tc.body)
			// Both cases return the same status and message so the
			// endpoint does not reveal which accounts exist.
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid credentials")
		})
	}
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()
	learners := newMemLearnerStore()
	jwtService := &fakeJWTService{}
	handler := NewAuthHandler(learners, jwtService, fakePasswordVerifier{})
	registered := registerLearner(t, handler, "yuki@example.com")

	jwtService.refreshClaims = &auth.Claims{LearnerID: registered.LearnerID, TokenType: "refresh"}

	rec := postJSON(t, handler.RefreshToken, "/api/auth/refresh", RefreshTokenRequest{
		RefreshToken: registered.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RefreshTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "access-"+registered.LearnerID.String(), resp.AccessToken)
	assert.Equal(t, "refresh-"+registered.LearnerID.String(), resp.RefreshToken)
	assert.Equal(t, "2025-03-01T12:15:00Z", resp.ExpiresAt)
}

func TestRefreshTokenRejectsInvalid(t *testing.T) {
	t.Parallel()
	handler := NewAuthHandler(
		newMemLearnerStore(),
		&fakeJWTService{refreshErr: auth.ErrInvalidRefreshToken},
		fakePasswordVerifier{},
	)

	rec := postJSON(t, handler.RefreshToken, "/api/auth/refresh", RefreshTokenRequest{
		RefreshToken: "garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshTokenDeletedLearner(t *testing.T) {
	t.Parallel()
	handler := NewAuthHandler(
		newMemLearnerStore(),
		&fakeJWTService{refreshClaims: &auth.Claims{LearnerID: uuid.New(), TokenType: "refresh"}},
		fakePasswordVerifier{},
	)

	rec := postJSON(t, handler.RefreshToken, "/api/auth/refresh", RefreshTokenRequest{
		RefreshToken: "valid-but-orphaned",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
