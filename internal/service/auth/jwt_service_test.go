package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benkyoapp/nihongo-api/internal/config"
)

const testJWTSecret = "test-secret-that-is-at-least-32-chars-long"

func newTestJWTService(t *testing.T) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:                   testJWTSecret,
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60 * 24,
	})
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{
		JWTSecret:                   "too-short",
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)
	learnerID := uuid.New()

	token, err := svc.GenerateToken(ctx, learnerID)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")), "JWT must have three segments")

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, learnerID, claims.LearnerID)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, learnerID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, 15*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt))
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)
	learnerID := uuid.New()

	token, err := svc.GenerateRefreshToken(ctx, learnerID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, learnerID, claims.LearnerID)
	assert.Equal(t, "refresh", claims.TokenType)
	assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt))
}

func TestWrongTokenTypeRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)
	learnerID := uuid.New()

	accessToken, err := svc.GenerateToken(ctx, learnerID)
	require.NoError(t, err)
	refreshToken, err := svc.GenerateRefreshToken(ctx, learnerID)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(ctx, accessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ValidateToken(ctx, refreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	// Jump past the lifetime plus the clock-skew allowance.
	svc.timeFunc = func() time.Time { return issuedAt.Add(15*time.Minute + svc.clockSkew + time.Second) }

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestExpiredRefreshTokenRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.GenerateRefreshToken(ctx, uuid.New())
	require.NoError(t, err)

	svc.timeFunc = func() time.Time { return issuedAt.Add(24*time.Hour + svc.clockSkew + time.Second) }

	_, err = svc.ValidateRefreshToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)
}

func TestClockSkewTolerated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	// Exactly at lifetime + skew the token is still inside the leeway window.
	svc.timeFunc = func() time.Time { return issuedAt.Add(15*time.Minute + svc.clockSkew - time.Second) }

	_, err = svc.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestMalformedTokenRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)

	testCases := []struct {
		name  string
		token string
	}{
		{name: "empty string", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "two segments", token: "aaaa.bbbb"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.ValidateToken(ctx, tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTamperedSignatureRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)

	other, err := NewJWTService(config.AuthConfig{
		JWTSecret:                   "another-secret-that-is-also-32-chars!!",
		TokenLifetimeMinutes:        15,
		RefreshTokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	token, err := other.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensAreUnique(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestJWTService(t)
	learnerID := uuid.New()

	first, err := svc.GenerateToken(ctx, learnerID)
	require.NoError(t, err)
	second, err := svc.GenerateToken(ctx, learnerID)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each token carries a unique JTI")
}
