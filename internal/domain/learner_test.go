package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLearner(t *testing.T) {
	t.Parallel()

	learner, err := NewLearner("yuki@example.com", "correct horse battery", "Yuki")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, learner.ID)
	assert.Equal(t, "yuki@example.com", learner.Email)
	assert.Equal(t, "correct horse battery", learner.Password)
	assert.Empty(t, learner.HashedPassword, "hashing is the store's job")
	assert.Equal(t, "Yuki", learner.DisplayName)
	assert.False(t, learner.CreatedAt.IsZero())
	assert.Equal(t, learner.CreatedAt, learner.UpdatedAt)
}

func TestNewLearnerValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		email       string
		password    string
		displayName string
		wantErr     error
	}{
		{
			name:        "empty email",
			email:       "",
			password:    "correct horse battery",
			displayName: "Yuki",
			wantErr:     ErrEmptyEmail,
		},
		{
			name:        "missing at sign",
			email:       "yuki.example.com",
			password:    "correct horse battery",
			displayName: "Yuki",
			wantErr:     ErrInvalidEmail,
		},
		{
			name:        "missing domain dot",
			email:       "yuki@localhost",
			password:    "correct horse battery",
			displayName: "Yuki",
			wantErr:     ErrInvalidEmail,
		},
		{
			name:        "trailing at sign",
			email:       "yuki@",
			password:    "correct horse battery",
			displayName: "Yuki",
			wantErr:     ErrInvalidEmail,
		},
		{
			name:        "blank display name",
			email:       "yuki@example.com",
			password:    "correct horse battery",
			displayName: "   ",
			wantErr:     ErrEmptyDisplayName,
		},
		{
			name:        "empty password",
			email:       "yuki@example.com",
			password:    "",
			displayName: "Yuki",
			wantErr:     ErrEmptyPassword,
		},
		{
			name:        "password too short",
			email:       "yuki@example.com",
			password:    "elevenchars",
			displayName: "Yuki",
			wantErr:     ErrPasswordTooShort,
		},
		{
			name:        "password too long",
			email:       "yuki@example.com",
			password:    strings.Repeat("a", 73),
			displayName: "Yuki",
			wantErr:     ErrPasswordTooLong,
		},
		{
			name:        "password at bcrypt limit",
			email:       "yuki@example.com",
			password:    strings.Repeat("a", 72),
			displayName: "Yuki",
			wantErr:     nil,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewLearner(tc.email, tc.password, tc.displayName)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLearnerValidateWithHashedPassword(t *testing.T) {
	t.Parallel()

	learner := &Learner{
		ID:             uuid.New(),
		Email:          "yuki@example.com",
		HashedPassword: "$2a$10$notarealhashbutnonempty",
		DisplayName:    "Yuki",
	}

	assert.NoError(t, learner.Validate(), "a stored learner carries only a hash")

	learner.HashedPassword = ""
	assert.ErrorIs(t, learner.Validate(), ErrEmptyPassword)
}
