package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for learner identities.
var (
	ErrEmptyLearnerID      = errors.New("learner ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyDisplayName    = errors.New("display name cannot be empty")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Learner represents a registered learner identity. The identity fields
// are opaque to the mastery engine: the engine only ever sees the
// learner's profile, keyed by this ID.
type Learner struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, held only between registration and hashing
	HashedPassword string    `json:"-"` // Never exposed in JSON
	DisplayName    string    `json:"display_name"`
	AvatarRef      string    `json:"avatar_ref"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewLearner creates a new Learner with a generated ID and creation
// timestamps. The caller is responsible for hashing the password before
// the learner is stored.
func NewLearner(email, password, displayName string) (*Learner, error) {
	now := time.Now().UTC()
	learner := &Learner{
		ID:          uuid.New(),
		Email:       email,
		Password:    password,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := learner.Validate(); err != nil {
		return nil, err
	}

	return learner, nil
}

// Validate checks if the Learner has valid data.
// Returns an error if any field fails validation.
func (l *Learner) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLearnerID
	}

	if l.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(l.Email) {
		return ErrInvalidEmail
	}

	if strings.TrimSpace(l.DisplayName) == "" {
		return ErrEmptyDisplayName
	}

	if l.Password != "" {
		if len(l.Password) < 12 {
			return ErrPasswordTooShort
		}
		if len(l.Password) > 72 { // bcrypt's practical limit
			return ErrPasswordTooLong
		}
	} else if l.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// validEmailFormat performs a basic structural check: a non-edge '@'
// followed by a domain containing an interior dot. Request-level
// validation applies the stricter go-playground/validator email rule;
// this is the domain's last line of defense.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domainPart := email[at+1:]
	dot := strings.Index(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}
