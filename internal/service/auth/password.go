package auth

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier checks a learner's plaintext password against the
// stored hash.
type PasswordVerifier interface {
	// Compare returns nil when the plaintext matches the hash, or an
	// error on mismatch or a malformed hash.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier implements PasswordVerifier using bcrypt, the same
// algorithm the learner store hashes with on registration.
type BcryptVerifier struct{}

var _ PasswordVerifier = (*BcryptVerifier)(nil)

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PasswordVerifier interface.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
