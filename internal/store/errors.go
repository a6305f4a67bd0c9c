package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. This is the generic form of the entity-specific not
	// found errors below.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a
	// duplicate of a unique entity (e.g., a learner with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation
	// before being stored. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction
	// fails to commit or an operation within it fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrLearnerNotFound indicates that the requested learner does not
	// exist in the store.
	ErrLearnerNotFound = fmt.Errorf("%w: learner", ErrNotFound)

	// ErrProfileNotFound indicates that the requested learner profile
	// does not exist in the store.
	ErrProfileNotFound = fmt.Errorf("%w: learner profile", ErrNotFound)

	// ErrEmailExists indicates that a learner with the given email
	// already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
