package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/benkyoapp/nihongo-api/internal/api/shared"
)

// getLearnerIDFromContext extracts the authenticated learner's UUID from
// the request context. The learner ID is expected to be placed in the
// context by the authentication middleware.
//
// Returns:
//   - (uuid.UUID, true): The learner's UUID if successfully extracted
//   - (uuid.Nil, false): A zero UUID and false if the learner ID is missing or invalid
func getLearnerIDFromContext(r *http.Request) (uuid.UUID, bool) {
	learnerID, ok := r.Context().Value(shared.LearnerIDContextKey).(uuid.UUID)
	if !ok || learnerID == uuid.Nil {
		return uuid.Nil, false
	}
	return learnerID, true
}

// requireLearnerID extracts the learner ID from context, writing a 401
// response if it is missing. Returns false when an error was written.
func requireLearnerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	learnerID, ok := getLearnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Learner ID not found or invalid")
		return uuid.Nil, false
	}
	return learnerID, true
}
