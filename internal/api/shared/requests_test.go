package shared

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taggedPayload struct {
	Email string `json:"email" validate:"required,email"`
}

type selfValidatingPayload struct {
	err error
}

func (p selfValidatingPayload) Validate() error { return p.err }

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"email":"yuki@example.com"}`))

	var payload taggedPayload
	require.NoError(t, DecodeJSON(req, &payload))
	assert.Equal(t, "yuki@example.com", payload.Email)

	bad := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"email":`))
	assert.Error(t, DecodeJSON(bad, &payload))
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(taggedPayload{Email: "yuki@example.com"}))
	assert.Error(t, ValidateRequest(taggedPayload{Email: "not-an-email"}))

	// A type's own Validate method wins over struct tags.
	custom := errors.New("custom rule broken")
	assert.Equal(t, custom, ValidateRequest(selfValidatingPayload{err: custom}))
	assert.NoError(t, ValidateRequest(selfValidatingPayload{}))
}
