package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("name is required"), http.StatusBadRequest},
		{"conflict", Conflict("taken"), http.StatusConflict},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"unauthorized", Unauthorized("nope"), http.StatusUnauthorized},
		{"persistence", Persistence(errors.New("conn refused")), http.StatusInternalServerError},
		{"gateway", Gateway("completion failed", errors.New("timeout")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("ctx: %w", NotFound("missing")), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(Persistence(errors.New("pq: password authentication failed"))))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw")))
	assert.Equal(t, "Contact not found", PublicMessage(NotFound("Contact not found")))
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Gateway("completion request failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, Is(err, CodeGateway))
	assert.Equal(t, "completion request failed: dial tcp: refused", err.Error())
}
