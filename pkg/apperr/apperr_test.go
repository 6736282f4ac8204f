package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", Validation("bad %s", "input"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("not logged in"), http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"conflict", Conflict("taken"), http.StatusConflict},
		{"internal", Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{"plain error", errors.New("plain"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("context: %w", NotFound("missing")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusOf(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "bad input", PublicMessage(Validation("bad %s", "input")))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: connection refused")))
	assert.Equal(t, "file upload failed", PublicMessage(Internal("file upload failed", errors.New("disk full"))))
	assert.Equal(t, "internal server error", PublicMessage(Internal("", errors.New("disk full"))))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("file upload failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "file upload failed: disk full", err.Error())
	assert.Equal(t, "missing", NotFound("missing").Error())
}
