package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guessnica/guessnica-server/internal/domain/shared"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid coordinate", shared.ErrLatitudeOutOfRange, http.StatusBadRequest, "validation_error"},
		{"invalid input", shared.ErrNegativeDistance, http.StatusBadRequest, "validation_error"},
		{"bad settings", shared.WrapError("settings", "Validate", shared.ErrValueOutOfRange, "maxDistance must be positive", nil), http.StatusBadRequest, "validation_error"},
		{"player not found", shared.ErrPlayerNotFound, http.StatusNotFound, "not_found"},
		{"riddle not found", shared.ErrRiddleNotFound, http.StatusNotFound, "not_found"},
		{"duplicate submission", shared.ErrDuplicateSubmission, http.StatusConflict, "already_exists"},
		{"game inactive", shared.ErrGameInactive, http.StatusConflict, "conflict"},
		{"riddle not active", shared.ErrRiddleNotActive, http.StatusConflict, "conflict"},
		{"daily limit", shared.ErrDailyLimitReached, http.StatusTooManyRequests, "limit_reached"},
		{"blocked player", shared.ErrPlayerBlocked, http.StatusForbidden, "forbidden"},
		{"storage down", shared.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := statusForError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
