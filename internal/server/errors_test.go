package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/interview-practice/internal/session"
	"github.com/jonathan/interview-practice/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	startFailed := &session.Error{Message: "could not start", Cause: errors.New("HTTP status 503: secret payload")}

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "validation",
			err:     &ErrValidation{Field: "difficulty", Message: "unknown"},
			status:  http.StatusBadRequest,
			message: "validation error: difficulty - unknown",
		},
		{
			name:    "not active",
			err:     session.ErrNotActive,
			status:  http.StatusConflict,
			message: session.ErrNotActive.Error(),
		},
		{
			name:    "transition",
			err:     &session.TransitionError{From: session.StateActive, To: session.StateStarting},
			status:  http.StatusConflict,
			message: "invalid transition from active to starting",
		},
		{
			name:    "closed",
			err:     session.ErrClosed,
			status:  http.StatusServiceUnavailable,
			message: session.ErrClosed.Error(),
		},
		{
			name:    "backend failure hides cause",
			err:     startFailed,
			status:  http.StatusBadGateway,
			message: "could not start",
		},
		{
			name:    "not found",
			err:     fmt.Errorf("get report: %w", storage.ErrNotFound),
			status:  http.StatusNotFound,
			message: "not found",
		},
		{
			name:    "unknown",
			err:     errors.New("disk on fire"),
			status:  http.StatusInternalServerError,
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.Equal(t, tt.message, PublicMessage(tt.err))
		})
	}
}
