package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/interview-practice/internal/session"
	"github.com/jonathan/interview-practice/internal/storage"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		transitionErr *session.TransitionError
		sessionErr    *session.Error
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotActive), errors.As(err, &transitionErr):
		return http.StatusConflict
	case errors.Is(err, session.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.As(err, &sessionErr):
		return http.StatusBadGateway
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text shown to API clients for err. Backend
// payloads and internal causes are never included.
func PublicMessage(err error) string {
	var sessionErr *session.Error
	switch status := HTTPStatus(err); {
	case errors.As(err, &sessionErr):
		return sessionErr.Message
	case status == http.StatusInternalServerError:
		return "internal server error"
	case status == http.StatusNotFound:
		return "not found"
	default:
		return err.Error()
	}
}
