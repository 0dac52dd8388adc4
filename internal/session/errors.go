package session

import (
	"errors"
	"fmt"
)

// ErrNotActive is returned when an answer arrives outside an active session.
var ErrNotActive = errors.New("interview session is not active")

// Error is a user-facing session failure. Message is safe to display; Cause
// carries the underlying backend error for logs.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// TransitionError is returned when an action is not allowed in the current state.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// ErrClosed is returned by actions on a controller after Close.
var ErrClosed = errors.New("session controller is closed")
