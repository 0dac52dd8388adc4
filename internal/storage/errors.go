package storage

import "fmt"

// Error describes a failed storage operation on a single key.
type Error struct {
	Key     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error for %q: %s: %v", e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("storage error for %q: %s", e.Key, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
