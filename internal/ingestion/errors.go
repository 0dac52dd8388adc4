package ingestion

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResume is returned when a resume contains no text.
	ErrEmptyResume = errors.New("no text found in resume")
	// ErrResumeTooShort is returned for text shorter than MinResumeLength.
	ErrResumeTooShort = errors.New("too little text found in resume, it might be a scanned image")
)

// Error describes a resume that could not be loaded.
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resume %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("resume %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
