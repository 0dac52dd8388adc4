// Package storage persists the end-of-interview results that the report
// screens read back: the final report, the summary, the PDF filename and the
// role and scores the exports are headed with.
package storage

import (
	"context"
	"errors"
	"regexp"
)

// Keys written at the end of a session.
const (
	KeyFinalReport      = "finalReport"
	KeyInterviewSummary = "interviewSummary"
	KeyPDFFilename      = "pdfFilename"
	KeyRole             = "interviewRole"
	KeyScoreBreakdown   = "scoreBreakdown"
)

// ErrNotFound is returned by Get when a key has never been written or was deleted.
var ErrNotFound = errors.New("storage key not found")

// Store is a string key/value store. Implementations must be safe for concurrent use.
type Store interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateKey rejects keys that could escape a storage directory or are empty.
func ValidateKey(key string) error {
	if !validKey.MatchString(key) {
		return &Error{Key: key, Message: "invalid key"}
	}
	return nil
}
