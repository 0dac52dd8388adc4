package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jonathan/interview-practice/internal/types"
)

// Results is what the last finished session left in a Store.
type Results struct {
	Report      string
	Summary     string
	PDFFilename string
	Role        string
	// Scores is nil when no breakdown was stored.
	Scores *types.ScoreBreakdown
}

// LoadResults reads the stored results. It fails with ErrNotFound when no
// report was stored; the other keys are optional.
func LoadResults(ctx context.Context, s Store) (*Results, error) {
	report, err := s.Get(ctx, KeyFinalReport)
	if err != nil {
		return nil, err
	}
	res := &Results{Report: report}

	if res.Summary, err = optional(ctx, s, KeyInterviewSummary); err != nil {
		return nil, err
	}
	if res.PDFFilename, err = optional(ctx, s, KeyPDFFilename); err != nil {
		return nil, err
	}
	if res.Role, err = optional(ctx, s, KeyRole); err != nil {
		return nil, err
	}

	raw, err := optional(ctx, s, KeyScoreBreakdown)
	if err != nil {
		return nil, err
	}
	if raw != "" {
		var scores types.ScoreBreakdown
		if err := json.Unmarshal([]byte(raw), &scores); err != nil {
			return nil, &Error{Key: KeyScoreBreakdown, Message: "failed to decode value", Cause: err}
		}
		res.Scores = &scores
	}
	return res, nil
}

func optional(ctx context.Context, s Store, key string) (string, error) {
	value, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return value, err
}
