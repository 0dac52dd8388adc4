// Package types provides type definitions for structured data used throughout the interview practice system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default selection values sent to the backend when the user skipped a step.
const (
	DefaultRole       = "Software Engineer"
	DefaultExperience = "2-3"
	DefaultDifficulty = "Medium"
)

// Difficulty is the interview difficulty level chosen before a session.
type Difficulty string

// Difficulty levels offered by the difficulty selector.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// ParseDifficulty parses a difficulty level case-insensitively.
// An empty string parses to the empty Difficulty (not selected).
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, medium, hard or expert)", s)
	}
}

// Label returns the capitalized form used on the wire ("Medium").
func (d Difficulty) Label() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Selection holds the role, experience level and difficulty picked before an interview.
type Selection struct {
	Role       string     `json:"role"`
	Experience string     `json:"experience"`
	Difficulty Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard expert"`
}

// Validate validates the Selection using the validator.
func (s *Selection) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// WithDefaults returns the selection with empty fields replaced by the backend defaults.
// The difficulty is returned in its wire form.
func (s Selection) WithDefaults() (role, experience, difficulty string) {
	role, experience, difficulty = s.Role, s.Experience, s.Difficulty.Label()
	if role == "" {
		role = DefaultRole
	}
	if experience == "" {
		experience = DefaultExperience
	}
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}
	return role, experience, difficulty
}

// ResumeSource records where the resume text came from.
type ResumeSource string

// Resume sources.
const (
	ResumeNone     ResumeSource = "none"
	ResumeUploaded ResumeSource = "uploaded"
	ResumeBuilt    ResumeSource = "built"
)

// ResumeContent is the single active resume used to tailor questions.
type ResumeContent struct {
	RawText  string       `json:"raw_text"`
	Source   ResumeSource `json:"source"`
	FileName string       `json:"file_name,omitempty"`
}

// Sender identifies who produced a chat turn.
type Sender string

// Senders.
const (
	SenderUser        Sender = "user"
	SenderInterviewer Sender = "interviewer"
)

// ChatTurn is one utterance in the interview transcript.
type ChatTurn struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryEntry is the backend-facing mirror of a chat turn.
type HistoryEntry struct {
	Role    Sender `json:"role"`
	Content string `json:"content"`
}

// ScoreField names one dimension of the score breakdown.
type ScoreField string

// Score fields.
const (
	ScoreCommunication ScoreField = "communication"
	ScoreTechnical     ScoreField = "technical"
	ScoreConfidence    ScoreField = "confidence"
	ScoreFillerWords   ScoreField = "fillerWords"
	ScorePace          ScoreField = "pace"
)

// ScoreSample carries new samples for some score fields. Missing fields are left unchanged.
type ScoreSample map[ScoreField]float64

// ScoreBreakdown is the running per-dimension score. Every field stays within [0,100].
type ScoreBreakdown struct {
	Communication int `json:"communication"`
	Technical     int `json:"technical"`
	Confidence    int `json:"confidence"`
	FillerWords   int `json:"fillerWords"` // higher is better
	Pace          int `json:"pace"`
}

// DefaultScoreBreakdown returns the breakdown a fresh session starts with.
func DefaultScoreBreakdown() ScoreBreakdown {
	return ScoreBreakdown{FillerWords: 100}
}

// FinalReport is the backend's end-of-interview report, kept verbatim.
type FinalReport = json.RawMessage

// InterviewSummary is the backend's end-of-interview summary, kept verbatim.
type InterviewSummary = json.RawMessage

// PlaceholderReport is written when the backend produced no report.
type PlaceholderReport struct {
	OverallAssessment string   `json:"overall_assessment"`
	Strengths         []string `json:"strengths"`
	WeakAreas         []string `json:"weak_areas"`
	Recommendations   []string `json:"recommendations"`
}

// PlaceholderSummary is written when the backend produced no summary.
type PlaceholderSummary struct {
	TotalQuestions    int      `json:"total_questions"`
	TotalInteractions int      `json:"total_interactions"`
	AverageScore      float64  `json:"average_score"`
	TopicsCovered     []string `json:"topics_covered"`
}

// NewPlaceholderReport returns the locally synthesized report.
func NewPlaceholderReport() PlaceholderReport {
	return PlaceholderReport{
		OverallAssessment: "Interview completed",
		Strengths:         []string{},
		WeakAreas:         []string{},
		Recommendations:   []string{},
	}
}

// NewPlaceholderSummary builds a summary from the transcript alone.
func NewPlaceholderSummary(chat []ChatTurn) PlaceholderSummary {
	questions := 0
	for _, turn := range chat {
		if turn.Sender == SenderInterviewer {
			questions++
		}
	}
	return PlaceholderSummary{
		TotalQuestions:    questions,
		TotalInteractions: len(chat),
		TopicsCovered:     []string{},
	}
}
