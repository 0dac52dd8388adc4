package backend

import (
	"encoding/json"

	"github.com/jonathan/interview-practice/internal/types"
)

// StartRequest is the body of POST /crew-interview-start.
type StartRequest struct {
	SessionID  string `json:"session_id"`
	Role       string `json:"role"`
	Experience string `json:"experience"`
	Difficulty string `json:"difficulty"`
	ResumeText string `json:"resume_text"`
}

// StartResponse is the reply to a start request.
type StartResponse struct {
	Success  bool    `json:"success"`
	Question *string `json:"question,omitempty"`
}

// FirstQuestion returns the opening question, or false when the backend did not succeed
// or omitted it.
func (r *StartResponse) FirstQuestion() (string, bool) {
	if r == nil || !r.Success || r.Question == nil || *r.Question == "" {
		return "", false
	}
	return *r.Question, true
}

// AnswerRequest is the body of POST /crew-interview-answer.
type AnswerRequest struct {
	SessionID           string               `json:"session_id"`
	Role                string               `json:"role"`
	Experience          string               `json:"experience"`
	Difficulty          string               `json:"difficulty"`
	ResumeText          string               `json:"resume_text"`
	UserMessage         string               `json:"user_message"`
	ConversationHistory []types.HistoryEntry `json:"conversation_history"`
}

// AnswerResponse is the reply to an answer request. Every field but Success is optional.
type AnswerResponse struct {
	Success  bool     `json:"success"`
	Feedback *string  `json:"feedback,omitempty"`
	Score    *float64 `json:"score,omitempty"`
	Question *string  `json:"question,omitempty"`
}

// FeedbackText returns the feedback if present and non-empty.
func (r *AnswerResponse) FeedbackText() (string, bool) {
	if r.Feedback == nil || *r.Feedback == "" {
		return "", false
	}
	return *r.Feedback, true
}

// ScoreValue returns the numeric score if present.
func (r *AnswerResponse) ScoreValue() (float64, bool) {
	if r.Score == nil {
		return 0, false
	}
	return *r.Score, true
}

// NextQuestion returns the next question if present and non-empty.
func (r *AnswerResponse) NextQuestion() (string, bool) {
	if r.Question == nil || *r.Question == "" {
		return "", false
	}
	return *r.Question, true
}

// EndRequest is the body of POST /crew-interview-end.
type EndRequest struct {
	SessionID string `json:"session_id"`
}

// EndResponse is the reply to an end request. Report and summary are kept verbatim.
type EndResponse struct {
	Success     *bool           `json:"success,omitempty"`
	Report      json.RawMessage `json:"report,omitempty"`
	Summary     json.RawMessage `json:"summary,omitempty"`
	PDFFilename string          `json:"pdf_filename,omitempty"`
}

// HasReport reports whether the backend returned a report object.
func (r *EndResponse) HasReport() bool {
	return present(r.Report)
}

// HasSummary reports whether the backend returned a summary object.
func (r *EndResponse) HasSummary() bool {
	return present(r.Summary)
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the reply to a login request.
type LoginResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// AckResponse is the reply of the set-role and set-difficulty pass-through endpoints.
type AckResponse struct {
	Success bool `json:"success"`
}
