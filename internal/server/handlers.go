package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/interview-practice/internal/ingestion"
	"github.com/jonathan/interview-practice/internal/interview"
	"github.com/jonathan/interview-practice/internal/rendering"
	"github.com/jonathan/interview-practice/internal/session"
	"github.com/jonathan/interview-practice/internal/storage"
	"github.com/jonathan/interview-practice/internal/types"
)

// maxBodyBytes bounds request bodies, resumes included.
const maxBodyBytes = 1 << 20

// keepAliveInterval is how often an idle event stream gets a comment line.
const keepAliveInterval = 15 * time.Second

// StateResponse is the combined view returned by GET /state and the session actions.
type StateResponse struct {
	Interview interview.State `json:"interview"`
	Session   session.Status  `json:"session"`
}

// SelectionRequest is the body of PUT /selection.
type SelectionRequest struct {
	Role       string `json:"role"`
	Experience string `json:"experience"`
	Difficulty string `json:"difficulty"`
}

// ResumeRequest is the JSON body of PUT /resume. Exactly one of Text and
// BuiltResume is set.
type ResumeRequest struct {
	Text        string          `json:"text,omitempty"`
	FileName    string          `json:"file_name,omitempty"`
	BuiltResume json.RawMessage `json:"built_resume,omitempty"`
}

// AnswerRequest is the body of POST /session/answer.
type AnswerRequest struct {
	Text string `json:"text"`
}

// ReportResponse is returned by GET /report.
type ReportResponse struct {
	Report      json.RawMessage       `json:"report"`
	Summary     json.RawMessage       `json:"summary,omitempty"`
	PDFFilename string                `json:"pdf_filename,omitempty"`
	Role        string                `json:"role,omitempty"`
	Scores      *types.ScoreBreakdown `json:"scores,omitempty"`
}

func (s *Server) stateResponse() StateResponse {
	return StateResponse{
		Interview: s.store.Snapshot(),
		Session:   s.ctrl.Status(),
	}
}

// handleState returns the interview store and session status.
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.stateResponse())
}

// handleSelection stores the role, experience and difficulty for the next session.
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}

	difficulty, err := types.ParseDifficulty(req.Difficulty)
	if err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "difficulty", Message: err.Error()})
		return
	}
	sel := types.Selection{
		Role:       strings.TrimSpace(req.Role),
		Experience: strings.TrimSpace(req.Experience),
		Difficulty: difficulty,
	}
	if err := sel.Validate(); err != nil {
		s.errorFromErr(w, &ErrValidation{Field: "selection", Message: err.Error()})
		return
	}

	s.store.SetSelection(sel)
	s.jsonResponse(w, http.StatusOK, s.stateResponse())
}

// handleResume replaces the active resume. JSON bodies carry either plain
// text or a built-resume form; YAML bodies are a built-resume form.
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	content, err := s.readResume(w, r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.store.SetResume(content)
	s.jsonResponse(w, http.StatusOK, s.stateResponse())
}

func (s *Server) readResume(w http.ResponseWriter, r *http.Request) (types.ResumeContent, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			return types.ResumeContent{}, &ErrValidation{Field: "body", Message: err.Error()}
		}
		return builtResume(body, ingestion.FormatYAML)
	}

	var req ResumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return types.ResumeContent{}, err
	}
	if len(req.BuiltResume) > 0 {
		if req.Text != "" {
			return types.ResumeContent{}, &ErrValidation{Field: "text", Message: "set either text or built_resume"}
		}
		return builtResume(req.BuiltResume, ingestion.FormatJSON)
	}

	text := ingestion.CleanText(req.Text)
	if err := ingestion.CheckText(text); err != nil {
		return types.ResumeContent{}, &ErrValidation{Field: "text", Message: err.Error()}
	}
	return types.ResumeContent{RawText: text, Source: types.ResumeUploaded, FileName: req.FileName}, nil
}

func builtResume(data []byte, format ingestion.Format) (types.ResumeContent, error) {
	resume, err := ingestion.ParseBuiltResume(data, format)
	if err != nil {
		return types.ResumeContent{}, &ErrValidation{Field: "built_resume", Message: err.Error()}
	}
	content, err := resume.Content()
	if err != nil {
		return types.ResumeContent{}, fmt.Errorf("failed to serialize built resume: %w", err)
	}
	return content, nil
}

// handleStart starts a session and waits for the opening question.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Start(r.Context()); err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.stateResponse())
}

// handleAnswer records an answer. The next question arrives on the event stream.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}
	if err := s.ctrl.UserAnswer(r.Context(), req.Text); err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.jsonResponse(w, http.StatusAccepted, s.stateResponse())
}

// handleEnd concludes the session and waits until the results are stored.
func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.EndNow(r.Context()); err != nil {
		s.errorFromErr(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.stateResponse())
}

// handleReset discards the session and clears the store.
func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.ctrl.Reset()
	s.jsonResponse(w, http.StatusOK, s.stateResponse())
}

// handleEvents streams session events until the client disconnects. The
// first event is always the current state.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, unsubscribe := s.ctrl.Subscribe()
	defer unsubscribe()

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := s.ctrl.Status()
	initial := session.Event{
		Kind:      session.EventState,
		State:     status.State,
		SessionID: status.SessionID,
		Remaining: status.RemainingSeconds,
		Progress:  status.Progress,
	}
	if err := sse.WriteEvent(string(initial.Kind), initial); err != nil {
		return
	}

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if err := sse.WriteComment("keep-alive"); err != nil {
				return
			}
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := sse.WriteEvent(string(e.Kind), e); err != nil {
				log.Printf("[events] client gone: %v", err)
				return
			}
		}
	}
}

// handleReport returns the stored report and summary. With ?format=text the
// report is rendered as the plain-text feedback export.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	stored, err := storage.LoadResults(r.Context(), s.results)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		s.reportText(w, stored)
		return
	}

	resp := ReportResponse{
		Report:      json.RawMessage(stored.Report),
		PDFFilename: stored.PDFFilename,
		Role:        stored.Role,
		Scores:      stored.Scores,
	}
	if stored.Summary != "" {
		resp.Summary = json.RawMessage(stored.Summary)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) reportText(w http.ResponseWriter, stored *storage.Results) {
	view, err := rendering.ParseReport(types.FinalReport(stored.Report))
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	now := s.now()
	text, err := rendering.RenderReport(rendering.NewHeader(stored.Role, stored.Scores, now), view, stored.Scores)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	textResponse(w, rendering.ReportFilename(now), text)
}

// handleTranscript downloads the transcript export.
func (s *Server) handleTranscript(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	now := s.now()
	text, err := rendering.RenderTranscript(rendering.NewHeader(snap.Selection.Role, &snap.Scores, now), snap.Chat)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	textResponse(w, rendering.TranscriptFilename(now), text)
}

func textResponse(w http.ResponseWriter, filename, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, text); err != nil {
		log.Printf("Error writing text response: %v", err)
	}
}

// decodeJSON reads a bounded JSON body into v. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}
