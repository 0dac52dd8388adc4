package rendering

import (
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/jonathan/interview-practice/internal/types"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// ruleWidth is the width of the section separators.
const ruleWidth = 80

var templates = template.Must(template.New("exports").Funcs(template.FuncMap{
	"rule": func(ch string) string { return strings.Repeat(ch, ruleWidth) },
	"inc":  func(i int) int { return i + 1 },
	"speaker": func(s types.Sender) string {
		if s == types.SenderUser {
			return "YOU"
		}
		return "INTERVIEWER"
	},
}).ParseFS(templateFiles, "templates/*.tmpl"))

// Header is the common heading of both exports.
type Header struct {
	Role         string
	Scored       bool
	OverallScore int
	Date         string
}

// NewHeader builds the export heading. An empty role renders as "Not specified"
// and nil scores leave out the overall score line.
func NewHeader(role string, scores *types.ScoreBreakdown, date time.Time) Header {
	if role == "" {
		role = "Not specified"
	}
	h := Header{Role: role, Date: date.Format("1/2/2006")}
	if scores != nil {
		h.Scored = true
		h.OverallScore = OverallScore(*scores)
	}
	return h
}

// OverallScore is the rounded mean of the five score fields.
func OverallScore(s types.ScoreBreakdown) int {
	sum := s.Communication + s.Technical + s.Confidence + s.FillerWords + s.Pace
	return int(math.Round(float64(sum) / 5))
}

// ReportView is the subset of the backend report the feedback export shows.
type ReportView struct {
	OverallAssessment     string   `json:"overall_assessment"`
	Strengths             []string `json:"strengths"`
	WeakAreas             []string `json:"weak_areas"`
	Recommendations       []string `json:"recommendations"`
	CommunicationAnalysis string   `json:"communication_analysis"`
	TechnicalDepth        string   `json:"technical_depth"`
	HireVerdict           string   `json:"hire_verdict"`
}

// ParseReport decodes a stored report. An empty report yields nil.
func ParseReport(raw types.FinalReport) (*ReportView, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var view ReportView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, &RenderError{Message: "failed to decode report", Cause: err}
	}
	return &view, nil
}

// RenderTranscript renders the chat as the plain-text transcript export.
func RenderTranscript(header Header, chat []types.ChatTurn) (string, error) {
	data := struct {
		Header
		Turns []types.ChatTurn
	}{Header: header, Turns: chat}
	return execute("transcript.tmpl", data)
}

// RenderReport renders the feedback report export. A nil report prints only
// the heading and score breakdown; nil scores drop the breakdown.
func RenderReport(header Header, report *ReportView, scores *types.ScoreBreakdown) (string, error) {
	data := struct {
		Header
		Report *ReportView
		Scores *types.ScoreBreakdown
	}{Header: header, Report: report, Scores: scores}
	return execute("report.tmpl", data)
}

func execute(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", &TemplateError{Message: fmt.Sprintf("failed to execute %s", name), Cause: err}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

// TranscriptFilename is the default download name for a transcript export.
func TranscriptFilename(now time.Time) string {
	return fmt.Sprintf("interview_transcript_%d.txt", now.UnixMilli())
}

// ReportFilename is the default download name for a feedback export.
func ReportFilename(now time.Time) string {
	return fmt.Sprintf("interview_feedback_%d.txt", now.UnixMilli())
}
