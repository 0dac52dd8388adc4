// Package observability provides formatted terminal output for the practice CLI.
package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-practice/internal/rendering"
	"github.com/jonathan/interview-practice/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the interactive interview
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if runes := []rune(line); len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSelection outputs the interview setup before the session starts.
func (p *Printer) PrintSelection(role, experience, difficulty string, resume types.ResumeContent) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:       %s\n", role))
	sb.WriteString(fmt.Sprintf("Experience: %s years\n", experience))
	sb.WriteString(fmt.Sprintf("Difficulty: %s\n", difficulty))
	switch resume.Source {
	case types.ResumeUploaded, types.ResumeBuilt:
		name := resume.FileName
		if name == "" {
			name = "inline"
		}
		sb.WriteString(fmt.Sprintf("Resume:     %s (%s, %d chars)", name, resume.Source, len(resume.RawText)))
	default:
		sb.WriteString("Resume:     none")
	}
	p.printBox("MOCK INTERVIEW", sb.String())
}

// PrintTurn prints one chat turn as it is appended.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTurn(turn types.ChatTurn) {
	if turn.Sender == types.SenderUser {
		fmt.Fprintf(p.out, "[YOU] %s\n", turn.Text)
		return
	}
	fmt.Fprintf(p.out, "[INTERVIEWER] %s\n", turn.Text)
}

// PrintNotice prints a one-line status message such as an error or the remaining time.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintNotice(format string, args ...any) {
	fmt.Fprintf(p.out, "  » %s\n", fmt.Sprintf(format, args...))
}

// PrintScores outputs the running score breakdown as bars.
func (p *Printer) PrintScores(scores types.ScoreBreakdown) {
	rows := []struct {
		label string
		value int
	}{
		{"Communication", scores.Communication},
		{"Technical", scores.Technical},
		{"Confidence", scores.Confidence},
		{"Filler Words", scores.FillerWords},
		{"Pace", scores.Pace},
	}

	var sb strings.Builder
	for _, r := range rows {
		filled := r.value * 20 / 100
		sb.WriteString(fmt.Sprintf("%-14s %s%s %3d\n", r.label,
			strings.Repeat("█", filled), strings.Repeat("░", 20-filled), r.value))
	}
	sb.WriteString(fmt.Sprintf("%-14s %d/100", "Overall", rendering.OverallScore(scores)))
	p.printBox("SCORE BREAKDOWN", sb.String())
}

// summaryView is the subset of the interview summary shown in the terminal.
type summaryView struct {
	TotalQuestions    int      `json:"total_questions"`
	TotalInteractions int      `json:"total_interactions"`
	AverageScore      float64  `json:"average_score"`
	TopicsCovered     []string `json:"topics_covered"`
}

// PrintSummary outputs the stored interview summary. Unparseable summaries are skipped.
func (p *Printer) PrintSummary(raw types.InterviewSummary) {
	if len(raw) == 0 {
		return
	}
	var summary summaryView
	if err := json.Unmarshal(raw, &summary); err != nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Questions:     %d\n", summary.TotalQuestions))
	sb.WriteString(fmt.Sprintf("Interactions:  %d\n", summary.TotalInteractions))
	sb.WriteString(fmt.Sprintf("Average score: %.1f", summary.AverageScore))
	if len(summary.TopicsCovered) > 0 {
		sb.WriteString("\n\nTopics:\n")
		sb.WriteString(bulletList(summary.TopicsCovered))
	}
	p.printBox("INTERVIEW SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs the headline parts of the final report.
func (p *Printer) PrintReport(report *rendering.ReportView) {
	if report == nil {
		return
	}

	var sb strings.Builder
	assessment := report.OverallAssessment
	if assessment == "" {
		assessment = "N/A"
	}
	sb.WriteString(assessment)
	sb.WriteString("\n")

	sections := []struct {
		title string
		items []string
	}{
		{"Strengths", report.Strengths},
		{"Areas for improvement", report.WeakAreas},
		{"Recommendations", report.Recommendations},
	}
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s:\n", s.title))
		sb.WriteString(bulletList(s.items))
	}
	if report.HireVerdict != "" {
		sb.WriteString(fmt.Sprintf("\nVerdict: %s\n", report.HireVerdict))
	}

	p.printBox("FINAL REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

func bulletList(items []string) string {
	var sb strings.Builder
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	return sb.String()
}
