package session

import (
	"strconv"

	"github.com/jonathan/interview-practice/internal/prompts"
)

// Messages holds the fixed interviewer texts the controller emits.
type Messages struct {
	Welcome           string
	ConclusionTimeout string
	ConclusionManual  string
	Feedback          string
	Score             string
	StartFailed       string
	NextQuestionError string
	Acknowledgments   []string
}

// DefaultMessages loads the embedded interviewer catalog.
func DefaultMessages() Messages {
	return Messages{
		Welcome:           prompts.MustGet(prompts.Interviewer, "welcome"),
		ConclusionTimeout: prompts.MustGet(prompts.Interviewer, "conclusion-timeout"),
		ConclusionManual:  prompts.MustGet(prompts.Interviewer, "conclusion-manual"),
		Feedback:          prompts.MustGet(prompts.Interviewer, "feedback"),
		Score:             prompts.MustGet(prompts.Interviewer, "score"),
		StartFailed:       prompts.MustGet(prompts.Interviewer, "error-start"),
		NextQuestionError: prompts.MustGet(prompts.Interviewer, "error-next-question"),
		Acknowledgments:   prompts.MustGetList(prompts.Interviewer, "acknowledgments"),
	}
}

func (m Messages) feedback(text string) string {
	return prompts.Format(m.Feedback, map[string]string{"Feedback": text})
}

func (m Messages) score(score float64) string {
	return prompts.Format(m.Score, map[string]string{"Score": strconv.FormatFloat(score, 'f', -1, 64)})
}
