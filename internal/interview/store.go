// Package interview holds the shared state of one interview practice run:
// selections, resume, chat transcript and running scores.
package interview

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/interview-practice/internal/types"
)

// State is a point-in-time copy of the store. Mutating it has no effect on the store.
type State struct {
	Selection types.Selection      `json:"selection"`
	Resume    types.ResumeContent  `json:"resume"`
	Chat      []types.ChatTurn     `json:"chat"`
	Scores    types.ScoreBreakdown `json:"scores"`
}

// Store is the single mutable container shared by the session controller and
// the presentation layer. All methods are safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	state State
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to timestamp chat turns.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store in its initial state.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.state = initialState()
	return s
}

func initialState() State {
	return State{
		Resume: types.ResumeContent{Source: types.ResumeNone},
		Chat:   []types.ChatTurn{},
		Scores: types.DefaultScoreBreakdown(),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	snap.Chat = make([]types.ChatTurn, len(s.state.Chat))
	copy(snap.Chat, s.state.Chat)
	return snap
}

// Transcript returns a copy of the chat turns in conversation order.
func (s *Store) Transcript() []types.ChatTurn {
	return s.Snapshot().Chat
}

// SetRole sets the selected role.
func (s *Store) SetRole(role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Selection.Role = role
}

// SetExperience sets the selected experience level.
func (s *Store) SetExperience(experience string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Selection.Experience = experience
}

// SetDifficulty sets the selected difficulty.
func (s *Store) SetDifficulty(difficulty types.Difficulty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Selection.Difficulty = difficulty
}

// SetSelection replaces the whole selection.
func (s *Store) SetSelection(sel types.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Selection = sel
}

// SetResume replaces the active resume.
func (s *Store) SetResume(resume types.ResumeContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if resume.Source == "" {
		resume.Source = types.ResumeNone
	}
	s.state.Resume = resume
}

// AppendChatTurn appends a turn with trimmed text stamped with the current time.
// Whitespace-only text is ignored; the returned bool reports whether a turn was added.
func (s *Store) AppendChatTurn(sender types.Sender, text string) (types.ChatTurn, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.ChatTurn{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	turn := types.ChatTurn{Sender: sender, Text: text, Timestamp: s.now().UTC()}
	s.state.Chat = append(s.state.Chat, turn)
	return turn, true
}

// UpdateScoreBreakdown folds each sampled field into its running value and
// returns the updated breakdown.
func (s *Store) UpdateScoreBreakdown(sample types.ScoreSample) types.ScoreBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := &s.state.Scores
	for field, value := range sample {
		switch field {
		case types.ScoreCommunication:
			sc.Communication = Fold(sc.Communication, value)
		case types.ScoreTechnical:
			sc.Technical = Fold(sc.Technical, value)
		case types.ScoreConfidence:
			sc.Confidence = Fold(sc.Confidence, value)
		case types.ScoreFillerWords:
			sc.FillerWords = Fold(sc.FillerWords, value)
		case types.ScorePace:
			sc.Pace = Fold(sc.Pace, value)
		}
	}
	return *sc
}

// Reset restores every field to its initial value.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = initialState()
}

// Fold blends a new sample into a running score: round((old+sample)/2).
// Samples outside [0,100] are clamped first.
func Fold(old int, sample float64) int {
	sample = math.Max(0, math.Min(100, sample))
	return int(math.Round((float64(old) + sample) / 2))
}
