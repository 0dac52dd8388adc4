// Package session drives one mock interview against the backend: it starts the
// session, runs the answer/feedback turn protocol, counts down the interview
// time and always brings the session to a persisted end.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/interview-practice/internal/backend"
	"github.com/jonathan/interview-practice/internal/interview"
	"github.com/jonathan/interview-practice/internal/speech"
	"github.com/jonathan/interview-practice/internal/storage"
	"github.com/jonathan/interview-practice/internal/types"
)

// Defaults for Options.
const (
	DefaultDuration   = 600 * time.Second
	DefaultTick       = time.Second
	DefaultPacing     = 3 * time.Second
	DefaultEndTimeout = 15 * time.Second
)

// Backend is the part of the backend API the controller calls.
type Backend interface {
	Start(ctx context.Context, req backend.StartRequest) (*backend.StartResponse, error)
	Answer(ctx context.Context, req backend.AnswerRequest) (*backend.AnswerResponse, error)
	End(ctx context.Context, req backend.EndRequest) (*backend.EndResponse, error)
}

// Options tunes a Controller. Zero values select the defaults.
type Options struct {
	// Duration is the total interview time.
	Duration time.Duration
	// Tick is the countdown resolution.
	Tick time.Duration
	// Pacing is the pause between the acknowledgment and the next-question
	// request. A negative value sends the request immediately.
	Pacing time.Duration
	// EndTimeout bounds the end-of-session backend call and persistence.
	EndTimeout time.Duration

	Rand     *rand.Rand
	Logger   *slog.Logger
	Messages *Messages
	Now      func() time.Time
}

func (o *Options) applyDefaults() {
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
	if o.Tick <= 0 {
		o.Tick = DefaultTick
	}
	if o.Pacing < 0 {
		o.Pacing = 0
	} else if o.Pacing == 0 {
		o.Pacing = DefaultPacing
	}
	if o.EndTimeout <= 0 {
		o.EndTimeout = DefaultEndTimeout
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Status is a read-only view of the controller for presentation layers.
type Status struct {
	State            State   `json:"state"`
	SessionID        string  `json:"session_id,omitempty"`
	RemainingSeconds int     `json:"remaining_seconds"`
	Progress         float64 `json:"progress"`
	LastError        string  `json:"last_error,omitempty"`
}

// Controller owns the session state machine. All methods are safe for
// concurrent use.
type Controller struct {
	backend Backend
	store   *interview.Store
	results storage.Store
	opts    Options
	msgs    Messages
	logger  *slog.Logger
	events  *broadcaster
	tasks   sync.WaitGroup

	mu          sync.Mutex
	state       State
	epoch       uint64
	sessionID   string
	established bool
	request     backend.StartRequest
	history     []types.HistoryEntry
	deadline    time.Time
	lastError   string
	sessionCtx  context.Context
	cancel      context.CancelFunc
	closed      bool
}

// New creates a controller in StateNotStarted.
func New(b Backend, store *interview.Store, results storage.Store, opts Options) *Controller {
	opts.applyDefaults()
	msgs := DefaultMessages()
	if opts.Messages != nil {
		msgs = *opts.Messages
	}
	return &Controller{
		backend: b,
		store:   store,
		results: results,
		opts:    opts,
		msgs:    msgs,
		logger:  opts.Logger,
		events:  newBroadcaster(),
		state:   StateNotStarted,
	}
}

// Subscribe returns a channel of session events and a func that unsubscribes
// and closes it.
func (c *Controller) Subscribe() (<-chan Event, func()) {
	return c.events.subscribe()
}

// Start begins a new backend session with the store's current selection and
// resume. It is allowed from StateNotStarted and StateFailed.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !CanTransition(c.state, StateStarting) {
		err := &TransitionError{From: c.state, To: StateStarting}
		c.mu.Unlock()
		return err
	}
	c.epoch++
	epoch := c.epoch

	snap := c.store.Snapshot()
	role, experience, difficulty := snap.Selection.WithDefaults()
	req := backend.StartRequest{
		SessionID:  newSessionID(c.opts.Now()),
		Role:       role,
		Experience: experience,
		Difficulty: difficulty,
		ResumeText: snap.Resume.RawText,
	}
	c.sessionID = req.SessionID
	c.request = req
	c.established = false
	c.history = nil
	c.lastError = ""
	_ = c.transitionLocked(StateStarting)
	c.mu.Unlock()

	c.logger.Info("starting interview",
		"session_id", req.SessionID, "role", role, "experience", experience, "difficulty", difficulty)
	resp, err := c.backend.Start(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || c.state != StateStarting {
		c.logger.Debug("discarding start response", "session_id", req.SessionID, "state", c.state)
		return nil
	}

	question, ok := resp.FirstQuestion()
	if err == nil && !ok {
		err = errors.New("backend returned no opening question")
	}
	if err != nil {
		c.logger.Error("failed to start interview", "session_id", req.SessionID, "error", err)
		c.lastError = c.msgs.StartFailed
		if terr := c.transitionLocked(StateFailed); terr != nil {
			return terr
		}
		c.events.publish(Event{Kind: EventError, State: c.state, SessionID: c.sessionID, Message: c.msgs.StartFailed})
		return &Error{Message: c.msgs.StartFailed, Cause: err}
	}

	c.appendTurnLocked(types.SenderInterviewer, c.msgs.Welcome)
	c.appendTurnLocked(types.SenderInterviewer, question)
	c.history = []types.HistoryEntry{{Role: types.SenderInterviewer, Content: question}}
	c.established = true
	c.deadline = c.opts.Now().Add(c.opts.Duration)
	c.sessionCtx, c.cancel = context.WithCancel(context.Background())
	if err := c.transitionLocked(StateActive); err != nil {
		return err
	}

	c.tasks.Add(1)
	go c.runTimer(c.sessionCtx, epoch)
	return nil
}

// UserAnswer records an answer, scores it, acknowledges it and schedules the
// next-question request after the pacing delay. Whitespace-only input is
// ignored. Answers outside StateActive return ErrNotActive.
func (c *Controller) UserAnswer(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return ErrNotActive
	}

	c.appendTurnLocked(types.SenderUser, text)
	metrics := speech.Analyze(text)
	scores := c.store.UpdateScoreBreakdown(metrics.Sample())
	c.logger.Debug("answer scored",
		"session_id", c.sessionID,
		"words", metrics.WordCount,
		"filler_ratio", metrics.FillerRatio,
		"communication", scores.Communication,
		"confidence", scores.Confidence,
		"filler_words", scores.FillerWords)

	if ack := Pick(c.msgs.Acknowledgments, c.opts.Rand); ack != "" {
		c.appendTurnLocked(types.SenderInterviewer, ack)
	}

	req := backend.AnswerRequest{
		SessionID:           c.request.SessionID,
		Role:                c.request.Role,
		Experience:          c.request.Experience,
		Difficulty:          c.request.Difficulty,
		ResumeText:          c.request.ResumeText,
		UserMessage:         text,
		ConversationHistory: slices.Clone(c.history),
	}
	c.tasks.Add(1)
	go c.requestNextQuestion(c.sessionCtx, c.epoch, req)
	return nil
}

// EndNow concludes the session on user request. Without an established
// backend session the backend is not called and placeholders are stored.
// It returns once the session has reached StateEnded. It is a no-op when the
// session is already concluding or ended.
func (c *Controller) EndNow(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.IsTerminal() {
		c.mu.Unlock()
		return nil
	}
	epoch := c.epoch
	c.mu.Unlock()

	c.conclude(context.WithoutCancel(ctx), epoch, c.msgs.ConclusionManual)
	return nil
}

// Reset cancels any running session, clears the store and returns to
// StateNotStarted.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.epoch++
	c.sessionID = ""
	c.established = false
	c.request = backend.StartRequest{}
	c.history = nil
	c.deadline = time.Time{}
	c.lastError = ""
	c.store.Reset()

	if c.state != StateNotStarted {
		c.logger.Info("interview reset", "from", c.state)
		c.state = StateNotStarted
		c.events.publish(Event{Kind: EventState, State: c.state})
	}
}

// Close stops the countdown and any pending requests and waits for them to
// exit. The controller rejects Start and EndNow afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopLocked()
	c.epoch++
	c.mu.Unlock()

	c.tasks.Wait()
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the id of the current session, or "" before Start.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// History returns a copy of the backend-facing conversation history.
func (c *Controller) History() []types.HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.history)
}

// Status returns the state with countdown and last-error information.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	remaining := c.remainingLocked()
	return Status{
		State:            c.state,
		SessionID:        c.sessionID,
		RemainingSeconds: seconds(remaining),
		Progress:         Progress(remaining, c.opts.Duration),
		LastError:        c.lastError,
	}
}

// Duration returns the configured total interview time.
func (c *Controller) Duration() time.Duration {
	return c.opts.Duration
}

func (c *Controller) runTimer(ctx context.Context, epoch uint64) {
	defer c.tasks.Done()

	ticker := time.NewTicker(c.opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		if c.epoch != epoch || c.state != StateActive {
			c.mu.Unlock()
			return
		}
		remaining := c.remainingLocked()
		if remaining > 0 {
			c.events.publish(Event{
				Kind:      EventTick,
				State:     c.state,
				SessionID: c.sessionID,
				Remaining: seconds(remaining),
				Progress:  Progress(remaining, c.opts.Duration),
			})
			c.mu.Unlock()
			continue
		}
		c.mu.Unlock()

		c.logger.Info("interview time is up", "session_id", c.SessionID())
		c.conclude(context.Background(), epoch, c.msgs.ConclusionTimeout)
		return
	}
}

func (c *Controller) requestNextQuestion(ctx context.Context, epoch uint64, req backend.AnswerRequest) {
	defer c.tasks.Done()

	timer := time.NewTimer(c.opts.Pacing)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	resp, err := c.backend.Answer(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || c.state != StateActive {
		c.logger.Debug("discarding stale answer response", "session_id", req.SessionID, "state", c.state)
		return
	}
	if err == nil && !resp.Success {
		err = errors.New("backend reported failure")
	}
	if err != nil {
		c.logger.Warn("failed to get next question", "session_id", req.SessionID, "error", err)
		c.lastError = c.msgs.NextQuestionError
		c.events.publish(Event{Kind: EventError, State: c.state, SessionID: c.sessionID, Message: c.lastError})
		return
	}

	c.lastError = ""
	if feedback, ok := resp.FeedbackText(); ok {
		c.appendTurnLocked(types.SenderInterviewer, c.msgs.feedback(feedback))
	}
	if score, ok := resp.ScoreValue(); ok {
		c.appendTurnLocked(types.SenderInterviewer, c.msgs.score(score))
	}
	if question, ok := resp.NextQuestion(); ok {
		c.appendTurnLocked(types.SenderInterviewer, question)
		c.history = append(c.history,
			types.HistoryEntry{Role: types.SenderUser, Content: req.UserMessage},
			types.HistoryEntry{Role: types.SenderInterviewer, Content: question},
		)
	}
}

// conclude moves the session of the given epoch through Concluding to Ended.
// The backend end call and persistence share one EndTimeout budget each, so
// the session cannot stay in Concluding indefinitely.
func (c *Controller) conclude(ctx context.Context, epoch uint64, message string) {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return
	}
	established := c.established && c.state == StateActive
	if err := c.transitionLocked(StateConcluding); err != nil {
		c.mu.Unlock()
		return
	}
	if established {
		c.appendTurnLocked(types.SenderInterviewer, message)
	}
	c.stopLocked()
	sessionID := c.sessionID
	c.mu.Unlock()

	var resp *backend.EndResponse
	if established {
		endCtx, cancel := context.WithTimeout(ctx, c.opts.EndTimeout)
		r, err := c.backend.End(endCtx, backend.EndRequest{SessionID: sessionID})
		cancel()
		if err != nil {
			c.logger.Warn("failed to end interview, storing placeholder report", "session_id", sessionID, "error", err)
		} else {
			resp = r
		}
	} else {
		c.logger.Info("no established session, storing placeholder report")
	}

	persistCtx, cancel := context.WithTimeout(ctx, c.opts.EndTimeout)
	c.persistResults(persistCtx, resp)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch || c.state != StateConcluding {
		return
	}
	if err := c.transitionLocked(StateEnded); err != nil {
		c.logger.Error("failed to end interview", "session_id", sessionID, "error", err)
	}
}

// persistResults writes the report, summary, PDF filename, role and score
// breakdown, falling back to locally synthesized placeholders per field. A PDF
// filename left by an earlier session is removed when the backend sent none.
// Storage failures are logged.
func (c *Controller) persistResults(ctx context.Context, resp *backend.EndResponse) {
	if c.results == nil {
		return
	}
	snap := c.store.Snapshot()

	var report, summary []byte
	if resp != nil && resp.HasReport() {
		report = resp.Report
	} else {
		report = mustJSON(types.NewPlaceholderReport())
	}
	if resp != nil && resp.HasSummary() {
		summary = resp.Summary
	} else {
		summary = mustJSON(types.NewPlaceholderSummary(snap.Chat))
	}

	c.put(ctx, storage.KeyFinalReport, string(report))
	c.put(ctx, storage.KeyInterviewSummary, string(summary))
	c.put(ctx, storage.KeyRole, snap.Selection.Role)
	c.put(ctx, storage.KeyScoreBreakdown, string(mustJSON(snap.Scores)))
	if resp != nil && resp.PDFFilename != "" {
		c.put(ctx, storage.KeyPDFFilename, resp.PDFFilename)
	} else if err := c.results.Delete(ctx, storage.KeyPDFFilename); err != nil {
		c.logger.Error("failed to clear stale PDF filename", "error", err)
	}
}

func (c *Controller) put(ctx context.Context, key, value string) {
	if err := c.results.Put(ctx, key, value); err != nil {
		c.logger.Error("failed to persist interview result", "key", key, "error", err)
	}
}

func (c *Controller) transitionLocked(to State) error {
	if !CanTransition(c.state, to) {
		return &TransitionError{From: c.state, To: to}
	}
	c.logger.Debug("session state changed", "session_id", c.sessionID, "from", c.state, "to", to)
	c.state = to
	c.events.publish(Event{Kind: EventState, State: to, SessionID: c.sessionID})
	return nil
}

func (c *Controller) appendTurnLocked(sender types.Sender, text string) {
	turn, ok := c.store.AppendChatTurn(sender, text)
	if !ok {
		return
	}
	c.events.publish(Event{Kind: EventTurn, State: c.state, SessionID: c.sessionID, Turn: &turn})
}

// stopLocked cancels the countdown and pending next-question requests.
func (c *Controller) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) remainingLocked() time.Duration {
	switch c.state {
	case StateNotStarted, StateStarting, StateFailed:
		return c.opts.Duration
	case StateActive:
		remaining := c.deadline.Sub(c.opts.Now())
		if remaining < 0 {
			return 0
		}
		return remaining
	default:
		return 0
	}
}

func newSessionID(now time.Time) string {
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}

func seconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal result: %v", err))
	}
	return data
}
