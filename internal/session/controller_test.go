package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/interview-practice/internal/backend"
	"github.com/jonathan/interview-practice/internal/interview"
	"github.com/jonathan/interview-practice/internal/storage"
	"github.com/jonathan/interview-practice/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	poll    = 5 * time.Millisecond
)

type fakeBackend struct {
	mu sync.Mutex

	startResp  *backend.StartResponse
	startErr   error
	answerResp *backend.AnswerResponse
	answerErr  error
	endResp    *backend.EndResponse
	endErr     error

	// startGate, when set, holds Start until closed.
	startGate   chan struct{}
	startCalled chan struct{}
	// answerGate, when set, holds Answer until closed, ignoring cancellation.
	answerGate   chan struct{}
	answerCalled chan struct{}
	// endBlocks makes End wait for its context to expire.
	endBlocks bool

	startCalls  []backend.StartRequest
	answerCalls []backend.AnswerRequest
	endCalls    []backend.EndRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		startResp: &backend.StartResponse{Success: true, Question: ptr("Tell me about yourself")},
		answerResp: &backend.AnswerResponse{
			Success:  true,
			Feedback: ptr("Clear and concise"),
			Score:    ptr(78.0),
			Question: ptr("What is your biggest project?"),
		},
		endResp: &backend.EndResponse{
			Success:     ptr(true),
			Report:      json.RawMessage(`{"overall_assessment":"Strong"}`),
			Summary:     json.RawMessage(`{"total_questions":3}`),
			PDFFilename: "report_1.pdf",
		},
		answerCalled: make(chan struct{}, 16),
	}
}

func (f *fakeBackend) Start(_ context.Context, req backend.StartRequest) (*backend.StartResponse, error) {
	f.mu.Lock()
	f.startCalls = append(f.startCalls, req)
	gate, called := f.startGate, f.startCalled
	resp, err := f.startResp, f.startErr
	f.mu.Unlock()

	if called != nil {
		called <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return resp, err
}

func (f *fakeBackend) Answer(ctx context.Context, req backend.AnswerRequest) (*backend.AnswerResponse, error) {
	f.mu.Lock()
	f.answerCalls = append(f.answerCalls, req)
	gate := f.answerGate
	resp, err := f.answerResp, f.answerErr
	f.mu.Unlock()

	f.answerCalled <- struct{}{}
	if gate != nil {
		<-gate
	} else if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return resp, err
}

func (f *fakeBackend) End(ctx context.Context, req backend.EndRequest) (*backend.EndResponse, error) {
	f.mu.Lock()
	f.endCalls = append(f.endCalls, req)
	blocks := f.endBlocks
	resp, err := f.endResp, f.endErr
	f.mu.Unlock()

	if blocks {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return resp, err
}

func (f *fakeBackend) calls() (starts, answers, ends int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.startCalls), len(f.answerCalls), len(f.endCalls)
}

func ptr[T any](v T) *T {
	return &v
}

type harness struct {
	ctrl    *Controller
	store   *interview.Store
	results *storage.MemoryStore
	backend *fakeBackend
}

func newHarness(t *testing.T, fb *fakeBackend, opts Options) *harness {
	t.Helper()
	if opts.Pacing == 0 {
		opts.Pacing = 10 * time.Millisecond
	}
	if opts.Tick == 0 {
		opts.Tick = 5 * time.Millisecond
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(1, 2))
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	store := interview.NewStore()
	results := storage.NewMemoryStore()
	ctrl := New(fb, store, results, opts)
	t.Cleanup(ctrl.Close)
	return &harness{ctrl: ctrl, store: store, results: results, backend: fb}
}

func texts(chat []types.ChatTurn) []string {
	out := make([]string, len(chat))
	for i, turn := range chat {
		out[i] = turn.Text
	}
	return out
}

func (h *harness) stored(t *testing.T, key string) string {
	t.Helper()
	value, err := h.results.Get(context.Background(), key)
	require.NoError(t, err, "key %s", key)
	return value
}

func TestController_HappyPath(t *testing.T) {
	fb := newFakeBackend()
	h := newHarness(t, fb, Options{Rand: rand.New(rand.NewPCG(7, 7))})
	h.store.SetSelection(types.Selection{Role: "Backend Engineer", Experience: "4-6", Difficulty: types.DifficultyHard})
	h.store.SetResume(types.ResumeContent{RawText: "Go, PostgreSQL", Source: types.ResumeUploaded})
	msgs := DefaultMessages()

	require.NoError(t, h.ctrl.Start(context.Background()))
	assert.Equal(t, StateActive, h.ctrl.State())
	assert.True(t, strings.HasPrefix(h.ctrl.SessionID(), "session_"))

	chat := h.store.Transcript()
	require.Len(t, chat, 2)
	for _, turn := range chat {
		assert.Equal(t, types.SenderInterviewer, turn.Sender)
	}
	assert.Equal(t, []string{msgs.Welcome, "Tell me about yourself"}, texts(chat))
	assert.Equal(t, []types.HistoryEntry{{Role: types.SenderInterviewer, Content: "Tell me about yourself"}}, h.ctrl.History())

	answer := "I am a backend engineer with five years experience"
	require.NoError(t, h.ctrl.UserAnswer(context.Background(), answer))

	wantAck := Pick(msgs.Acknowledgments, rand.New(rand.NewPCG(7, 7)))
	chat = h.store.Transcript()
	require.Len(t, chat, 4)
	assert.Equal(t, types.SenderUser, chat[2].Sender)
	assert.Equal(t, answer, chat[2].Text)
	assert.Equal(t, wantAck, chat[3].Text)

	require.Eventually(t, func() bool { return len(h.store.Transcript()) == 7 }, waitFor, poll)
	assert.Equal(t, []string{
		"Feedback: Clear and concise",
		"Score: 78/100",
		"What is your biggest project?",
	}, texts(h.store.Transcript()[4:]))

	scores := h.store.Snapshot().Scores
	assert.Equal(t, 35, scores.Communication)
	assert.Equal(t, 100, scores.FillerWords)
	assert.Equal(t, 0, scores.Technical)

	assert.Equal(t, []types.HistoryEntry{
		{Role: types.SenderInterviewer, Content: "Tell me about yourself"},
		{Role: types.SenderUser, Content: answer},
		{Role: types.SenderInterviewer, Content: "What is your biggest project?"},
	}, h.ctrl.History())

	fb.mu.Lock()
	start := fb.startCalls[0]
	sent := fb.answerCalls[0]
	fb.mu.Unlock()
	assert.Equal(t, "Backend Engineer", start.Role)
	assert.Equal(t, "4-6", start.Experience)
	assert.Equal(t, "Hard", start.Difficulty)
	assert.Equal(t, "Go, PostgreSQL", start.ResumeText)
	assert.Equal(t, start.SessionID, sent.SessionID)
	assert.Equal(t, answer, sent.UserMessage)
	assert.Len(t, sent.ConversationHistory, 1)
	assert.Equal(t, StateActive, h.ctrl.State())
}

func TestController_Start_Defaults(t *testing.T) {
	fb := newFakeBackend()
	h := newHarness(t, fb, Options{})

	require.NoError(t, h.ctrl.Start(context.Background()))

	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.Len(t, fb.startCalls, 1)
	assert.Equal(t, "Software Engineer", fb.startCalls[0].Role)
	assert.Equal(t, "2-3", fb.startCalls[0].Experience)
	assert.Equal(t, "Medium", fb.startCalls[0].Difficulty)
	assert.Equal(t, "", fb.startCalls[0].ResumeText)
}

func TestController_Start_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeBackend)
	}{
		{
			name:  "transport error",
			setup: func(fb *fakeBackend) { fb.startErr = errors.New("connection refused") },
		},
		{
			name:  "unsuccessful",
			setup: func(fb *fakeBackend) { fb.startResp = &backend.StartResponse{Success: false} },
		},
		{
			name:  "missing question",
			setup: func(fb *fakeBackend) { fb.startResp = &backend.StartResponse{Success: true} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend()
			tt.setup(fb)
			h := newHarness(t, fb, Options{})

			err := h.ctrl.Start(context.Background())
			require.Error(t, err)

			var sessionErr *Error
			require.ErrorAs(t, err, &sessionErr)
			assert.Equal(t, "Failed to start interview. Please try again.", sessionErr.Message)
			assert.Equal(t, StateFailed, h.ctrl.State())
			assert.Equal(t, sessionErr.Message, h.ctrl.Status().LastError)
			assert.Empty(t, h.store.Transcript())
		})
	}
}

func TestController_Start_RetryAfterFailure(t *testing.T) {
	fb := newFakeBackend()
	fb.startErr = errors.New("boom")
	h := newHarness(t, fb, Options{})

	require.Error(t, h.ctrl.Start(context.Background()))
	firstID := h.ctrl.SessionID()

	fb.mu.Lock()
	fb.startErr = nil
	fb.mu.Unlock()

	require.NoError(t, h.ctrl.Start(context.Background()))
	assert.Equal(t, StateActive, h.ctrl.State())
	assert.NotEqual(t, firstID, h.ctrl.SessionID())
	assert.Empty(t, h.ctrl.Status().LastError)
}

func TestController_Start_WhileActive(t *testing.T) {
	h := newHarness(t, newFakeBackend(), Options{})
	require.NoError(t, h.ctrl.Start(context.Background()))

	err := h.ctrl.Start(context.Background())
	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StateActive, transitionErr.From)
}

func TestController_UserAnswer_Ignored(t *testing.T) {
	h := newHarness(t, newFakeBackend(), Options{})

	assert.ErrorIs(t, h.ctrl.UserAnswer(context.Background(), "hello"), ErrNotActive)
	assert.Empty(t, h.store.Transcript())

	require.NoError(t, h.ctrl.Start(context.Background()))
	before := h.store.Snapshot()

	require.NoError(t, h.ctrl.UserAnswer(context.Background(), "   \n\t "))
	after := h.store.Snapshot()
	assert.Equal(t, before.Chat, after.Chat)
	assert.Equal(t, before.Scores, after.Scores)

	_, answers, _ := h.backend.calls()
	assert.Zero(t, answers)
}

func TestController_UserAnswer_BackendFailureStaysActive(t *testing.T) {
	fb := newFakeBackend()
	fb.answerErr = errors.New("timeout")
	h := newHarness(t, fb, Options{})

	events, cancel := h.ctrl.Subscribe()
	defer cancel()

	require.NoError(t, h.ctrl.Start(context.Background()))
	require.NoError(t, h.ctrl.UserAnswer(context.Background(), "I like Go"))

	require.Eventually(t, func() bool {
		return h.ctrl.Status().LastError == "Failed to get next question. Please try again."
	}, waitFor, poll)
	assert.Equal(t, StateActive, h.ctrl.State())
	assert.Len(t, h.store.Transcript(), 4)
	assert.Len(t, h.ctrl.History(), 1)

	var sawError bool
	for !sawError {
		select {
		case e := <-events:
			sawError = e.Kind == EventError
		case <-time.After(waitFor):
			t.Fatal("no error event published")
		}
	}
}

func TestController_UserAnswer_PartialResponse(t *testing.T) {
	fb := newFakeBackend()
	fb.answerResp = &backend.AnswerResponse{Success: true, Score: ptr(0.0)}
	h := newHarness(t, fb, Options{})

	require.NoError(t, h.ctrl.Start(context.Background()))
	require.NoError(t, h.ctrl.UserAnswer(context.Background(), "short answer"))

	require.Eventually(t, func() bool { return len(h.store.Transcript()) == 5 }, waitFor, poll)
	assert.Equal(t, "Score: 0/100", h.store.Transcript()[4].Text)
	assert.Len(t, h.ctrl.History(), 1, "no history pair without a next question")
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	fb := newFakeBackend()
	fb.answerGate = make(chan struct{})
	h := newHarness(t, fb, Options{})

	require.NoError(t, h.ctrl.Start(context.Background()))
	require.NoError(t, h.ctrl.UserAnswer(context.Background(), "my answer"))

	select {
	case <-fb.answerCalled:
	case <-time.After(waitFor):
		t.Fatal("answer request was never sent")
	}

	require.NoError(t, h.ctrl.EndNow(context.Background()))
	require.Equal(t, StateEnded, h.ctrl.State())
	before := h.store.Snapshot()
	history := h.ctrl.History()

	close(fb.answerGate)
	h.ctrl.Close()

	after := h.store.Snapshot()
	assert.Equal(t, before.Chat, after.Chat)
	assert.Equal(t, before.Scores, after.Scores)
	assert.Equal(t, history, h.ctrl.History())
	assert.Equal(t, StateEnded, h.ctrl.State())
}

func TestController_PacingCanceledOnEnd(t *testing.T) {
	fb := newFakeBackend()
	h := newHarness(t, fb, Options{Pacing: time.Hour})

	require.NoError(t, h.ctrl.Start(context.Background()))
	require.NoError(t, h.ctrl.UserAnswer(context.Background(), "answer"))
	require.NoError(t, h.ctrl.EndNow(context.Background()))

	done := make(chan struct{})
	go func() {
		h.ctrl.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("pending request was not canceled")
	}

	_, answers, _ := fb.calls()
	assert.Zero(t, answers)
}

func TestController_EndNow_StoresBackendReport(t *testing.T) {
	fb := newFakeBackend()
	h := newHarness(t, fb, Options{})

	require.NoError(t, h.ctrl.Start(context.Background()))
	id := h.ctrl.SessionID()
	require.NoError(t, h.ctrl.EndNow(context.Background()))

	assert.Equal(t, StateEnded, h.ctrl.State())
	assert.JSONEq(t, `{"overall_assessment":"Strong"}`, h.stored(t, storage.KeyFinalReport))
	assert.JSONEq(t, `{"total_questions":3}`, h.stored(t, storage.KeyInterviewSummary))
	assert.Equal(t, "report_1.pdf", h.stored(t, storage.KeyPDFFilename))

	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.Len(t, fb.endCalls, 1)
	assert.Equal(t, id, fb.endCalls[0].SessionID)

	chat := h.store.Transcript()
	assert.Equal(t, DefaultMessages().ConclusionManual, chat[len(chat)-1].Text)
}

func TestController_EndNow_PerFieldFallback(t *testing.T) {
	fb := newFakeBackend()
	fb.endResp = &backend.EndResponse{Report: json.RawMessage(`{"overall_assessment":"Good"}`)}
	h := newHarness(t, fb, Options{})

	require.NoError(t, h.ctrl.Start(context.Background()))
	require.NoError(t, h.ctrl.EndNow(context.Background()))

	assert.JSONEq(t, `{"overall_assessment":"Good"}`, h.stored(t, storage.KeyFinalReport))
	assert.JSONEq(t,
		`{"total_questions":3,"total_interactions":3,"average_score":0,"topics_covered":[]}`,
		h.stored(t, storage.KeyInterviewSummary))

	_, err := h.results.Get(context.Background(), storage.KeyPDFFilename)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestController_EndNow_StoresRoleAndScores(t *testing.T) {
	fb := newFakeBackend()
	h := newHarness(t, fb, Options{})
	h.store.SetRole("SRE")

	require.NoError(t, h.ctrl.Start(context.Background()))
	require.NoError(t, h.ctrl.UserAnswer(context.Background(), "um so basically yes"))
	want := h.store.Snapshot().Scores
	require.NoError(t, h.ctrl.EndNow(context.Background()))

	assert.Equal(t, "SRE", h.stored(t, storage.KeyRole))
	res, err := storage.LoadResults(context.Background(), h.results)
	require.NoError(t, err)
	require.NotNil(t, res.Scores)
	assert.Equal(t, want, *res.Scores)
	assert.NotEqual(t, types.DefaultScoreBreakdown(), *res.Scores)
}

func TestController_NextSessionClearsPDFFilename(t *testing.T) {
	fb := newFakeBackend()
	h := newHarness(t, fb, Options{})

	require.NoError(t, h.ctrl.Start(context.Background()))
	require.NoError(t, h.ctrl.EndNow(context.Background()))
	assert.Equal(t, "report_1.pdf", h.stored(t, storage.KeyPDFFilename))

	h.ctrl.Reset()
	fb.mu.Lock()
	fb.endResp = &backend.EndResponse{Success: ptr(true), Report: json.RawMessage(`{"overall_assessment":"Second"}`)}
	fb.mu.Unlock()

	require.NoError(t, h.ctrl.Start(context.Background()))
	require.NoError(t, h.ctrl.EndNow(context.Background()))

	assert.JSONEq(t, `{"overall_assessment":"Second"}`, h.stored(t, storage.KeyFinalReport))
	_, err := h.results.Get(context.Background(), storage.KeyPDFFilename)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestController_EndAlwaysTerminates(t *testing.T) {
	placeholder := `{"overall_assessment":"Interview completed","strengths":[],"weak_areas":[],"recommendations":[]}`

	tests := []struct {
		name  string
		setup func(*fakeBackend)
	}{
		{name: "backend error", setup: func(fb *fakeBackend) { fb.endErr = errors.New("502") }},
		{name: "backend hangs", setup: func(fb *fakeBackend) { fb.endBlocks = true }},
		{name: "empty response", setup: func(fb *fakeBackend) { fb.endResp = &backend.EndResponse{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBackend()
			tt.setup(fb)
			h := newHarness(t, fb, Options{EndTimeout: 50 * time.Millisecond})

			require.NoError(t, h.ctrl.Start(context.Background()))
			require.NoError(t, h.ctrl.EndNow(context.Background()))

			assert.Equal(t, StateEnded, h.ctrl.State())
			assert.JSONEq(t, placeholder, h.stored(t, storage.KeyFinalReport))
			assert.NotEmpty(t, h.stored(t, storage.KeyInterviewSummary))
		})
	}
}

func TestController_EndNow_WithoutSession(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		fb := newFakeBackend()
		h := newHarness(t, fb, Options{})

		require.NoError(t, h.ctrl.EndNow(context.Background()))
		assert.Equal(t, StateEnded, h.ctrl.State())
		assert.JSONEq(t,
			`{"total_questions":0,"total_interactions":0,"average_score":0,"topics_covered":[]}`,
			h.stored(t, storage.KeyInterviewSummary))

		_, _, ends := fb.calls()
		assert.Zero(t, ends)
	})

	t.Run("failed start", func(t *testing.T) {
		fb := newFakeBackend()
		fb.startErr = errors.New("down")
		h := newHarness(t, fb, Options{})

		require.Error(t, h.ctrl.Start(context.Background()))
		require.NoError(t, h.ctrl.EndNow(context.Background()))
		assert.Equal(t, StateEnded, h.ctrl.State())
		assert.Contains(t, h.stored(t, storage.KeyFinalReport), "Interview completed")

		_, _, ends := fb.calls()
		assert.Zero(t, ends)
	})
}

func TestController_EndNow_WhileStarting(t *testing.T) {
	fb := newFakeBackend()
	fb.startGate = make(chan struct{})
	fb.startCalled = make(chan struct{}, 1)
	h := newHarness(t, fb, Options{})

	started := make(chan error, 1)
	go func() { started <- h.ctrl.Start(context.Background()) }()
	<-fb.startCalled
	require.Equal(t, StateStarting, h.ctrl.State())

	require.NoError(t, h.ctrl.EndNow(context.Background()))
	assert.Equal(t, StateEnded, h.ctrl.State())
	assert.Contains(t, h.stored(t, storage.KeyFinalReport), "Interview completed")

	close(fb.startGate)
	require.NoError(t, <-started)
	assert.Equal(t, StateEnded, h.ctrl.State(), "late opening question is discarded")
	assert.Empty(t, h.store.Transcript())

	_, _, ends := fb.calls()
	assert.Zero(t, ends)
}

func TestController_EndNow_Idempotent(t *testing.T) {
	fb := newFakeBackend()
	h := newHarness(t, fb, Options{})

	require.NoError(t, h.ctrl.Start(context.Background()))
	require.NoError(t, h.ctrl.EndNow(context.Background()))
	require.NoError(t, h.ctrl.EndNow(context.Background()))

	_, _, ends := fb.calls()
	assert.Equal(t, 1, ends)
	assert.ErrorIs(t, h.ctrl.UserAnswer(context.Background(), "late"), ErrNotActive)
}

func TestController_Timeout(t *testing.T) {
	fb := newFakeBackend()
	h := newHarness(t, fb, Options{Duration: 40 * time.Millisecond, Tick: 5 * time.Millisecond})

	events, cancel := h.ctrl.Subscribe()
	defer cancel()

	require.NoError(t, h.ctrl.Start(context.Background()))
	require.Eventually(t, func() bool { return h.ctrl.State() == StateEnded }, waitFor, poll)

	chat := h.store.Transcript()
	assert.Equal(t, DefaultMessages().ConclusionTimeout, chat[len(chat)-1].Text)
	assert.JSONEq(t, `{"overall_assessment":"Strong"}`, h.stored(t, storage.KeyFinalReport))
	assert.Equal(t, 0, h.ctrl.Status().RemainingSeconds)

	_, _, ends := fb.calls()
	assert.Equal(t, 1, ends)

	var states []State
	timeout := time.After(waitFor)
	for len(states) == 0 || states[len(states)-1] != StateEnded {
		select {
		case e := <-events:
			if e.Kind == EventState {
				states = append(states, e.State)
			}
		case <-timeout:
			t.Fatalf("missing state events, got %v", states)
		}
	}
	assert.Equal(t, []State{StateStarting, StateActive, StateConcluding, StateEnded}, states)
}

func TestController_Reset(t *testing.T) {
	fb := newFakeBackend()
	h := newHarness(t, fb, Options{})
	h.store.SetRole("SRE")

	require.NoError(t, h.ctrl.Start(context.Background()))
	require.NoError(t, h.ctrl.UserAnswer(context.Background(), "um so basically yes"))

	h.ctrl.Reset()

	assert.Equal(t, StateNotStarted, h.ctrl.State())
	assert.Empty(t, h.ctrl.SessionID())
	assert.Empty(t, h.ctrl.History())
	snap := h.store.Snapshot()
	assert.Empty(t, snap.Chat)
	assert.Empty(t, snap.Selection.Role)
	assert.Equal(t, types.DefaultScoreBreakdown(), snap.Scores)

	require.NoError(t, h.ctrl.Start(context.Background()))
	assert.Equal(t, StateActive, h.ctrl.State())
	assert.Len(t, h.store.Transcript(), 2)
}

func TestController_Status(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	h := newHarness(t, newFakeBackend(), Options{Duration: 10 * time.Minute, Tick: time.Hour, Now: clock})

	status := h.ctrl.Status()
	assert.Equal(t, StateNotStarted, status.State)
	assert.Equal(t, 600, status.RemainingSeconds)
	assert.InDelta(t, 100, status.Progress, 1e-9)

	require.NoError(t, h.ctrl.Start(context.Background()))
	mu.Lock()
	now = now.Add(9 * time.Minute)
	mu.Unlock()

	status = h.ctrl.Status()
	assert.Equal(t, StateActive, status.State)
	assert.Equal(t, 60, status.RemainingSeconds)
	assert.InDelta(t, MinProgress, status.Progress, 1e-9)
	assert.Contains(t, status.SessionID, "session_1767348000000_")
}

func TestController_Close(t *testing.T) {
	h := newHarness(t, newFakeBackend(), Options{})
	h.ctrl.Close()

	assert.ErrorIs(t, h.ctrl.Start(context.Background()), ErrClosed)
	assert.ErrorIs(t, h.ctrl.EndNow(context.Background()), ErrClosed)
}
