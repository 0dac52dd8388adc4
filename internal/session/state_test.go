package session

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateNotStarted, StateStarting, true},
		{StateNotStarted, StateConcluding, true},
		{StateNotStarted, StateActive, false},
		{StateStarting, StateActive, true},
		{StateStarting, StateFailed, true},
		{StateStarting, StateConcluding, true},
		{StateActive, StateConcluding, true},
		{StateActive, StateStarting, false},
		{StateActive, StateEnded, false},
		{StateConcluding, StateEnded, true},
		{StateConcluding, StateActive, false},
		{StateFailed, StateStarting, true},
		{StateFailed, StateConcluding, true},
		{StateEnded, StateActive, false},
		{StateEnded, StateStarting, false},
		{State("bogus"), StateStarting, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestState_IsTerminal(t *testing.T) {
	assert.True(t, StateEnded.IsTerminal())
	for _, s := range []State{StateNotStarted, StateStarting, StateActive, StateConcluding, StateFailed} {
		assert.False(t, s.IsTerminal(), s)
	}
	assert.False(t, State("unknown").IsTerminal())
}

func TestPick(t *testing.T) {
	pool := []string{"a", "b", "c", "d"}

	first := Pick(pool, rand.New(rand.NewPCG(42, 0)))
	second := Pick(pool, rand.New(rand.NewPCG(42, 0)))
	assert.Equal(t, first, second, "same seed must pick the same entry")
	assert.Contains(t, pool, first)

	r := rand.New(rand.NewPCG(1, 1))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[Pick(pool, r)] = true
	}
	assert.Len(t, seen, len(pool))

	assert.Equal(t, "", Pick(nil, r))
}

func TestProgress(t *testing.T) {
	total := 600 * time.Second

	tests := []struct {
		remaining time.Duration
		want      float64
	}{
		{remaining: total, want: 100},
		{remaining: 300 * time.Second, want: 50},
		{remaining: 90 * time.Second, want: 15},
		{remaining: 60 * time.Second, want: 15},
		{remaining: 0, want: 15},
		{remaining: 2 * total, want: 100},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, Progress(tt.remaining, total), 1e-9, "remaining %s", tt.remaining)
	}
	assert.InDelta(t, MinProgress, Progress(time.Second, 0), 1e-9)
}

func TestMessages_Format(t *testing.T) {
	msgs := DefaultMessages()
	assert.Equal(t, "Feedback: Be more specific", msgs.feedback("Be more specific"))
	assert.Equal(t, "Score: 82/100", msgs.score(82))
	assert.Equal(t, "Score: 7.5/100", msgs.score(7.5))
	assert.Len(t, msgs.Acknowledgments, 8)
}

func TestBroadcaster(t *testing.T) {
	b := newBroadcaster()
	ch1, cancel1 := b.subscribe()
	ch2, cancel2 := b.subscribe()

	b.publish(Event{Kind: EventTick})
	assert.Equal(t, EventTick, (<-ch1).Kind)
	assert.Equal(t, EventTick, (<-ch2).Kind)

	cancel1()
	cancel1()
	_, open := <-ch1
	assert.False(t, open)

	for i := 0; i < subscriberBuffer+10; i++ {
		b.publish(Event{Kind: EventState})
	}
	assert.Len(t, ch2, subscriberBuffer)
	cancel2()
}
