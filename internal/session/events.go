package session

import (
	"sync"

	"github.com/jonathan/interview-practice/internal/types"
)

// EventKind identifies what changed.
type EventKind string

const (
	EventTurn  EventKind = "turn"
	EventState EventKind = "state"
	EventError EventKind = "error"
	EventTick  EventKind = "tick"
)

// Event is published to subscribers whenever the session changes.
type Event struct {
	Kind      EventKind       `json:"kind"`
	State     State           `json:"state"`
	SessionID string          `json:"session_id,omitempty"`
	Turn      *types.ChatTurn `json:"turn,omitempty"`
	Message   string          `json:"message,omitempty"`
	Remaining int             `json:"remaining_seconds,omitempty"`
	Progress  float64         `json:"progress,omitempty"`
}

// subscriberBuffer bounds each subscriber's queue. Slow subscribers lose events
// rather than blocking the session.
const subscriberBuffer = 64

type broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan Event)}
}

func (b *broadcaster) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *broadcaster) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
