package session

// State is the lifecycle position of the interview session.
type State string

const (
	StateNotStarted State = "not_started"
	StateStarting   State = "starting"
	StateActive     State = "active"
	StateConcluding State = "concluding"
	StateEnded      State = "ended"
	StateFailed     State = "failed"
)

// transitions lists the states reachable from each state. Reset returns to
// StateNotStarted from anywhere and is not listed.
var transitions = map[State][]State{
	StateNotStarted: {StateStarting, StateConcluding},
	StateStarting:   {StateActive, StateFailed, StateConcluding},
	StateActive:     {StateConcluding},
	StateConcluding: {StateEnded},
	StateEnded:      {}, // Terminal state
	StateFailed:     {StateStarting, StateConcluding},
}

// CanTransition reports whether the session may move from one state to another.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the state.
func (s State) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

func (s State) String() string {
	return string(s)
}
