package orchestrator

import "fmt"

// State is the stage a run has reached.
type State int

const (
	Idle State = iota
	Validated
	Scanned
	Previewed
	Confirmed
	Applied
	Done
)

var stateNames = map[State]string{
	Idle:      "IDLE",
	Validated: "VALIDATED",
	Scanned:   "SCANNED",
	Previewed: "PREVIEWED",
	Confirmed: "CONFIRMED",
	Applied:   "APPLIED",
	Done:      "DONE",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// transitions lists the allowed next states. Applied is reachable only
// through Confirmed.
var transitions = map[State][]State{
	Idle:      {Validated},
	Validated: {Scanned},
	Scanned:   {Previewed},
	Previewed: {Done, Confirmed},
	Confirmed: {Applied, Done},
	Applied:   {Done},
}

// CanTransition reports whether a run in from may move to to.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionError reports a rejected state change.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid state transition: %s -> %s", e.From, e.To)
}
