package domain

import "fmt"

// State is a machine state. Two states are the same state iff their IDs match;
// Name is only a display label.
type State struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

var (
	// Start is the reserved start state (q1).
	Start = State{ID: StartStateID, Name: "START"}
	// Accept is the reserved accept state (q2).
	Accept = State{ID: AcceptStateID, Name: "ACCEPT"}
)

// NewState returns the canonical state for id. Ids 1 and 2 map to Start and Accept.
func NewState(id int) State {
	switch id {
	case StartStateID:
		return Start
	case AcceptStateID:
		return Accept
	}
	return State{ID: id, Name: fmt.Sprintf("q%d", id)}
}

// Equal reports whether s and other denote the same state.
func (s State) Equal(other State) bool {
	return s.ID == other.ID
}

func (s State) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("q%d", s.ID)
}
