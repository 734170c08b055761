package domain

import "fmt"

// Outcome classifies how a run ended.
type Outcome string

const (
	// OutcomeAccepted: the accept state was reached.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeRejected: no transition was defined for the current state and symbol.
	OutcomeRejected Outcome = "rejected"
	// OutcomeStepLimit: the step budget ran out before the machine halted.
	OutcomeStepLimit Outcome = "step_limit"
	// OutcomeCanceled: the run's context was canceled.
	OutcomeCanceled Outcome = "canceled"
)

// Configuration is a (state, tape) snapshot used for history.
type Configuration struct {
	State State  `json:"state"`
	Tape  string `json:"tape"`
	Head  int    `json:"head"`
	Step  int    `json:"step"`
}

func (c Configuration) String() string {
	return fmt.Sprintf("(%s, %s)", c.State, c.Tape)
}

// Result is the terminal snapshot of a run.
type Result struct {
	RunID      string  `json:"run_id,omitempty"`
	Accepted   bool    `json:"accepted"`
	Outcome    Outcome `json:"outcome"`
	FinalState State   `json:"final_state"`
	Steps      int     `json:"steps"`
	MaxSteps   int     `json:"max_steps"`
	Content    string  `json:"content"`
	Tape       string  `json:"tape"`
	Head       int     `json:"head"`
}

// TimedOut reports whether the step budget was exhausted. A timed out run is
// not accepted, but it is not a rejection either.
func (r Result) TimedOut() bool {
	return r.Outcome == OutcomeStepLimit
}

// Rejected reports a genuine rejection (no applicable transition).
func (r Result) Rejected() bool {
	return r.Outcome == OutcomeRejected
}
