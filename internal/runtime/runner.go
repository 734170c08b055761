package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// DefaultMaxSteps caps runs that do not specify a budget.
const DefaultMaxSteps = 10000

// DefaultViewContext is the number of cells shown on each side of the head in events.
const DefaultViewContext = 10

// Status is the position of a Runner in its own state machine.
type Status string

const (
	StatusReady              Status = "ready"
	StatusRunning            Status = "running"
	StatusHaltedAccepted     Status = "halted_accepted"
	StatusHaltedNoTransition Status = "halted_no_transition"
)

// Halted reports whether no further step is possible.
func (s Status) Halted() bool {
	return s == StatusHaltedAccepted || s == StatusHaltedNoTransition
}

// Runner drives the step relation of one machine over one tape.
// A Runner and its tape belong to a single run and are not safe for concurrent use.
type Runner struct {
	machine     *domain.Machine
	tape        *tape.Tape
	state       domain.State
	steps       int
	status      Status
	runID       string
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	viewContext int
	keepHistory bool
	history     []domain.Configuration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLifecycleHooks registers observers of this runner. Repeated options
// accumulate; earlier hooks run first.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRunID tags every event and the result with id.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// WithHistory records a Configuration after every step.
func WithHistory() Option {
	return func(r *Runner) {
		r.keepHistory = true
	}
}

// WithViewContext sets how many cells around the head are rendered in events.
func WithViewContext(cells int) Option {
	return func(r *Runner) {
		r.viewContext = cells
	}
}

// NewRunner creates a runner with an empty tape, ready to be initialised.
func NewRunner(m *domain.Machine, opts ...Option) *Runner {
	r := &Runner{
		machine:     m,
		tape:        tape.New(m.Blank()),
		state:       m.Start(),
		status:      StatusReady,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		viewContext: DefaultViewContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize resets the tape with input, returns to the start state and emits
// the step-0 event.
func (r *Runner) Initialize(ctx context.Context, input string) {
	r.tape.Initialize(input)
	r.state = r.machine.Start()
	r.steps = 0
	r.status = StatusReady
	r.history = r.history[:0]

	r.logger.Debug("tape initialized", "run_id", r.runID, "input_len", len(input))
	r.emit(ctx, domain.EventInitialize, nil)
}

// Step performs one micro-step and reports whether another step is possible.
func (r *Runner) Step(ctx context.Context) bool {
	if r.status.Halted() {
		return false
	}
	if r.machine.IsHalting(r.state) {
		r.status = StatusHaltedAccepted
		return false
	}

	symbol := r.tape.Read()
	t, ok := r.machine.Transition(r.state, symbol)
	if !ok {
		r.status = StatusHaltedNoTransition
		r.logger.Debug("no transition", "run_id", r.runID, "state", r.state.String(), "symbol", symbol.String())
		return false
	}

	r.status = StatusRunning
	r.tape.Write(t.Write)
	r.tape.Move(t.Move)
	r.state = t.To
	r.steps++

	r.emit(ctx, domain.EventStep, &t)

	if r.machine.IsHalting(r.state) {
		r.status = StatusHaltedAccepted
		return false
	}
	return true
}

// Run steps until the machine halts or the step counter reaches maxSteps.
// maxSteps <= 0 selects DefaultMaxSteps. Cancellation of ctx is checked once per
// step; a canceled run returns its partial result together with ctx.Err().
func (r *Runner) Run(ctx context.Context, maxSteps int) (domain.Result, error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	var runErr error
	for r.steps < maxSteps {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if !r.Step(ctx) {
			break
		}
	}

	return r.Finish(ctx, maxSteps, runErr)
}

// Finish ends the run without taking further steps and reports its Result.
// A non-nil cause marks an unhalted run as canceled and is returned unchanged.
// Finish is called by Run; callers that drive Step themselves use it to close
// the run and fire OnHalt.
func (r *Runner) Finish(ctx context.Context, maxSteps int, cause error) (domain.Result, error) {
	// Classify a machine stopped by the budget without consuming another step.
	if cause == nil && !r.status.Halted() {
		if r.machine.IsHalting(r.state) {
			r.status = StatusHaltedAccepted
		} else if _, ok := r.machine.Transition(r.state, r.tape.Read()); !ok {
			r.status = StatusHaltedNoTransition
		}
	}

	res := r.result(maxSteps, cause)
	r.logger.Debug("run finished",
		"run_id", r.runID,
		"outcome", string(res.Outcome),
		"steps", res.Steps,
		"final_state", res.FinalState.String())

	if r.hooks.OnHalt != nil {
		r.hooks.OnHalt(ctx, res)
	}
	return res, cause
}

func (r *Runner) result(maxSteps int, runErr error) domain.Result {
	res := domain.Result{
		RunID:      r.runID,
		Accepted:   r.machine.IsAccepting(r.state),
		FinalState: r.state,
		Steps:      r.steps,
		MaxSteps:   maxSteps,
		Content:    r.tape.Content(),
		Tape:       r.tape.String(),
		Head:       r.tape.Position(),
	}
	switch {
	case res.Accepted:
		res.Outcome = domain.OutcomeAccepted
	case runErr != nil:
		res.Outcome = domain.OutcomeCanceled
	case r.status == StatusHaltedNoTransition:
		res.Outcome = domain.OutcomeRejected
	default:
		res.Outcome = domain.OutcomeStepLimit
	}
	return res
}

func (r *Runner) emit(ctx context.Context, kind domain.EventType, t *domain.Transition) {
	if r.hooks.OnStep == nil && !r.keepHistory {
		return
	}
	ev := domain.StepEvent{
		Timestamp:  time.Now(),
		Type:       kind,
		RunID:      r.runID,
		Step:       r.steps,
		State:      r.state,
		Transition: t,
		Head:       r.tape.Position(),
		View:       r.tape.View(r.viewContext),
		Tape:       r.tape.String(),
	}
	if r.keepHistory {
		r.history = append(r.history, ev.Configuration())
	}
	if r.hooks.OnStep != nil {
		r.hooks.OnStep(ctx, ev)
	}
}

// State returns the current state.
func (r *Runner) State() domain.State { return r.state }

// Steps returns the number of executed steps.
func (r *Runner) Steps() int { return r.steps }

// Status returns the runner status.
func (r *Runner) Status() Status { return r.status }

// Tape exposes the tape for read-only inspection between steps.
func (r *Runner) Tape() *tape.Tape { return r.tape }

// Machine returns the machine being run.
func (r *Runner) Machine() *domain.Machine { return r.machine }

// History returns the recorded configurations when WithHistory is set.
func (r *Runner) History() []domain.Configuration {
	out := make([]domain.Configuration, len(r.history))
	copy(out, r.history)
	return out
}
