package turing

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/godel"
	"github.com/oklog/ulid/v2"
)

// Runner drives the step relation of a single machine. See Execution.Runner.
type Runner = runtime.Runner

// DefaultMaxSteps is the step budget used when none is configured.
const DefaultMaxSteps = runtime.DefaultMaxSteps

// Engine is the universal machine: it decodes encoded machines and runs them.
// An Engine holds no per-run state and is safe for concurrent use.
type Engine struct {
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	maxSteps    int
	strictInput bool
	viewContext int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers hooks shared by every execution of the engine.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMaxSteps sets the default step budget.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithStrictInput rejects inputs containing symbols outside the machine's input alphabet.
// By default any symbol may be written on the tape.
func WithStrictInput() Option {
	return func(e *Engine) {
		e.strictInput = true
	}
}

// WithViewContext sets the number of cells rendered on each side of the head in step events.
func WithViewContext(cells int) Option {
	return func(e *Engine) {
		e.viewContext = cells
	}
}

// New creates a universal machine.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxSteps:    DefaultMaxSteps,
		viewContext: runtime.DefaultViewContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return e
}

// Decode reconstructs a machine from its binary encoding. The report lists
// records that were skipped as malformed.
func (e *Engine) Decode(encoding string) (*domain.Machine, *godel.Report, error) {
	return godel.NewDecoder(godel.WithLogger(e.logger)).Decode(encoding)
}

// Prepare decodes encoding and binds it to input.
func (e *Engine) Prepare(encoding, input string) (*Execution, error) {
	m, report, err := e.Decode(encoding)
	if err != nil {
		return nil, err
	}
	x, err := e.PrepareMachine(m, input)
	if err != nil {
		return nil, err
	}
	x.report = report
	return x, nil
}

// PrepareCombined splits "<encoding>111<input>" on the first "111" and prepares it.
func (e *Engine) PrepareCombined(combined string) (*Execution, error) {
	encoding, input, err := godel.SplitCombined(combined)
	if err != nil {
		return nil, err
	}
	return e.Prepare(encoding, input)
}

// PrepareGodelNumber prepares a machine given as a decimal Gödel number.
func (e *Engine) PrepareGodelNumber(decimal, input string) (*Execution, error) {
	encoding, err := godel.DecimalToBinary(decimal)
	if err != nil {
		return nil, err
	}
	return e.Prepare(encoding, input)
}

// PrepareMachine binds an already built machine to input.
func (e *Engine) PrepareMachine(m *domain.Machine, input string) (*Execution, error) {
	if e.strictInput {
		if err := m.ValidateInput(input); err != nil {
			return nil, fmt.Errorf("invalid input for machine %q: %w", m.Name(), err)
		}
	}
	return &Execution{
		engine:  e,
		machine: m,
		input:   input,
		report:  &godel.Report{Transitions: m.Transitions()},
	}, nil
}

// Run decodes encoding and runs it on input with the engine's step budget.
func (e *Engine) Run(ctx context.Context, encoding, input string) (domain.Result, error) {
	x, err := e.Prepare(encoding, input)
	if err != nil {
		return domain.Result{}, err
	}
	return x.Execute(ctx, 0)
}

// RunCombined runs a "<encoding>111<input>" string.
func (e *Engine) RunCombined(ctx context.Context, combined string) (domain.Result, error) {
	x, err := e.PrepareCombined(combined)
	if err != nil {
		return domain.Result{}, err
	}
	return x.Execute(ctx, 0)
}

// RunMachine runs m on input with the engine's step budget.
func (e *Engine) RunMachine(ctx context.Context, m *domain.Machine, input string) (domain.Result, error) {
	x, err := e.PrepareMachine(m, input)
	if err != nil {
		return domain.Result{}, err
	}
	return x.Execute(ctx, 0)
}

// MaxSteps returns the default step budget.
func (e *Engine) MaxSteps() int {
	return e.maxSteps
}

// StepBudget bounds a caller-supplied budget by MaxSteps. Zero, negative and
// oversized requests all get MaxSteps.
func (e *Engine) StepBudget(requested int) int {
	if requested <= 0 || requested > e.maxSteps {
		return e.maxSteps
	}
	return requested
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

func newRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
