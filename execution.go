package turing

import (
	"context"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/godel"
)

// Execution is a machine bound to an input, ready to run.
// Every call to Execute or Stream starts from a fresh tape.
type Execution struct {
	engine  *Engine
	machine *domain.Machine
	report  *godel.Report
	input   string
	hooks   domain.LifecycleHooks
}

// StreamResult is delivered once a streamed run finishes.
type StreamResult struct {
	Result domain.Result
	Err    error
}

// Machine returns the decoded machine.
func (x *Execution) Machine() *domain.Machine { return x.machine }

// Report returns the decode report. Executions built from a machine report
// its transitions and no errors.
func (x *Execution) Report() *godel.Report { return x.report }

// Input returns the tape input.
func (x *Execution) Input() string { return x.input }

// OnStep registers a step observer for this execution only.
func (x *Execution) OnStep(fn func(context.Context, domain.StepEvent)) *Execution {
	x.hooks = x.hooks.Merge(domain.LifecycleHooks{OnStep: fn})
	return x
}

// OnHalt registers a halt observer for this execution only.
func (x *Execution) OnHalt(fn func(context.Context, domain.Result)) *Execution {
	x.hooks = x.hooks.Merge(domain.LifecycleHooks{OnHalt: fn})
	return x
}

// Runner returns a runner initialised with the input, for manual stepping.
func (x *Execution) Runner(ctx context.Context, opts ...runtime.Option) *Runner {
	id := newRunID()
	base := []runtime.Option{
		runtime.WithLogger(x.engine.logger.With("run_id", id)),
		runtime.WithLifecycleHooks(x.engine.hooks.Merge(x.hooks)),
		runtime.WithRunID(id),
		runtime.WithViewContext(x.engine.viewContext),
	}
	r := runtime.NewRunner(x.machine, append(base, opts...)...)
	r.Initialize(ctx, x.input)
	return r
}

// Execute runs the machine until it halts or maxSteps steps were taken.
// maxSteps <= 0 selects the engine budget. Rejection and step-limit exhaustion
// are outcomes of the Result, not errors; the error is non-nil only when ctx ends.
func (x *Execution) Execute(ctx context.Context, maxSteps int) (domain.Result, error) {
	if maxSteps <= 0 {
		maxSteps = x.engine.maxSteps
	}
	r := x.Runner(ctx)
	res, err := r.Run(ctx, maxSteps)

	x.engine.logger.Info("machine halted",
		"run_id", res.RunID,
		"machine", x.machine.Name(),
		"outcome", string(res.Outcome),
		"steps", res.Steps)
	return res, err
}

// Stream runs the machine in a goroutine and delivers every step event.
// The event channel is closed before the single StreamResult is sent.
// Canceling ctx stops the run and releases the goroutine.
func (x *Execution) Stream(ctx context.Context, maxSteps int) (<-chan domain.StepEvent, <-chan StreamResult) {
	events := make(chan domain.StepEvent)
	done := make(chan StreamResult, 1)

	stream := &Execution{
		engine:  x.engine,
		machine: x.machine,
		report:  x.report,
		input:   x.input,
		hooks: x.hooks.Merge(domain.LifecycleHooks{
			OnStep: func(ctx context.Context, e domain.StepEvent) {
				select {
				case events <- e:
				case <-ctx.Done():
				}
			},
		}),
	}

	go func() {
		res, err := stream.Execute(ctx, maxSteps)
		close(events)
		done <- StreamResult{Result: res, Err: err}
		close(done)
	}()
	return events, done
}
