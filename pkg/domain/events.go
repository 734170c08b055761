package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventInitialize EventType = "initialize"
	EventStep       EventType = "step"
	EventHalt       EventType = "halt"
)

// StepEvent is emitted once per micro-step, and once with Step == 0 when the
// tape is initialised. Transition is nil for the initial event.
type StepEvent struct {
	Timestamp  time.Time   `json:"timestamp"`
	Type       EventType   `json:"type"`
	RunID      string      `json:"run_id,omitempty"`
	Step       int         `json:"step"`
	State      State       `json:"state"`
	Transition *Transition `json:"transition,omitempty"`
	Head       int         `json:"head"`
	View       string      `json:"view"`
	Tape       string      `json:"tape"`
}

// Configuration returns the snapshot carried by the event.
func (e StepEvent) Configuration() Configuration {
	return Configuration{State: e.State, Tape: e.Tape, Head: e.Head, Step: e.Step}
}

// LifecycleHooks defines callbacks for run observability.
// Hooks observe only; they cannot alter the simulation.
type LifecycleHooks struct {
	OnStep func(context.Context, StepEvent)
	OnHalt func(context.Context, Result)
}

// Merge returns hooks that invoke h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStep: chainStep(h.OnStep, other.OnStep),
		OnHalt: chainHalt(h.OnHalt, other.OnHalt),
	}
}

func chainStep(a, b func(context.Context, StepEvent)) func(context.Context, StepEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e StepEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainHalt(a, b func(context.Context, Result)) func(context.Context, Result) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, r Result) {
		a(ctx, r)
		b(ctx, r)
	}
}
