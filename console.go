package turing

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
)

// Console steps an execution interactively over line-based IO.
// An empty line executes one step, "c" runs to completion, "q" stops.
type Console struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer formats a step event for display.
// This allows terminal styling without coupling the core package.
type ContentRenderer func(domain.StepEvent) string

// NewConsole creates a console bound to the given IO.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{Input: in, Output: out}
}

// Run drives x until it halts, the budget is spent or the user quits.
// In headless mode no input is read and every step is printed without pausing.
// Quitting early yields a canceled Result and a nil error.
func (c *Console) Run(ctx context.Context, x *Execution, maxSteps int) (domain.Result, error) {
	if c.Output == nil {
		return domain.Result{}, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	if c.Input == nil && !c.Headless {
		return domain.Result{}, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if maxSteps <= 0 {
		maxSteps = x.engine.maxSteps
	}

	show := func(_ context.Context, e domain.StepEvent) {
		if c.Renderer != nil {
			fmt.Fprintln(c.Output, c.Renderer(e))
			return
		}
		fmt.Fprintf(c.Output, "%4d  %-8s %s\n", e.Step, e.State, e.View)
	}
	r := x.Runner(ctx, runtime.WithLifecycleHooks(domain.LifecycleHooks{OnStep: show}))

	var lines *bufio.Reader
	if c.Input != nil {
		lines = bufio.NewReader(c.Input)
	}
	interactive := !c.Headless

	for !r.Status().Halted() && r.Steps() < maxSteps {
		if err := ctx.Err(); err != nil {
			return r.Finish(ctx, maxSteps, err)
		}

		if interactive {
			fmt.Fprint(c.Output, "> ")
			text, err := lines.ReadString('\n')
			if err != nil && err != io.EOF {
				return domain.Result{}, fmt.Errorf("input error: %w", err)
			}
			switch strings.TrimSpace(text) {
			case "q", "quit", "exit":
				fmt.Fprintln(c.Output, "Bye!")
				res, _ := r.Finish(ctx, maxSteps, context.Canceled)
				return res, nil
			case "c", "continue":
				interactive = false
			}
			// Input ended: run the rest without prompting.
			if err == io.EOF {
				interactive = false
			}
		}

		if !r.Step(ctx) {
			break
		}
	}

	return r.Finish(ctx, maxSteps, nil)
}
