package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Source   Source
	MaxSteps int
	Step     bool // interactive stepping
	JSON     bool // NDJSON step events followed by the result
	Pretty   bool // markdown summary rendered with glamour
	Quiet    bool // print only the tape content
}

// haltLine is the last NDJSON line of a JSON run.
type haltLine struct {
	Type   domain.EventType `json:"type"`
	Result domain.Result    `json:"result"`
}

// Run executes one machine and prints its trace and result to out.
// in is only read in step mode.
func Run(ctx context.Context, app *App, opts RunOptions, in io.Reader, out io.Writer) (domain.Result, error) {
	if opts.Step && opts.JSON {
		return domain.Result{}, fmt.Errorf("--step and --json cannot be used together")
	}

	engine := app.Engine()
	x, err := opts.Source.Prepare(ctx, engine, app.Store)
	if err != nil {
		return domain.Result{}, err
	}
	for _, skipped := range x.Report().ErrorStrings() {
		app.Logger.Warn("skipped record", "detail", skipped)
	}

	switch {
	case opts.JSON:
		return runJSON(ctx, x, opts.MaxSteps, out)
	case opts.Step:
		return runStep(ctx, x, opts.MaxSteps, in, out)
	}

	res, err := x.Execute(ctx, opts.MaxSteps)
	if err != nil {
		return res, err
	}
	printResult(out, x.Machine().Name(), res, opts)
	return res, nil
}

func runJSON(ctx context.Context, x *turing.Execution, maxSteps int, out io.Writer) (domain.Result, error) {
	enc := json.NewEncoder(out)
	var writeErr error
	x.OnStep(func(_ context.Context, e domain.StepEvent) {
		if writeErr == nil {
			writeErr = enc.Encode(e)
		}
	})

	res, err := x.Execute(ctx, maxSteps)
	if err != nil {
		return res, err
	}
	if writeErr != nil {
		return res, fmt.Errorf("failed to write step event: %w", writeErr)
	}
	return res, enc.Encode(haltLine{Type: domain.EventHalt, Result: res})
}

func runStep(ctx context.Context, x *turing.Execution, maxSteps int, in io.Reader, out io.Writer) (domain.Result, error) {
	style := tui.NewTapeStyle()
	console := turing.NewConsole(NewInterruptibleReader(in, ctx.Done()), out)
	console.Renderer = style.StepLine

	printSystemMessage(out, "Enter: step, c: run to the end, q: quit")
	res, err := console.Run(ctx, x, maxSteps)
	if err != nil {
		return res, err
	}
	fmt.Fprintln(out, tui.ResultText(res))
	return res, nil
}

func printResult(out io.Writer, name string, res domain.Result, opts RunOptions) {
	if opts.Quiet {
		fmt.Fprintln(out, res.Content)
		return
	}
	if opts.Pretty {
		rendered, err := tui.NewRenderer()(tui.ResultMarkdown(name, res))
		if err == nil {
			fmt.Fprint(out, rendered)
			return
		}
	}
	fmt.Fprintln(out, tui.ResultText(res))
}

// PrettyDefault reports whether results should be rendered as markdown,
// which is the case when stdout is a terminal.
func PrettyDefault() bool {
	return tui.IsTerminal(os.Stdout)
}
