package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/turing/pkg/domain"
)

// LoggingHooks logs steps at debug level and halts at info level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e domain.StepEvent) {
			if !logger.Enabled(ctx, slog.LevelDebug) {
				return
			}
			attrs := []any{
				"run_id", e.RunID,
				"step", e.Step,
				"state", e.State.String(),
				"head", e.Head,
				"view", e.View,
			}
			if e.Transition != nil {
				attrs = append(attrs, "transition", e.Transition.String())
			}
			logger.DebugContext(ctx, "step", attrs...)
		},
		OnHalt: func(ctx context.Context, r domain.Result) {
			logger.InfoContext(ctx, "halt",
				"run_id", r.RunID,
				"outcome", string(r.Outcome),
				"steps", r.Steps,
				"final_state", r.FinalState.String(),
			)
		},
	}
}
