package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [encoding]",
	Short: "Export the transition diagram",
	Long: `Outputs a Mermaid diagram (graph LR) of the machine's transitions.
With --trace the machine is run on --input and the visited states are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := runOptionsFromFlags(cmd)
		if len(args) > 0 {
			opts.Source.Encoding = args[0]
		}
		trace, _ := cmd.Flags().GetBool("trace")

		x, err := opts.Source.Prepare(cmd.Context(), app.Engine(), app.Store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var overlay *graph.GraphOverlay
		if trace {
			var events []domain.StepEvent
			x.OnStep(func(_ context.Context, e domain.StepEvent) { events = append(events, e) })
			if _, err := x.Execute(cmd.Context(), opts.MaxSteps); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			overlay = graph.OverlayFromEvents(events)
		}

		// Generate and print Mermaid graph
		fmt.Print(graph.GenerateMermaid(x.Machine(), overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	addSourceFlags(graphCmd)
	graphCmd.Flags().Int("steps", 0, "Step budget for --trace")
	graphCmd.Flags().Bool("trace", false, "Run the machine and highlight the visited states")
}
