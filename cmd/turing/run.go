package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [encoding]",
	Short: "Run a machine on an input tape",
	Long: `Decodes a machine and runs it until it accepts, rejects or spends its step budget.

The machine is given as a positional binary encoding or with exactly one of
--machine, --encoding, --combined, --godel, --program or --builtin
(see 'turing builtins').`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := runOptionsFromFlags(cmd)
		if len(args) > 0 {
			opts.Source.Encoding = args[0]
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		_, err := cli.Run(ctx, app, opts, os.Stdin, os.Stdout)
		cli.ReportInterrupt(os.Stderr, ctx, err)
		if err := cli.HandleExecutionError(err); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func runOptionsFromFlags(cmd *cobra.Command) cli.RunOptions {
	flags := cmd.Flags()
	var opts cli.RunOptions
	opts.Source.File, _ = flags.GetString("machine")
	opts.Source.Encoding, _ = flags.GetString("encoding")
	opts.Source.Combined, _ = flags.GetString("combined")
	opts.Source.Godel, _ = flags.GetString("godel")
	opts.Source.Program, _ = flags.GetString("program")
	opts.Source.Builtin, _ = flags.GetString("builtin")
	opts.Source.Input, _ = flags.GetString("input")
	opts.MaxSteps, _ = flags.GetInt("steps")
	opts.Step, _ = flags.GetBool("step")
	opts.JSON, _ = flags.GetBool("json")
	opts.Quiet, _ = flags.GetBool("quiet")

	opts.Pretty = cli.PrettyDefault()
	if flags.Changed("pretty") {
		opts.Pretty, _ = flags.GetBool("pretty")
	}
	return opts
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("machine", "m", "", "YAML or JSON machine definition file")
	cmd.Flags().StringP("encoding", "e", "", "Binary machine encoding")
	cmd.Flags().StringP("combined", "c", "", "Combined string <encoding>111<input>")
	cmd.Flags().String("godel", "", "Decimal Gödel number of the machine")
	cmd.Flags().StringP("program", "p", "", "Name of a stored program")
	cmd.Flags().StringP("builtin", "b", "", "Name of a built-in machine (see 'turing builtins')")
	cmd.Flags().StringP("input", "i", "", "Initial tape content")
}

func init() {
	rootCmd.AddCommand(runCmd)

	addSourceFlags(runCmd)
	runCmd.Flags().Int("steps", 0, "Step budget for this run (default: --max-steps)")
	runCmd.Flags().Bool("step", false, "Step through the run interactively")
	runCmd.Flags().Bool("json", false, "Emit step events and the result as NDJSON")
	runCmd.Flags().BoolP("quiet", "q", false, "Print only the final tape content")
	runCmd.Flags().Bool("pretty", false, "Render the result as markdown (default: when stdout is a terminal)")
}
