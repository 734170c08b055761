package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/godel"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/spf13/cobra"
)

var programCmd = &cobra.Command{
	Use:   "program",
	Short: "Manage the program library",
	Long:  `Save, list, inspect, remove and run named machine encodings kept in the configured store.`,
}

var programSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a machine under a name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("machine")
		encoding, _ := cmd.Flags().GetString("encoding")
		description, _ := cmd.Flags().GetString("description")

		if (file == "") == (encoding == "") {
			fmt.Fprintln(os.Stderr, "Error: exactly one of --machine or --encoding is required")
			os.Exit(1)
		}
		if file != "" {
			m, err := schema.LoadFile(file)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			enc, err := godel.NewEncoder(m)
			if err == nil {
				encoding, err = enc.Encode()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		} else if _, _, err := app.Engine().Decode(encoding); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		p := &domain.Program{Name: args[0], Encoding: encoding, Description: description}
		if err := app.Store.Save(cmd.Context(), p); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving program '%s': %v\n", args[0], err)
			os.Exit(1)
		}
		fmt.Printf("Program '%s' saved.\n", args[0])
	},
}

var programLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored programs",
	Run: func(cmd *cobra.Command, args []string) {
		names, err := app.Store.List(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing programs: %v\n", err)
			os.Exit(1)
		}
		if len(names) == 0 {
			fmt.Println("No programs found.")
			return
		}
		fmt.Println("Programs:")
		for _, name := range names {
			fmt.Println("- " + name)
		}
	},
}

var programShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored program as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, err := app.Store.Load(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading program '%s': %v\n", args[0], err)
			os.Exit(1)
		}
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling program: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var programRmCmd = &cobra.Command{
	Use:   "rm <name>...",
	Short: "Remove one or more programs",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		failed := false
		for _, name := range args {
			if err := app.Store.Delete(cmd.Context(), name); err != nil {
				fmt.Fprintf(os.Stderr, "Error removing program '%s': %v\n", name, err)
				failed = true
				continue
			}
			fmt.Printf("Program '%s' removed.\n", name)
		}
		if failed {
			os.Exit(1)
		}
	},
}

var programRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run a stored program",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := runOptionsFromFlags(cmd)
		opts.Source = cli.Source{Program: args[0], Input: opts.Source.Input}

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

func init() {
	rootCmd.AddCommand(programCmd)
	programCmd.AddCommand(programSaveCmd, programLsCmd, programShowCmd, programRmCmd, programRunCmd)

	programSaveCmd.Flags().StringP("machine", "m", "", "YAML or JSON machine definition file")
	programSaveCmd.Flags().StringP("encoding", "e", "", "Binary machine encoding")
	programSaveCmd.Flags().StringP("description", "d", "", "Free text description")

	programRunCmd.Flags().StringP("input", "i", "", "Initial tape content")
	programRunCmd.Flags().Int("steps", 0, "Step budget for this run (default: --max-steps)")
	programRunCmd.Flags().Bool("step", false, "Step through the run interactively")
	programRunCmd.Flags().Bool("json", false, "Emit step events and the result as NDJSON")
	programRunCmd.Flags().BoolP("quiet", "q", false, "Print only the final tape content")
	programRunCmd.Flags().Bool("pretty", false, "Render the result as markdown (default: when stdout is a terminal)")
}
