package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [encoding]",
	Short: "Check the machine for consistency",
	Long: `Crawls the transition graph from START and reports whether ACCEPT can be reached.
States that are unreachable or have no way out are listed as warnings.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := runOptionsFromFlags(cmd)
		if len(args) > 0 {
			opts.Source.Encoding = args[0]
		}

		x, err := opts.Source.Prepare(cmd.Context(), app.Engine(), app.Store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, skipped := range x.Report().ErrorStrings() {
			fmt.Fprintf(os.Stderr, "Warning: skipped %s\n", skipped)
		}

		rep, err := validator.Validate(x.Machine())
		for _, w := range rep.Warnings() {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Machine is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	addSourceFlags(validateCmd)
}
