package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/pkg/godel"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [encoding]",
	Short: "Decode a binary encoding into a machine definition",
	Long: `Prints the machine described by a binary encoding (or --godel decimal number)
as a YAML or JSON definition. Malformed records are reported on stderr and skipped.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		formatName, _ := cmd.Flags().GetString("format")
		decimal, _ := cmd.Flags().GetString("godel")

		format, err := schema.ParseFormat(formatName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		var encoding string
		switch {
		case decimal != "" && len(args) > 0:
			fmt.Fprintln(os.Stderr, "Error: give either an encoding or --godel, not both")
			os.Exit(1)
		case decimal != "":
			if encoding, err = godel.DecimalToBinary(decimal); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		case len(args) > 0:
			encoding = args[0]
		default:
			fmt.Fprintln(os.Stderr, "Error: an encoding or --godel is required")
			os.Exit(1)
		}

		m, report, err := app.Engine().Decode(encoding)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, skipped := range report.ErrorStrings() {
			fmt.Fprintf(os.Stderr, "warning: skipped %s\n", skipped)
		}

		out, err := schema.Marshal(m, format)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().StringP("format", "f", "yaml", "Output format: yaml or json")
	decodeCmd.Flags().String("godel", "", "Decimal Gödel number to decode")
}
