package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aretw0/turing/pkg/registry"
	"github.com/spf13/cobra"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "List the built-in machines",
	Long:  `Lists the reference machines that can be run with --builtin, together with an input each one accepts.`,
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tEXAMPLE\tDESCRIPTION")
		for _, e := range registry.Builtins().Entries() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Example, e.Description)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
