package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/godel"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <machine-file>",
	Short: "Encode a machine definition",
	Long:  `Reads a YAML or JSON machine definition and prints its binary encoding, Gödel number and symbol table.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")

		m, err := schema.LoadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		enc, err := godel.NewEncoder(m)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		encoding, err := enc.Encode()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		switch format {
		case "binary":
			fmt.Println(encoding)
		case "godel":
			fmt.Println("1" + encoding)
		case "decimal":
			decimal, err := enc.GodelDecimal()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(decimal)
		case "all":
			decimal, err := enc.GodelDecimal()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("encoding:     %s\n", encoding)
			fmt.Printf("godel number: 1%s\n", encoding)
			fmt.Printf("decimal:      %s\n", decimal)
			fmt.Println("symbols:")
			printSymbols(enc.SymbolMapping())
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown format %q (binary, godel, decimal or all)\n", format)
			os.Exit(1)
		}
	},
}

func printSymbols(mapping map[domain.Symbol]int) {
	type entry struct {
		sym domain.Symbol
		id  int
	}
	entries := make([]entry, 0, len(mapping))
	for sym, id := range mapping {
		entries = append(entries, entry{sym, id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	for _, e := range entries {
		fmt.Printf("  %s = %d\n", e.sym, e.id)
	}
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("format", "f", "all", "Output: binary, godel, decimal or all")
}
