package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ksc/internal/diag"
	"ksc/internal/diagfmt"
	"ksc/internal/lexer"
	"ksc/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file.ks>",
	Short: "Dump the token stream of one schema file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")

		fileSet := source.NewFileSet()
		fileID, err := fileSet.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", args[0], err)
		}

		bag := diag.NewBag(maxDiags)
		lx := lexer.New(fileSet.Get(fileID), lexer.Options{
			Reporter: diag.BagReporter{Bag: bag},
		})
		tokens := lx.Tokens()

		diagfmt.FormatTokens(cmd.OutOrStdout(), tokens, fileSet)
		if bag.Len() > 0 {
			bag.Sort()
			diagfmt.Pretty(os.Stderr, bag, fileSet, diagfmt.PrettyOpts{
				Color:       useColor(cmd),
				ShowContext: true,
			})
		}
		if bag.HasErrors() {
			return fmt.Errorf("tokenize failed")
		}
		return nil
	},
}
