package main

import (
	"github.com/spf13/cobra"

	"github.com/dweve-ai/hedl-sub002/pkg/hedl"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
	"github.com/dweve-ai/hedl-sub002/pkg/lint"
)

func init() {
	rootCmd.AddCommand(newLintCmd())
}

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file>",
		Short: "Run advisory style and consistency checks over a HEDL document",
		Long: `The lint command parses a HEDL document and reports advisory findings:
unused aliases and structs, naming convention deviations, deeply nested
rows, and empty lists. Lint never fails the parse and always exits 0 when
the document itself parses.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(args)
		},
	}
}

func runLint(args []string) error {
	path := args[0]
	doc, herr := hedl.ParseFile(path, hedltype.DefaultOptions())
	if herr != nil {
		printError("%s\n", herr.Error())
		return herr
	}

	diags := hedl.Lint(doc)
	report := &lint.Report{Diagnostics: diags}

	if jsonOut {
		out, err := report.FormatJSON()
		if err != nil {
			return err
		}
		printInfo("%s\n", out)
		return nil
	}
	printInfo("%s", report.FormatText())
	return nil
}
