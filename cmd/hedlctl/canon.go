package main

import (
	"github.com/spf13/cobra"

	"github.com/dweve-ai/hedl-sub002/pkg/hedl"
	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
)

func init() {
	rootCmd.AddCommand(newCanonCmd())
}

func newCanonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "canon <file>",
		Short: "Print a HEDL document's deterministic canonical form",
		Long: `The canon command parses a HEDL document and re-emits it in its
canonical form: sorted directives and object keys, ditto-compacted rows,
and a single canonical quoting/formatting style. Running canon twice
produces byte-identical output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCanon(args)
		},
	}
}

func runCanon(args []string) error {
	path := args[0]
	doc, herr := hedl.ParseFile(path, hedltype.DefaultOptions())
	if herr != nil {
		printError("%s\n", herr.Error())
		return herr
	}
	printInfo("%s", hedl.Canonicalize(doc))
	return nil
}
