package main

import (
	"github.com/spf13/cobra"

	"github.com/dweve-ai/hedl-sub002/pkg/hedl"
)

var parseLimits string

func init() {
	cmd := newParseCmd()
	cmd.Flags().StringVar(&parseLimits, "limits", "default", "Limits preset to use (default, strict)")
	rootCmd.AddCommand(cmd)
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a HEDL document and print it back out in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(args)
		},
	}
}

func runParse(args []string) error {
	path := args[0]
	opts, err := optionsForPreset(parseLimits)
	if err != nil {
		return err
	}

	printVerbose("Parsing %s\n", path)
	doc, herr := hedl.ParseFile(path, opts)
	if herr != nil {
		printError("%s\n", herr.Error())
		return herr
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"file":    path,
			"version": doc.Version,
			"structs": doc.Structs,
		})
	}

	printInfo("%s", hedl.Canonicalize(doc))
	return nil
}
