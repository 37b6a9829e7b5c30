package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dweve-ai/hedl-sub002/pkg/hedl"
)

var validateLimits string

func init() {
	cmd := newValidateCmd()
	cmd.Flags().StringVar(&validateLimits, "limits", "default", "Limits preset to use (default, strict)")
	rootCmd.AddCommand(cmd)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a HEDL document's structure and limits",
		Long: `The validate command parses a HEDL document and reports whether it
is structurally valid, without printing the parsed contents.

Example:
  hedlctl validate doc.hedl
  hedlctl validate doc.hedl --limits strict
  hedlctl validate doc.hedl --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
}

func runValidate(args []string) error {
	path := args[0]
	printVerbose("Validating %s\n", path)

	opts, err := optionsForPreset(validateLimits)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	herr := hedl.Validate(data, opts)

	result := map[string]interface{}{
		"file":   path,
		"limits": validateLimits,
		"valid":  herr == nil,
	}
	if herr != nil {
		result["error"] = herr.Error()
	}

	if jsonOut {
		return printJSON(result)
	}

	if herr != nil {
		printError("%s\n", herr.Error())
		printInfo("Result: INVALID\n")
		return herr
	}
	printInfo("Result: VALID\n")
	return nil
}
