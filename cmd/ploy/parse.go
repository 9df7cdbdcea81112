package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ploy/internal/diagfmt"
	"ploy/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.ply",
	Short: "Parse a ploy source file and print its tree",
	Long: `Parse runs the lexer and the parser on one file. --format tree prints the
raw parse tree with token ranges; ast and json print the unlowered AST.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "ast", "output format (tree|ast|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "tree", "ast", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	maxDiags, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}

	cleanup, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := driver.Parse(cmd.Context(), args[0], driver.Options{MaxDiagnostics: maxDiags})
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd, os.Stderr, result.Bag, result.FileSet, diagPretty); err != nil {
		return err
	}
	if !result.Parse.OK() {
		return errReported
	}

	switch format {
	case "tree":
		_, err = fmt.Fprint(os.Stdout, result.Parse.Root.Dump(result.Parse.Tokens))
	case "json":
		err = diagfmt.FormatASTJSON(os.Stdout, result.Parse.Tree, nil)
	default:
		err = diagfmt.FormatASTPretty(os.Stdout, result.Parse.Tree, nil)
	}
	return err
}
