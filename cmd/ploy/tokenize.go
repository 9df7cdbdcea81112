package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ploy/internal/diag"
	"ploy/internal/diagfmt"
	"ploy/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.ply|dir",
	Short: "Tokenize ploy source files",
	Long:  `Tokenize breaks a ploy source file, or every .ply file under a directory, into tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Int("jobs", 0, "max parallel files for directories (0 = GOMAXPROCS)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
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

	opts := driver.Options{MaxDiagnostics: maxDiags}
	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	if !st.IsDir() {
		// Выполняем токенизацию
		result, err := driver.Tokenize(cmd.Context(), target, opts)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
		if err := printDiagnostics(cmd, os.Stderr, result.Bag, result.FileSet, diagPretty); err != nil {
			return err
		}
		if format == "json" {
			err = diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
		} else {
			err = diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
		}
		if err != nil {
			return err
		}
		if result.Bag.HasErrors() {
			return errReported
		}
		return nil
	}

	fs, results, err := driver.TokenizeDir(cmd.Context(), target, opts, jobs)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	all := diag.NewBag(maxDiags)
	for _, res := range results {
		all.Merge(res.Bag)
		if format == "pretty" {
			fmt.Fprintf(os.Stdout, "== %s ==\n", res.Path)
			err = diagfmt.FormatTokensPretty(os.Stdout, res.Tokens, fs)
		} else {
			err = diagfmt.FormatTokensJSON(os.Stdout, res.Tokens)
		}
		if err != nil {
			return err
		}
	}
	if err := printDiagnostics(cmd, os.Stderr, all, fs, diagPretty); err != nil {
		return err
	}
	if all.HasErrors() {
		return errReported
	}
	return nil
}
