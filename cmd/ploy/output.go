package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ploy/internal/diag"
	"ploy/internal/diagfmt"
	"ploy/internal/observ"
	"ploy/internal/source"
)

// resolveColor maps --color to a decision; tty reports whether the target
// stream is a terminal.
func resolveColor(value string, tty bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return tty, nil
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}

func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	return resolveColor(value, isTerminal(f))
}

type diagFormat string

const (
	diagPretty diagFormat = "pretty"
	diagJSON   diagFormat = "json"
	diagShort  diagFormat = "short"
)

func readDiagFormat(value string) (diagFormat, error) {
	switch f := diagFormat(strings.ToLower(value)); f {
	case diagPretty, diagJSON, diagShort:
		return f, nil
	}
	return "", fmt.Errorf("unknown format: %s (expected pretty|json|short)", value)
}

// printDiagnostics renders bag in the requested format. Pretty and short
// output print nothing for an empty bag; JSON always prints a document.
func printDiagnostics(cmd *cobra.Command, w io.Writer, bag *diag.Bag, fs *source.FileSet, format diagFormat) error {
	bag.Sort()
	switch format {
	case diagJSON:
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	case diagShort:
		if bag.Len() == 0 {
			return nil
		}
		return diagfmt.Short(w, bag, fs, true)
	default:
		if bag.Len() == 0 && bag.Dropped() == 0 {
			return nil
		}
		f, _ := w.(*os.File)
		color := false
		if f != nil {
			var err error
			if color, err = useColor(cmd, f); err != nil {
				return err
			}
		}
		return diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{Color: color, Context: 2, ShowNotes: true})
	}
}

// printTimings prints the timer summary when --timings is set.
func printTimings(cmd *cobra.Command, w io.Writer, timer *observ.Timer) error {
	show, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !show || timer == nil {
		return nil
	}
	_, err = io.WriteString(w, timer.Summary())
	return err
}

func isQuiet(cmd *cobra.Command) bool {
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return quiet
}

func maxDiagnostics(cmd *cobra.Command) (int, error) {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if n < 0 {
		return 0, fmt.Errorf("--max-diagnostics must not be negative")
	}
	return n, nil
}
