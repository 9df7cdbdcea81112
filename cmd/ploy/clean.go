package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ploy/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build outputs and the module cache",
	Long: `Clean removes [build].out-dir of the current project, if any, and drops
every artifact from the on-disk module cache.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("cache-only", false, "keep build outputs, drop only the module cache")
}

func runClean(cmd *cobra.Command, _ []string) error {
	cacheOnly, err := cmd.Flags().GetBool("cache-only")
	if err != nil {
		return fmt.Errorf("failed to get cache-only flag: %w", err)
	}

	if !cacheOnly {
		m, ok, err := loadProject("")
		if err != nil {
			return err
		}
		if ok {
			out := m.OutPath()
			if err := os.RemoveAll(out); err != nil {
				return fmt.Errorf("remove %s: %w", out, err)
			}
			if !isQuiet(cmd) {
				fmt.Fprintf(os.Stdout, "removed %s\n", out)
			}
		}
	}

	cache, err := driver.OpenDiskCache("ploy")
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("drop cache: %w", err)
	}
	if !isQuiet(cmd) {
		fmt.Fprintln(os.Stdout, "module cache cleared")
	}
	return nil
}
