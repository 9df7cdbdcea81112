package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ploy/internal/project"
	"ploy/internal/version"
)

// loadProject finds Ploy.toml at or above start and checks that this
// compiler satisfies it. ok is false when there is no manifest.
func loadProject(start string) (m *project.Manifest, ok bool, err error) {
	if start == "" {
		if start, err = os.Getwd(); err != nil {
			return nil, false, err
		}
	}
	if st, statErr := os.Stat(start); statErr == nil && !st.IsDir() {
		start = filepath.Dir(start)
	}
	path, ok, err := project.FindManifest(start)
	if err != nil || !ok {
		return nil, false, err
	}
	m, err = project.LoadManifest(path)
	if err != nil {
		return nil, false, err
	}
	if err := m.CheckCompiler(version.Version); err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return m, true, nil
}

// projectMaxDiagnostics prefers an explicit flag, then [build].max-diagnostics.
func projectMaxDiagnostics(cmd *cobra.Command, m *project.Manifest) (int, error) {
	n, err := maxDiagnostics(cmd)
	if err != nil {
		return 0, err
	}
	if m != nil && m.Build.MaxDiagnostics > 0 && !cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		return m.Build.MaxDiagnostics, nil
	}
	return n, nil
}
