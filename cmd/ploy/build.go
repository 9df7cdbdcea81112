package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ploy/internal/driver"
	"ploy/internal/project"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.ply]",
	Short: "Check a program and write its module artifact",
	Long: `Build checks the project's main file (or the given file) and, when it is
error-free, writes a msgpack module artifact to [build].out-dir or --output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "artifact path (default <out-dir>/<name>.plym)")
}

// ArtifactExt is the extension of written module artifacts.
const ArtifactExt = ".plym"

func runBuild(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	start := ""
	if len(args) == 1 {
		start = args[0]
	}
	manifest, ok, err := loadProject(start)
	if err != nil {
		return err
	}

	var input string
	switch {
	case start != "":
		input = start
	case ok:
		input = manifest.MainPath()
	default:
		return fmt.Errorf("no input file and no Ploy.toml found")
	}
	if output == "" {
		output = artifactPath(input, manifest)
	}

	maxDiags, err := projectMaxDiagnostics(cmd, manifest)
	if err != nil {
		return err
	}

	cleanup, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := driver.Options{MaxDiagnostics: maxDiags}
	res, err := driver.Check(cmd.Context(), input, opts)
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd, os.Stderr, res.Bag, res.FileSet, diagPretty); err != nil {
		return err
	}
	if res.Failed() {
		return errReported
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	if err := driver.WriteArtifact(output, res.Artifact); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(os.Stderr, "wrote %s (%d symbols)\n", output, len(res.Artifact.Symbols))
	}
	return nil
}

// artifactPath puts the artifact of a project's main file under out-dir named
// after the package; any other input gets a sibling build/ directory.
func artifactPath(input string, m *project.Manifest) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ArtifactExt
	if m == nil {
		return filepath.Join(filepath.Dir(input), "build", base)
	}
	if filepath.Clean(input) == filepath.Clean(m.MainPath()) {
		base = m.Package.Name + ArtifactExt
	}
	return filepath.Join(m.OutPath(), base)
}
