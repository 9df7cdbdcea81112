package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"ploy/internal/project"
	"ploy/internal/version"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new ploy project",
	Long: `Initialize a new ploy project by creating a manifest (Ploy.toml) and an
entry point (main.ply). Without an argument the current directory is used; a
non-existing path is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "package name (default: derived from the directory)")
}

func runInit(cmd *cobra.Command, args []string) error {
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return err
	}
	if name == "" {
		name = packageNameFor(filepath.Base(target))
	}
	if outer, ok, _ := project.FindProjectRoot(filepath.Dir(target)); ok && !isQuiet(cmd) {
		fmt.Fprintf(os.Stderr, "note: %s is inside the project at %s\n", target, outer)
	}

	constraint, err := compilerConstraint()
	if err != nil {
		return err
	}
	m, err := project.InitManifest(target, name, constraint)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s already exists in %s", project.ManifestName, target)
	}
	if err != nil {
		return err
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(os.Stdout, "created %s\n", filepath.Join(target, project.ManifestName))
		fmt.Fprintf(os.Stdout, "created %s\n", m.MainPath())
	}
	return nil
}

// packageNameFor turns a directory name into a valid package name.
func packageNameFor(dir string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(dir) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	name := sb.String()
	if name == "" || strings.Trim(name, "_") == "" {
		return "ploy_project"
	}
	if c := name[0]; c == '-' || (c >= '0' && c <= '9') {
		name = "_" + name
	}
	return name
}

// compilerConstraint pins new projects to this compiler's minor series.
func compilerConstraint() (string, error) {
	v, err := version.Semver()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("^%d.%d", v.Major(), v.Minor()), nil
}
