package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

var (
	// ErrPackageSectionMissing: Ploy.toml has no [package].
	ErrPackageSectionMissing = errors.New("missing [package]")
	ErrPackageNameMissing    = errors.New("missing [package].name")
	ErrBadPackageName        = errors.New("invalid [package].name")
	ErrBadVersion            = errors.New("invalid version")
	// ErrCompilerMismatch: the running compiler is outside [compiler].version.
	ErrCompilerMismatch = errors.New("compiler version does not satisfy constraint")
)

// Manifest is the content of Ploy.toml.
type Manifest struct {
	Package  PackageSection  `toml:"package"`
	Compiler CompilerSection `toml:"compiler"`
	Build    BuildSection    `toml:"build"`

	// Root is the directory holding the manifest; not part of the file.
	Root string `toml:"-"`
}

type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version,omitempty"`
	// Main is the entry file, relative to Root.
	Main string `toml:"main"`
}

type CompilerSection struct {
	// Version is a semver constraint such as ">= 0.1, < 0.3".
	Version string `toml:"version,omitempty"`
}

type BuildSection struct {
	OutDir         string `toml:"out-dir"`
	MaxDiagnostics int    `toml:"max-diagnostics"`
}

var packageNameRe = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)

// LoadManifest parses and validates a Ploy.toml.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	m.Root = filepath.Dir(path)
	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Package.Main == "" {
		m.Package.Main = "main.ply"
	}
	if m.Build.OutDir == "" {
		m.Build.OutDir = "build"
	}
}

// Validate checks names and versions. The constraint is parsed but not
// evaluated; see CheckCompiler.
func (m *Manifest) Validate() error {
	name := strings.TrimSpace(m.Package.Name)
	if name == "" {
		return ErrPackageNameMissing
	}
	if !packageNameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrBadPackageName, name)
	}
	if m.Package.Version != "" {
		if _, err := semver.NewVersion(m.Package.Version); err != nil {
			return fmt.Errorf("%w [package].version %q: %w", ErrBadVersion, m.Package.Version, err)
		}
	}
	if m.Compiler.Version != "" {
		if _, err := semver.NewConstraint(m.Compiler.Version); err != nil {
			return fmt.Errorf("%w [compiler].version %q: %w", ErrBadVersion, m.Compiler.Version, err)
		}
	}
	if m.Build.MaxDiagnostics < 0 {
		return fmt.Errorf("[build].max-diagnostics must be >= 0, got %d", m.Build.MaxDiagnostics)
	}
	return nil
}

// CheckCompiler reports whether compiler satisfies [compiler].version. An
// empty constraint accepts everything. Pre-release compilers are compared
// by their release part, so 0.2.0-dev satisfies ">= 0.2".
func (m *Manifest) CheckCompiler(compiler string) error {
	if m.Compiler.Version == "" {
		return nil
	}
	c, err := semver.NewConstraint(m.Compiler.Version)
	if err != nil {
		return fmt.Errorf("%w [compiler].version %q: %w", ErrBadVersion, m.Compiler.Version, err)
	}
	v, err := semver.NewVersion(compiler)
	if err != nil {
		return fmt.Errorf("%w compiler %q: %w", ErrBadVersion, compiler, err)
	}
	if v.Prerelease() != "" {
		release, perr := v.SetPrerelease("")
		if perr == nil {
			v = &release
		}
	}
	if ok, errs := c.Validate(v); !ok {
		reason := ""
		if len(errs) > 0 {
			reason = ": " + errs[0].Error()
		}
		return fmt.Errorf("%w: %s vs %q%s", ErrCompilerMismatch, compiler, m.Compiler.Version, reason)
	}
	return nil
}

// MainPath is the absolute-or-relative path of the entry file.
func (m *Manifest) MainPath() string {
	return filepath.Join(m.Root, m.Package.Main)
}

// OutPath is where build artifacts go.
func (m *Manifest) OutPath() string {
	return filepath.Join(m.Root, m.Build.OutDir)
}

// Encode renders m as TOML.
func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// InitManifest writes a fresh Ploy.toml and an empty main file into dir.
// Existing files are not overwritten.
func InitManifest(dir, name, compilerConstraint string) (*Manifest, error) {
	m := &Manifest{
		Package:  PackageSection{Name: name, Version: "0.1.0", Main: "main.ply"},
		Compiler: CompilerSection{Version: compilerConstraint},
		Build:    BuildSection{OutDir: "build"},
		Root:     dir,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	data, err := m.Encode()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, ManifestName)
	if err := writeNew(path, data); err != nil {
		return nil, err
	}
	if err := writeNew(m.MainPath(), []byte("(define main (fn [] ()))\n")); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	return m, nil
}

func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
