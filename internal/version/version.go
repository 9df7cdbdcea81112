package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Version information for the ploy CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the compiler; Ploy.toml
	// [compiler].version constraints are checked against it.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Semver parses Version.
func Semver() (*semver.Version, error) {
	return semver.NewVersion(Version)
}

// Colored renders Version with major/minor/patch in distinct colours. An
// unparsable Version is returned as is.
func Colored() string {
	v, err := Semver()
	if err != nil {
		return Version
	}
	var sb strings.Builder
	sb.WriteString(versionMajorColor.Sprint(v.Major()))
	sb.WriteByte('.')
	sb.WriteString(versionMinorColor.Sprint(v.Minor()))
	sb.WriteByte('.')
	sb.WriteString(versionPatchColor.Sprint(v.Patch()))
	if pre := v.Prerelease(); pre != "" {
		sb.WriteString("-" + pre)
	}
	return sb.String()
}

// Full is the one-line form printed by `ploy version`.
func Full(colored bool) string {
	s := Version
	if colored {
		s = Colored()
	}
	s = "ploy " + s
	if GitCommit != "" {
		s += " (" + GitCommit
		if BuildDate != "" {
			s += ", " + BuildDate
		}
		s += ")"
	}
	return s
}
