package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestDefaultIsSemver(t *testing.T) {
	if _, err := Semver(); err != nil {
		t.Fatalf("Version %q is not semver: %v", Version, err)
	}
}

func TestFull(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"1.2.3", "", "", "ploy 1.2.3"},
		{"1.2.3", "abc123", "", "ploy 1.2.3 (abc123)"},
		{"0.1.0-rc.1", "abc123", "2026-01-15", "ploy 0.1.0-rc.1 (abc123, 2026-01-15)"},
	}
	for _, tt := range tests {
		Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
		if got := Full(false); got != tt.want {
			t.Errorf("Full(false) = %q, want %q", got, tt.want)
		}
	}
}

func TestColoredKeepsDigits(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	Version = "2.5.7-beta"
	if got := Colored(); got != "2.5.7-beta" {
		t.Errorf("Colored() = %q", got)
	}
	Version = "not-a-version"
	if got := Colored(); got != "not-a-version" {
		t.Errorf("Colored() = %q", got)
	}
	if !strings.HasPrefix(Full(true), "ploy ") {
		t.Error("Full(true) lost its prefix")
	}
}
