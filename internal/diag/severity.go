package diag

import "strconv"

// Severity orders diagnostics: an error stops the pipeline after the phase
// that reported it, warnings and infos never do.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "info",
	SevWarning: "warning",
	SevError:   "error",
}

// String returns the label used in rendered output ("error", "warning",
// "info"). Out-of-range values print as "severity(N)".
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "severity(" + strconv.Itoa(int(s)) + ")"
}

// Blocking reports whether s aborts compilation.
func (s Severity) Blocking() bool { return s >= SevError }
