// Package diag defines the diagnostic model shared by all front-end phases.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//     Ranges: LEX 1000s, SYN 2000s, SEM 3000s, PRJ 5000s, ICE 9000s.
//   - Message – short human oriented text.
//   - Primary – the source.Span the finding is about.
//   - Notes – optional secondary spans with extra context.
//
// # Emitting diagnostics
//
// Phases report through a Reporter so emission stays decoupled from storage.
// ReportBuilder lets a producer attach notes before Emit. BagReporter collects
// into a Bag, which supports sorting, deduplication and a size cap.
//
// Package diag performs no formatting and no IO; rendering lives in
// internal/diagfmt.
package diag
