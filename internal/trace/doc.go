// Package trace is the event log of the ploy pipeline.
//
// Driver commands, pipeline passes (lex, parse, lower) and per-file work
// open spans; tracers decide where the events go:
//
//   - Nop: tracing disabled, zero cost
//   - StreamTracer: writes every event at once (text, NDJSON or Chrome JSON)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// Enable from the CLI:
//
//	ploy check --trace=- --trace-level=detail src/
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "parse")
//	defer span.End("")
package trace
