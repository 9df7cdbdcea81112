package driver

import (
	"ploy/internal/observ"
)

// SourceExt is the extension of ploy source files.
const SourceExt = ".ply"

// Options configures the driver entry points.
type Options struct {
	// MaxDiagnostics caps each file's bag; 0 means unlimited.
	MaxDiagnostics int
	// Unit names the scope that holds top-level definitions (lower.Options.Unit).
	Unit string
	// ScopeMarkers asks lowering to splice SetScope nodes.
	ScopeMarkers bool

	// Timer, if set, receives the per-phase durations of every file.
	Timer *observ.Timer
	// Cache short-circuits files whose content and options were seen before.
	Cache *ModuleCache
	// Observer receives phase and file events; see PhaseObserver.
	Observer PhaseObserver
}

func (o Options) observe(ev PhaseEvent) {
	if o.Observer != nil {
		o.Observer(ev)
	}
}
