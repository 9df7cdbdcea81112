package driver

import "time"

// PhaseStatus reports what a PhaseEvent marks.
type PhaseStatus int

const (
	// PhaseStart: a phase of one file has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
	// FileDone: the whole pipeline of one file finished (or was served from
	// cache).
	FileDone
)

// PhaseEvent describes a phase boundary. Index/Total are set for FileDone
// events of directory runs.
type PhaseEvent struct {
	Path    string
	Name    string // lex, parse, lower
	Status  PhaseStatus
	Elapsed time.Duration
	Failed  bool
	Cached  bool
	Index   int
	Total   int
}

// PhaseObserver receives events from Check and CheckDir. In directory mode
// it is called from worker goroutines and must be safe for concurrent use.
type PhaseObserver func(PhaseEvent)
