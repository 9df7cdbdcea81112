package combinator

import (
	"errors"
	"fmt"
)

// Kind says what kind of failure happened.
type Kind uint8

const (
	NoMatch Kind = iota
	TookTooMany
	SkippedTooMany
	IllegalSplitIndex
	NeededOneOrMore
	UnconsumedInput
	UntilNotMatched
	MissingCloser
	// Syntax is a grammar-defined failure; Error.Code carries the detail.
	Syntax
)

var kindNames = [...]string{
	NoMatch:           "NoMatch",
	TookTooMany:       "TookTooMany",
	SkippedTooMany:    "SkippedTooMany",
	IllegalSplitIndex: "IllegalSplitIndex",
	NeededOneOrMore:   "NeededOneOrMore",
	UnconsumedInput:   "UnconsumedInput",
	UntilNotMatched:   "UntilNotMatched",
	MissingCloser:     "MissingCloser",
	Syntax:            "Syntax",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Severity: Normal lets alternation continue, Fatal stops it.
type Severity uint8

const (
	Normal Severity = iota
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "fatal"
	}
	return "normal"
}

// Range is a half-open range of absolute item offsets.
type Range struct {
	Start int
	End   int
}

func (r Range) Empty() bool { return r.End <= r.Start }

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// ErrContract matches every contract violation via errors.Is.
var ErrContract = errors.New("combinator: contract violation")

// Error is an immutable parse failure.
type Error struct {
	Kind     Kind
	Severity Severity
	Range    Range
	// Expected describes what would have matched, e.g. "')'" or "symbol".
	Expected string
	// Code is free for the grammar; the engine never reads it.
	Code int
	// Origin points at related input, e.g. the unclosed opener for MissingCloser.
	Origin Range
}

// NewError builds a Normal failure.
func NewError(kind Kind, rng Range, expected string) *Error {
	return &Error{Kind: kind, Severity: Normal, Range: rng, Expected: expected}
}

// SyntaxError builds a grammar failure with a caller-defined code.
func SyntaxError(code int, sev Severity, rng Range, expected string) *Error {
	return &Error{Kind: Syntax, Severity: sev, Range: rng, Expected: expected, Code: code}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s (%s) at %s", e.Kind, e.Severity, e.Range)
	if e.Expected != "" {
		msg += ": expected " + e.Expected
	}
	return msg
}

// IsFatal reports whether alternation must stop on e.
func (e *Error) IsFatal() bool { return e != nil && e.Severity == Fatal }

// IsContract reports programming-contract violations (bad Take/Drop/Split),
// which are never user syntax errors.
func (e *Error) IsContract() bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case TookTooMany, SkippedTooMany, IllegalSplitIndex:
		return true
	}
	return false
}

// Is makes errors.Is(err, ErrContract) work.
func (e *Error) Is(target error) bool {
	return target == ErrContract && e.IsContract()
}

// Escalate returns a Fatal copy of e. A Fatal e is returned as is.
func (e *Error) Escalate() *Error {
	if e == nil || e.Severity == Fatal {
		return e
	}
	cp := *e
	cp.Severity = Fatal
	return &cp
}

// WithExpected returns a copy with a new expectation label. Severity is kept.
func (e *Error) WithExpected(expected string) *Error {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Expected = expected
	return &cp
}

// WithCode returns a Syntax copy carrying code. Severity is kept.
func (e *Error) WithCode(code int, expected string) *Error {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Kind = Syntax
	cp.Code = code
	cp.Expected = expected
	return &cp
}
