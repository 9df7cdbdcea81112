package lower

import (
	"errors"
	"fmt"

	"ploy/internal/ast"
	"ploy/internal/diag"
	"ploy/internal/source"
)

// Error is the single located failure that aborts lowering.
type Error struct {
	Code diag.Code
	Span source.Span
	Node ast.NodeID
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code.ID(), e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code.ID(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Report sends a lowering failure to r. Errors that are not *Error are
// internal and reported as such at span.
func Report(err error, span source.Span, r diag.Reporter) {
	if err == nil || r == nil {
		return
	}
	var le *Error
	if errors.As(err, &le) {
		diag.ReportError(r, le.Code, le.Span, le.Msg).Emit()
		return
	}
	diag.ReportError(r, diag.IceInternal, span, "lowering: "+err.Error()).Emit()
}

func (l *lowerer) fail(code diag.Code, id ast.NodeID, cause error, format string, args ...any) {
	if l.err != nil {
		return
	}
	e := &Error{Code: code, Node: id, Msg: fmt.Sprintf(format, args...), Err: cause}
	if n := l.tree.Get(id); n != nil {
		e.Span = n.Span
	}
	l.err = e
}
