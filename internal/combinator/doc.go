// Package combinator is a small backtracking parser-combinator engine.
//
// A Parser maps an input to either (rest, value) or a failure. Failures carry
// a Kind (what went wrong) and a Severity:
//
//   - Normal: this alternative does not apply; Alt may try the next one.
//   - Fatal: the right branch was chosen but the input is malformed; stop.
//
// Only Cut, WrappedCut and All raise a failure to Fatal. Nothing lowers it.
// Escalation always returns a new *Error, so a failure shared between
// alternation branches is never changed behind another branch's back.
//
// Span is the usual input: a bounds-checked view over an item slice that
// remembers its absolute offset. Asking a Span for more items than it holds is a
// programming error; it is reported with a contract kind (see Error.IsContract)
// and never truncated silently.
package combinator
