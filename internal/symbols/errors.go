package symbols

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: a label or scope path does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSymbol: the name is already declared in that scope.
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	// ErrInvalidScope: a ScopeID that was never allocated.
	ErrInvalidScope = errors.New("invalid scope")
	// ErrInvalidSymbol: a Ref that was never allocated.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// LookupError adds the failing name and scope to a sentinel.
type LookupError struct {
	Name  string
	Scope ScopeID
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q in scope %d", e.Err, e.Name, e.Scope)
}

func (e *LookupError) Unwrap() error { return e.Err }
