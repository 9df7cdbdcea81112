package symbols

import "fmt"

// ScopeID identifies a scope. Ids are allocated in order and never reused.
type ScopeID uint32

const (
	// RootScope always exists and has no parent.
	RootScope ScopeID = 0
	// NoScopeID marks the absence of a scope (the root's parent).
	NoScopeID ScopeID = ^ScopeID(0)
)

// IsValid reports whether the id can refer to a scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID identifies a symbol. Ids are global across scopes, start at 1
// and are never reused.
type SymbolID uint32

// NoSymbolID marks the absence of a symbol.
const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// Ref is the global key of a symbol.
type Ref struct {
	Scope  ScopeID
	Symbol SymbolID
}

// IsValid reports whether the ref points at a symbol.
func (r Ref) IsValid() bool { return r.Symbol.IsValid() }

func (r Ref) String() string {
	return fmt.Sprintf("%d:%d", r.Scope, r.Symbol)
}

// Barrier controls whether lookups may continue into the parent scope.
type Barrier uint8

const (
	// BarrierGlobal lets lookups pass to the parent.
	BarrierGlobal Barrier = iota
	// BarrierLocal stops lookups at this scope.
	BarrierLocal
)

func (b Barrier) String() string {
	if b == BarrierLocal {
		return "local"
	}
	return "global"
}

// CanPass reports whether a lookup under policy may leave a scope with barrier b.
// Both the scope and the query have to allow it.
func (b Barrier) CanPass(policy Barrier) bool {
	return b == BarrierGlobal && policy == BarrierGlobal
}
