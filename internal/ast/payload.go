package ast

import "ploy/internal/symbols"

// Payload is typed structure attached to a special-form node by lowering.
type Payload interface {
	payload()
}

// IfData: IfFalse is NoNodeID when the else branch is absent.
type IfData struct {
	Predicate NodeID
	IfTrue    NodeID
	IfFalse   NodeID
}

// ApplicationData records the callee and ordered arguments.
type ApplicationData struct {
	Func NodeID
	Args []NodeID
}

// Binding is one name/value pair of a let.
type Binding struct {
	Name  NodeID // AssignSymbol
	Value NodeID
}

type LetData struct {
	Scope    symbols.ScopeID
	Bindings []Binding
	Body     []NodeID
}

type LambdaData struct {
	Scope  symbols.ScopeID
	Params []NodeID // AssignSymbol nodes
	Body   []NodeID
}

// MacroData: a macro binds its name in the enclosing scope and its
// parameters in its own scope. Bodies are not expanded.
type MacroData struct {
	Name   symbols.Ref
	Scope  symbols.ScopeID
	Params []NodeID
	Body   []NodeID
}

// DefineData is attached to the AssignSymbol that replaced a define.
type DefineData struct {
	Value NodeID
}

// FormsData is the payload of and / or / do.
type FormsData struct {
	Forms []NodeID
}

// CondClause is one test/body pair of a cond.
type CondClause struct {
	Test NodeID
	Body NodeID
}

type CondData struct {
	Clauses []CondClause
}

// ScopeMarker is the payload of SetScope nodes: enter Scope, or, when
// Return is set, return to Scope.
type ScopeMarker struct {
	Scope  symbols.ScopeID
	Return bool
}

func (IfData) payload()          {}
func (ApplicationData) payload() {}
func (LetData) payload()         {}
func (LambdaData) payload()      {}
func (MacroData) payload()       {}
func (DefineData) payload()      {}
func (FormsData) payload()       {}
func (CondData) payload()        {}
func (ScopeMarker) payload()     {}
