package ast

import (
	"ploy/internal/source"
	"ploy/internal/symbols"
)

// Node is one AST node. Links are managed by Tree; do not edit them directly.
type Node struct {
	Kind   Kind
	Tokens TokenRange
	Span   source.Span
	Pos    source.LineCol
	// Text is the token text for leaves (symbol name, literal spelling).
	Text string

	// Sym is set by lowering on InternedSymbol and AssignSymbol nodes.
	Sym symbols.Ref
	// Payload carries typed structure attached by lowering.
	Payload Payload

	parent NodeID
	first  NodeID
	last   NodeID
	prev   NodeID
	next   NodeID
}

// Parent returns the parent id, NoNodeID for roots and detached nodes.
func (n *Node) Parent() NodeID { return n.parent }

// FirstChild returns the first child id.
func (n *Node) FirstChild() NodeID { return n.first }

// LastChild returns the last child id.
func (n *Node) LastChild() NodeID { return n.last }

// NextSibling returns the following sibling id.
func (n *Node) NextSibling() NodeID { return n.next }

// PrevSibling returns the preceding sibling id.
func (n *Node) PrevSibling() NodeID { return n.prev }
