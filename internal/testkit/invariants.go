package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"ploy/internal/ast"
	"ploy/internal/parser"
	"ploy/internal/source"
)

// CheckParseTree runs the range invariants of a successful parse over a
// stream of ntoks tokens (EOF excluded):
// 1) the root covers [0, ntoks)
// 2) the root's children partition the root range without gaps
// 3) every child lies inside its parent and siblings are ordered and disjoint
func CheckParseTree(root parser.Node, ntoks int) error {
	if root.Range.Start != 0 || root.Range.End != ntoks {
		return fmt.Errorf("root range %v, want [0,%d)", root.Range, ntoks)
	}
	next := 0
	for i, c := range root.Children {
		if c.Range.Start != next {
			return fmt.Errorf("top-level form %d starts at %d, want %d", i, c.Range.Start, next)
		}
		next = c.Range.End
	}
	if next != ntoks {
		return fmt.Errorf("top-level forms end at %d, want %d", next, ntoks)
	}
	return checkNested(&root)
}

func checkNested(n *parser.Node) error {
	if n.Range.End < n.Range.Start {
		return fmt.Errorf("%s has inverted range %v", n.Kind, n.Range)
	}
	prev := n.Range.Start
	for i := range n.Children {
		c := &n.Children[i]
		if c.Range.Start < prev || c.Range.End > n.Range.End {
			return fmt.Errorf("%s child %d (%s %v) escapes parent %v or overlaps its sibling", n.Kind, i, c.Kind, c.Range, n.Range)
		}
		if c.Range.Empty() {
			return fmt.Errorf("%s child %d (%s) is empty", n.Kind, i, c.Kind)
		}
		prev = c.Range.End
		// metadata precedes a parameter name, so it is checked against the parent
		if c.Meta != nil {
			if c.Meta.Range.Start < n.Range.Start || c.Meta.Range.End > c.Range.End {
				return fmt.Errorf("%s metadata %v escapes %v", c.Kind, c.Meta.Range, n.Range)
			}
			if err := checkNested(c.Meta); err != nil {
				return err
			}
		}
		if err := checkNested(c); err != nil {
			return err
		}
	}
	return nil
}

// CheckSpanInvariants checks an AST against its file:
// 1) every node span lies inside the file content and points at the file
// 2) every child span lies inside its parent span
// 3) parent links agree with child lists
func CheckSpanInvariants(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var failure error
	tree.Walk(tree.Root(), func(id ast.NodeID, _ int) bool {
		if failure != nil {
			return false
		}
		n := tree.Get(id)
		if n.Span.File != sf.ID {
			failure = fmt.Errorf("node %d span file mismatch: got=%d want=%d", id, n.Span.File, sf.ID)
			return false
		}
		if n.Span.End > lenContent || n.Span.End < n.Span.Start {
			failure = fmt.Errorf("node %d span %v outside content (%d bytes)", id, n.Span, lenContent)
			return false
		}
		for _, c := range tree.Children(id) {
			cn := tree.Get(c)
			if cn.Parent() != id {
				failure = fmt.Errorf("node %d lists %d as child, but its parent is %d", id, c, cn.Parent())
				return false
			}
			if !n.Span.Contains(cn.Span) {
				failure = fmt.Errorf("node %d span %v escapes parent %d span %v", c, cn.Span, id, n.Span)
				return false
			}
		}
		return failure == nil
	})
	return failure
}
