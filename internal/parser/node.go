package parser

import (
	"fmt"
	"strings"

	"ploy/internal/ast"
	"ploy/internal/combinator"
	"ploy/internal/token"
)

// Span is the parser input: a window over the token stream without its EOF.
type Span = combinator.Span[token.Token, token.Kind]

// P is a production over tokens.
type P[O any] = combinator.Parser[Span, O]

// Node is the raw parse tree. Range is a half-open range of token offsets;
// Meta holds the metadata map of a define or a parameter and is never part
// of Children.
type Node struct {
	Kind     ast.Kind
	Range    combinator.Range
	Children []Node
	Meta     *Node
}

// Walk visits n and its children in pre-order. Metadata is not visited.
func (n *Node) Walk(fn func(*Node, int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for i := range n.Children {
		n.Children[i].walk(fn, depth+1)
	}
}

// Dump renders the tree one node per line, for tests and `ploy parse`.
func (n *Node) Dump(toks []token.Token) string {
	var sb strings.Builder
	n.Walk(func(c *Node, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		fmt.Fprintf(&sb, "%s %s", c.Kind, c.Range)
		if len(c.Children) == 0 && c.Range.End-c.Range.Start == 1 && c.Range.Start < len(toks) {
			fmt.Fprintf(&sb, " %q", toks[c.Range.Start].Text)
		}
		if c.Meta != nil {
			fmt.Fprintf(&sb, " ^%s", c.Meta.Range)
		}
		sb.WriteByte('\n')
		return true
	})
	return sb.String()
}
