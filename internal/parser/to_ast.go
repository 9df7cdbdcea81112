package parser

import (
	"fmt"

	"fortio.org/safecast"

	"ploy/internal/ast"
	"ploy/internal/source"
	"ploy/internal/token"
)

// ToAST copies a parse tree into a fresh ast.Tree. toks is the stream the
// tree was parsed from; file resolves line/column positions.
func ToAST(root Node, toks []token.Token, file *source.File) (*ast.Tree, error) {
	size := 0
	root.Walk(func(*Node, int) bool { size++; return true })
	b := astBuilder{toks: toks, file: file, tree: ast.NewTree(size)}
	id, err := b.build(&root)
	if err != nil {
		return nil, err
	}
	b.tree.SetRoot(id)
	return b.tree, nil
}

type astBuilder struct {
	toks []token.Token
	file *source.File
	tree *ast.Tree
}

func (b *astBuilder) build(n *Node) (ast.NodeID, error) {
	start, err := safecast.Conv[uint32](n.Range.Start)
	if err != nil {
		return ast.NoNodeID, fmt.Errorf("token offset overflow: %w", err)
	}
	end, err := safecast.Conv[uint32](n.Range.End)
	if err != nil {
		return ast.NoNodeID, fmt.Errorf("token offset overflow: %w", err)
	}
	span := tokenSpan(b.toks, n.Range)
	node := ast.Node{
		Kind:   n.Kind,
		Tokens: ast.TokenRange{Start: start, End: end},
		Span:   span,
	}
	if b.file != nil {
		if len(b.toks) == 0 {
			node.Span.File = b.file.ID
		}
		node.Pos = b.file.LineCol(span.Start)
	}
	switch {
	case n.Kind == ast.Null:
		node.Text = "()"
	case len(n.Children) == 0 && end-start == 1 && int(start) < len(b.toks):
		node.Text = b.toks[start].Text
	}
	id := b.tree.New(node)

	for i := range n.Children {
		child, err := b.build(&n.Children[i])
		if err != nil {
			return ast.NoNodeID, err
		}
		if err := b.tree.Append(id, child); err != nil {
			return ast.NoNodeID, fmt.Errorf("build %s: %w", n.Kind, err)
		}
	}
	if n.Meta != nil {
		meta, err := b.build(n.Meta)
		if err != nil {
			return ast.NoNodeID, err
		}
		if err := b.tree.SetMeta(id, meta); err != nil {
			return ast.NoNodeID, err
		}
	}
	return id, nil
}
