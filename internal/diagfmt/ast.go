package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ploy/internal/ast"
	"ploy/internal/symbols"
)

// FormatASTPretty prints the tree one node per line:
//
//	#3 Application 1:1 {func=#4 args=[#5 #6]}
//	  #4 BuiltIn "+" 1:2
//
// syms may be nil (unlowered tree); when set, resolved symbols print their
// fully-qualified name.
func FormatASTPretty(w io.Writer, tree *ast.Tree, syms *symbols.Tree) error {
	var sb strings.Builder
	tree.Walk(tree.Root(), func(id ast.NodeID, depth int) bool {
		n := tree.Get(id)
		sb.WriteString(strings.Repeat("  ", depth))
		fmt.Fprintf(&sb, "#%d %s", id, n.Kind)
		if n.Text != "" && n.Kind != ast.Program {
			fmt.Fprintf(&sb, " %q", n.Text)
		}
		fmt.Fprintf(&sb, " %d:%d", n.Pos.Line, n.Pos.Col)
		if n.Sym.IsValid() {
			sb.WriteString(" -> " + symbolName(syms, n.Sym))
		}
		if p := describePayload(n.Payload); p != "" {
			sb.WriteString(" {" + p + "}")
		}
		if meta, ok := tree.Meta(id); ok {
			fmt.Fprintf(&sb, " ^#%d", meta)
		}
		sb.WriteByte('\n')
		return true
	})
	_, err := io.WriteString(w, sb.String())
	return err
}

func symbolName(syms *symbols.Tree, ref symbols.Ref) string {
	if syms != nil {
		if info, ok := syms.SymbolInfo(ref); ok {
			return info.FQN
		}
	}
	return ref.String()
}

func ids(list []ast.NodeID) string {
	parts := make([]string, len(list))
	for i, id := range list {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func describePayload(p ast.Payload) string {
	switch d := p.(type) {
	case ast.IfData:
		s := fmt.Sprintf("pred=#%d then=#%d", d.Predicate, d.IfTrue)
		if d.IfFalse.IsValid() {
			s += fmt.Sprintf(" else=#%d", d.IfFalse)
		}
		return s
	case ast.ApplicationData:
		return fmt.Sprintf("func=#%d args=%s", d.Func, ids(d.Args))
	case ast.LetData:
		parts := make([]string, len(d.Bindings))
		for i, b := range d.Bindings {
			parts[i] = fmt.Sprintf("#%d=#%d", b.Name, b.Value)
		}
		return fmt.Sprintf("scope=%d bind=[%s] body=%s", d.Scope, strings.Join(parts, " "), ids(d.Body))
	case ast.LambdaData:
		return fmt.Sprintf("scope=%d params=%s body=%s", d.Scope, ids(d.Params), ids(d.Body))
	case ast.MacroData:
		return fmt.Sprintf("name=%s scope=%d params=%s body=%s", d.Name, d.Scope, ids(d.Params), ids(d.Body))
	case ast.DefineData:
		return fmt.Sprintf("value=#%d", d.Value)
	case ast.FormsData:
		return "forms=" + ids(d.Forms)
	case ast.CondData:
		parts := make([]string, len(d.Clauses))
		for i, c := range d.Clauses {
			parts[i] = fmt.Sprintf("#%d=>#%d", c.Test, c.Body)
		}
		return "clauses=[" + strings.Join(parts, " ") + "]"
	case ast.ScopeMarker:
		if d.Return {
			return fmt.Sprintf("return=%d", d.Scope)
		}
		return fmt.Sprintf("enter=%d", d.Scope)
	}
	return ""
}

// NodeJSON is the JSON form of a subtree.
type NodeJSON struct {
	ID       uint32     `json:"id"`
	Kind     string     `json:"kind"`
	Text     string     `json:"text,omitempty"`
	Line     uint32     `json:"line"`
	Col      uint32     `json:"col"`
	Symbol   string     `json:"symbol,omitempty"`
	Payload  string     `json:"payload,omitempty"`
	Meta     *NodeJSON  `json:"meta,omitempty"`
	Children []NodeJSON `json:"children,omitempty"`
}

// BuildASTJSON converts the subtree at id.
func BuildASTJSON(tree *ast.Tree, syms *symbols.Tree, id ast.NodeID) NodeJSON {
	n := tree.Get(id)
	out := NodeJSON{
		ID:      uint32(id),
		Kind:    n.Kind.String(),
		Text:    n.Text,
		Line:    n.Pos.Line,
		Col:     n.Pos.Col,
		Payload: describePayload(n.Payload),
	}
	if n.Sym.IsValid() {
		out.Symbol = symbolName(syms, n.Sym)
	}
	if meta, ok := tree.Meta(id); ok {
		m := BuildASTJSON(tree, syms, meta)
		out.Meta = &m
	}
	for _, c := range tree.Children(id) {
		out.Children = append(out.Children, BuildASTJSON(tree, syms, c))
	}
	return out
}

// FormatASTJSON writes the whole tree as JSON.
func FormatASTJSON(w io.Writer, tree *ast.Tree, syms *symbols.Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildASTJSON(tree, syms, tree.Root()))
}
