package lower

import (
	"strconv"
	"strings"

	"ploy/internal/ast"
	"ploy/internal/diag"
	"ploy/internal/lexer"
	"ploy/internal/symbols"
)

// structure attaches typed payloads to special forms and binds the values
// of literal and lambda defines.
func (l *lowerer) structure() {
	l.code(func(id ast.NodeID, n *ast.Node) bool {
		kids := l.kids(id)
		switch n.Kind {
		case ast.If:
			d := ast.IfData{Predicate: kids[0], IfTrue: kids[1], IfFalse: ast.NoNodeID}
			if len(kids) > 2 {
				d.IfFalse = kids[2]
			}
			n.Payload = d
		case ast.Application:
			n.Payload = ast.ApplicationData{Func: kids[0], Args: kids[1:]}
		case ast.Let:
			d := ast.LetData{Scope: l.scopeOf[id], Body: kids[1:]}
			pairs := l.kids(kids[0])
			for i := 0; i+1 < len(pairs); i += 2 {
				d.Bindings = append(d.Bindings, ast.Binding{Name: pairs[i], Value: pairs[i+1]})
			}
			n.Payload = d
		case ast.Lambda:
			n.Payload = ast.LambdaData{Scope: l.scopeOf[id], Params: l.kids(kids[0]), Body: kids[1:]}
		case ast.Macro:
			n.Payload = ast.MacroData{
				Name:   l.tree.Get(kids[0]).Sym,
				Scope:  l.scopeOf[id],
				Params: l.kids(kids[1]),
				Body:   kids[2:],
			}
		case ast.And, ast.Or, ast.Do:
			n.Payload = ast.FormsData{Forms: kids}
		case ast.Cond:
			var d ast.CondData
			for i := 0; i+1 < len(kids); i += 2 {
				d.Clauses = append(d.Clauses, ast.CondClause{Test: kids[i], Body: kids[i+1]})
			}
			n.Payload = d
		}
		return true
	})
	if l.err != nil {
		return
	}
	for _, id := range l.defines {
		l.bindValue(id)
	}
}

func (l *lowerer) bindValue(id ast.NodeID) {
	n := l.tree.Get(id)
	kids := l.kids(id)
	value := kids[0]
	n.Payload = ast.DefineData{Value: value}

	v := l.tree.Get(value)
	var (
		val symbols.Value
		err error
	)
	switch v.Kind {
	case ast.Number:
		var u uint64
		u, err = ParseUnsigned(v.Text)
		val = symbols.Unsigned(u)
	case ast.String:
		var s string
		s, err = lexer.Unquote(v.Text)
		val = symbols.Text(s)
	case ast.Char:
		var r rune
		r, err = lexer.DecodeChar(v.Text)
		val = symbols.Char(r)
	case ast.Bool:
		val = symbols.Bool(v.Text == "true")
	case ast.Keyword:
		val = symbols.Keyword(v.Text)
	case ast.Null:
		val = symbols.Null()
	case ast.Lambda:
		val = symbols.Lambda(uint32(value))
	default:
		return
	}
	if err != nil {
		l.fail(diag.SemaBadDefine, value, err, "bad literal `%s`", v.Text)
		return
	}
	if err := l.syms.SetValue(n.Sym, val); err != nil {
		l.fail(diag.IceInternal, id, err, "bind value")
	}
}

// ParseUnsigned reads a number literal: decimal, 0x/$ hex or 0b/% binary,
// with optional '_' separators.
func ParseUnsigned(text string) (uint64, error) {
	s := strings.ReplaceAll(text, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "$"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		s, base = s[2:], 2
	case strings.HasPrefix(s, "%"):
		s, base = s[1:], 2
	}
	return strconv.ParseUint(s, base, 64)
}
