package lower

import (
	"strings"

	"ploy/internal/ast"
	"ploy/internal/diag"
	"ploy/internal/symbols"
)

// references resolves every Symbol against its scope chain. Qualified
// names ("unit::x") reach only the root and unit scopes; let, fn and macro
// locals stay behind their barrier.
func (l *lowerer) references() {
	l.code(func(id ast.NodeID, n *ast.Node) bool {
		if n.Kind != ast.Symbol {
			return true
		}
		ref, err := l.resolve(n.Text, l.scopeOf[id])
		if err != nil {
			l.fail(diag.SemaUndefinedSymbol, id, err, "undefined symbol `%s`", n.Text)
			return false
		}
		n.Kind = ast.InternedSymbol
		n.Sym = ref
		return true
	})
}

func (l *lowerer) resolve(name string, scope symbols.ScopeID) (symbols.Ref, error) {
	if !strings.Contains(name, symbols.PathSep) {
		return l.syms.ResolveLabel(name, scope, symbols.BarrierGlobal)
	}
	fqn := name
	if !strings.HasPrefix(fqn, symbols.PathSep) {
		fqn = symbols.PathSep + fqn
	}
	info, err := l.syms.SymbolInfoByName(fqn)
	if err != nil {
		return symbols.Ref{}, err
	}
	if s := info.Ref.Scope; s != symbols.RootScope && s != l.unit {
		return symbols.Ref{}, &symbols.LookupError{Name: name, Scope: s, Err: symbols.ErrNotFound}
	}
	return info.Ref, nil
}
