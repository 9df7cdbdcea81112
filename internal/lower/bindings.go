package lower

import (
	"errors"
	"strings"

	"ploy/internal/ast"
	"ploy/internal/diag"
	"ploy/internal/symbols"
)

// bindings turns every binding occurrence into an AssignSymbol:
// fn/macro parameters and let names (Arg), define names, macro names.
func (l *lowerer) bindings() {
	l.code(func(id ast.NodeID, n *ast.Node) bool {
		switch n.Kind {
		case ast.Arg:
			l.assign(id, l.scopeOf[id])
		case ast.Define:
			l.define(id)
		case ast.Macro:
			kids := l.kids(id)
			if len(kids) == 0 {
				break
			}
			if name := l.tree.Get(kids[0]).Text; strings.Contains(name, symbols.PathSep) {
				l.fail(diag.SemaBadDefine, kids[0], nil, "cannot name a macro with qualified name `%s`", name)
				break
			}
			l.assign(kids[0], l.scopeOf[kids[0]])
		}
		return l.err == nil
	})
}

// define binds the name child in the define's scope and detaches it, so the
// value becomes the sole child.
func (l *lowerer) define(id ast.NodeID) {
	kids := l.kids(id)
	if len(kids) != 2 {
		l.fail(diag.SemaBadDefine, id, nil, "define needs a name and a value")
		return
	}
	nameID := kids[0]
	name := l.tree.Get(nameID).Text
	if strings.Contains(name, symbols.PathSep) {
		l.fail(diag.SemaBadDefine, nameID, nil, "cannot define qualified name `%s`", name)
		return
	}
	ref, ok := l.declare(nameID, name, l.scopeOf[id])
	if !ok {
		return
	}
	if err := l.tree.Detach(nameID); err != nil {
		l.fail(diag.IceInternal, nameID, err, "detach define name")
		return
	}
	n := l.tree.Get(id)
	n.Kind = ast.AssignSymbol
	n.Sym = ref
	n.Text = name
	l.setDecl(ref, id)
	l.defines = append(l.defines, id)
}

func (l *lowerer) assign(id ast.NodeID, scope symbols.ScopeID) {
	n := l.tree.Get(id)
	ref, ok := l.declare(id, n.Text, scope)
	if !ok {
		return
	}
	n.Kind = ast.AssignSymbol
	n.Sym = ref
	l.setDecl(ref, id)
}

func (l *lowerer) declare(id ast.NodeID, name string, scope symbols.ScopeID) (symbols.Ref, bool) {
	ref, err := l.syms.CreateSymbolInScope(scope, name)
	switch {
	case errors.Is(err, symbols.ErrDuplicateSymbol):
		l.fail(diag.SemaDuplicateSymbol, id, err, "`%s` is already defined in this scope", name)
		return ref, false
	case err != nil:
		l.fail(diag.SemaScopeNotFound, id, err, "cannot declare `%s`", name)
		return ref, false
	}
	return ref, true
}

func (l *lowerer) setDecl(ref symbols.Ref, id ast.NodeID) {
	if err := l.syms.SetDecl(ref, uint32(id)); err != nil {
		l.fail(diag.IceInternal, id, err, "record declaration")
	}
}
