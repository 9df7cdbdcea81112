package lower

import (
	"fmt"

	"ploy/internal/ast"
	"ploy/internal/diag"
	"ploy/internal/symbols"
)

// scopes maps id and its subtree to scope, opening a child scope for let,
// fn and macro. Quoted data is mapped but not entered.
func (l *lowerer) scopes(id ast.NodeID, scope symbols.ScopeID) {
	if l.err != nil {
		return
	}
	n := l.tree.Get(id)
	if n.Kind.IsData() {
		l.scopeOf[id] = scope
		return
	}
	inner := scope
	if n.Kind.OpensScope() {
		name := fmt.Sprintf("scope_%d", l.syms.NextScopeID())
		s, err := l.syms.CreateOrGetScopeForParent(name, scope)
		if err != nil {
			l.fail(diag.SemaScopeNotFound, id, err, "cannot open scope for %s", n.Kind)
			return
		}
		inner = s
		l.opened = append(l.opened, id)
	}
	l.scopeOf[id] = inner
	for i, c := range l.tree.Children(id) {
		// a macro's name belongs to the enclosing scope
		if i == 0 && n.Kind == ast.Macro {
			l.scopeOf[c] = scope
			continue
		}
		l.scopes(c, inner)
	}
}

// markers splices "enter" before and "return" after every scope-opening
// node when Options.ScopeMarkers is set.
func (l *lowerer) markers() {
	if !l.opts.ScopeMarkers {
		return
	}
	for _, id := range l.opened {
		n := l.tree.Get(id)
		outer := l.syms.Parent(l.scopeOf[id])
		enter := l.tree.New(ast.Node{
			Kind: ast.SetScope, Tokens: n.Tokens, Span: n.Span.AtStart(), Pos: n.Pos,
			Payload: ast.ScopeMarker{Scope: l.scopeOf[id]},
		})
		leave := l.tree.New(ast.Node{
			Kind: ast.SetScope, Tokens: n.Tokens, Span: n.Span.AtEnd(), Pos: n.Pos,
			Payload: ast.ScopeMarker{Scope: outer, Return: true},
		})
		if err := l.tree.InsertBefore(id, enter); err != nil {
			l.fail(diag.IceInternal, id, err, "insert scope marker")
			return
		}
		if err := l.tree.InsertAfter(id, leave); err != nil {
			l.fail(diag.IceInternal, id, err, "insert scope marker")
			return
		}
		l.scopeOf[enter] = outer
		l.scopeOf[leave] = outer
	}
}
