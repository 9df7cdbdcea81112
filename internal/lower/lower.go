package lower

import (
	"context"
	"fmt"

	"ploy/internal/ast"
	"ploy/internal/symbols"
	"ploy/internal/trace"
)

// Options configures Lower.
type Options struct {
	// Unit, when set, names a child scope of the root that holds the
	// top-level definitions, so they are reachable as "unit::name".
	Unit string
	// ScopeMarkers splices SetScope markers around every scope-opening node
	// for consumers that walk the tree linearly.
	ScopeMarkers bool
}

// Module is the lowered compilation unit handed to code generation.
type Module struct {
	AST     *ast.Tree
	Symbols *symbols.Tree
	// ScopeOf maps every code node to its scope. Scope-opening nodes map to
	// the scope they open.
	ScopeOf map[ast.NodeID]symbols.ScopeID
	// Unit is the scope of top-level definitions.
	Unit symbols.ScopeID
}

type lowerer struct {
	tree    *ast.Tree
	syms    *symbols.Tree
	scopeOf map[ast.NodeID]symbols.ScopeID
	opened  []ast.NodeID // scope-opening nodes in pre-order
	defines []ast.NodeID // AssignSymbol nodes that were define forms
	opts    Options
	unit    symbols.ScopeID
	err     *Error
}

// Lower runs the four passes over tree, mutating it in place. On failure
// the tree must be discarded.
func Lower(tree *ast.Tree, opts Options) (*Module, error) {
	return LowerContext(context.Background(), tree, opts)
}

// LowerContext is Lower with one trace span per pass under the current span
// of ctx.
func LowerContext(ctx context.Context, tree *ast.Tree, opts Options) (*Module, error) {
	if tree == nil || tree.Get(tree.Root()) == nil {
		return nil, fmt.Errorf("lower: %w", ast.ErrInvalidNode)
	}
	l := &lowerer{
		tree:    tree,
		syms:    symbols.NewTree(),
		scopeOf: make(map[ast.NodeID]symbols.ScopeID, tree.Len()),
		opts:    opts,
	}
	unit := symbols.RootScope
	if opts.Unit != "" {
		var err error
		unit, err = l.syms.CreateOrGetScopeForParent(opts.Unit, symbols.RootScope)
		if err != nil {
			return nil, fmt.Errorf("lower: unit scope: %w", err)
		}
	}

	l.unit = unit

	passes := []struct {
		name string
		run  func()
	}{
		{"scopes", func() { l.scopes(tree.Root(), unit) }},
		{"markers", l.markers},
		{"bindings", l.bindings},
		{"references", l.references},
		{"structure", l.structure},
	}
	for _, pass := range passes {
		if pass.name == "markers" && !opts.ScopeMarkers {
			continue
		}
		_, span := trace.StartSpan(ctx, trace.ScopeNode, "lower/"+pass.name)
		pass.run()
		if l.err != nil {
			span.WithExtra("code", l.err.Code.ID()).End("failed")
			return nil, l.err
		}
		span.End("")
	}
	return &Module{AST: tree, Symbols: l.syms, ScopeOf: l.scopeOf, Unit: unit}, nil
}

// code walks the code nodes under the root: data, metadata and scope
// markers are skipped. fn returns false to skip a subtree.
func (l *lowerer) code(fn func(id ast.NodeID, n *ast.Node) bool) {
	l.tree.Walk(l.tree.Root(), func(id ast.NodeID, _ int) bool {
		if l.err != nil {
			return false
		}
		n := l.tree.Get(id)
		if n.Kind.IsData() || n.Kind == ast.SetScope {
			return false
		}
		return fn(id, n)
	})
}

// kids returns the children of id without scope markers.
func (l *lowerer) kids(id ast.NodeID) []ast.NodeID {
	return l.tree.ChildrenFunc(id, func(n *ast.Node) bool { return n.Kind != ast.SetScope })
}
