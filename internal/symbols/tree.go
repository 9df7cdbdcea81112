package symbols

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// PathSep separates scope names in fully-qualified names and scope paths.
const PathSep = "::"

// SymbolInfo describes one declared symbol.
type SymbolInfo struct {
	Name  string
	FQN   string
	Ref   Ref
	Value *Value
	// Decl is the AST node id of the binding site, 0 if unknown.
	Decl uint32
}

// Tree owns every scope and symbol of a compilation unit.
type Tree struct {
	scopes     []*Table // index = ScopeID
	info       map[Ref]*SymbolInfo
	nextSymbol SymbolID
}

// NewTree returns a tree holding only the root scope (id 0, name "", FQN "").
func NewTree() *Tree {
	return &Tree{
		scopes:     []*Table{newTable(RootScope, "", "", NoScopeID, BarrierGlobal)},
		info:       make(map[Ref]*SymbolInfo),
		nextSymbol: 1,
	}
}

// Scope returns the table for id, or nil.
func (t *Tree) Scope(id ScopeID) *Table {
	if int(id) >= len(t.scopes) {
		return nil
	}
	return t.scopes[id]
}

// NumScopes is the number of allocated scopes, root included.
func (t *Tree) NumScopes() int { return len(t.scopes) }

// NumSymbols is the number of allocated symbols.
func (t *Tree) NumSymbols() int { return len(t.info) }

// NextScopeID is the id the next InsertNewTable will return.
func (t *Tree) NextScopeID() ScopeID {
	return t.mustScopeID(len(t.scopes))
}

// Parent returns the parent of id; the root has NoScopeID.
func (t *Tree) Parent(id ScopeID) ScopeID {
	if s := t.Scope(id); s != nil {
		return s.Parent
	}
	return NoScopeID
}

// Children returns the direct child scopes of id in creation order.
func (t *Tree) Children(id ScopeID) []ScopeID {
	if s := t.Scope(id); s != nil {
		return s.Children
	}
	return nil
}

// FQN returns the fully-qualified name of a scope.
func (t *Tree) FQN(id ScopeID) string {
	if s := t.Scope(id); s != nil {
		return s.FQN
	}
	return ""
}

// InsertNewTable creates a child scope of parent and returns its id.
// Names need not be unique; use CreateOrGetScopeForParent for that.
func (t *Tree) InsertNewTable(name string, parent ScopeID, barrier Barrier) (ScopeID, error) {
	p := t.Scope(parent)
	if p == nil {
		return NoScopeID, fmt.Errorf("insert scope %q: %w", name, ErrInvalidScope)
	}
	id := t.mustScopeID(len(t.scopes))
	t.scopes = append(t.scopes, newTable(id, name, childFQN(p.FQN, name), parent, barrier))
	p.Children = append(p.Children, id)
	return id, nil
}

// CreateOrGetScopeForParent returns the child of parent called name,
// creating it with BarrierGlobal if it does not exist yet. Repeated calls
// return the same id.
func (t *Tree) CreateOrGetScopeForParent(name string, parent ScopeID) (ScopeID, error) {
	if id, err := t.findChild(parent, name); err == nil {
		return id, nil
	}
	return t.InsertNewTable(name, parent, BarrierGlobal)
}

// CreateSymbolInScope declares name in scope. A name already declared there
// fails with ErrDuplicateSymbol and leaves the table unchanged.
func (t *Tree) CreateSymbolInScope(scope ScopeID, name string) (Ref, error) {
	s := t.Scope(scope)
	if s == nil {
		return Ref{}, &LookupError{Name: name, Scope: scope, Err: ErrInvalidScope}
	}
	if _, exists := s.names[name]; exists {
		return Ref{}, &LookupError{Name: name, Scope: scope, Err: ErrDuplicateSymbol}
	}
	id := t.nextSymbol
	t.nextSymbol++
	s.insert(name, id)
	ref := Ref{Scope: scope, Symbol: id}
	t.info[ref] = &SymbolInfo{Name: name, FQN: childFQN(s.FQN, name), Ref: ref}
	return ref, nil
}

// ResolveLabel looks name up from start toward the root. Before leaving a
// scope its barrier must pass under policy; otherwise the lookup ends with
// ErrNotFound even if an ancestor declares the name.
func (t *Tree) ResolveLabel(name string, start ScopeID, policy Barrier) (Ref, error) {
	cur := t.Scope(start)
	if cur == nil {
		return Ref{}, &LookupError{Name: name, Scope: start, Err: ErrInvalidScope}
	}
	for {
		if id, ok := cur.names[name]; ok {
			return Ref{Scope: cur.ID, Symbol: id}, nil
		}
		if !cur.Parent.IsValid() || !cur.Barrier.CanPass(policy) {
			return Ref{}, &LookupError{Name: name, Scope: start, Err: ErrNotFound}
		}
		cur = t.scopes[cur.Parent]
	}
}

// ScopeID resolves an absolute path such as "::a::b". "" and "::" are the root.
func (t *Tree) ScopeID(path string) (ScopeID, error) {
	rel, ok := strings.CutPrefix(path, PathSep)
	if !ok && path != "" {
		return NoScopeID, &LookupError{Name: path, Scope: RootScope, Err: ErrNotFound}
	}
	return t.SubScopeID(rel, RootScope)
}

// SubScopeID resolves a relative path such as "a::b" starting at from.
func (t *Tree) SubScopeID(path string, from ScopeID) (ScopeID, error) {
	if t.Scope(from) == nil {
		return NoScopeID, &LookupError{Name: path, Scope: from, Err: ErrInvalidScope}
	}
	cur := from
	if path == "" {
		return cur, nil
	}
	for _, seg := range strings.Split(path, PathSep) {
		next, err := t.findChild(cur, seg)
		if err != nil {
			return NoScopeID, &LookupError{Name: path, Scope: from, Err: ErrNotFound}
		}
		cur = next
	}
	return cur, nil
}

func (t *Tree) findChild(parent ScopeID, name string) (ScopeID, error) {
	p := t.Scope(parent)
	if p == nil {
		return NoScopeID, ErrInvalidScope
	}
	for _, c := range p.Children {
		if t.scopes[c].Name == name {
			return c, nil
		}
	}
	return NoScopeID, ErrNotFound
}

// SymbolInfo returns the info for ref.
func (t *Tree) SymbolInfo(ref Ref) (*SymbolInfo, bool) {
	info, ok := t.info[ref]
	return info, ok
}

// SymbolInfoByName resolves a fully-qualified symbol name like "::a::x".
func (t *Tree) SymbolInfoByName(fqn string) (*SymbolInfo, error) {
	idx := strings.LastIndex(fqn, PathSep)
	if idx < 0 {
		return nil, &LookupError{Name: fqn, Scope: RootScope, Err: ErrNotFound}
	}
	scope, err := t.ScopeID(fqn[:idx])
	if err != nil {
		return nil, err
	}
	name := fqn[idx+len(PathSep):]
	id, ok := t.scopes[scope].names[name]
	if !ok {
		return nil, &LookupError{Name: name, Scope: scope, Err: ErrNotFound}
	}
	return t.info[Ref{Scope: scope, Symbol: id}], nil
}

// SetValue binds a compile-time value to a symbol.
func (t *Tree) SetValue(ref Ref, v Value) error {
	info, ok := t.info[ref]
	if !ok {
		return fmt.Errorf("set value for %s: %w", ref, ErrInvalidSymbol)
	}
	info.Value = &v
	return nil
}

// SetDecl records the AST node that declares ref.
func (t *Tree) SetDecl(ref Ref, node uint32) error {
	info, ok := t.info[ref]
	if !ok {
		return fmt.Errorf("set decl for %s: %w", ref, ErrInvalidSymbol)
	}
	info.Decl = node
	return nil
}

// Walk visits scopes depth-first in creation order. Returning false from fn
// skips the scope's children.
func (t *Tree) Walk(fn func(s *Table, depth int) bool) {
	var visit func(id ScopeID, depth int)
	visit = func(id ScopeID, depth int) {
		s := t.scopes[id]
		if !fn(s, depth) {
			return
		}
		for _, c := range s.Children {
			visit(c, depth+1)
		}
	}
	visit(RootScope, 0)
}

func (t *Tree) mustScopeID(n int) ScopeID {
	id, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("scope id overflow: %w", err))
	}
	return ScopeID(id)
}
