package symbols

import (
	"errors"
	"testing"
)

func mustScope(t *testing.T, tr *Tree, name string, parent ScopeID, b Barrier) ScopeID {
	t.Helper()
	id, err := tr.InsertNewTable(name, parent, b)
	if err != nil {
		t.Fatalf("InsertNewTable(%q): %v", name, err)
	}
	return id
}

func mustSymbol(t *testing.T, tr *Tree, scope ScopeID, name string) Ref {
	t.Helper()
	ref, err := tr.CreateSymbolInScope(scope, name)
	if err != nil {
		t.Fatalf("CreateSymbolInScope(%d, %q): %v", scope, name, err)
	}
	return ref
}

func TestRootExists(t *testing.T) {
	tr := NewTree()
	root := tr.Scope(RootScope)
	if root == nil || root.FQN != "" || root.Parent.IsValid() {
		t.Fatalf("bad root: %+v", root)
	}
	if tr.NextScopeID() != 1 {
		t.Errorf("NextScopeID = %d, want 1", tr.NextScopeID())
	}
}

func TestNestedResolution(t *testing.T) {
	tr := NewTree()
	s1 := mustScope(t, tr, "outer", RootScope, BarrierGlobal)
	s2 := mustScope(t, tr, "inner", s1, BarrierGlobal)
	x := mustSymbol(t, tr, s1, "x")
	y := mustSymbol(t, tr, s2, "y")

	got, err := tr.ResolveLabel("x", s2, BarrierGlobal)
	if err != nil || got != x {
		t.Fatalf("x from inner = %v,%v want %v", got, err, x)
	}
	if got, err := tr.ResolveLabel("y", s2, BarrierGlobal); err != nil || got != y {
		t.Fatalf("y from inner = %v,%v", got, err)
	}
	if _, err := tr.ResolveLabel("y", s1, BarrierGlobal); !errors.Is(err, ErrNotFound) {
		t.Fatalf("y from outer: err = %v, want ErrNotFound", err)
	}
	if _, err := tr.ResolveLabel("y", RootScope, BarrierGlobal); !errors.Is(err, ErrNotFound) {
		t.Fatalf("y from root: err = %v", err)
	}
}

func TestShadowingPicksNearest(t *testing.T) {
	tr := NewTree()
	outer := mustSymbol(t, tr, RootScope, "a")
	s1 := mustScope(t, tr, "fn", RootScope, BarrierGlobal)
	inner := mustSymbol(t, tr, s1, "a")

	got, err := tr.ResolveLabel("a", s1, BarrierGlobal)
	if err != nil || got != inner || got == outer {
		t.Fatalf("ResolveLabel = %v, want inner %v", got, inner)
	}
}

func TestBarrier(t *testing.T) {
	tr := NewTree()
	mustSymbol(t, tr, RootScope, "x")
	opaque := mustScope(t, tr, "module", RootScope, BarrierLocal)
	inner := mustScope(t, tr, "body", opaque, BarrierGlobal)

	if _, err := tr.ResolveLabel("x", inner, BarrierGlobal); !errors.Is(err, ErrNotFound) {
		t.Fatalf("local barrier crossed: %v", err)
	}

	open := mustScope(t, tr, "open", RootScope, BarrierGlobal)
	if _, err := tr.ResolveLabel("x", open, BarrierLocal); !errors.Is(err, ErrNotFound) {
		t.Fatalf("local policy crossed a global scope: %v", err)
	}
	if _, err := tr.ResolveLabel("x", open, BarrierGlobal); err != nil {
		t.Fatalf("global policy through global scope: %v", err)
	}
}

func TestDuplicateSymbolLeavesTableUnchanged(t *testing.T) {
	tr := NewTree()
	first := mustSymbol(t, tr, RootScope, "x")
	before := tr.Scope(RootScope).Len()

	_, err := tr.CreateSymbolInScope(RootScope, "x")
	if !errors.Is(err, ErrDuplicateSymbol) {
		t.Fatalf("err = %v, want ErrDuplicateSymbol", err)
	}
	if tr.Scope(RootScope).Len() != before || tr.NumSymbols() != 1 {
		t.Fatal("failed insert changed the table")
	}
	if got, _ := tr.ResolveLabel("x", RootScope, BarrierGlobal); got != first {
		t.Fatalf("x now resolves to %v", got)
	}
	if err := tr.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestIDsAreMonotonic(t *testing.T) {
	tr := NewTree()
	a := mustScope(t, tr, "a", RootScope, BarrierGlobal)
	b := mustScope(t, tr, "b", a, BarrierGlobal)
	c := mustScope(t, tr, "c", RootScope, BarrierGlobal)
	if !(a < b && b < c) {
		t.Fatalf("scope ids %d %d %d not increasing", a, b, c)
	}
	s1 := mustSymbol(t, tr, b, "x")
	s2 := mustSymbol(t, tr, a, "x")
	if s2.Symbol <= s1.Symbol {
		t.Fatalf("symbol ids %d then %d", s1.Symbol, s2.Symbol)
	}
}

func TestScopePaths(t *testing.T) {
	tr := NewTree()
	a := mustScope(t, tr, "a", RootScope, BarrierGlobal)
	b := mustScope(t, tr, "b", a, BarrierGlobal)

	tests := []struct {
		path string
		want ScopeID
		ok   bool
	}{
		{"", RootScope, true},
		{"::", RootScope, true},
		{"::a", a, true},
		{"::a::b", b, true},
		{"::a::c", NoScopeID, false},
		{"a::b", NoScopeID, false},
	}
	for _, tt := range tests {
		got, err := tr.ScopeID(tt.path)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ScopeID(%q) = %d,%v", tt.path, got, err)
		}
	}
	if got, err := tr.SubScopeID("b", a); err != nil || got != b {
		t.Errorf("SubScopeID(b, a) = %d,%v", got, err)
	}
	if _, err := tr.SubScopeID("a::x", RootScope); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing segment: %v", err)
	}
	if tr.FQN(b) != "::a::b" {
		t.Errorf("FQN = %q", tr.FQN(b))
	}
}

func TestCreateOrGetScopeIsIdempotent(t *testing.T) {
	tr := NewTree()
	first, err := tr.CreateOrGetScopeForParent("scope_1", RootScope)
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		again, err := tr.CreateOrGetScopeForParent("scope_1", RootScope)
		if err != nil || again != first {
			t.Fatalf("got %d,%v want %d", again, err, first)
		}
	}
	if len(tr.Children(RootScope)) != 1 {
		t.Fatalf("children = %v", tr.Children(RootScope))
	}
}

func TestSymbolInfoAndValues(t *testing.T) {
	tr := NewTree()
	mod := mustScope(t, tr, "main", RootScope, BarrierGlobal)
	ref := mustSymbol(t, tr, mod, "answer")

	info, ok := tr.SymbolInfo(ref)
	if !ok || info.FQN != "::main::answer" || info.Value != nil {
		t.Fatalf("info = %+v", info)
	}
	if err := tr.SetValue(ref, Unsigned(42)); err != nil {
		t.Fatal(err)
	}
	byName, err := tr.SymbolInfoByName("::main::answer")
	if err != nil || byName.Ref != ref || byName.Value.String() != "42" {
		t.Fatalf("by name = %+v, %v", byName, err)
	}
	if err := tr.SetValue(Ref{Scope: mod, Symbol: 99}, Null()); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("SetValue on unknown ref: %v", err)
	}
}

func TestWalk(t *testing.T) {
	tr := NewTree()
	a := mustScope(t, tr, "a", RootScope, BarrierGlobal)
	mustScope(t, tr, "b", a, BarrierGlobal)
	mustScope(t, tr, "c", RootScope, BarrierGlobal)

	var names []string
	tr.Walk(func(s *Table, depth int) bool {
		names = append(names, s.FQN)
		return true
	})
	want := []string{"", "::a", "::a::b", "::c"}
	if len(names) != len(want) {
		t.Fatalf("walk = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("walk = %v, want %v", names, want)
		}
	}
}
