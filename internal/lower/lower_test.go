package lower_test

import (
	"errors"
	"strings"
	"testing"

	"ploy/internal/ast"
	"ploy/internal/diag"
	"ploy/internal/lower"
	"ploy/internal/parser"
	"ploy/internal/source"
	"ploy/internal/symbols"
)

func build(t *testing.T, input string) (*ast.Tree, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.ply", []byte(input)))
	bag := diag.NewBag(16)
	res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if !res.OK() {
		t.Fatalf("parse %q: %v", input, bag.Items())
	}
	return res.Tree, file
}

func lowerOK(t *testing.T, input string, opts lower.Options) *lower.Module {
	t.Helper()
	tree, _ := build(t, input)
	m, err := lower.Lower(tree, opts)
	if err != nil {
		t.Fatalf("lower %q: %v", input, err)
	}
	return m
}

func lowerErr(t *testing.T, input string) (*lower.Error, *source.File) {
	t.Helper()
	tree, file := build(t, input)
	_, err := lower.Lower(tree, lower.Options{})
	var le *lower.Error
	if !errors.As(err, &le) {
		t.Fatalf("lower %q: want *lower.Error, got %v", input, err)
	}
	return le, file
}

// top returns the top-level forms, without scope markers.
func top(m *lower.Module) []ast.NodeID {
	return m.AST.ChildrenFunc(m.AST.Root(), func(n *ast.Node) bool { return n.Kind != ast.SetScope })
}

func TestDefineBecomesAssignSymbol(t *testing.T) {
	m := lowerOK(t, "(define x 10)", lower.Options{})
	def := top(m)[0]
	n := m.AST.Get(def)
	if n.Kind != ast.AssignSymbol || !n.Sym.Symbol.IsValid() {
		t.Fatalf("define lowered to %s %v", n.Kind, n.Sym)
	}
	kids := m.AST.Children(def)
	if len(kids) != 1 || m.AST.Kind(kids[0]) != ast.Number {
		t.Fatalf("define children = %v", kids)
	}
	ref, err := m.Symbols.ResolveLabel("x", m.Unit, symbols.BarrierGlobal)
	if err != nil || ref != n.Sym {
		t.Fatalf("resolve x = %v, %v; want %v", ref, err, n.Sym)
	}
	info, _ := m.Symbols.SymbolInfo(ref)
	if info.Value == nil || info.Value.Kind != symbols.ValUnsigned || info.Value.Uint != 10 {
		t.Fatalf("x value = %v", info.Value)
	}
	if info.Decl != uint32(def) {
		t.Fatalf("x decl = %d, want %d", info.Decl, def)
	}
	if d, ok := n.Payload.(ast.DefineData); !ok || d.Value != kids[0] {
		t.Fatalf("define payload = %#v", n.Payload)
	}
}

func TestParameterShadowsOuterName(t *testing.T) {
	m := lowerOK(t, "(define a 1) (fn [a] a)", lower.Options{})
	forms := top(m)
	outer := m.AST.Get(forms[0]).Sym

	lambda := m.AST.Get(forms[1])
	data, ok := lambda.Payload.(ast.LambdaData)
	if !ok || len(data.Params) != 1 || len(data.Body) != 1 {
		t.Fatalf("lambda payload = %#v", lambda.Payload)
	}
	param := m.AST.Get(data.Params[0])
	body := m.AST.Get(data.Body[0])
	if param.Kind != ast.AssignSymbol || body.Kind != ast.InternedSymbol {
		t.Fatalf("param %s, body %s", param.Kind, body.Kind)
	}
	if body.Sym != param.Sym || body.Sym == outer {
		t.Fatalf("body resolves to %v; param %v, outer %v", body.Sym, param.Sym, outer)
	}
	if data.Scope != m.ScopeOf[forms[1]] || m.Symbols.Parent(data.Scope) != m.Unit {
		t.Fatalf("lambda scope %d is not a child of the unit", data.Scope)
	}
}

func TestUndefinedSymbol(t *testing.T) {
	le, file := lowerErr(t, "(define a 1)\n(f a)")
	if le.Code != diag.SemaUndefinedSymbol {
		t.Fatalf("code = %s", le.Code.ID())
	}
	if got := string(file.Content[le.Span.Start:le.Span.End]); got != "f" {
		t.Fatalf("error span covers %q", got)
	}
}

func TestDuplicateDefine(t *testing.T) {
	le, _ := lowerErr(t, "(define x 1) (define x 2)")
	if le.Code != diag.SemaDuplicateSymbol || !errors.Is(le, symbols.ErrDuplicateSymbol) {
		t.Fatalf("got %v", le)
	}
}

func TestDuplicateParameter(t *testing.T) {
	le, _ := lowerErr(t, "(fn [a a] a)")
	if le.Code != diag.SemaDuplicateSymbol {
		t.Fatalf("got %v", le)
	}
}

func TestScopeIsolation(t *testing.T) {
	// b lives in the inner let scope only
	le, _ := lowerErr(t, "(let [a 1] (let [b a] b) b)")
	if le.Code != diag.SemaUndefinedSymbol {
		t.Fatalf("got %v", le)
	}
}

func TestQualifiedNameStopsAtLocalScopes(t *testing.T) {
	// scope_1 is the let's scope; its locals are not reachable by path
	for _, input := range []string{
		"(let [a 1] a) scope_1::a",
		"(define f (fn [x] x)) scope_1::x",
	} {
		le, file := lowerErr(t, input)
		if le.Code != diag.SemaUndefinedSymbol || !errors.Is(le, symbols.ErrNotFound) {
			t.Fatalf("%q: got %v", input, le)
		}
		if got := string(file.Content[le.Span.Start:le.Span.End]); !strings.Contains(got, "scope_1::") {
			t.Fatalf("%q: error span covers %q", input, got)
		}
	}
}

func TestQualifiedMacroName(t *testing.T) {
	le, file := lowerErr(t, "(macro a::b [x] x)")
	if le.Code != diag.SemaBadDefine {
		t.Fatalf("got %v", le)
	}
	if got := string(file.Content[le.Span.Start:le.Span.End]); got != "a::b" {
		t.Fatalf("error span covers %q", got)
	}
}

func TestLetPayload(t *testing.T) {
	m := lowerOK(t, "(let [a 1 b a] b)", lower.Options{})
	let := m.AST.Get(top(m)[0])
	d, ok := let.Payload.(ast.LetData)
	if !ok || len(d.Bindings) != 2 || len(d.Body) != 1 {
		t.Fatalf("let payload = %#v", let.Payload)
	}
	a := m.AST.Get(d.Bindings[0].Name)
	bValue := m.AST.Get(d.Bindings[1].Value)
	if bValue.Kind != ast.InternedSymbol || bValue.Sym != a.Sym {
		t.Fatalf("b's value resolves to %v, want %v", bValue.Sym, a.Sym)
	}
	if a.Sym.Scope != d.Scope {
		t.Fatalf("a declared in scope %d, let scope %d", a.Sym.Scope, d.Scope)
	}
}

func TestIfAndApplicationPayloads(t *testing.T) {
	m := lowerOK(t, "(define a true) (if a 1) (if a 1 2) (+ 1 a)", lower.Options{})
	forms := top(m)

	two := m.AST.Get(forms[1]).Payload.(ast.IfData)
	if two.IfFalse != ast.NoNodeID || m.AST.Kind(two.Predicate) != ast.InternedSymbol {
		t.Fatalf("if payload = %#v", two)
	}
	three := m.AST.Get(forms[2]).Payload.(ast.IfData)
	if three.IfFalse == ast.NoNodeID {
		t.Fatalf("else branch missing: %#v", three)
	}
	app := m.AST.Get(forms[3]).Payload.(ast.ApplicationData)
	if m.AST.Kind(app.Func) != ast.BuiltIn || len(app.Args) != 2 {
		t.Fatalf("application payload = %#v", app)
	}
}

func TestFormsAndCond(t *testing.T) {
	m := lowerOK(t, "(define x 1) (and x x) (do) (cond x 1 :else 2)", lower.Options{})
	forms := top(m)
	if d := m.AST.Get(forms[1]).Payload.(ast.FormsData); len(d.Forms) != 2 {
		t.Fatalf("and forms = %v", d.Forms)
	}
	if d := m.AST.Get(forms[2]).Payload.(ast.FormsData); len(d.Forms) != 0 {
		t.Fatalf("do forms = %v", d.Forms)
	}
	if d := m.AST.Get(forms[3]).Payload.(ast.CondData); len(d.Clauses) != 2 {
		t.Fatalf("cond clauses = %v", d.Clauses)
	}
}

func TestMacroBindsNameOutside(t *testing.T) {
	m := lowerOK(t, "(macro twice [e] (do e e)) (twice 1)", lower.Options{})
	forms := top(m)
	d := m.AST.Get(forms[0]).Payload.(ast.MacroData)
	if d.Name.Scope != m.Unit || len(d.Params) != 1 || len(d.Body) != 1 {
		t.Fatalf("macro payload = %#v", d)
	}
	call := m.AST.Get(forms[1]).Payload.(ast.ApplicationData)
	if m.AST.Get(call.Func).Sym != d.Name {
		t.Fatalf("call does not resolve to the macro")
	}
}

func TestQuotedDataIsNotResolved(t *testing.T) {
	m := lowerOK(t, "'(nope (fn [z] z)) 'missing", lower.Options{})
	for _, id := range m.AST.Preorder(m.AST.Root()) {
		if k := m.AST.Kind(id); k == ast.InternedSymbol || k == ast.AssignSymbol {
			t.Fatalf("quoted node %d was lowered to %s", id, k)
		}
	}
	if m.Symbols.NumScopes() != 1 {
		t.Fatalf("quoted fn opened a scope")
	}
}

func TestDefineValues(t *testing.T) {
	m := lowerOK(t, `(define s "a\n") (define c 'z') (define k :kw) (define n ()) (define h $f_f) (define b %101) (define f (fn [] 1))`, lower.Options{})
	want := map[string]symbols.Value{
		"s": symbols.Text("a\n"),
		"c": symbols.Char('z'),
		"k": symbols.Keyword(":kw"),
		"n": symbols.Null(),
		"h": symbols.Unsigned(255),
		"b": symbols.Unsigned(5),
	}
	for name, v := range want {
		info, err := m.Symbols.SymbolInfoByName(symbols.PathSep + name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if info.Value == nil || *info.Value != v {
			t.Fatalf("%s = %v, want %v", name, info.Value, v)
		}
	}
	info, _ := m.Symbols.SymbolInfoByName("::f")
	if info.Value == nil || info.Value.Kind != symbols.ValLambda || m.AST.Kind(ast.NodeID(info.Value.Node)) != ast.Lambda {
		t.Fatalf("f = %v", info.Value)
	}
}

func TestUnitScopeAndQualifiedNames(t *testing.T) {
	m := lowerOK(t, "(define x 1) (main::x)", lower.Options{Unit: "main"})
	if m.Symbols.FQN(m.Unit) != "::main" {
		t.Fatalf("unit fqn = %q", m.Symbols.FQN(m.Unit))
	}
	call := m.AST.Get(top(m)[1]).Payload.(ast.ApplicationData)
	if m.AST.Get(call.Func).Sym != m.AST.Get(top(m)[0]).Sym {
		t.Fatalf("main::x does not resolve to x")
	}
}

func TestScopeMarkers(t *testing.T) {
	m := lowerOK(t, "(define g (fn [x] x)) (fn [] g)", lower.Options{ScopeMarkers: true})
	root := m.AST.Children(m.AST.Root())
	kinds := make([]ast.Kind, len(root))
	for i, id := range root {
		kinds[i] = m.AST.Kind(id)
	}
	want := []ast.Kind{ast.AssignSymbol, ast.SetScope, ast.Lambda, ast.SetScope}
	if len(kinds) != len(want) {
		t.Fatalf("top-level = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("top-level = %v, want %v", kinds, want)
		}
	}
	enter := m.AST.Get(root[1]).Payload.(ast.ScopeMarker)
	leave := m.AST.Get(root[3]).Payload.(ast.ScopeMarker)
	if enter.Return || enter.Scope != m.ScopeOf[root[2]] {
		t.Fatalf("enter marker = %#v", enter)
	}
	if !leave.Return || leave.Scope != m.Unit {
		t.Fatalf("return marker = %#v", leave)
	}

	// the define keeps its value reachable through DefineData
	def := m.AST.Get(root[0])
	if m.AST.Kind(def.Payload.(ast.DefineData).Value) != ast.Lambda {
		t.Fatalf("define value lost among markers")
	}
}

func TestParseUnsigned(t *testing.T) {
	tests := map[string]uint64{"0": 0, "1_000": 1000, "0xff": 255, "$FF": 255, "0b101": 5, "%1_1": 3}
	for in, want := range tests {
		got, err := lower.ParseUnsigned(in)
		if err != nil || got != want {
			t.Errorf("ParseUnsigned(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	if _, err := lower.ParseUnsigned("18446744073709551616"); err == nil {
		t.Error("overflow not reported")
	}
}

func TestLetValueSeesOwnBinding(t *testing.T) {
	m := lowerOK(t, "(define a 1) (let [a a] a)", lower.Options{})
	forms := top(m)
	outer := m.AST.Get(forms[0]).Sym
	d := m.AST.Get(forms[1]).Payload.(ast.LetData)
	name := m.AST.Get(d.Bindings[0].Name)
	value := m.AST.Get(d.Bindings[0].Value)
	if value.Sym != name.Sym || value.Sym == outer {
		t.Fatalf("let value resolves to %v; binding %v, outer %v", value.Sym, name.Sym, outer)
	}
}

func TestForwardReferenceInSameScope(t *testing.T) {
	m := lowerOK(t, "(define main (fn [] (helper 1))) (define helper (fn [n] n))", lower.Options{})
	forms := top(m)
	helper := m.AST.Get(forms[1]).Sym
	var call ast.NodeID
	m.AST.Walk(forms[0], func(id ast.NodeID, _ int) bool {
		if m.AST.Get(id).Kind == ast.Application && !call.IsValid() {
			call = id
		}
		return true
	})
	app, ok := m.AST.Get(call).Payload.(ast.ApplicationData)
	if !ok {
		t.Fatalf("no application payload on %v", call)
	}
	if got := m.AST.Get(app.Func).Sym; got != helper {
		t.Fatalf("callee resolves to %v, want %v", got, helper)
	}
}
