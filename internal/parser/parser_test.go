package parser_test

import (
	"testing"

	"ploy/internal/ast"
	"ploy/internal/combinator"
	"ploy/internal/diag"
	"ploy/internal/lexer"
	"ploy/internal/parser"
	"ploy/internal/source"
	"ploy/internal/testkit"
	"ploy/internal/token"
)

func tokens(t *testing.T, input string) ([]token.Token, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.ply", []byte(input)))
	bag := diag.NewBag(16)
	toks := lexer.All(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("lex %q: %v", input, bag.Items())
	}
	return toks, file
}

func parse(t *testing.T, input string) (parser.Node, []token.Token) {
	t.Helper()
	toks, _ := tokens(t, input)
	root, err := parser.Program(toks)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	if err := testkit.CheckParseTree(root, len(toks)-1); err != nil {
		t.Fatalf("parse %q: %v\n%s", input, err, root.Dump(toks))
	}
	return root, toks
}

func parseErr(t *testing.T, input string) *combinator.Error {
	t.Helper()
	toks, _ := tokens(t, input)
	root, err := parser.Program(toks)
	if err == nil {
		t.Fatalf("parse %q: expected failure, got\n%s", input, root.Dump(toks))
	}
	return err
}

func childKinds(n parser.Node) []ast.Kind {
	out := make([]ast.Kind, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c.Kind)
	}
	return out
}

func sameKinds(a, b []ast.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProgramPartition(t *testing.T) {
	root, toks := parse(t, `(define a 10) ; answer
(fn [x] (+ x 1)) '(if b) {:k 1 "v": 2}
[1 2] 'sym :kw`)
	if root.Kind != ast.Program {
		t.Fatalf("root kind = %s", root.Kind)
	}
	want := []ast.Kind{ast.Define, ast.Lambda, ast.List, ast.Map, ast.Array, ast.Quoted, ast.Keyword}
	if got := childKinds(root); !sameKinds(got, want) {
		t.Fatalf("top-level kinds = %v, want %v\n%s", got, want, root.Dump(toks))
	}
}

func TestEmptyProgram(t *testing.T) {
	root, _ := parse(t, "  ; nothing here\n")
	if len(root.Children) != 0 || !root.Range.Empty() {
		t.Fatalf("empty program = %+v", root)
	}
}

func TestShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ast.Kind
		kids  []ast.Kind
	}{
		{"def", "(def a b)", ast.Define, []ast.Kind{ast.Symbol, ast.Symbol}},
		{"define literal", "(define x 0xff)", ast.Define, []ast.Kind{ast.Symbol, ast.Number}},
		{"null", "()", ast.Null, []ast.Kind{}},
		{"if two", "(if a b)", ast.If, []ast.Kind{ast.Symbol, ast.Symbol}},
		{"if three", "(if true 1 \"no\")", ast.If, []ast.Kind{ast.Bool, ast.Number, ast.String}},
		{"let", "(let [a 1 b a] (+ a b) b)", ast.Let, []ast.Kind{ast.LetArgs, ast.Application, ast.Symbol}},
		{"fn", "(fn [x y] x)", ast.Lambda, []ast.Kind{ast.Args, ast.Symbol}},
		{"lambda empty body", "(lambda [])", ast.Lambda, []ast.Kind{ast.Args}},
		{"and", "(and a b c)", ast.And, []ast.Kind{ast.Symbol, ast.Symbol, ast.Symbol}},
		{"or empty", "(or)", ast.Or, []ast.Kind{}},
		{"do", "(do 1 'x)", ast.Do, []ast.Kind{ast.Number, ast.Quoted}},
		{"cond", "(cond a 1 :else 2)", ast.Cond, []ast.Kind{ast.Symbol, ast.Number, ast.Keyword, ast.Number}},
		{"macro", "(macro m [a] a)", ast.Macro, []ast.Kind{ast.Symbol, ast.Args, ast.Symbol}},
		{"application builtin", "(!= 1 -x)", ast.Application, []ast.Kind{ast.BuiltIn, ast.Number, ast.Symbol}},
		{"application fqn", "(std::io::print 'c')", ast.Application, []ast.Kind{ast.Symbol, ast.Char}},
		{"nested application", "((f) g)", ast.Application, []ast.Kind{ast.Application, ast.Symbol}},
		{"array", "[1 [2] ()]", ast.Array, []ast.Kind{ast.Number, ast.Array, ast.Null}},
		{"list keeps words", "'(if x)", ast.List, []ast.Kind{ast.Symbol, ast.Symbol}},
		{"quoted word", "'define", ast.Quoted, []ast.Kind{ast.Symbol}},
		{"map", "{:a 1 b: c}", ast.Map, []ast.Kind{ast.Pair, ast.Pair}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, toks := parse(t, tt.input)
			if len(root.Children) != 1 {
				t.Fatalf("want one form, got\n%s", root.Dump(toks))
			}
			n := root.Children[0]
			if n.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", n.Kind, tt.kind)
			}
			if got := childKinds(n); !sameKinds(got, tt.kids) {
				t.Fatalf("children = %v, want %v\n%s", got, tt.kids, root.Dump(toks))
			}
		})
	}
}

func TestLetBindingsAlternate(t *testing.T) {
	root, _ := parse(t, "(let [a 1 b (f a)] b)")
	args := root.Children[0].Children[0]
	want := []ast.Kind{ast.Arg, ast.Number, ast.Arg, ast.Application}
	if got := childKinds(args); !sameKinds(got, want) {
		t.Fatalf("let args = %v, want %v", got, want)
	}
}

func TestMetadata(t *testing.T) {
	root, _ := parse(t, `(define x ^{:private true :doc "x"} 1)`)
	def := root.Children[0]
	if def.Meta == nil || def.Meta.Kind != ast.MetaData {
		t.Fatalf("define meta = %+v", def.Meta)
	}
	if got := childKinds(*def.Meta); !sameKinds(got, []ast.Kind{ast.KeywordPair, ast.KeywordPair}) {
		t.Fatalf("meta children = %v", got)
	}
	if len(def.Children) != 2 {
		t.Fatalf("metadata must not be a child: %v", childKinds(def))
	}

	root, _ = parse(t, `(fn [^{:tag :int} a b] a)`)
	params := root.Children[0].Children[0]
	if params.Children[0].Meta == nil || params.Children[1].Meta != nil {
		t.Fatalf("param meta = %+v / %+v", params.Children[0].Meta, params.Children[1].Meta)
	}
	if r := params.Children[0].Range; r.End-r.Start != 1 {
		t.Fatalf("param range %v should cover only the name", r)
	}
}

func TestFailures(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     combinator.Kind
		code     diag.Code
		rng      combinator.Range
		expected string
	}{
		{"unclosed if", "(if a b", combinator.MissingCloser, 0, combinator.Range{Start: 4, End: 4}, "closing ')'"},
		{"unclosed bracket", "[1 2", combinator.MissingCloser, 0, combinator.Range{Start: 3, End: 3}, "closing ']'"},
		{"if too short", "(if a)", combinator.Syntax, diag.SynBadArity, combinator.Range{Start: 3, End: 4}, ""},
		{"if too long", "(if a b c d)", combinator.Syntax, diag.SynBadArity, combinator.Range{Start: 5, End: 6}, ""},
		{"stray closer", "a )", combinator.UnconsumedInput, 0, combinator.Range{Start: 1, End: 2}, ""},
		{"odd bindings", "(let [a 1 b] b)", combinator.Syntax, diag.SynUnbalancedBindings, combinator.Range{Start: 6, End: 7}, ""},
		{"let without vector", "(let a 1)", combinator.Syntax, diag.SynExpectBindings, combinator.Range{Start: 2, End: 3}, ""},
		{"define without name", "(define 1 2)", combinator.Syntax, diag.SynExpectSymbol, combinator.Range{Start: 2, End: 3}, ""},
		{"reserved word in call", "(foo if)", combinator.Syntax, diag.SynExpectForm, combinator.Range{Start: 2, End: 3}, ""},
		{"map without value", "{:a}", combinator.Syntax, diag.SynExpectForm, combinator.Range{Start: 2, End: 3}, ""},
		{"metadata needs keywords", "(def x ^{a 1} 2)", combinator.Syntax, diag.SynExpectKeyword, combinator.Range{Start: 5, End: 6}, ""},
		{"loose metadata", "^{:a 1}", combinator.UnconsumedInput, 0, combinator.Range{Start: 0, End: 1}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErr(t, tt.input)
			if !err.IsFatal() {
				t.Fatalf("%v should be fatal", err)
			}
			if err.Kind != tt.kind || err.Range != tt.rng {
				t.Fatalf("got %s at %v, want %s at %v", err.Kind, err.Range, tt.kind, tt.rng)
			}
			if tt.code != 0 && diag.Code(err.Code) != tt.code {
				t.Fatalf("code = %s, want %s", diag.Code(err.Code).ID(), tt.code.ID())
			}
			if tt.expected != "" && err.Expected != tt.expected {
				t.Fatalf("expected = %q, want %q", err.Expected, tt.expected)
			}
		})
	}
}

func TestMissingCloserPointsAtInnermostOpener(t *testing.T) {
	err := parseErr(t, "(do (a b) (c")
	if err.Kind != combinator.MissingCloser {
		t.Fatalf("kind = %s", err.Kind)
	}
	if want := (combinator.Range{Start: 6, End: 7}); err.Origin != want {
		t.Fatalf("origin = %v, want %v", err.Origin, want)
	}

	err = parseErr(t, "(do (a b)")
	if want := (combinator.Range{Start: 0, End: 1}); err.Origin != want {
		t.Fatalf("origin = %v, want %v", err.Origin, want)
	}
}

func TestAtomReportsConsumed(t *testing.T) {
	toks, _ := tokens(t, "(a b) c")
	n, used, err := parser.Atom(toks)
	if err != nil {
		t.Fatal(err)
	}
	if n.Kind != ast.Application || used != 4 {
		t.Fatalf("atom = %s, consumed %d", n.Kind, used)
	}
}

func TestDiagnoseContractErrors(t *testing.T) {
	toks, _ := tokens(t, "(a b")
	end := len(toks) - 1 // EOF
	for _, kind := range []combinator.Kind{combinator.TookTooMany, combinator.SkippedTooMany, combinator.IllegalSplitIndex} {
		t.Run(kind.String(), func(t *testing.T) {
			bag := diag.NewBag(4)
			// an empty range at EOF would otherwise read as unexpected end of file
			err := &combinator.Error{Kind: kind, Severity: combinator.Fatal, Range: combinator.Range{Start: end, End: end}}
			parser.Diagnose(err, toks, diag.BagReporter{Bag: bag})
			items := bag.Items()
			if len(items) != 1 {
				t.Fatalf("want one diagnostic, got %v", items)
			}
			d := items[0]
			if d.Code != diag.IceParserContract || d.Severity != diag.SevError {
				t.Fatalf("got %s (%s)", d.Code.ID(), d.Severity)
			}
			if d.Primary != toks[end].Span.AtStart() {
				t.Fatalf("primary span = %+v", d.Primary)
			}
		})
	}
}
