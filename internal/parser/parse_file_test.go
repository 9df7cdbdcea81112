package parser_test

import (
	"strings"
	"testing"

	"ploy/internal/ast"
	"ploy/internal/diag"
	"ploy/internal/parser"
	"ploy/internal/source"
	"ploy/internal/testkit"
)

func parseFile(input string) (parser.Result, *diag.Bag, *source.File) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.ply", []byte(input)))
	bag := diag.NewBag(16)
	res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return res, bag, file
}

func TestParseFileBuildsTree(t *testing.T) {
	res, bag, file := parseFile("(define x 10)\n  (f x)")
	if !res.OK() || bag.Len() != 0 {
		t.Fatalf("parse failed: %v %v", res.Err, bag.Items())
	}
	tree := res.Tree
	if err := testkit.CheckSpanInvariants(tree, file); err != nil {
		t.Fatal(err)
	}
	top := tree.Children(tree.Root())
	if len(top) != 2 {
		t.Fatalf("top-level = %d", len(top))
	}
	def := tree.Children(top[0])
	if tree.Kind(top[0]) != ast.Define || len(def) != 2 {
		t.Fatalf("define shape: %s with %d children", tree.Kind(top[0]), len(def))
	}
	if name := tree.Get(def[0]); name.Kind != ast.Symbol || name.Text != "x" {
		t.Fatalf("name = %s %q", name.Kind, name.Text)
	}
	if v := tree.Get(def[1]); v.Kind != ast.Number || v.Text != "10" || v.Pos != (source.LineCol{Line: 1, Col: 11}) {
		t.Fatalf("value = %s %q at %v", v.Kind, v.Text, v.Pos)
	}
	app := tree.Get(top[1])
	if app.Pos != (source.LineCol{Line: 2, Col: 3}) {
		t.Fatalf("application at %v", app.Pos)
	}
	if got := string(file.Content[app.Span.Start:app.Span.End]); got != "(f x)" {
		t.Fatalf("application span text %q", got)
	}
	if app.Tokens != (ast.TokenRange{Start: 5, End: 9}) {
		t.Fatalf("application tokens %v", app.Tokens)
	}
}

func TestParseFileKeepsMetadataOffTree(t *testing.T) {
	res, _, _ := parseFile(`(def f ^{:doc "d"} (fn [^{:t 1} a] a))`)
	if !res.OK() {
		t.Fatal(res.Err)
	}
	tree := res.Tree
	def := tree.Children(tree.Root())[0]
	meta, ok := tree.Meta(def)
	if !ok || tree.Kind(meta) != ast.MetaData {
		t.Fatalf("define meta missing")
	}
	for _, id := range tree.Preorder(tree.Root()) {
		if tree.Kind(id) == ast.MetaData || tree.Kind(id) == ast.KeywordPair {
			t.Fatalf("walk reached metadata node %d", id)
		}
	}
	if tree.Get(meta).Parent() != ast.NoNodeID {
		t.Fatalf("metadata must stay detached")
	}
}

func TestParseFileDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		notes int
		msg   string
	}{
		{"unclosed paren", "(if a b", diag.SynUnclosedParen, 1, "unclosed '('"},
		{"unclosed brace", "{:a 1", diag.SynUnclosedBrace, 1, "unclosed '{'"},
		{"unmatched closer", "(a))", diag.SynUnconsumedInput, 0, "unmatched ')'"},
		{"arity", "(if a)", diag.SynBadArity, 0, "expected then branch of 'if', found ')'"},
		{"bad binding", "(let [1 2] 3)", diag.SynUnbalancedBindings, 0, "found number `1`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, bag, _ := parseFile(tt.input)
			if res.OK() || res.Err == nil {
				t.Fatalf("expected failure")
			}
			items := bag.Items()
			if len(items) != 1 {
				t.Fatalf("want one diagnostic, got %v", items)
			}
			d := items[0]
			if d.Code != tt.code || len(d.Notes) != tt.notes {
				t.Fatalf("got %s with %d notes (%q)", d.Code.ID(), len(d.Notes), d.Message)
			}
			if !strings.Contains(d.Message, tt.msg) {
				t.Fatalf("message %q does not mention %q", d.Message, tt.msg)
			}
		})
	}
}

func TestParseFileStopsOnLexErrors(t *testing.T) {
	res, bag, _ := parseFile("(a \"open")
	if !res.LexFailed || res.Err != nil || res.Tree != nil {
		t.Fatalf("result = %+v", res)
	}
	for _, d := range bag.Items() {
		if d.Code.ID()[:3] != "LEX" {
			t.Fatalf("non-lexical diagnostic after lex failure: %s", d.Code.ID())
		}
	}
	if bag.Len() == 0 {
		t.Fatal("lexer error not reported")
	}
}
