package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"ploy/internal/diag"
	"ploy/internal/lower"
	"ploy/internal/parser"
	"ploy/internal/source"
)

func oneDiag(t *testing.T, content string, start, end uint32) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.ply", []byte(content))
	bag := diag.NewBag(10)
	d := diag.NewError(diag.SemaUndefinedSymbol, source.Span{File: id, Start: start, End: end}, "undefined symbol `y`").
		WithNote(source.Span{File: id, Start: 0, End: 1}, "in this form")
	bag.Add(d)
	return bag, fs
}

func TestPrettyCaret(t *testing.T) {
	tests := []struct {
		name    string
		content string
		start   uint32
		end     uint32
		want    string
	}{
		{"ascii", "(+ y 1)", 3, 4, "  |    ^\n"},
		{"wide runes", "(+ 日本 y)", 10, 11, "  |" + strings.Repeat(" ", 9) + "^\n"},
		{"wide span", "(+ 日本 y)", 3, 9, "  |    ^^^^\n"},
		{"second line", "(do\n\t(+ yy 1))", 8, 10, "  |" + strings.Repeat(" ", 8) + "^^\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag, fs := oneDiag(t, tt.content, tt.start, tt.end)
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{}); err != nil {
				t.Fatal(err)
			}
			out := buf.String()
			if !strings.HasPrefix(out, "error[SEM3001]: undefined symbol `y`\n") {
				t.Errorf("header:\n%s", out)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("caret line %q not in:\n%s", tt.want, out)
			}
			if strings.Contains(out, "note:") {
				t.Error("notes are off by default")
			}
		})
	}
}

func TestPrettyNotesAndContext(t *testing.T) {
	bag, fs := oneDiag(t, "(define a 1)\n(+ y a)", 16, 17)
	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, Context: 1}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"--> main.ply:2:4", "1 | (define a 1)", "2 | (+ y a)", "note: in this form"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestJSON(t *testing.T) {
	bag, fs := oneDiag(t, "(+ y 1)", 3, 4)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SEM3001" || d.Location.StartCol != 4 || d.Location.File != "main.ply" || len(d.Notes) != 1 {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestShort(t *testing.T) {
	bag, fs := oneDiag(t, "(+ y 1)", 3, 4)
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "main.ply:1:4") {
		t.Errorf("short = %q", buf.String())
	}
}

func TestASTAndSymbolDumps(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("m.ply", []byte("(define k ^{:doc \"x\"} 10) (let [a k] (+ a 1))")))
	res := parser.ParseFile(file, parser.Options{})
	if !res.OK() {
		t.Fatalf("parse failed: %v", res.Err)
	}
	mod, err := lower.Lower(res.Tree, lower.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, mod.AST, mod.Symbols); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"AssignSymbol \"k\"", "-> ::k", "Let ", "bind=[", "^#"} {
		if !strings.Contains(out, want) {
			t.Errorf("ast dump misses %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := FormatSymbols(&buf, mod.Symbols); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "= 10") {
		t.Errorf("symbols dump:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatScopes(&buf, mod.Symbols); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<root>") || !strings.Contains(buf.String(), "scope_1") {
		t.Errorf("scopes dump:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatASTJSON(&buf, mod.AST, mod.Symbols); err != nil {
		t.Fatal(err)
	}
	var root NodeJSON
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatal(err)
	}
	if root.Kind != "Program" || len(root.Children) != 2 || root.Children[0].Meta == nil {
		t.Errorf("json root = %+v", root)
	}
}
