package parser

import (
	"slices"

	"ploy/internal/ast"
	"ploy/internal/combinator"
	"ploy/internal/diag"
	"ploy/internal/lexer"
	"ploy/internal/source"
	"ploy/internal/token"
)

// Options configures ParseFile.
type Options struct {
	Reporter diag.Reporter
}

// Result: всё, что получилось разобрать из одного файла.
type Result struct {
	Tokens []token.Token // full stream, ends with EOF
	Root   Node
	Tree   *ast.Tree
	// Err is the parse failure, nil on success or when lexing already failed.
	Err       *combinator.Error
	LexFailed bool
}

// OK reports whether the file produced a tree.
func (r Result) OK() bool { return r.Tree != nil }

// Program parses a token stream into a Program node. A trailing EOF token is
// ignored, so ranges never include it.
func Program(toks []token.Token) (Node, *combinator.Error) {
	if n := len(toks); n > 0 && toks[n-1].Kind == token.EOF {
		toks = toks[:n-1]
	}
	_, root, err := productions().program(combinator.NewSpan[token.Token, token.Kind](toks))
	if err != nil {
		return Node{}, err
	}
	return root, nil
}

// Atom parses a single form at the start of toks and returns it with the
// number of tokens consumed.
func Atom(toks []token.Token) (Node, int, *combinator.Error) {
	if n := len(toks); n > 0 && toks[n-1].Kind == token.EOF {
		toks = toks[:n-1]
	}
	rest, n, err := productions().atom(combinator.NewSpan[token.Token, token.Kind](toks))
	if err != nil {
		return Node{}, 0, err
	}
	return n, rest.Pos(), nil
}

// ParseFile lexes and parses one file. Lexical errors stop the pipeline
// before parsing; a parse failure is reported once through opts.Reporter.
func ParseFile(file *source.File, opts Options) Result {
	r := opts.Reporter
	if r == nil {
		r = diag.NopReporter{}
	}
	toks := lexer.All(file, lexer.Options{Reporter: r})
	res := Result{Tokens: toks}
	if slices.ContainsFunc(toks, func(t token.Token) bool { return t.Kind == token.Invalid }) {
		res.LexFailed = true
		return res
	}

	root, err := Program(toks)
	if err != nil {
		res.Err = err
		Diagnose(err, toks, r)
		return res
	}
	res.Root = root

	tree, terr := ToAST(root, toks, file)
	if terr != nil {
		diag.ReportError(r, diag.IceInternal, source.Span{File: file.ID}, terr.Error()).Emit()
		return res
	}
	res.Tree = tree
	return res
}
