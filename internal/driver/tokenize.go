package driver

import (
	"context"
	"fmt"

	"ploy/internal/diag"
	"ploy/internal/lexer"
	"ploy/internal/source"
	"ploy/internal/token"
	"ploy/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path and lexes it to EOF. Lexical errors end up in Bag;
// the returned error is only for I/O.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(opts.MaxDiagnostics)
	toks := lexFile(ctx, file, bag)
	return &TokenizeResult{FileSet: fs, File: file, Tokens: toks, Bag: bag}, nil
}

func lexFile(ctx context.Context, file *source.File, bag *diag.Bag) []token.Token {
	_, span := trace.StartSpan(ctx, trace.ScopePass, "lex")
	toks := lexer.All(file, lexer.Options{Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag})})
	span.WithExtra("tokens", fmt.Sprint(len(toks))).End("")
	return toks
}
