package driver

import (
	"context"
	"fmt"

	"ploy/internal/diag"
	"ploy/internal/parser"
	"ploy/internal/source"
	"ploy/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Parse   parser.Result
	Bag     *diag.Bag
}

// Parse loads path, lexes and parses it. The tree is nil when either phase
// failed; the reason is in Bag.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(opts.MaxDiagnostics)

	_, span := trace.StartSpan(ctx, trace.ScopePass, "parse")
	res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	span.WithExtra("tokens", fmt.Sprint(len(res.Tokens))).End(okNote(res.OK()))

	return &ParseResult{FileSet: fs, File: file, Parse: res, Bag: bag}, nil
}

func okNote(ok bool) string {
	if ok {
		return ""
	}
	return "failed"
}
