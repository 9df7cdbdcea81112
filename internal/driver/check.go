package driver

import (
	"context"
	"fmt"
	"slices"
	"time"

	"ploy/internal/ast"
	"ploy/internal/diag"
	"ploy/internal/lexer"
	"ploy/internal/lower"
	"ploy/internal/observ"
	"ploy/internal/parser"
	"ploy/internal/project"
	"ploy/internal/source"
	"ploy/internal/token"
	"ploy/internal/trace"
)

// CheckResult is the outcome of the full front-end pipeline for one file.
type CheckResult struct {
	Path    string
	FileSet *source.FileSet
	File    *source.File // nil when the file could not be loaded
	Hash    project.Digest
	Bag     *diag.Bag

	Tokens []token.Token
	Tree   *ast.Tree     // parsed tree, lowered in place on success
	Module *lower.Module // nil on any failure or on a cache hit

	// Artifact summarises the result; always set for loaded files.
	Artifact *Artifact
	Cached   bool
	Timing   observ.Report
}

// Failed reports whether the file has errors.
func (r *CheckResult) Failed() bool {
	return r.Bag.HasErrors()
}

// Check runs lex → parse → lower on a single file.
func Check(ctx context.Context, path string, opts Options) (*CheckResult, error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "check")
	defer span.End("")

	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	return CheckFile(ctx, fs, fs.Get(fileID), opts), nil
}

// CheckFile runs the pipeline on a file already loaded into fs.
func CheckFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) *CheckResult {
	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, "file:"+file.Path)
	c := &checker{
		ctx:   ctx,
		opts:  opts,
		timer: observ.NewTimer(),
		res: &CheckResult{
			Path:    file.Path,
			FileSet: fs,
			File:    file,
			Hash:    project.Digest(file.Hash),
			Bag:     diag.NewBag(opts.MaxDiagnostics),
		},
	}
	c.rep = diag.NewDedupReporter(diag.BagReporter{Bag: c.res.Bag})
	c.run()

	res := c.res
	res.Timing = c.timer.Report()
	if opts.Timer != nil {
		opts.Timer.Merge(c.timer)
	}
	note := ""
	switch {
	case res.Cached:
		note = "cached"
	case res.Failed():
		note = "failed"
	}
	span.End(note)
	return res
}

type checker struct {
	ctx   context.Context
	opts  Options
	timer *observ.Timer
	res   *CheckResult
	rep   diag.Reporter
}

func (c *checker) reporter() diag.Reporter {
	return c.rep
}

func (c *checker) run() {
	res := c.res
	key := CacheKey(res.Hash, c.opts)
	if a, ok := c.opts.Cache.Get(res.Path, key); ok {
		res.Artifact = a
		res.Cached = true
		a.Replay(res.File.ID, c.reporter())
		return
	}
	defer func() {
		res.Artifact = NewArtifact(res)
		c.opts.Cache.Put(res.Path, key, res.Artifact)
	}()

	c.phase("lex", func(context.Context) (string, bool) {
		res.Tokens = lexer.All(res.File, lexer.Options{Reporter: c.reporter()})
		bad := slices.ContainsFunc(res.Tokens, func(t token.Token) bool { return t.Kind == token.Invalid })
		return fmt.Sprintf("%d tokens", len(res.Tokens)), !bad
	})
	if res.Failed() {
		return
	}

	ok := c.phase("parse", func(context.Context) (string, bool) {
		root, err := parser.Program(res.Tokens)
		if err != nil {
			parser.Diagnose(err, res.Tokens, c.reporter())
			return err.Kind.String(), false
		}
		tree, terr := parser.ToAST(root, res.Tokens, res.File)
		if terr != nil {
			diag.ReportError(c.reporter(), diag.IceInternal, source.Span{File: res.File.ID}, terr.Error()).Emit()
			return "", false
		}
		res.Tree = tree
		return fmt.Sprintf("%d nodes", tree.Len()), true
	})
	if !ok {
		return
	}

	c.phase("lower", func(ctx context.Context) (string, bool) {
		mod, err := lower.LowerContext(ctx, res.Tree, lower.Options{
			Unit:         c.opts.Unit,
			ScopeMarkers: c.opts.ScopeMarkers,
		})
		if err != nil {
			lower.Report(err, source.Span{File: res.File.ID}, c.reporter())
			return "", false
		}
		res.Module = mod
		return fmt.Sprintf("%d scopes, %d symbols", mod.Symbols.NumScopes(), mod.Symbols.NumSymbols()), true
	})
}

// phase times fn, wraps it in a trace span and notifies the observer.
func (c *checker) phase(name string, fn func(ctx context.Context) (note string, ok bool)) bool {
	ctx, span := trace.StartSpan(c.ctx, trace.ScopePass, name)
	idx := c.timer.Begin(name)
	c.opts.observe(PhaseEvent{Path: c.res.Path, Name: name, Status: PhaseStart})

	start := time.Now()
	note, ok := fn(ctx)
	c.timer.End(idx, note)
	if !ok {
		span.End("failed")
	} else {
		span.End(note)
	}
	c.opts.observe(PhaseEvent{
		Path:    c.res.Path,
		Name:    name,
		Status:  PhaseEnd,
		Elapsed: time.Since(start),
		Failed:  !ok,
	})
	return ok
}
