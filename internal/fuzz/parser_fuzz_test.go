package fuzztests

import (
	"context"
	"testing"
	"time"

	"ploy/internal/diag"
	"ploy/internal/parser"
	"ploy/internal/source"
	"ploy/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.ply", input))
		bag := diag.NewBag(16)
		res := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})

		switch {
		case res.LexFailed:
			if !bag.HasErrors() {
				t.Fatal("lex failure without diagnostics")
			}
		case res.Err != nil:
			if bag.Len() != 1 {
				t.Fatalf("parse failure must report exactly once, got %d", bag.Len())
			}
			if res.Err.Range.Start > len(res.Tokens) {
				t.Fatalf("error range %v past the stream", res.Err.Range)
			}
		default:
			if err := testkit.CheckParseTree(res.Root, len(res.Tokens)-1); err != nil {
				t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
			}
			if err := testkit.CheckSpanInvariants(res.Tree, file); err != nil {
				t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
			}
		}
	})
}

// FuzzParserNoHang checks that parsing terminates; ordered choice over a
// left-factored grammar must never loop.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("((((((((((((((((((((((((((((((((((((((((("))
	f.Add([]byte("[[[[[[[[[[[[[[[[[[[[{{{{{{{{{{{{{{{{{{{{"))
	f.Add([]byte("'''''''''''''''''''''''''''''''''''''x"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input, maxFuzzInput)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.ply", input))
			_ = parser.ParseFile(file, parser.Options{})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
