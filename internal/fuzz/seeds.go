package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxFuzzInput = 1 << 16 // 64 KiB
	maxSeedBytes = 64 << 10
)

// languageSeeds cover every special form and the usual failure shapes.
var languageSeeds = []string{
	"",
	"(define x 10)",
	"(define f (fn [a b] (+ a b))) (f 1 2)",
	"(let [a 1 b a] (if (== a b) :same :diff))",
	"(cond (> 1 2) \"no\" true \"yes\")",
	"(macro when [c body] '(if c body ()))",
	"(define k ^{:doc \"meta\" :pure true} 0xff)",
	"(fn [^{:type :u8} x] x)",
	"(and true (or false true) (do 1 2))",
	"{:a 1 :b [1 2 3]} '(quoted list) 'sym",
	"(define c 'x') (define s \"esc\\n\")",
	"(a::b::c 1)",
	"(define x",
	"(let [a] a)",
	"(if)",
	")",
	"[1 2",
	"(def ^{:a} x 1)",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по testdata, добавляем все *.ply файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".ply" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

func clamp(src []byte, limit int) []byte {
	if len(src) <= limit {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:limit]...)
}

// truncateForLog shortens input for failure messages.
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], "..."...)
}
