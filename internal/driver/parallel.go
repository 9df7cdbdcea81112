package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"ploy/internal/diag"
	"ploy/internal/source"
	"ploy/internal/token"
	"ploy/internal/trace"
)

// TokenizeDirResult содержит результат токенизации одного файла.
type TokenizeDirResult struct {
	Path   string
	FileID source.FileID
	Tokens []token.Token
	Bag    *diag.Bag
}

// ListSourceFiles returns every *.ply file under dir, sorted. Hidden
// directories are skipped.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return files, nil
}

// loadedDir is a directory preloaded into one FileSet. Loading is serial;
// workers only read.
type loadedDir struct {
	fileSet *source.FileSet
	files   []string
	ids     map[string]source.FileID
	errs    map[string]error
}

func loadDir(dir string) (*loadedDir, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	ld := &loadedDir{
		fileSet: source.NewFileSetWithBase(dir),
		files:   files,
		ids:     make(map[string]source.FileID, len(files)),
		errs:    make(map[string]error),
	}
	for _, path := range files {
		id, err := ld.fileSet.Load(path)
		if err != nil {
			ld.errs[path] = err
			continue
		}
		ld.ids[path] = id
	}
	return ld, nil
}

func loadFailure(bag *diag.Bag, err error) {
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error()))
}

// forEach runs fn for every file with at most jobs in flight. Results are
// written by index, so fn needs no locking.
func (ld *loadedDir) forEach(ctx context.Context, jobs int, fn func(ctx context.Context, i int, path string) error) error {
	if len(ld.files) == 0 {
		return nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(ld.files)))
	for i, path := range ld.files {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i, path)
		})
	}
	return g.Wait()
}

// TokenizeDir лексирует все *.ply файлы в директории параллельно.
func TokenizeDir(ctx context.Context, dir string, opts Options, jobs int) (*source.FileSet, []TokenizeDirResult, error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "tokenize-dir")
	defer span.End("")

	ld, err := loadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("tokenize %s: %w", dir, err)
	}
	results := make([]TokenizeDirResult, len(ld.files))
	err = ld.forEach(ctx, jobs, func(ctx context.Context, i int, path string) error {
		bag := diag.NewBag(opts.MaxDiagnostics)
		results[i] = TokenizeDirResult{Path: path, Bag: bag}
		if loadErr, ok := ld.errs[path]; ok {
			loadFailure(bag, loadErr)
			return nil
		}
		file := ld.fileSet.Get(ld.ids[path])
		results[i].FileID = file.ID
		results[i].Tokens = lexFile(ctx, file, bag)
		return nil
	})
	return ld.fileSet, results, err
}

// CheckDir runs the full pipeline over every *.ply file under dir. Files
// are independent units: one file's errors never affect another. The
// returned error is for cancellation and directory I/O only.
func CheckDir(ctx context.Context, dir string, opts Options, jobs int) (*source.FileSet, []*CheckResult, error) {
	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "check-dir")
	ld, err := loadDir(dir)
	if err != nil {
		span.End("failed")
		return nil, nil, fmt.Errorf("check %s: %w", dir, err)
	}
	span.WithExtra("files", fmt.Sprint(len(ld.files)))

	var done atomic.Int64
	results := make([]*CheckResult, len(ld.files))
	err = ld.forEach(ctx, jobs, func(ctx context.Context, i int, path string) error {
		var res *CheckResult
		if loadErr, ok := ld.errs[path]; ok {
			res = &CheckResult{Path: path, FileSet: ld.fileSet, Bag: diag.NewBag(opts.MaxDiagnostics)}
			loadFailure(res.Bag, loadErr)
		} else {
			res = CheckFile(ctx, ld.fileSet, ld.fileSet.Get(ld.ids[path]), opts)
		}
		results[i] = res
		opts.observe(PhaseEvent{
			Path:   path,
			Status: FileDone,
			Failed: res.Failed(),
			Cached: res.Cached,
			Index:  int(done.Add(1)),
			Total:  len(ld.files),
		})
		return nil
	})
	span.End("")
	return ld.fileSet, results, err
}
