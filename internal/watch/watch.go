// Package watch re-runs a callback when ploy sources change on disk.
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the bursts of events editors produce on save.
const DefaultDebounce = 150 * time.Millisecond

// Options configures Run.
type Options struct {
	// Debounce is the quiet period before fn runs; 0 means DefaultDebounce.
	Debounce time.Duration
	// Match selects relevant paths; nil means Relevant.
	Match func(path string) bool
}

// Relevant accepts .ply sources and Ploy.toml.
func Relevant(path string) bool {
	return strings.HasSuffix(path, ".ply") || filepath.Base(path) == "Ploy.toml"
}

// Run watches root (a file or a directory tree) and calls fn with the sorted
// set of changed paths after every debounced burst. It returns when ctx is
// done (nil) or fn fails (fn's error).
func Run(ctx context.Context, root string, opts Options, fn func(changed []string) error) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Match == nil {
		opts.Match = Relevant
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if err := addTree(w, root); err != nil {
			return err
		}
	} else if err := w.Add(filepath.Dir(root)); err != nil {
		// файл целиком: редакторы часто пишут через rename, следим за каталогом
		return err
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 && info.IsDir() {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					_ = addTree(w, ev.Name)
					continue
				}
			}
			if ev.Op&fsnotify.Chmod == ev.Op || !opts.Match(ev.Name) {
				continue
			}
			if !info.IsDir() && filepath.Clean(ev.Name) != filepath.Clean(root) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(opts.Debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// события потеряны: считаем изменённым всё дерево
				pending[root] = struct{}{}
				timer.Reset(opts.Debounce)
				continue
			}
			return err
		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			if err := fn(changed); err != nil {
				return err
			}
		}
	}
}

// addTree adds dir and every non-hidden subdirectory; fsnotify is not
// recursive.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
