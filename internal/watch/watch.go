// Package watch reruns a build when Go sources change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 200 * time.Millisecond

// Options of a watcher.
type Options struct {
	// Dirs are watched recursively.
	Dirs []string

	// Skip lists directories that are not watched. The cache directory belongs here.
	Skip []string

	Debounce time.Duration
	Logger   *slog.Logger
}

// Run calls build once and then after every debounced batch of .go file changes until the context is done.
// Build errors are logged and do not stop the watch.
func Run(ctx context.Context, opts Options, build func(ctx context.Context) error) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	wt := &watcher{
		w:    w,
		opts: opts,
		skip: map[string]bool{},
	}
	for _, dir := range opts.Skip {
		if abs, err := filepath.Abs(dir); err == nil {
			wt.skip[abs] = true
		}
	}
	for _, dir := range opts.Dirs {
		if err := wt.addTree(dir); err != nil {
			return err
		}
	}

	wt.build(ctx, build)

	timer := time.NewTimer(opts.Debounce)
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
			if wt.event(ev) {
				timer.Reset(opts.Debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("watch error", slog.Any("err", err))

		case <-timer.C:
			wt.build(ctx, build)
		}
	}
}

type watcher struct {
	w    *fsnotify.Watcher
	opts Options
	skip map[string]bool
}

// addTree watches the directory and its subdirectories.
func (wt *watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && wt.skipped(path) {
			return filepath.SkipDir
		}

		if err := wt.w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// skipped tells if the directory is ignored by the go command or explicitly.
func (wt *watcher) skipped(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata" || name == "vendor" {
		return true
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return wt.skip[abs]
}

// event handles a notification and tells if it requires a rebuild.
func (wt *watcher) event(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !wt.skipped(ev.Name) {
			if err := wt.addTree(ev.Name); err != nil {
				wt.opts.Logger.Warn("cannot watch new directory", slog.String("dir", ev.Name), slog.Any("err", err))
			}
			return true
		}
	}

	return relevant(ev)
}

func relevant(ev fsnotify.Event) bool {
	if !strings.HasSuffix(ev.Name, ".go") {
		return false
	}

	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func (wt *watcher) build(ctx context.Context, build func(ctx context.Context) error) {
	start := time.Now()
	if err := build(ctx); err != nil {
		wt.opts.Logger.Error("build failed", slog.Any("err", err))
		return
	}

	wt.opts.Logger.Info("build done", slog.Duration("took", time.Since(start)))
}
