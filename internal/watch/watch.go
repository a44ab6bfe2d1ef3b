// Package watch regenerates output when files under a directory change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phobologic/repodigest/internal/match"
	"github.com/phobologic/repodigest/internal/rules"
)

// Watcher tracks every directory under a root. Changes are collected and
// reported once things have been quiet for the debounce delay.
type Watcher struct {
	root string
	fsw  *fsnotify.Watcher
	log  *slog.Logger

	mu   sync.Mutex
	skip map[string]struct{}
}

// New starts watching root and all of its non-excluded subdirectories.
func New(root string) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if fi, err := os.Stat(abs); err != nil {
		return nil, err
	} else if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		root: abs,
		fsw:  fsw,
		log:  slog.Default().With("component", "watch"),
		skip: make(map[string]struct{}),
	}
	if err := w.addTree(abs); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Skip drops events for the given files from now on. Relative paths are
// resolved against the working directory. Output written under the root
// must be skipped or each regeneration reports itself as a change.
func (w *Watcher) Skip(paths ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			w.skip[abs] = struct{}{}
		}
	}
}

func (w *Watcher) skipped(abs string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.skip[filepath.Clean(abs)]
	return ok
}

// Run blocks until ctx is done, calling onChange with the sorted relative
// paths touched during each burst. An onChange error is logged and watching
// continues.
func (w *Watcher) Run(ctx context.Context, debounce time.Duration, onChange func(paths []string) error) error {
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	pending := make(map[string]struct{})
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			rel, ok := w.relevant(ev.Name)
			if !ok {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.log.Warn("watching new directory", "path", rel, "err", err)
					}
				}
			}
			pending[rel] = struct{}{}
			timer.Reset(debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "err", err)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)

			w.log.Debug("change burst", "paths", len(paths))
			if err := onChange(paths); err != nil {
				w.log.Error("regenerating after change", "err", err)
			}
		}
	}
}

// Run watches root until ctx is done.
func Run(ctx context.Context, root string, debounce time.Duration, onChange func(paths []string) error) error {
	w, err := New(root)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	return w.Run(ctx, debounce, onChange)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != w.root {
			if _, ok := w.relevant(p); !ok {
				return filepath.SkipDir
			}
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

// relevant maps an absolute event path to a root-relative one and reports
// whether it is outside the always-excluded locations and the skipped files.
func (w *Watcher) relevant(abs string) (string, bool) {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if ignored(rel) || w.skipped(abs) {
		return rel, false
	}
	return rel, true
}

// ignored applies the framework-independent exclusions, which cover .git
// and dependency or build output directories.
func ignored(rel string) bool {
	global := rules.GlobalExclusions()
	return match.Any(rel, global) || match.Any(rel+"/", global)
}
