package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/phobologic/repodigest/internal/model"
)

// Local reads a directory on disk.
type Local struct {
	root string
	opts Options
	log  *slog.Logger
}

// NewLocal returns a source rooted at dir.
func NewLocal(dir string, opts Options) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	return &Local{
		root: abs,
		opts: opts,
		log:  slog.Default().With("component", "source", "kind", "local"),
	}, nil
}

// Name returns the directory's base name.
func (l *Local) Name() string {
	return filepath.Base(l.root)
}

// Root returns the absolute directory being read.
func (l *Local) Root() string {
	return l.root
}

// List walks the tree. .git, symlinks and paths matched by any .gitignore
// in the tree are left out.
func (l *Local) List(ctx context.Context) ([]model.FileRecord, error) {
	var ign ignoreSet
	var records []model.FileRecord

	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			l.log.Debug("walk error", "path", p, "err", err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." {
				if d.Name() == ".git" || ign.ignored(rel) || ign.ignored(rel+"/") {
					return filepath.SkipDir
				}
			}
			if data, err := os.ReadFile(filepath.Join(p, ".gitignore")); err == nil {
				base := ".gitignore"
				if rel != "." {
					base = rel + "/.gitignore"
				}
				ign.add(base, string(data))
			}
			return nil
		}

		if d.Type()&os.ModeSymlink != 0 || !d.Type().IsRegular() {
			return nil
		}
		if ign.ignored(rel) {
			return nil
		}

		rec := model.FileRecord{Path: rel, Kind: model.File, Origin: model.LocalFilesystem}
		if info, err := d.Info(); err == nil {
			rec.Size = info.Size()
			rec.SizeKnown = true
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", l.root, err)
	}
	l.log.Debug("listed", "root", l.root, "files", len(records))
	return records, nil
}

// Fetch reads the requested files concurrently.
func (l *Local) Fetch(ctx context.Context, files []model.FileRecord) ([]model.FileContent, error) {
	files = filesOnly(files)
	out := make([]model.FileContent, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.concurrency())
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(f.Path)))
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.Path, err)
			}
			out[i] = model.FileContent{Path: f.Path, Body: string(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
