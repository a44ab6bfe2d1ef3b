package source

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/phobologic/repodigest/internal/model"
)

// Archive reads a zip file. Paths are kept exactly as stored, including any
// common top-level directory.
type Archive struct {
	path    string
	opts    Options
	r       *zip.ReadCloser
	entries map[string]*zip.File
	log     *slog.Logger
}

// OpenArchive indexes the zip at path. The file stays open until Close.
func OpenArchive(path string, opts Options) (*Archive, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}

	entries := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries[strings.TrimPrefix(f.Name, "/")] = f
	}
	return &Archive{
		path:    path,
		opts:    opts,
		r:       r,
		entries: entries,
		log:     slog.Default().With("component", "source", "kind", "archive"),
	}, nil
}

// Name returns the archive's base name without extension.
func (a *Archive) Name() string {
	base := filepath.Base(a.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// List returns the file entries in archive order, minus .git content and
// paths matched by .gitignore files stored in the archive.
func (a *Archive) List(ctx context.Context) ([]model.FileRecord, error) {
	var ign ignoreSet
	for _, f := range a.r.File {
		name := strings.TrimPrefix(f.Name, "/")
		if f.FileInfo().IsDir() || (name != ".gitignore" && !strings.HasSuffix(name, "/.gitignore")) {
			continue
		}
		body, err := readZipFile(f)
		if err != nil {
			a.log.Warn("unreadable .gitignore", "path", name, "err", err)
			continue
		}
		ign.add(name, body)
	}

	var records []model.FileRecord
	for _, f := range a.r.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() {
			continue
		}
		name := strings.TrimPrefix(f.Name, "/")
		if ign.ignored(name) {
			continue
		}
		records = append(records, model.FileRecord{
			Path:      name,
			Kind:      model.File,
			Size:      int64(f.UncompressedSize64),
			SizeKnown: true,
			Origin:    model.ArchiveEntry,
		})
	}
	return records, nil
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	return a.r.Close()
}

// Fetch decompresses the requested entries concurrently.
func (a *Archive) Fetch(ctx context.Context, files []model.FileRecord) ([]model.FileContent, error) {
	files = filesOnly(files)
	out := make([]model.FileContent, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.concurrency())
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			zf, ok := a.entries[f.Path]
			if !ok {
				return fmt.Errorf("%s: %w", f.Path, ErrNotFound)
			}
			body, err := readZipFile(zf)
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.Path, err)
			}
			out[i] = model.FileContent{Path: f.Path, Body: body}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func readZipFile(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
