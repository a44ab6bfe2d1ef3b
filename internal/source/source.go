// Package source lists and fetches repository files from a local directory,
// a zip archive or the GitHub REST API.
package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/phobologic/repodigest/internal/model"
)

// Source is a listing provider and content fetcher.
type Source interface {
	// Name identifies the source for logs and smart filenames.
	Name() string
	List(ctx context.Context) ([]model.FileRecord, error)
	// Fetch returns the bodies of files in request order. Directory records
	// are skipped. Any failure fails the whole batch.
	Fetch(ctx context.Context, files []model.FileRecord) ([]model.FileContent, error)
}

// Options configures Open.
type Options struct {
	Ref         string
	Token       string
	APIURL      string
	CacheSize   int
	Concurrency int
	HTTPClient  *http.Client
}

const defaultConcurrency = 8

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return defaultConcurrency
}

// ErrUnsupported is returned by Open for specs that name neither a GitHub
// URL, a zip archive nor a directory.
var ErrUnsupported = errors.New("unsupported source")

// IsGitHubURL reports whether target should be opened through the GitHub API.
func IsGitHubURL(target string) bool {
	return strings.HasPrefix(target, "https://github.com/") || strings.HasPrefix(target, "http://github.com/")
}

// Open picks a source implementation for target.
func Open(target string, opts Options) (Source, error) {
	if IsGitHubURL(target) {
		return NewGitHub(target, opts)
	}
	fi, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", target, err)
	}
	switch {
	case fi.IsDir():
		return NewLocal(target, opts)
	case strings.EqualFold(filepath.Ext(target), ".zip"):
		return OpenArchive(target, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, target)
	}
}

// filesOnly drops directory records, keeping order.
func filesOnly(files []model.FileRecord) []model.FileRecord {
	out := make([]model.FileRecord, 0, len(files))
	for _, f := range files {
		if f.IsFile() {
			out = append(out, f)
		}
	}
	return out
}
