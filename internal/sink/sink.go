// Package sink writes a rendered artifact to stdout, a file or an S3 bucket.
package sink

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/phobologic/repodigest/internal/config"
)

// Options configures Write.
type Options struct {
	Stdout io.Writer
	S3     config.S3Config
}

// Write sends text to dest and returns a description of where it went.
// dest is "" or "-" for stdout, s3://bucket/key for object storage, or a
// file path.
func Write(ctx context.Context, dest, text string, opts Options) (string, error) {
	switch {
	case dest == "" || dest == "-":
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		if _, err := io.WriteString(w, text); err != nil {
			return "", fmt.Errorf("writing output: %w", err)
		}
		return "stdout", nil
	case strings.HasPrefix(dest, "s3://"):
		bucket, key, err := ParseS3URL(dest)
		if err != nil {
			return "", err
		}
		cfg := opts.S3
		cfg.Bucket = bucket
		store, err := NewS3Store(cfg)
		if err != nil {
			return "", err
		}
		full, err := store.Put(ctx, key, []byte(text))
		if err != nil {
			return "", fmt.Errorf("uploading %s: %w", dest, err)
		}
		return "s3://" + bucket + "/" + full, nil
	default:
		if dir := filepath.Dir(dest); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("creating %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(dest, []byte(text), 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", dest, err)
		}
		return dest, nil
	}
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "s3" {
		return "", "", fmt.Errorf("invalid s3 url %q", raw)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 url %q (want s3://bucket/key)", raw)
	}
	return bucket, key, nil
}

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9]`)
	dashes     = regexp.MustCompile(`-+`)
	fallbackFN = "repo-context"
)

// SmartFilename names an output file after its source: owner-repo for a
// GitHub URL, otherwise the base name, sanitized and suffixed with the date.
func SmartFilename(source, ext string, now time.Time) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	name := source
	if strings.Contains(source, "github.com") {
		if u, err := url.Parse(source); err == nil {
			var parts []string
			for _, p := range strings.Split(u.Path, "/") {
				if p != "" {
					parts = append(parts, p)
				}
			}
			switch {
			case len(parts) >= 2:
				name = parts[0] + "-" + parts[1]
			case len(parts) == 1:
				name = parts[0]
			}
		}
	} else if source != "" {
		name = filepath.Base(filepath.Clean(source))
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	s := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(dashes.ReplaceAllString(s, "-"), "-")
	if s == "" {
		s = fallbackFN
	}
	return s + "-" + now.Format(time.DateOnly) + ext
}
