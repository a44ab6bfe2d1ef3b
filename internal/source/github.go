package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/repodigest/internal/model"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

const defaultCacheSize = 512

var (
	ErrNotFound     = errors.New("repository, branch or path not found")
	ErrRateLimited  = errors.New("GitHub API rate limit exceeded")
	ErrUnauthorized = errors.New("access forbidden or invalid token")
	ErrInvalidURL   = errors.New("invalid GitHub repository URL")
)

// APIError is a non-2xx response from the GitHub API. It unwraps to one of
// the sentinel errors when the status maps to one.
type APIError struct {
	Status int
	Err    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: status %d: %v", e.Status, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// RepoInfo identifies a repository and an optional ref and subdirectory.
type RepoInfo struct {
	Owner string
	Repo  string
	Ref   string
	Path  string
}

var repoURLRe = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:/tree/(.+))?$`)

// ParseRepoURL accepts https://github.com/owner/repo and
// https://github.com/owner/repo/tree/<ref>/<path>. The first segment after
// tree is the ref. A trailing slash is ignored.
func ParseRepoURL(raw string) (RepoInfo, error) {
	m := repoURLRe.FindStringSubmatch(strings.TrimSuffix(strings.TrimSpace(raw), "/"))
	if m == nil {
		return RepoInfo{}, fmt.Errorf("%w: %q (want https://github.com/owner/repo or https://github.com/owner/repo/tree/ref/path)", ErrInvalidURL, raw)
	}
	info := RepoInfo{Owner: m[1], Repo: m[2]}
	if m[3] != "" {
		ref, p, _ := strings.Cut(m[3], "/")
		info.Ref = ref
		info.Path = p
	}
	return info, nil
}

// GitHub lists a repository through the git trees API and fetches blobs.
type GitHub struct {
	info   RepoInfo
	token  string
	apiURL string
	client *http.Client
	conc   int
	cache  *lru.Cache[string, string]
	log    *slog.Logger

	mu   sync.Mutex
	shas map[string]string
}

// NewGitHub parses rawURL and prepares a client. opts.Ref overrides a ref
// taken from the URL.
func NewGitHub(rawURL string, opts Options) (*GitHub, error) {
	info, err := ParseRepoURL(rawURL)
	if err != nil {
		return nil, err
	}
	if opts.Ref != "" {
		info.Ref = opts.Ref
	}
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating blob cache: %w", err)
	}
	apiURL := strings.TrimSuffix(opts.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &GitHub{
		info:   info,
		token:  opts.Token,
		apiURL: apiURL,
		client: client,
		conc:   opts.concurrency(),
		cache:  cache,
		log:    slog.Default().With("component", "source", "kind", "github", "repo", info.Owner+"/"+info.Repo),
		shas:   make(map[string]string),
	}, nil
}

// Name returns owner/repo.
func (g *GitHub) Name() string {
	return g.info.Owner + "/" + g.info.Repo
}

// Info returns the parsed repository coordinates.
func (g *GitHub) Info() RepoInfo {
	return g.info
}

type treeResponse struct {
	Sha       string      `json:"sha"`
	Tree      []treeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Sha  string `json:"sha"`
	Size *int64 `json:"size"`
}

// List resolves the ref and path to a tree sha and lists it recursively.
// Paths are relative to the requested subdirectory.
func (g *GitHub) List(ctx context.Context) ([]model.FileRecord, error) {
	sha, err := g.resolveSha(ctx)
	if err != nil {
		return nil, err
	}

	var tree treeResponse
	endpoint := fmt.Sprintf("/repos/%s/%s/git/trees/%s?recursive=1", g.info.Owner, g.info.Repo, url.PathEscape(sha))
	if err := g.getJSON(ctx, endpoint, "application/vnd.github+json", &tree); err != nil {
		return nil, fmt.Errorf("listing tree: %w", err)
	}
	if tree.Truncated {
		g.log.Warn("tree listing truncated by the API", "entries", len(tree.Tree))
	}

	records := make([]model.FileRecord, 0, len(tree.Tree))
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, e := range tree.Tree {
		rec := model.FileRecord{Path: e.Path, Origin: model.RemoteAPI, Ref: g.info.Ref}
		switch e.Type {
		case "blob":
			rec.Kind = model.File
			if e.Size != nil {
				rec.Size = *e.Size
				rec.SizeKnown = true
			}
			g.shas[e.Path] = e.Sha
		case "tree":
			rec.Kind = model.Directory
		default:
			// submodule commits have no content to fetch
			continue
		}
		records = append(records, rec)
	}
	g.log.Debug("listed", "sha", sha, "entries", len(records))
	return records, nil
}

func (g *GitHub) resolveSha(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s", g.info.Owner, g.info.Repo, escapePath(g.info.Path))
	if g.info.Ref != "" {
		endpoint += "?" + url.Values{"ref": {g.info.Ref}}.Encode()
	}
	var obj struct {
		Sha string `json:"sha"`
	}
	if err := g.getJSON(ctx, endpoint, "application/vnd.github.object+json", &obj); err != nil {
		return "", fmt.Errorf("resolving %s: %w", g.describe(), err)
	}
	if obj.Sha == "" {
		return "", fmt.Errorf("resolving %s: empty sha in response", g.describe())
	}
	return obj.Sha, nil
}

func (g *GitHub) describe() string {
	s := g.Name()
	if g.info.Ref != "" {
		s += "@" + g.info.Ref
	}
	if g.info.Path != "" {
		s += ":" + g.info.Path
	}
	return s
}

// Fetch downloads raw blob bodies concurrently. Bodies already seen are
// served from the cache.
func (g *GitHub) Fetch(ctx context.Context, files []model.FileRecord) ([]model.FileContent, error) {
	files = filesOnly(files)
	out := make([]model.FileContent, len(files))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.conc)
	for i, f := range files {
		eg.Go(func() error {
			g.mu.Lock()
			sha, ok := g.shas[f.Path]
			g.mu.Unlock()
			if !ok {
				return fmt.Errorf("%s: not in listing: %w", f.Path, ErrNotFound)
			}
			body, err := g.blob(ctx, sha)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", f.Path, err)
			}
			out[i] = model.FileContent{Path: f.Path, Body: body}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GitHub) blob(ctx context.Context, sha string) (string, error) {
	if body, ok := g.cache.Get(sha); ok {
		return body, nil
	}
	endpoint := fmt.Sprintf("/repos/%s/%s/git/blobs/%s", g.info.Owner, g.info.Repo, url.PathEscape(sha))
	data, err := g.get(ctx, endpoint, "application/vnd.github.v3.raw")
	if err != nil {
		return "", err
	}
	body := string(data)
	g.cache.Add(sha, body)
	return body, nil
}

// ListRefs returns branch and tag names.
func (g *GitHub) ListRefs(ctx context.Context) (branches, tags []string, err error) {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		branches, err = g.matchingRefs(ctx, "heads")
		return err
	})
	eg.Go(func() error {
		var err error
		tags, err = g.matchingRefs(ctx, "tags")
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, fmt.Errorf("listing refs: %w", err)
	}
	return branches, tags, nil
}

func (g *GitHub) matchingRefs(ctx context.Context, kind string) ([]string, error) {
	var refs []struct {
		Ref string `json:"ref"`
	}
	endpoint := fmt.Sprintf("/repos/%s/%s/git/matching-refs/%s/", g.info.Owner, g.info.Repo, kind)
	if err := g.getJSON(ctx, endpoint, "application/vnd.github+json", &refs); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(refs))
	prefix := "refs/" + kind + "/"
	for _, r := range refs {
		names = append(names, strings.TrimPrefix(r.Ref, prefix))
	}
	return names, nil
}

func (g *GitHub) getJSON(ctx context.Context, endpoint, accept string, v any) error {
	data, err := g.get(ctx, endpoint, accept)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", endpoint, err)
	}
	return nil
}

func (g *GitHub) get(ctx context.Context, endpoint, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	if g.token != "" {
		req.Header.Set("Authorization", "token "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, statusError(resp)
	}
	return io.ReadAll(resp.Body)
}

// statusError maps a failed response to an *APIError.
func statusError(resp *http.Response) error {
	e := &APIError{Status: resp.StatusCode}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		e.Err = ErrNotFound
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		e.Err = ErrRateLimited
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusUnauthorized:
		e.Err = ErrUnauthorized
	default:
		e.Err = fmt.Errorf("unexpected response %s", resp.Status)
	}
	return e
}

func escapePath(p string) string {
	if p == "" {
		return ""
	}
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
