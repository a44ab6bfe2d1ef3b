// Package strip removes source comments using tree-sitter comment queries.
package strip

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/repodigest/internal/lang"
	"github.com/phobologic/repodigest/internal/model"
)

type span struct{ start, end uint32 }

type parserPair struct {
	lang   *lang.Language
	parser *sitter.Parser
	query  *sitter.Query
}

// Stripper caches one parser per language. It must not be shared between
// goroutines.
type Stripper struct {
	parsers map[string]*parserPair
}

// New returns an empty Stripper.
func New() *Stripper {
	return &Stripper{parsers: make(map[string]*parserPair)}
}

// Comments strips comments from body with a throwaway Stripper.
func Comments(path, body string) string {
	return New().Strip(path, body)
}

func (s *Stripper) pair(l *lang.Language) *parserPair {
	if pp, ok := s.parsers[l.Name]; ok {
		return pp
	}
	q, err := l.CommentQuery()
	if err != nil {
		slog.Default().Warn("comment query unavailable", "component", "strip", "lang", l.Name, "err", err)
		s.parsers[l.Name] = nil
		return nil
	}
	pp := &parserPair{lang: l, parser: l.NewParser(), query: q}
	s.parsers[l.Name] = pp
	return pp
}

// Strip returns body with every comment node removed. Lines left blank by a
// removal are dropped and trailing whitespace is trimmed from lines that
// lost a comment. Unsupported files and parse failures return body unchanged.
func (s *Stripper) Strip(path, body string) string {
	if body == "" {
		return body
	}
	l := lang.ForPath(path)
	if l == nil {
		return body
	}
	pp := s.pair(l)
	if pp == nil {
		return body
	}

	source := []byte(body)
	tree, err := pp.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		slog.Default().Debug("parse failed", "component", "strip", "path", path, "err", err)
		return body
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(pp.query, tree.RootNode())

	var spans []span
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			spans = append(spans, span{c.Node.StartByte(), c.Node.EndByte()})
		}
	}
	if len(spans) == 0 {
		return body
	}
	return cut(body, spans)
}

// cut removes the byte spans from src and tidies the affected lines.
func cut(src string, spans []span) string {
	slices.SortFunc(spans, func(a, b span) int { return int(a.start) - int(b.start) })

	var out, line strings.Builder
	touched := false
	flush := func(eol bool) {
		text := line.String()
		switch {
		case touched && strings.TrimSpace(text) == "":
			// whole line was comment
		case touched:
			out.WriteString(strings.TrimRight(text, " \t\r"))
			if eol {
				out.WriteByte('\n')
			}
		default:
			out.WriteString(text)
			if eol {
				out.WriteByte('\n')
			}
		}
		line.Reset()
		touched = false
	}

	next := 0
	for i := 0; i < len(src); i++ {
		for next < len(spans) && int(spans[next].end) <= i {
			next++
		}
		if next < len(spans) && int(spans[next].start) <= i {
			touched = true
			continue
		}
		if src[i] == '\n' {
			flush(true)
			continue
		}
		line.WriteByte(src[i])
	}
	if line.Len() > 0 || touched {
		flush(false)
	}
	return out.String()
}

// All strips every content concurrently and returns a new slice in the same
// order. workers <= 0 uses GOMAXPROCS.
func All(contents []model.FileContent, workers int) []model.FileContent {
	out := make([]model.FileContent, len(contents))
	if len(contents) == 0 {
		return out
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(contents))

	work := make(chan int, len(contents))
	for i := range contents {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := New()
			for idx := range work {
				c := contents[idx]
				out[idx] = model.FileContent{Path: c.Path, Body: s.Strip(c.Path, c.Body)}
			}
		}()
	}
	wg.Wait()
	return out
}
