// Package lang maps file extensions to tree-sitter grammars and the
// embedded queries that capture their comments.
package lang

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

//go:embed queries/*.scm
var queryFS embed.FS

// Language is a registered grammar and its comment query.
type Language struct {
	Name       string
	Extensions []string

	grammar *sitter.Language
	query   func() (*sitter.Query, error)
}

// Grammar returns the tree-sitter grammar.
func (l *Language) Grammar() *sitter.Language {
	return l.grammar
}

// NewParser returns a parser for l. Parsers are not safe for concurrent use.
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.grammar)
	return p
}

// CommentQuery returns the compiled comment query. It is compiled on first
// use and may be shared between goroutines.
func (l *Language) CommentQuery() (*sitter.Query, error) {
	return l.query()
}

// Languages maps language names to their configuration. Per-language files
// fill it from init.
var Languages = map[string]*Language{}

func register(name string, grammar *sitter.Language, exts ...string) {
	l := &Language{Name: name, Extensions: exts, grammar: grammar}
	l.query = sync.OnceValues(func() (*sitter.Query, error) {
		src, err := queryFS.ReadFile("queries/" + name + ".scm")
		if err != nil {
			return nil, fmt.Errorf("reading %s comment query: %w", name, err)
		}
		q, err := sitter.NewQuery(src, grammar)
		if err != nil {
			return nil, fmt.Errorf("compiling %s comment query: %w", name, err)
		}
		return q, nil
	})
	Languages[name] = l
}

// byExtension is built after every init has registered its language.
var byExtension = sync.OnceValue(func() map[string]*Language {
	m := make(map[string]*Language)
	for _, l := range Languages {
		for _, ext := range l.Extensions {
			m[ext] = l
		}
	}
	return m
})

// ForExtension returns the language name for ext (with its dot), or "".
func ForExtension(ext string) string {
	if l := byExtension()[strings.ToLower(ext)]; l != nil {
		return l.Name
	}
	return ""
}

// ForPath returns the language for a slash-separated path, or nil.
func ForPath(p string) *Language {
	return byExtension()[strings.ToLower(path.Ext(p))]
}
