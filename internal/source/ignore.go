package source

import (
	"path"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreSet holds the .gitignore files of a tree. Each file applies to the
// paths below its own directory.
type ignoreSet struct {
	rules []ignoreRule
}

type ignoreRule struct {
	dir string
	gi  *ignore.GitIgnore
}

// add compiles the content of the .gitignore found at gitignorePath.
func (s *ignoreSet) add(gitignorePath, content string) {
	dir := path.Dir(gitignorePath)
	if dir == "." {
		dir = ""
	}
	s.rules = append(s.rules, ignoreRule{
		dir: dir,
		gi:  ignore.CompileIgnoreLines(strings.Split(content, "\n")...),
	})
}

// ignored reports whether the slash-separated path is excluded. Anything
// inside a .git directory always is.
func (s *ignoreSet) ignored(p string) bool {
	if p == ".git" || strings.HasPrefix(p, ".git/") || strings.Contains(p, "/.git/") {
		return true
	}
	for _, r := range s.rules {
		rel := p
		if r.dir != "" {
			if !strings.HasPrefix(p, r.dir+"/") {
				continue
			}
			rel = strings.TrimPrefix(p, r.dir+"/")
		}
		if r.gi.MatchesPath(rel) {
			return true
		}
	}
	return false
}
