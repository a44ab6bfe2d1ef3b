// Package framework detects a repository's ecosystem from its root entries.
package framework

import (
	"strings"

	"github.com/phobologic/repodigest/internal/model"
)

// Signature is a root-level file or directory marker that hints at a framework.
// Directory markers end in "/". When Requires is set the weight only counts if
// every listed co-signature is also present.
type Signature struct {
	Filename string
	Weight   int
	Requires []string
}

// Def describes one detectable framework.
type Def struct {
	ID         model.FrameworkID
	Name       string
	Signatures []Signature
}

// Table is evaluated in declaration order; ties go to the earlier entry.
var Table = []Def{
	{
		ID:   model.NodeJS,
		Name: "Node.js / TypeScript",
		Signatures: []Signature{
			{Filename: "package.json", Weight: 10},
			{Filename: "tsconfig.json", Weight: 10},
			{Filename: "yarn.lock", Weight: 5},
			{Filename: "package-lock.json", Weight: 5},
			{Filename: "node_modules/", Weight: 5},
			{Filename: "next.config.js", Weight: 5},
			{Filename: "vite.config.js", Weight: 5},
		},
	},
	{
		ID:   model.Flutter,
		Name: "Flutter / Dart",
		Signatures: []Signature{
			{Filename: "pubspec.yaml", Weight: 10},
			{Filename: "pubspec.lock", Weight: 5},
			{Filename: "lib/main.dart", Weight: 5},
			{Filename: "android/", Weight: 2, Requires: []string{"pubspec.yaml"}},
			{Filename: "ios/", Weight: 2, Requires: []string{"pubspec.yaml"}},
		},
	},
	{
		ID:   model.Python,
		Name: "Python",
		Signatures: []Signature{
			{Filename: "requirements.txt", Weight: 10},
			{Filename: "setup.py", Weight: 10},
			{Filename: "Pipfile", Weight: 10},
			{Filename: "pyproject.toml", Weight: 10},
			{Filename: "venv/", Weight: 5},
			{Filename: "manage.py", Weight: 5},
		},
	},
	{
		ID:   model.Java,
		Name: "Java / Kotlin",
		Signatures: []Signature{
			{Filename: "pom.xml", Weight: 10},
			{Filename: "build.gradle", Weight: 10},
			{Filename: "gradlew", Weight: 5},
		},
	},
	{
		ID:   model.Go,
		Name: "Go",
		Signatures: []Signature{
			{Filename: "go.mod", Weight: 10},
			{Filename: "go.sum", Weight: 5},
			{Filename: "main.go", Weight: 5},
		},
	},
	{
		ID:   model.Rust,
		Name: "Rust",
		Signatures: []Signature{
			{Filename: "Cargo.toml", Weight: 10},
			{Filename: "Cargo.lock", Weight: 5},
		},
	},
}

// Name returns the display name for id.
func Name(id model.FrameworkID) string {
	for i := range Table {
		if Table[i].ID == id {
			return Table[i].Name
		}
	}
	return "Standard Repo"
}

// Score is the summed signature weight for one framework.
type Score struct {
	ID    model.FrameworkID
	Score int
}

// Scores returns the score of every framework in table order.
func Scores(rootEntries []string) []Score {
	present := make(map[string]struct{}, len(rootEntries))
	for _, e := range rootEntries {
		present[e] = struct{}{}
	}

	scores := make([]Score, 0, len(Table))
	for i := range Table {
		def := &Table[i]
		total := 0
		for _, sig := range def.Signatures {
			if !has(present, rootEntries, sig.Filename) {
				continue
			}
			if allPresent(present, rootEntries, sig.Requires) {
				total += sig.Weight
			}
		}
		scores = append(scores, Score{ID: def.ID, Score: total})
	}
	return scores
}

// Detect returns the best-scoring framework, or model.Unknown if nothing scored.
func Detect(rootEntries []string) model.FrameworkID {
	best := model.Unknown
	top := 0
	for _, s := range Scores(rootEntries) {
		if s.Score > top {
			top = s.Score
			best = s.ID
		}
	}
	return best
}

func has(present map[string]struct{}, entries []string, name string) bool {
	if _, ok := present[name]; ok {
		return true
	}
	if !strings.HasSuffix(name, "/") {
		return false
	}
	bare := strings.TrimSuffix(name, "/")
	for _, e := range entries {
		if e == bare || strings.HasPrefix(e, name) {
			return true
		}
	}
	return false
}

func allPresent(present map[string]struct{}, entries, names []string) bool {
	for _, n := range names {
		if !has(present, entries, n) {
			return false
		}
	}
	return true
}

// RootEntries derives the depth-0 names of a listing: top-level records by
// name (directories with a trailing "/"), then first-level directories implied
// by deeper paths, in first-seen order.
func RootEntries(files []model.FileRecord) []string {
	seen := make(map[string]struct{})
	var entries []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		entries = append(entries, name)
	}

	var dirs []string
	for _, f := range files {
		first, rest, nested := strings.Cut(f.Path, "/")
		switch {
		case !nested && f.Kind == model.Directory:
			dirs = append(dirs, first+"/")
		case !nested:
			add(first)
		case first != "" && rest != "":
			dirs = append(dirs, first+"/")
		}
	}
	for _, d := range dirs {
		add(d)
	}
	return entries
}
