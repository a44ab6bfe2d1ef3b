// Package filter selects the files of a listing that belong in the artifact.
package filter

import (
	"github.com/phobologic/repodigest/internal/match"
	"github.com/phobologic/repodigest/internal/model"
	"github.com/phobologic/repodigest/internal/rules"
)

// Included reports whether a single path survives the rules for id at
// precision p. Global exclusions win over everything, rule exclusions win
// over inclusions, and a path is only kept on an affirmative include match.
func Included(path string, id model.FrameworkID, p model.Precision) bool {
	return included(path, rules.GlobalExclusions(), rules.For(id, p))
}

func included(path string, global []string, rs rules.RuleSet) bool {
	if match.Any(path, global) {
		return false
	}
	if match.Any(path, rs.Exclude) {
		return false
	}
	return match.Any(path, rs.Include)
}

// Apply returns the paths of every file record selected for id at precision p.
// Directory records are never selected.
func Apply(files []model.FileRecord, id model.FrameworkID, p model.Precision) model.PathSet {
	global := rules.GlobalExclusions()
	rs := rules.For(id, p)

	selected := make(model.PathSet)
	for i := range files {
		f := &files[i]
		if !f.IsFile() {
			continue
		}
		if included(f.Path, global, rs) {
			selected.Add(f.Path)
		}
	}
	return selected
}
