// Package render turns fetched file contents into the final text artifact:
// a directory diagram followed by every file body, with a token count.
package render

import (
	"strings"

	"github.com/phobologic/repodigest/internal/model"
)

const header = "Directory Structure:\n\n"

// Renderer produces artifacts. The zero value renders without a token count.
type Renderer struct {
	Counter Counter

	// Transform, if set, rewrites each body before it is written.
	Transform func(path, body string) string
}

// Render renders contents with the default tokenizer and no transform.
func Render(contents []model.FileContent) model.Artifact {
	return Renderer{Counter: DefaultCounter}.Render(contents)
}

// Render sorts contents, draws the tree and concatenates the bodies.
// The caller's slice is not modified.
func (r Renderer) Render(contents []model.FileContent) model.Artifact {
	sorted := append([]model.FileContent(nil), contents...)
	Sort(sorted)

	paths := make([]string, len(sorted))
	for i, c := range sorted {
		paths[i] = c.Path
	}
	tree := diagram(buildTree(paths))

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(tree)
	b.WriteString("\n")
	for _, c := range sorted {
		body := c.Body
		if r.Transform != nil {
			body = r.Transform(c.Path, body)
		}
		writeFile(&b, c.Path, body)
	}

	text := b.String()
	return model.Artifact{
		Text:    text,
		Diagram: tree,
		Files:   paths,
		Tokens:  countTokens(r.Counter, text),
	}
}

func writeFile(b *strings.Builder, path, body string) {
	b.WriteString("\n\n---\nFile: ")
	b.WriteString(path)
	b.WriteString("\n---\n\n")
	b.WriteString(body)
	b.WriteString("\n")
}
