package render

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/phobologic/repodigest/internal/model"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"alphabetical", []string{"b.js", "a.js"}, []string{"a.js", "b.js"}},
		{"directories before root files", []string{"README.md", "src/index.js"}, []string{"src/index.js", "README.md"}},
		{"leaf after deeper at same level", []string{"a.txt", "b/c.txt"}, []string{"b/c.txt", "a.txt"}},
		{"nested grouping", []string{"src/z.go", "src/a/b.go", "go.mod", "src/a.go"}, []string{"src/a/b.go", "src/a.go", "src/z.go", "go.mod"}},
		{"prefix shorter first", []string{"a/b", "a"}, []string{"a", "a/b"}},
		{"case insensitive collation", []string{"b.md", "README.md", "a.md"}, []string{"a.md", "b.md", "README.md"}},
		{"punctuation before letters", []string{"README.md", "b.md", "a.md", "_config.yml", "Zeta.go"}, []string{"_config.yml", "a.md", "b.md", "README.md", "Zeta.go"}},
		{"lower case before upper case", []string{"README", "readme"}, []string{"readme", "README"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := append([]string(nil), tt.in...)
			SortPaths(got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SortPaths(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompareAntisymmetric(t *testing.T) {
	t.Parallel()

	paths := []string{"a", "a/b", "a/b/c", "a.txt", "b/c.txt", "README.md", "readme.md", "_x", "src/x.go", "src/y/z.go"}
	for _, a := range paths {
		for _, b := range paths {
			x, y := Compare(a, b), Compare(b, a)
			if (x < 0) != (y > 0) || (x == 0) != (y == 0) {
				t.Errorf("Compare(%q,%q)=%d but Compare(%q,%q)=%d", a, b, x, b, a, y)
			}
		}
	}
}

func fixedCounter(n int) Counter {
	return CounterFunc(func(string) (int, error) { return n, nil })
}

func TestRenderTwoFiles(t *testing.T) {
	t.Parallel()

	art := Renderer{Counter: fixedCounter(7)}.Render([]model.FileContent{
		{Path: "a.txt", Body: "hello"},
		{Path: "b/c.txt", Body: "world"},
	})

	wantTree := "├── b\n" +
		"│   └── c.txt\n" +
		"└── a.txt\n"
	if art.Diagram != wantTree {
		t.Errorf("diagram:\n%s\nwant:\n%s", art.Diagram, wantTree)
	}

	want := "Directory Structure:\n\n" + wantTree + "\n" +
		"\n\n---\nFile: b/c.txt\n---\n\nworld\n" +
		"\n\n---\nFile: a.txt\n---\n\nhello\n"
	if art.Text != want {
		t.Errorf("text:\n%q\nwant:\n%q", art.Text, want)
	}
	if !reflect.DeepEqual(art.Files, []string{"b/c.txt", "a.txt"}) {
		t.Errorf("files = %v", art.Files)
	}
	if art.Tokens != (model.TokenCount{N: 7, OK: true}) {
		t.Errorf("tokens = %+v", art.Tokens)
	}
}

func TestRenderDiagramNesting(t *testing.T) {
	t.Parallel()

	art := Renderer{}.Render([]model.FileContent{
		{Path: "go.mod"},
		{Path: "internal/render/render.go"},
		{Path: "internal/model/model.go"},
		{Path: "main.go"},
	})

	want := strings.Join([]string{
		"├── internal",
		"│   ├── model",
		"│   │   └── model.go",
		"│   └── render",
		"│       └── render.go",
		"├── go.mod",
		"└── main.go",
		"",
	}, "\n")
	if art.Diagram != want {
		t.Errorf("diagram:\n%s\nwant:\n%s", art.Diagram, want)
	}
}

func TestRenderEmptySegment(t *testing.T) {
	t.Parallel()

	art := Renderer{}.Render([]model.FileContent{{Path: "/x.txt", Body: "x"}})
	if !strings.HasPrefix(art.Diagram, "└── ./\n    └── x.txt\n") {
		t.Errorf("diagram = %q", art.Diagram)
	}
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := []model.FileContent{{Path: "z.txt"}, {Path: "a/b.txt"}}
	Renderer{}.Render(in)
	if in[0].Path != "z.txt" {
		t.Errorf("input reordered: %v", in)
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	art := Renderer{Counter: fixedCounter(0)}.Render(nil)
	if art.Text != "Directory Structure:\n\n\n" {
		t.Errorf("text = %q", art.Text)
	}
	if !art.Tokens.OK || art.Tokens.N != 0 {
		t.Errorf("tokens = %+v, want computed zero", art.Tokens)
	}
}

func TestRenderTransform(t *testing.T) {
	t.Parallel()

	r := Renderer{Transform: func(path, body string) string {
		return strings.ToUpper(body) + " @" + path
	}}
	art := r.Render([]model.FileContent{{Path: "a.txt", Body: "hi"}})
	if !strings.Contains(art.Text, "\nHI @a.txt\n") {
		t.Errorf("transform not applied:\n%s", art.Text)
	}
}

func TestRenderTokenizerFailures(t *testing.T) {
	t.Parallel()

	contents := []model.FileContent{{Path: "a.txt", Body: "hello"}}

	tests := []struct {
		name    string
		counter Counter
	}{
		{"nil counter", nil},
		{"error", CounterFunc(func(string) (int, error) { return 0, errors.New("boom") })},
		{"panic", CounterFunc(func(string) (int, error) { panic("tokenizer exploded") })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			art := Renderer{Counter: tt.counter}.Render(contents)
			if art.Tokens.OK {
				t.Errorf("tokens = %+v, want unavailable", art.Tokens)
			}
			if art.Tokens.String() != "unknown" {
				t.Errorf("String() = %q", art.Tokens.String())
			}
			if !strings.Contains(art.Text, "File: a.txt") {
				t.Error("text missing after tokenizer failure")
			}
		})
	}
}

func TestDefaultCounter(t *testing.T) {
	t.Parallel()

	n, err := DefaultCounter.Count("hello world")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count(hello world) = %d, want 2", n)
	}

	art := Render([]model.FileContent{{Path: "a.txt", Body: "hello"}})
	if !art.Tokens.OK || art.Tokens.N == 0 {
		t.Errorf("tokens = %+v", art.Tokens)
	}
}
