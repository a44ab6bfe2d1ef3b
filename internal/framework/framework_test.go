package framework

import (
	"reflect"
	"testing"

	"github.com/phobologic/repodigest/internal/model"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []string
		want    model.FrameworkID
	}{
		{"node with tsconfig", []string{"package.json", "tsconfig.json", "README.md"}, model.NodeJS},
		{"node package only", []string{"README.md", "package.json", "src/"}, model.NodeJS},
		{"flutter", []string{"README.md", "pubspec.yaml", "lib/"}, model.Flutter},
		{"python", []string{"app.py", "requirements.txt", "README.md"}, model.Python},
		{"java", []string{"src/", "pom.xml"}, model.Java},
		{"go", []string{"go.mod", "go.sum", "main.go"}, model.Go},
		{"rust", []string{"Cargo.toml", "src/"}, model.Rust},
		{"unknown", []string{"README.md", "LICENSE", "src/"}, model.Unknown},
		{"empty", nil, model.Unknown},
		{"tie goes to first declared", []string{"package.json", "requirements.txt"}, model.NodeJS},
		{"higher score wins over order", []string{"package.json", "go.mod", "go.sum"}, model.Go},
		{"directory marker without slash", []string{"venv", "manage.py"}, model.Python},
		{"directory marker with children", []string{"node_modules/"}, model.NodeJS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Detect(tt.entries)
			if got != tt.want {
				t.Errorf("Detect(%v) = %q, want %q", tt.entries, got, tt.want)
			}
		})
	}
}

func TestScoresRequires(t *testing.T) {
	t.Parallel()

	score := func(entries []string, id model.FrameworkID) int {
		for _, s := range Scores(entries) {
			if s.ID == id {
				return s.Score
			}
		}
		t.Fatalf("framework %q missing from scores", id)
		return 0
	}

	if got := score([]string{"android/", "ios/"}, model.Flutter); got != 0 {
		t.Errorf("flutter without pubspec.yaml = %d, want 0", got)
	}
	if got := score([]string{"android/", "ios/", "pubspec.yaml"}, model.Flutter); got != 14 {
		t.Errorf("flutter with pubspec.yaml = %d, want 14", got)
	}
}

func TestScoresTableOrder(t *testing.T) {
	t.Parallel()

	scores := Scores(nil)
	if len(scores) != len(Table) {
		t.Fatalf("got %d scores, want %d", len(scores), len(Table))
	}
	for i, s := range scores {
		if s.ID != Table[i].ID {
			t.Errorf("score %d is %q, want %q", i, s.ID, Table[i].ID)
		}
	}
}

func TestRootEntries(t *testing.T) {
	t.Parallel()

	files := []model.FileRecord{
		{Path: "src/index.ts", Kind: model.File},
		{Path: "package.json", Kind: model.File},
		{Path: "src", Kind: model.Directory},
		{Path: "docs/guide/intro.md", Kind: model.File},
		{Path: "README.md", Kind: model.File},
		{Path: "src/util.ts", Kind: model.File},
	}

	got := RootEntries(files)
	want := []string{"package.json", "README.md", "src/", "docs/"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RootEntries = %v, want %v", got, want)
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	if got := Name(model.NodeJS); got != "Node.js / TypeScript" {
		t.Errorf("Name(nodejs) = %q", got)
	}
	if got := Name(model.Unknown); got != "Standard Repo" {
		t.Errorf("Name(unknown) = %q", got)
	}
}
