package filter

import (
	"reflect"
	"testing"

	"github.com/phobologic/repodigest/internal/match"
	"github.com/phobologic/repodigest/internal/model"
	"github.com/phobologic/repodigest/internal/rules"
)

func records(paths ...string) []model.FileRecord {
	files := make([]model.FileRecord, len(paths))
	for i, p := range paths {
		files[i] = model.FileRecord{Path: p, Kind: model.File, Size: 100, SizeKnown: true}
	}
	return files
}

func TestApplyNodeStandard(t *testing.T) {
	t.Parallel()

	files := records("package.json", "src/index.ts", "tests/app.test.ts", "README.md")
	got := Apply(files, model.NodeJS, model.Standard).Sorted()
	want := []string{"README.md", "package.json", "src/index.ts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selected = %v, want %v", got, want)
	}
}

func TestApplyNodeCore(t *testing.T) {
	t.Parallel()

	files := records("src/index.ts", "src/components/App.tsx", "src/app.spec.ts", "tests/unit.test.ts", "README.md", "package.json")
	got := Apply(files, model.NodeJS, model.Core).Sorted()
	want := []string{"src/components/App.tsx", "src/index.ts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selected = %v, want %v", got, want)
	}
}

func TestApplyNodeFull(t *testing.T) {
	t.Parallel()

	files := records("src/index.ts", "tests/unit.test.ts", "README.md", "node_modules/pkg/index.js", "logo.png")
	got := Apply(files, model.NodeJS, model.Full).Sorted()
	want := []string{"README.md", "src/index.ts", "tests/unit.test.ts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selected = %v, want %v", got, want)
	}
}

func TestApplyGoExcludesTests(t *testing.T) {
	t.Parallel()

	files := records("go.mod", "go.sum", "main.go", "main_test.go", "internal/x/x.go", "internal/x/x_test.go", "vendor/lib/lib.go", "README.md")
	core := Apply(files, model.Go, model.Core).Sorted()
	if want := []string{"internal/x/x.go", "main.go"}; !reflect.DeepEqual(core, want) {
		t.Errorf("core = %v, want %v", core, want)
	}
	std := Apply(files, model.Go, model.Standard).Sorted()
	if want := []string{"README.md", "go.mod", "internal/x/x.go", "main.go"}; !reflect.DeepEqual(std, want) {
		t.Errorf("standard = %v, want %v", std, want)
	}
}

func TestApplySkipsDirectories(t *testing.T) {
	t.Parallel()

	files := []model.FileRecord{
		{Path: "src", Kind: model.Directory},
		{Path: "src/main.py", Kind: model.File},
	}
	got := Apply(files, model.Python, model.Full)
	if got.Has("src") || !got.Has("src/main.py") {
		t.Errorf("selected = %v", got.Sorted())
	}
}

func TestApplyDefaultDeny(t *testing.T) {
	t.Parallel()

	files := records("notes.txt", "Makefile")
	if got := Apply(files, model.Go, model.Standard); got.Len() != 0 {
		t.Errorf("selected = %v, want nothing", got.Sorted())
	}
}

func TestApplyEmpty(t *testing.T) {
	t.Parallel()

	if got := Apply(nil, model.NodeJS, model.Full); got.Len() != 0 {
		t.Errorf("selected = %v", got.Sorted())
	}
}

// sample is a mixed listing touching every framework's conventions.
var sample = records(
	"README.md", "LICENSE", "CONTRIBUTING.md", "Makefile",
	"package.json", "package-lock.json", "tsconfig.json", "vite.config.js",
	"src/index.ts", "src/App.tsx", "src/app.test.ts", "src/util.spec.js", "lib/helper.js", "app/server.ts",
	"tests/e2e.ts", "e2e/flow.ts", "cypress/run.js", "dist/bundle.js", "node_modules/x/index.js",
	"pubspec.yaml", "pubspec.lock", "analysis_options.yaml", "lib/main.dart", "lib/models/user.g.dart",
	"lib/models/user.freezed.dart", "test/widget_test.dart", "android/app/build.gradle", "ios/Runner/AppDelegate.swift",
	"requirements.txt", "setup.py", "pyproject.toml", "app/main.py", "app/test_views.py", "app/views_test.py",
	"migrations/0001_initial.py", "venv/lib/site.py",
	"pom.xml", "build.gradle", "settings.gradle", "src/main/java/com/acme/App.java", "src/main/kotlin/App.kt",
	"src/test/java/com/acme/AppTest.java", "target/classes/App.class",
	"go.mod", "go.sum", "main.go", "cmd/tool/main.go", "cmd/tool/main_test.go", "vendor/dep/dep.go",
	"Cargo.toml", "Cargo.lock", "src/lib.rs", "src/bin/cli.rs", "tests/integration.rs",
	"docs/guide.md", "assets/logo.png", ".git/HEAD", ".DS_Store", "scripts/build.sh", "include/api.h",
)

func TestGlobalExclusionsAlwaysWin(t *testing.T) {
	t.Parallel()

	global := rules.GlobalExclusions()
	for _, id := range model.Frameworks {
		for _, p := range []model.Precision{model.Core, model.Standard, model.Full} {
			selected := Apply(sample, id, p)
			for _, f := range sample {
				if selected.Has(f.Path) && match.Any(f.Path, global) {
					t.Errorf("%s/%s: globally excluded %q was selected", id, p, f.Path)
				}
			}
		}
	}
}

func TestPrecisionMonotonic(t *testing.T) {
	t.Parallel()

	for _, id := range model.Frameworks {
		core := Apply(sample, id, model.Core)
		std := Apply(sample, id, model.Standard)
		full := Apply(sample, id, model.Full)
		for p := range core {
			if !std.Has(p) {
				t.Errorf("%s: %q in core but not standard", id, p)
			}
		}
		for p := range std {
			if !full.Has(p) {
				t.Errorf("%s: %q in standard but not full", id, p)
			}
		}
	}
}

func TestApplyIdempotent(t *testing.T) {
	t.Parallel()

	for _, id := range model.Frameworks {
		for _, p := range []model.Precision{model.Core, model.Standard, model.Full} {
			first := Apply(sample, id, p)
			var again []model.FileRecord
			for _, f := range sample {
				if first.Has(f.Path) {
					again = append(again, f)
				}
			}
			second := Apply(again, id, p)
			if !reflect.DeepEqual(first.Sorted(), second.Sorted()) {
				t.Errorf("%s/%s: second pass changed selection", id, p)
			}
		}
	}
}

func TestIncluded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		id   model.FrameworkID
		p    model.Precision
		want bool
	}{
		{"src/index.ts", model.NodeJS, model.Core, true},
		{"README.md", model.NodeJS, model.Core, false},
		{"README.md", model.NodeJS, model.Standard, true},
		{"lib/models/user.g.dart", model.Flutter, model.Full, false},
		{"lib/main.dart", model.Flutter, model.Core, true},
		{"app/test_views.py", model.Python, model.Standard, false},
		{"src/main/java/App.java", model.Java, model.Core, true},
		{"src/lib.rs", model.Rust, model.Core, true},
		{"include/api.h", model.Unknown, model.Core, true},
		{"LICENSE", model.Unknown, model.Standard, true},
		{"docs/a.go", model.Unknown, model.Standard, false},
		{"yarn.lock", model.NodeJS, model.Full, false},
	}
	for _, tt := range tests {
		if got := Included(tt.path, tt.id, tt.p); got != tt.want {
			t.Errorf("Included(%q, %s, %s) = %v, want %v", tt.path, tt.id, tt.p, got, tt.want)
		}
	}
}
