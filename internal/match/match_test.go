package match

import "testing"

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		pattern string
		want    bool
	}{
		{"catch all", "a/b/c.txt", "**/*", true},
		{"catch all root", "README.md", "**/*", true},
		{"dir prefix", "node_modules/x.js", "node_modules/", true},
		{"dir nested", "src/node_modules/x.js", "node_modules/", true},
		{"dir substring of longer name", "mybuild/out.js", "build/", true},
		{"dir no match", "src/index.js", "node_modules/", false},
		{"dir needs slash", "build", "build/", false},
		{"extension root", "error.log", "*.log", true},
		{"extension nested", "src/error.log", "*.log", true},
		{"extension no match", "src/error.txt", "*.log", false},
		{"bare name root", "go.mod", "go.mod", true},
		{"bare name nested", "tools/go.mod", "go.mod", true},
		{"bare name partial", "tools/xgo.mod", "go.mod", false},
		{"inner recursive", "src/index.ts", "src/**/*.ts", true},
		{"inner recursive deep", "src/a/b/c.ts", "src/**/*.ts", true},
		{"inner recursive wrong ext", "src/index.js", "src/**/*.ts", false},
		{"inner recursive wrong dir", "lib/index.ts", "src/**/*.ts", false},
		{"inner recursive multi ext", "lib/x/model.g.dart", "lib/**/*.g.dart", true},
		{"leading recursive extension", "src/app.test.ts", "**/*.test.ts", true},
		{"leading recursive extension miss", "src/app.ts", "**/*.test.ts", false},
		{"leading recursive suffix", "pkg/graph_test.go", "**/*_test.go", true},
		{"leading recursive suffix root", "main_test.go", "**/*_test.go", true},
		{"leading recursive suffix miss", "pkg/graph.go", "**/*_test.go", false},
		{"leading recursive infix", "tests/test_app.py", "**/test_*.py", true},
		{"leading recursive infix miss", "app.py", "**/test_*.py", false},
		{"leading recursive plain", "lib/util.py", "**/*.py", true},
		{"exact path", "src/main/App.java", "src/main/App.java", true},
		{"exact path miss", "src/main/App.kt", "src/main/App.java", false},
		{"backslashes normalised", `src\node_modules\x.js`, "node_modules/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Match(tt.path, tt.pattern)
			if got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestDirectoryPatternMatchesAnyChild(t *testing.T) {
	t.Parallel()

	patterns := []string{"node_modules/", ".git/", "src/test/", "a/"}
	children := []string{"", "x", "x.js", "deep/nested/file.go", "node_modules/y"}
	for _, p := range patterns {
		for _, x := range children {
			if !Match(p+x, p) {
				t.Errorf("Match(%q, %q) = false, want true", p+x, p)
			}
		}
	}
}

func TestAny(t *testing.T) {
	t.Parallel()

	patterns := []string{"*.png", "dist/", "go.sum"}
	if !Any("web/dist/app.js", patterns) {
		t.Error("expected dist/ to match")
	}
	if !Any("go.sum", patterns) {
		t.Error("expected go.sum to match")
	}
	if Any("main.go", patterns) {
		t.Error("main.go should not match")
	}
	if Any("main.go", nil) {
		t.Error("no patterns should never match")
	}
}

func TestWildcardSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"a/test_x.py", "test_*.py", true},
		{"a/xtest_y.py", "test_*.py", true},
		{"a/test_.py", "test_*.py", true},
		{"a/test_x.pyc", "test_*.py", false},
		{"foo.spec.js", "*.spec.js", true},
		{"a-b-c", "a*b*c", true},
		{"a-c-b", "a*b*c", false},
	}
	for _, tt := range tests {
		if got := wildcardSuffix(tt.path, tt.pattern); got != tt.want {
			t.Errorf("wildcardSuffix(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
		}
	}
}
