// Package rules holds the static include/exclude tables used by the filter.
package rules

import "github.com/phobologic/repodigest/internal/model"

// RuleSet is the ordered include and exclude pattern lists for one
// framework at one precision.
type RuleSet struct {
	Include []string
	Exclude []string
}

func (r RuleSet) clone() RuleSet {
	return RuleSet{
		Include: append([]string(nil), r.Include...),
		Exclude: append([]string(nil), r.Exclude...),
	}
}

// CatchAll is the include pattern used by every Full rule set.
const CatchAll = "**/*"

// globalExclusions apply before any framework rule is consulted.
var globalExclusions = []string{
	// Version control and editor state
	".git/", ".svn/", ".hg/", ".idea/", ".vscode/",
	// OS metadata
	".DS_Store", "Thumbs.db",
	// Dependencies and build output
	"node_modules/", "dist/", "build/", "coverage/", "tmp/", "temp/",
	// Images
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.ico", "*.svg", "*.bmp", "*.webp",
	// Binaries
	"*.exe", "*.dll", "*.so", "*.dylib", "*.class", "*.pyc", "*.o", "*.obj",
	// Archives
	"*.zip", "*.tar", "*.gz", "*.rar", "*.7z",
	// Lock files
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "pubspec.lock", "Cargo.lock", "go.sum", "Gemfile.lock",
}

// GlobalExclusions returns a copy of the framework-independent exclusions.
func GlobalExclusions() []string {
	return append([]string(nil), globalExclusions...)
}

var full = RuleSet{Include: []string{CatchAll}}

var (
	nodeSources = []string{
		"src/**/*.js", "src/**/*.ts", "src/**/*.jsx", "src/**/*.tsx",
		"lib/**/*.js", "lib/**/*.ts", "app/**/*.js", "app/**/*.ts",
	}
	nodeExcludes = []string{
		"**/*.test.js", "**/*.spec.js", "**/*.test.ts", "**/*.spec.ts",
		"test/", "tests/", "e2e/", "cypress/",
	}

	flutterGenerated = []string{"lib/**/*.g.dart", "lib/**/*.freezed.dart"}

	pythonExcludes = []string{
		"test/", "tests/", "**/*_test.py", "**/test_*.py",
		"venv/", "env/", ".venv/", "migrations/",
	}

	javaSources  = []string{"src/main/java/**/*.java", "src/main/kotlin/**/*.kt"}
	javaExcludes = []string{"src/test/", "target/"}

	goExcludes = []string{"**/*_test.go", "vendor/"}

	rustExcludes = []string{"tests/", "target/"}

	genericSources = []string{
		"src/", "lib/", "app/",
		"**/*.js", "**/*.ts", "**/*.py", "**/*.java", "**/*.c", "**/*.cpp", "**/*.h",
		"**/*.cs", "**/*.php", "**/*.rb", "**/*.go", "**/*.rs", "**/*.swift", "**/*.kt",
	}
	genericExcludes = []string{"test/", "tests/", "doc/", "docs/"}
)

func join(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

var table = map[model.FrameworkID]map[model.Precision]RuleSet{
	model.NodeJS: {
		model.Core: {Include: nodeSources, Exclude: nodeExcludes},
		model.Standard: {
			Include: join(nodeSources, []string{
				"package.json", "tsconfig.json", "jsconfig.json",
				"README.md", "README.txt", "README",
				"next.config.js", "vite.config.js", "webpack.config.js", "rollup.config.js",
			}),
			Exclude: nodeExcludes,
		},
		model.Full: full,
	},
	model.Flutter: {
		model.Core: {
			Include: []string{"lib/**/*.dart"},
			Exclude: join(flutterGenerated, []string{
				"test/", "integration_test/", "android/", "ios/", "web/", "macos/", "windows/", "linux/",
			}),
		},
		model.Standard: {
			Include: []string{"lib/**/*.dart", "pubspec.yaml", "analysis_options.yaml", "README.md"},
			Exclude: flutterGenerated,
		},
		model.Full: {Include: []string{CatchAll}, Exclude: flutterGenerated},
	},
	model.Python: {
		model.Core: {Include: []string{"**/*.py"}, Exclude: pythonExcludes},
		model.Standard: {
			Include: []string{"**/*.py", "requirements.txt", "setup.py", "pyproject.toml", "Pipfile", "README.md"},
			Exclude: pythonExcludes,
		},
		model.Full: full,
	},
	model.Java: {
		model.Core: {Include: javaSources, Exclude: javaExcludes},
		model.Standard: {
			Include: join(javaSources, []string{"pom.xml", "build.gradle", "settings.gradle", "README.md"}),
			Exclude: javaExcludes,
		},
		model.Full: full,
	},
	model.Go: {
		model.Core:     {Include: []string{"**/*.go"}, Exclude: goExcludes},
		model.Standard: {Include: []string{"**/*.go", "go.mod", "README.md"}, Exclude: goExcludes},
		model.Full:     full,
	},
	model.Rust: {
		model.Core:     {Include: []string{"src/**/*.rs"}, Exclude: rustExcludes},
		model.Standard: {Include: []string{"src/**/*.rs", "Cargo.toml", "README.md"}, Exclude: rustExcludes},
		model.Full:     full,
	},
	model.Unknown: {
		model.Core: {Include: genericSources, Exclude: genericExcludes},
		model.Standard: {
			Include: join(genericSources, []string{"README.md", "LICENSE", "CONTRIBUTING.md"}),
			Exclude: genericExcludes,
		},
		model.Full: full,
	},
}

// For returns the rule set for a framework and precision. Unrecognised
// frameworks fall back to the generic table; unrecognised precisions are
// treated as Full.
func For(id model.FrameworkID, p model.Precision) RuleSet {
	byPrecision, ok := table[id]
	if !ok {
		byPrecision = table[model.Unknown]
	}
	rs, ok := byPrecision[p]
	if !ok {
		rs = byPrecision[model.Full]
	}
	return rs.clone()
}
