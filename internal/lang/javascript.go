package lang

import (
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

func init() {
	register("javascript", javascript.GetLanguage(), ".js", ".jsx", ".mjs", ".cjs")
	register("typescript", typescript.GetLanguage(), ".ts", ".mts", ".cts")
	// The plain TypeScript grammar rejects JSX.
	register("tsx", tsx.GetLanguage(), ".tsx")
}
