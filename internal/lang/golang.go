package lang

import "github.com/smacker/go-tree-sitter/golang"

func init() {
	register("go", golang.GetLanguage(), ".go")
}
