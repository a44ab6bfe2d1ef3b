package lang

import "github.com/smacker/go-tree-sitter/python"

func init() {
	register("python", python.GetLanguage(), ".py", ".pyi")
}
