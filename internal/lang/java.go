package lang

import "github.com/smacker/go-tree-sitter/java"

func init() {
	register("java", java.GetLanguage(), ".java")
}
