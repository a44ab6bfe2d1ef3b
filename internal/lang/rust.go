package lang

import "github.com/smacker/go-tree-sitter/rust"

func init() {
	register("rust", rust.GetLanguage(), ".rs")
}
