package lang

import "github.com/smacker/go-tree-sitter/ruby"

func init() {
	register("ruby", ruby.GetLanguage(), ".rb", ".rake")
}
