package render

import "strings"

// node is one segment of the directory tree. Children keep insertion order,
// which is the sorted order of the paths that created them.
type node struct {
	name     string
	children []*node
	index    map[string]*node
}

func newNode(name string) *node {
	return &node{name: name, index: make(map[string]*node)}
}

func (n *node) child(name string) *node {
	if c, ok := n.index[name]; ok {
		return c
	}
	c := newNode(name)
	n.index[name] = c
	n.children = append(n.children, c)
	return c
}

// buildTree nests already-sorted paths by segment. Nodes without children
// are files.
func buildTree(paths []string) *node {
	root := newNode("")
	for _, p := range paths {
		cur := root
		for _, part := range strings.Split(p, "/") {
			cur = cur.child(part)
		}
	}
	return root
}

// diagram renders the children of n with box-drawing connectors.
func diagram(n *node) string {
	var b strings.Builder
	writeLevel(&b, n, "")
	return b.String()
}

func writeLevel(b *strings.Builder, n *node, prefix string) {
	for i, c := range n.children {
		last := i == len(n.children)-1
		connector, indent := "├── ", "│   "
		if last {
			connector, indent = "└── ", "    "
		}

		name := c.name
		if name == "" {
			name = "./"
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(name)
		b.WriteByte('\n')

		if len(c.children) > 0 {
			writeLevel(b, c, prefix+indent)
		}
	}
}
