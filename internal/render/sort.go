package render

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/phobologic/repodigest/internal/model"
)

// Collators keep scratch buffers, so each comparison borrows one.
var collators = sync.Pool{
	New: func() any { return collate.New(language.Und) },
}

// compareSegment orders names by the root collation, so case does not
// split upper and lower names and punctuation sorts before letters. Names
// that collate equal fall back to byte order to keep the order total.
func compareSegment(a, b string) int {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)
	if r := c.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

// Compare orders two slash-separated paths so that entries are grouped by
// directory. At the first differing segment a path that ends there sorts
// after one that continues deeper; otherwise segments compare by collation.
// When one path is a prefix of the other the shorter sorts first.
func Compare(a, b string) int {
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	n := min(len(as), len(bs))

	for i := 0; i < n; i++ {
		if as[i] == bs[i] {
			continue
		}
		aLeaf := i == len(as)-1
		bLeaf := i == len(bs)-1
		switch {
		case aLeaf && !bLeaf:
			return 1
		case bLeaf && !aLeaf:
			return -1
		}
		return compareSegment(as[i], bs[i])
	}
	return len(as) - len(bs)
}

// Sort orders contents in place with Compare.
func Sort(contents []model.FileContent) {
	slices.SortStableFunc(contents, func(a, b model.FileContent) int {
		return Compare(a.Path, b.Path)
	})
}

// SortPaths orders paths in place with Compare.
func SortPaths(paths []string) {
	slices.SortStableFunc(paths, Compare)
}
