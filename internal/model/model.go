// Package model defines core data structures for repodigest.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// Kind distinguishes files from directories in a listing.
type Kind string

const (
	File      Kind = "file"
	Directory Kind = "dir"
)

// Origin records which collaborator produced a record.
type Origin string

const (
	RemoteAPI       Origin = "remote"
	LocalFilesystem Origin = "local"
	ArchiveEntry    Origin = "archive"
)

// FileRecord is one entry discovered in a source tree.
// Records are immutable once a listing has been produced.
type FileRecord struct {
	Path      string // Forward-slash, relative to the source root
	Kind      Kind
	Size      int64
	SizeKnown bool
	Origin    Origin
	Ref       string // Collaborator handle: blob sha, absolute path or zip entry name
}

// IsFile reports whether the record is a file.
func (r FileRecord) IsFile() bool {
	return r.Kind == File
}

// Precision controls how aggressively non-essential files are excluded.
type Precision int

const (
	Core Precision = iota
	Standard
	Full
)

var precisionNames = []string{"core", "standard", "full"}

func (p Precision) String() string {
	if p < Core || p > Full {
		return fmt.Sprintf("precision(%d)", int(p))
	}
	return precisionNames[p]
}

// ParsePrecision converts a name such as "standard" into a Precision.
func ParsePrecision(s string) (Precision, error) {
	for i, name := range precisionNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Precision(i), nil
		}
	}
	return Standard, fmt.Errorf("unknown precision %q (want core, standard or full)", s)
}

// FrameworkID names the ecosystem convention used to select files.
type FrameworkID string

const (
	NodeJS  FrameworkID = "nodejs"
	Flutter FrameworkID = "flutter"
	Python  FrameworkID = "python"
	Java    FrameworkID = "java"
	Go      FrameworkID = "go"
	Rust    FrameworkID = "rust"
	Unknown FrameworkID = "unknown"
)

// Frameworks lists every identifier in table order.
var Frameworks = []FrameworkID{NodeJS, Flutter, Python, Java, Go, Rust, Unknown}

// ParseFramework validates a framework identifier.
func ParseFramework(s string) (FrameworkID, error) {
	id := FrameworkID(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Frameworks {
		if id == known {
			return id, nil
		}
	}
	return Unknown, fmt.Errorf("unknown framework %q", s)
}

// PathSet is a set of repository paths.
type PathSet map[string]struct{}

// NewPathSet returns a set holding paths.
func NewPathSet(paths ...string) PathSet {
	s := make(PathSet, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

// Add inserts p.
func (s PathSet) Add(p string) {
	s[p] = struct{}{}
}

// Has reports whether p is in the set.
func (s PathSet) Has(p string) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of paths.
func (s PathSet) Len() int {
	return len(s)
}

// Minus returns a new set with every path of other removed.
func (s PathSet) Minus(other PathSet) PathSet {
	out := make(PathSet, len(s))
	for p := range s {
		if !other.Has(p) {
			out[p] = struct{}{}
		}
	}
	return out
}

// Sorted returns the paths in lexical order.
func (s PathSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// OutlierMethod selects the central-tendency statistic used for thresholds.
type OutlierMethod string

const (
	Mean   OutlierMethod = "mean"
	Median OutlierMethod = "median"
	IQR    OutlierMethod = "iqr"
)

// ParseOutlierMethod validates a method name.
func ParseOutlierMethod(s string) (OutlierMethod, error) {
	switch m := OutlierMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case Mean, Median, IQR:
		return m, nil
	}
	return Median, fmt.Errorf("unknown outlier method %q (want mean, median or iqr)", s)
}

// OutlierReport is the result of a size-based outlier scan.
// Q1, Q3 and IQR are only set for the IQR method.
type OutlierReport struct {
	Threshold float64
	Method    OutlierMethod
	Mean      float64
	Median    float64
	Q1        *float64
	Q3        *float64
	IQR       *float64
	Flagged   PathSet
}

// FileContent is a fetched file body.
type FileContent struct {
	Path string
	Body string
}

// TokenCount is an approximate token count. OK is false when the
// tokenizer was unavailable, which is distinct from a count of zero.
type TokenCount struct {
	N  int
	OK bool
}

func (t TokenCount) String() string {
	if !t.OK {
		return "unknown"
	}
	return fmt.Sprintf("%d", t.N)
}

// Artifact is the rendered text handed to a language model.
type Artifact struct {
	Text    string
	Diagram string
	Files   []string // Paths in rendered order
	Tokens  TokenCount
}
