// Package match evaluates rule-table patterns against repository paths.
//
// Patterns are distinguished by shape rather than parsed into a glob AST:
// directory markers ("dist/"), extension wildcards ("*.log"), bare filenames
// ("go.mod"), recursive forms ("src/**/*.ts", "**/*_test.go") and exact paths.
// Directory markers match as substrings at any depth, so "node_modules/"
// also matches "web/node_modules/x.js". The rule tables rely on this.
package match

import "strings"

type handler struct {
	applies func(pattern string) bool
	match   func(path, pattern string) bool
}

// handlers are evaluated in order; the first that applies decides.
var handlers []handler

func init() {
	handlers = []handler{
		{isCatchAll, func(string, string) bool { return true }},
		{isDirectory, matchDirectory},
		{isLeadingRecursive, matchLeadingRecursive},
		{isExtension, matchExtension},
		{isBareName, matchBareName},
		{isInnerRecursive, matchInnerRecursive},
		{func(string) bool { return true }, func(path, pattern string) bool { return path == pattern }},
	}
}

// Match reports whether path matches pattern.
func Match(path, pattern string) bool {
	path = strings.ReplaceAll(path, `\`, "/")
	for _, h := range handlers {
		if h.applies(pattern) {
			return h.match(path, pattern)
		}
	}
	return false
}

// Any reports whether path matches at least one of patterns.
func Any(path string, patterns []string) bool {
	for _, p := range patterns {
		if Match(path, p) {
			return true
		}
	}
	return false
}

func isCatchAll(pattern string) bool { return pattern == "**/*" }

func isDirectory(pattern string) bool { return strings.HasSuffix(pattern, "/") }

func matchDirectory(path, pattern string) bool {
	return strings.Contains(path, pattern)
}

func isLeadingRecursive(pattern string) bool { return strings.HasPrefix(pattern, "**/") }

func matchLeadingRecursive(path, pattern string) bool {
	rest := pattern[len("**/"):]
	if strings.Contains(rest, "*") {
		return wildcardSuffix(path, rest)
	}
	return Match(path, rest)
}

func isExtension(pattern string) bool { return strings.HasPrefix(pattern, "*.") }

func matchExtension(path, pattern string) bool {
	return strings.HasSuffix(path, pattern[1:])
}

func isBareName(pattern string) bool { return !strings.Contains(pattern, "/") }

func matchBareName(path, pattern string) bool {
	return path == pattern || strings.HasSuffix(path, "/"+pattern)
}

func isInnerRecursive(pattern string) bool { return strings.Contains(pattern, "/**/") }

func matchInnerRecursive(path, pattern string) bool {
	i := strings.Index(pattern, "**/")
	prefix, suffix := pattern[:i], pattern[i+len("**/"):]
	return strings.HasPrefix(path, prefix) && strings.HasSuffix(path, strings.TrimPrefix(suffix, "*"))
}

// wildcardSuffix matches a pattern whose '*' runs match any text. The match
// may begin anywhere in path but must end at its end.
func wildcardSuffix(path, pattern string) bool {
	parts := strings.Split(pattern, "*")
	last := parts[len(parts)-1]
	if !strings.HasSuffix(path, last) {
		return false
	}
	rest := path[:len(path)-len(last)]
	for _, part := range parts[:len(parts)-1] {
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
	}
	return true
}
