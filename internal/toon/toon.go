// Package toon writes TOON (Token-Oriented Object Notation): scalar fields,
// inline primitive arrays and tabular arrays with a declared length and
// column header.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Doc accumulates top-level TOON entries, one per line or block.
type Doc struct {
	parts []string
}

// Field adds key: value. Strings are quoted when needed; other values are
// formatted with their natural representation.
func (d *Doc) Field(key string, value any) {
	d.parts = append(d.parts, key+": "+scalar(value))
}

// List adds key[N]: v1,v2,...
func (d *Doc) List(key string, values []string) {
	encoded := make([]string, len(values))
	for i, v := range values {
		encoded[i] = Value(v)
	}
	d.parts = append(d.parts, fmt.Sprintf("%s[%d]: %s", key, len(values), strings.Join(encoded, ",")))
}

// Table adds name[N]{col,...}: followed by one indented row per line.
func (d *Doc) Table(name string, columns []string, rows [][]string) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = Value(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	d.parts = append(d.parts, b.String())
}

// String joins the entries with newlines.
func (d *Doc) String() string {
	return strings.Join(d.parts, "\n")
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return Value(x)
	case fmt.Stringer:
		return Value(x.String())
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "null"
	default:
		return fmt.Sprint(x)
	}
}

// Value encodes a string cell, quoting it when it would otherwise read as
// a number, keyword or delimiter.
func Value(value string) string {
	switch {
	case value == "":
		return `""`
	case value != strings.TrimSpace(value),
		strings.ContainsAny(value, "\n\r\t"):
		return quote(value)
	}
	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}
	if looksNumeric.MatchString(value) {
		return value
	}
	if needsQuoting.MatchString(value) || strings.HasPrefix(value, "-") {
		return quote(value)
	}
	return value
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

func quote(value string) string {
	return `"` + quoter.Replace(value) + `"`
}
