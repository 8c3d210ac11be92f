package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// NewHeaderMap indexes the whitespace separated tokens of a header line.
func NewHeaderMap(header string) HeaderMap {
	hm := make(HeaderMap)
	for i, name := range strings.Fields(header) {
		hm[name] = i
	}
	return hm
}

// ResolveColumns scans the raw header with selector and returns the matched
// columns in the order the matches occur. Every match has to cover a whole
// header token; a match inside a longer token is reported as
// ErrColumnMismatch.
func ResolveColumns(header string, selector *regexp.Regexp) (HeaderMap, []Column, error) {
	hm := NewHeaderMap(header)
	var cols []Column
	for _, span := range selector.FindAllStringIndex(header, -1) {
		start, end := span[0], span[1]
		name := header[start:end]
		idx, ok := hm[name]
		if !ok || !tokenBoundary(header, start, end) {
			return hm, nil, errors.Wrapf(ErrColumnMismatch, "%q at %d-%d", name, start, end)
		}
		cols = append(cols, Column{Name: name, Index: idx, Start: start, End: end})
	}
	return hm, cols, nil
}

func tokenBoundary(s string, start, end int) bool {
	if start == end {
		return false
	}
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if !unicode.IsSpace(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
