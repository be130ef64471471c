package core

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// HasMarkup reports whether an HTML parser would find anything but text in `s`:
// tags, comments or character references.
func HasMarkup(s string) bool {
	return html.UnescapeString(stripPolicy.Sanitize(s)) != s
}
