// Package sanitize turns untrusted submissions into plain text.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict allows no elements and no attributes. The contents of script and
// style elements are dropped along with the tags.
var strict = bluemonday.StrictPolicy()

// StripAllMarkup trims text and removes every tag and attribute from it.
// Characters that would form markup again are left HTML-escaped.
func StripAllMarkup(text string) string {
	return strings.TrimSpace(strict.Sanitize(strings.TrimSpace(text)))
}

// CoerceString returns v when it is a string and "" for anything else.
func CoerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
