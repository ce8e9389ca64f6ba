/*
Package sanitize implements the inbound input sanitization pipeline.

Every structured request input (JSON body, query string, path parameters) passes
through two passes before any handler or validator sees it. Pass one drops
object keys carrying a query-operator prefix, recursively, defeating
operator-injection via object-shaped payloads. Pass two strips markup from every
string leaf: script, style, and iframe elements are dropped together with their
content, and any other tag is removed while its inner text is kept.

Both passes run to a fixpoint, so sanitizing already-sanitized input is a no-op.
*/
package sanitize

import (
	"regexp"
	"strings"
)

// operatorPrefix marks object keys that a document store would interpret as
// query operators.
const operatorPrefix = "$"

var (
	// dangerousElement matches a dangerous element together with its content.
	dangerousElement = regexp.MustCompile(`(?is)<(?:script|style|iframe)\b[^>]*>.*?</\s*(?:script|style|iframe)\s*>`)

	// dangerousOpenTag matches an unclosed dangerous element; everything after
	// it is considered its content and dropped.
	dangerousOpenTag = regexp.MustCompile(`(?is)<(?:script|style|iframe)\b[^>]*>.*$`)

	// anyTag matches any remaining markup tag.
	anyTag = regexp.MustCompile(`<[^>]*>`)
)

// maxPasses bounds the fixpoint iteration; in practice two passes suffice.
const maxPasses = 10

// Clean runs both sanitization passes over a decoded JSON value and returns
// the sanitized value. Maps and slices are rebuilt; scalars other than strings
// pass through untouched.
func Clean(v any) any {
	return StripMarkup(StripOperators(v))
}

// StripOperators removes operator-prefixed keys from object payloads,
// recursively over nested structures.
func StripOperators(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, inner := range val {
			if strings.HasPrefix(key, operatorPrefix) {
				continue
			}
			out[key] = StripOperators(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = StripOperators(inner)
		}
		return out
	default:
		return v
	}
}

// StripMarkup strips markup from every string leaf, recursively.
func StripMarkup(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, inner := range val {
			out[key] = StripMarkup(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = StripMarkup(inner)
		}
		return out
	case string:
		return String(val)
	default:
		return v
	}
}

// String strips markup from a single string. Exposed for path and query
// parameters, which arrive outside the decoded JSON body.
func String(s string) string {
	for i := 0; i < maxPasses; i++ {
		stripped := stripOnce(s)
		if stripped == s {
			return s
		}
		s = stripped
	}
	return s
}

// stripOnce applies one round of markup removal. Removing a tag can expose
// text that itself parses as a tag, which is why String iterates to a
// fixpoint.
func stripOnce(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}

	s = dangerousElement.ReplaceAllString(s, "")
	s = dangerousOpenTag.ReplaceAllString(s, "")
	s = anyTag.ReplaceAllString(s, "")

	return s
}
