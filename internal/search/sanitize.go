package search

import "strings"

// textFields are the free-text filter keys that get echoed to logs and UI
var textFields = []string{"keywords", "category", "location"}

var markupStripper = strings.NewReplacer("<", "", ">", "", "`", "")

// Sanitize removes markup-significant characters (<, > and backtick).
func Sanitize(s string) string {
	return markupStripper.Replace(s)
}

// SanitizeFields returns a copy of raw with the string values of the named keys sanitized.
func SanitizeFields(raw map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	for _, k := range keys {
		if s, ok := out[k].(string); ok {
			out[k] = Sanitize(s)
		}
	}
	return out
}
