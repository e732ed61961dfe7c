// Package pipeline transforms raw provider payloads into canonical,
// validated record batches and orchestrates one processing run.
package pipeline

import "strings"

// The raw news document is traversed through these accessors instead of
// rigid structs: any field may be absent, null, or the wrong type, and
// each accessor documents the default applied in that case.

// stringField returns the trimmed string under key, or "" when the key
// is absent, null, or not a string.
func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// nestedStringField returns the trimmed string under outer.inner, or ""
// when either level is missing or mistyped.
func nestedStringField(m map[string]any, outer, inner string) string {
	v, ok := m[outer]
	if !ok {
		return ""
	}
	nested, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	return stringField(nested, inner)
}
