// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email trims whitespace and lowercases an email address. Emails are stored
// and looked up in this form so the unique index is case-insensitive.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role trims whitespace and lowercases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tags converts a tag list into trimmed, non-empty entries. The SPA sends
// tags either as a JSON array or as one comma-delimited string; callers split
// the latter with SplitTags before reaching here.
func Tags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitTags splits a comma-delimited tag string into normalized tags.
func SplitTags(s string) []string {
	return Tags(strings.Split(s, ","))
}
