// Package htmlsanitize strips unsafe markup from user-authored text.
//
// Event descriptions and "what to bring" notes are free text typed by
// organizers and rendered by the SPA; they pass through StrictText so no
// markup survives into stored documents.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var strict = bluemonday.StrictPolicy()

// StrictText removes all HTML elements and attributes, leaving only the
// text content.
func StrictText(s string) string {
	return strict.Sanitize(s)
}
