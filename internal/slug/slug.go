// Package slug derives the URL-facing identifier for workers and tasks.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// NFD + strip combining marks folds accented letters to plain ASCII.
	asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	invalid    = regexp.MustCompile(`[^\w\s-]`)
	hyphenRuns = regexp.MustCompile(`[-\s]+`)
)

// Make derives a slug from source: lower-cased, ASCII-normalized, with
// whitespace and hyphen runs collapsed to single hyphens and edge
// hyphens/underscores trimmed. Make is idempotent: applying it to its own
// output returns the same slug.
//
// No collision disambiguation happens here. Two sources that slugify to the
// same value collide at the storage layer's unique index.
func Make(source string) string {
	folded, _, err := transform.String(asciiFold, source)
	if err != nil {
		folded = source
	}

	s := strings.ToLower(folded)
	s = invalid.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-_")
}
