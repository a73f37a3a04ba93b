package media

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s, folds accents, collapses everything else to
// single dashes and falls back to "media" when nothing is left.
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(folded), "-"), "-")
	if slug == "" {
		return "media"
	}
	return slug
}
