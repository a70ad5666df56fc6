package normalize

import (
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics removes combining marks via NFD decomposition, matching
// the decompose/filter/recompose shape used throughout the donor's own
// accent handling.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
