package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanText folds compatibility characters (non-breaking spaces, full-width
// digits) and collapses runs of whitespace into single spaces.
func CleanText(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}
