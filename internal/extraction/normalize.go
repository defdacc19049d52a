package extraction

import (
	"regexp"
	"strings"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// Normalize collapses all runs of whitespace, including newlines, into single
// spaces. Label-window and single-line scans run over this form; line-oriented
// extraction (lot items) must use the raw text because item boundaries depend
// on line structure.
func Normalize(text string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}
