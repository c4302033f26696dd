package gctoo

import (
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// GuessDelimiter returns the most likely non-tab delimiter of text, for
// diagnosing files that were saved as CSV or space-separated instead of
// tab-delimited.
func GuessDelimiter(text string) (rune, bool) {
	d := detector.New()
	for _, delim := range d.DetectDelimiter(strings.NewReader(text), '"') {
		if delim != "" && delim != "\t" {
			return rune(delim[0]), true
		}
	}
	return 0, false
}
