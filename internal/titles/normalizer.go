// Package titles provides title normalization and near-duplicate tracking
// for ingested headlines.
package titles

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// bracketPairs maps decorative opening brackets to their closing runes.
// Fullwidth ASCII brackets are folded to plain brackets by NFKC before
// this table is consulted.
var bracketPairs = map[rune]rune{
	'【': '】',
	'「': '」',
	'『': '』',
	'〔': '〕',
	'《': '》',
	'[': ']',
}

// collapsible punctuation runs are reduced to a single occurrence.
var collapsible = map[rune]bool{
	'!': true,
	'?': true,
	'~': true,
}

var foldCaser = cases.Fold()

// Normalize maps a raw title to its canonical comparison form:
// NFKC width/compatibility normalization and case folding, removal of one
// leading and one trailing decorative bracket group, whitespace collapsing,
// and collapsing of repeated "!", "?" and "~" runs.
// An empty title normalizes to the empty string.
func Normalize(title string) string {
	if title == "" {
		return ""
	}

	s := foldCaser.String(norm.NFKC.String(title))
	s = stripLeadingBracketGroup(strings.TrimSpace(s))
	s = stripTrailingBracketGroup(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	s = collapsePunctuation(s)

	return s
}

// AreDuplicates reports whether two raw titles normalize to the same
// canonical form. Two empty titles are considered duplicates.
func AreDuplicates(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// stripLeadingBracketGroup removes one bracket group, content included,
// from the start of s.
func stripLeadingBracketGroup(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}

	closing, ok := bracketPairs[runes[0]]
	if !ok {
		return s
	}

	for i := 1; i < len(runes); i++ {
		if runes[i] == closing {
			return string(runes[i+1:])
		}
	}

	return s
}

// stripTrailingBracketGroup removes one bracket group, content included,
// from the end of s.
func stripTrailingBracketGroup(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}

	last := runes[len(runes)-1]

	for opening, closing := range bracketPairs {
		if closing != last {
			continue
		}

		for i := len(runes) - 2; i >= 0; i-- {
			if runes[i] == opening {
				return string(runes[:i])
			}
		}
	}

	return s
}

// collapsePunctuation reduces runs of "!", "?" and "~" to one occurrence.
func collapsePunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var prev rune = -1

	for _, r := range s {
		if collapsible[r] && r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}

	return b.String()
}
