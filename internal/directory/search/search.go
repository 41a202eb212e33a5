// Package search implements tolerant text matching for the directory
// sidebar: queries match despite typos, punctuation and word order.
package search

import (
	"strings"
)

// Normalize lowercases the text, strips periods, apostrophes, ampersands
// and hyphens, collapses whitespace runs and trims the ends.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch r {
		case '.', '\'', '&', '-':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FuzzyMatch reports whether query matches text. A direct substring match
// on the normalized strings succeeds immediately; otherwise every query
// word must match some text word by containment in either direction or by
// edit distance within tolerance.
func FuzzyMatch(text, query string) bool {
	normText := Normalize(text)
	normQuery := Normalize(query)

	if strings.Contains(normText, normQuery) {
		return true
	}

	queryWords := strings.Fields(normQuery)
	textWords := strings.Fields(normText)

	for _, qw := range queryWords {
		matched := false
		for _, tw := range textWords {
			if strings.Contains(tw, qw) || strings.Contains(qw, tw) ||
				Levenshtein(tw, qw) <= tolerance(qw) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// FuzzyScore ranks how well query matches text: 100 for normalized
// equality, 90 for a prefix match, 80 for a substring match, otherwise a
// distance-penalized score when the text prefix is within tolerance of
// the query, and 0 for no match. Filtering uses FuzzyMatch; this is only
// for ordering candidates.
func FuzzyScore(text, query string) int {
	normText := Normalize(text)
	normQuery := Normalize(query)

	if normText == normQuery {
		return 100
	}
	if strings.HasPrefix(normText, normQuery) {
		return 90
	}
	if strings.Contains(normText, normQuery) {
		return 80
	}

	queryRunes := []rune(normQuery)
	textRunes := []rune(normText)
	prefix := textRunes
	if len(queryRunes) < len(textRunes) {
		prefix = textRunes[:len(queryRunes)]
	}
	distance := Levenshtein(string(prefix), normQuery)
	if distance <= tolerance(normQuery) {
		return 70 - distance*10
	}
	return 0
}

// tolerance is the maximum edit distance accepted for a query word:
// one edit for short words, one per three runes otherwise.
func tolerance(word string) int {
	t := len([]rune(word)) / 3
	if t < 1 {
		t = 1
	}
	return t
}

// Levenshtein computes the edit distance between a and b over runes,
// with unit cost for insertion, deletion and substitution.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(rb)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(ra)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(ra); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(rb); i++ {
		for j := 1; j <= len(ra); j++ {
			if rb[i-1] == ra[j-1] {
				matrix[i][j] = matrix[i-1][j-1]
			} else {
				matrix[i][j] = min3(
					matrix[i-1][j-1]+1, // substitution
					matrix[i][j-1]+1,   // insertion
					matrix[i-1][j]+1,   // deletion
				)
			}
		}
	}
	return matrix[len(rb)][len(ra)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
