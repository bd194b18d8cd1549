package fuzzy

import (
	"strings"
	"unicode"
)

// Distance is the Levenshtein edit distance between a and b after
// normalisation.
func Distance(a, b string) int {
	r1 := []rune(normalize(a))
	r2 := []rune(normalize(b))
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// Two rolling rows instead of the full matrix.
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// Match reports whether query appears in text, or is a prefix of or within
// threshold edits of any word of text.
func Match(query, text string, threshold int) bool {
	query = normalize(query)
	text = normalize(text)
	if query == "" {
		return true
	}
	if strings.Contains(text, query) {
		return true
	}
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, query) || Distance(query, word) <= threshold {
			return true
		}
	}
	return false
}

// normalize lower-cases s, turns punctuation into spaces and collapses runs
// of whitespace.
func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}
