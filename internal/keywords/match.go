package keywords

import (
	"strings"
	"unicode"
)

// ContainsTerm matches a term in lowercase text. Short terms like "ai" or
// "mit" require word boundaries; "maintain" must not match "ai" and "summit"
// must not match "mit".
func ContainsTerm(text, term string) bool {
	term = strings.ToLower(term)
	if len(term) > 3 {
		return strings.Contains(text, term)
	}

	idx := 0
	for {
		pos := strings.Index(text[idx:], term)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(term)
		beforeOK := start == 0 || !isWordChar(rune(text[start-1]))
		afterOK := end == len(text) || !isWordChar(rune(text[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

// ContainsAnyTerm reports whether any of the terms matches the text
func ContainsAnyTerm(text string, terms []string) bool {
	for _, term := range terms {
		if ContainsTerm(text, term) {
			return true
		}
	}
	return false
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
