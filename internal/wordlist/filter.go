package wordlist

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter for word lists.
// Words containing whitespace are always dropped: typed input is stripped of
// whitespace before matching, so such a word could never be typed correctly.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en":
		return filterEnglishASCII
	default:
		return noSpace
	}
}

func filterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

func noSpace(word string) bool {
	if word == "" {
		return false
	}
	return strings.IndexFunc(word, unicode.IsSpace) < 0
}
