package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits text into case-folded words. Any rune that is not a letter
// ends a word, so punctuation and apostrophes never glue onto a pronoun
// ("his," and "He's" yield "his" and "he", "s").
func Words(text string) []string {
	folded := fold(text)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// WordCounts tallies Words(text).
func WordCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, word := range Words(text) {
		counts[word]++
	}
	return counts
}

// Title returns value in English title case.
func Title(value string) string {
	return cases.Title(language.English).String(strings.TrimSpace(value))
}

// fold builds a caser per call; casers carry state and are not safe to share.
func fold(value string) string {
	return cases.Fold().String(value)
}
