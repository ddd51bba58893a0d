// Package text provides small text utilities shared by the scraper, the
// matcher and the lexicon: rune counting, whitespace collapsing and the
// accent-insensitive folding used for Spanish place names and keywords.
package text

import "strings"

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Headline length thresholds are expressed in runes so that "Breña" counts as
// five characters, not six bytes.
//
// Examples:
//
//	CountRunes("robo")   // returns 4
//	CountRunes("Breña")  // returns 5
//	CountRunes("")       // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// CollapseSpace trims the text and replaces every run of Unicode whitespace
// with a single ASCII space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
