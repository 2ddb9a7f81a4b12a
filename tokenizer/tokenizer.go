// Package tokenizer turns complaint text into word tokens and fixed-length
// vocabulary id sequences.
package tokenizer

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tokenize lowercases text and returns its maximal runs of word characters
// (letters, digits and underscore). Punctuation and whitespace separate
// tokens and are never returned. Text without word characters yields an
// empty result.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	text = lower(text)

	var tokens []string
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, text[start:i])
			start = -1
		}
	}

	// Trailing token
	if start >= 0 {
		tokens = append(tokens, text[start:])
	}

	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// lower applies Unicode lowercasing. A Caser is stateful, so each call gets
// its own.
func lower(text string) string {
	return cases.Lower(language.Und).String(text)
}
