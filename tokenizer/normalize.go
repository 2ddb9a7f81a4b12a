package tokenizer

import (
	"strings"
	"unicode"
)

// CleanText prepares text for keyword rule matching:
//   - lowercases it
//   - drops every character that is not an ASCII letter, an ASCII digit or whitespace
//
// Dropped characters are removed, not replaced, so "pot-hole" becomes
// "pothole" and "don't" becomes "dont".
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = lower(text)

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.IsSpace(r):
			builder.WriteRune(r)
		}
	}

	return builder.String()
}
