// Package corpus loads labeled complaint text for training and evaluation.
//
// Every source yields the same ordered sequence of (text, category) pairs.
// Rows with a missing text or category are dropped with a warning, never
// treated as fatal.
package corpus

import (
	"context"
	"errors"
	"strings"
)

// ErrNoExamples indicates a source produced no usable rows.
var ErrNoExamples = errors.New("corpus: no usable examples")

// Example is one labeled complaint.
type Example struct {
	Text     string
	Category string
}

// Source loads a labeled corpus.
type Source interface {
	Load(ctx context.Context) ([]Example, error)
}

// Texts returns the text column of examples.
func Texts(examples []Example) []string {
	out := make([]string, len(examples))
	for i, ex := range examples {
		out[i] = ex.Text
	}
	return out
}

// Categories returns the category column of examples.
func Categories(examples []Example) []string {
	out := make([]string, len(examples))
	for i, ex := range examples {
		out[i] = ex.Category
	}
	return out
}

// valid reports whether both fields carry something other than whitespace.
// Categories are trimmed by callers before use; text is kept verbatim.
func valid(text, category string) bool {
	return strings.TrimSpace(text) != "" && strings.TrimSpace(category) != ""
}
