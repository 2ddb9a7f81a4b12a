// Package rules implements the keyword override table consulted before the
// learned classifier.
//
// A Table is an ordered list, not a map: the first rule whose keyword is a
// substring of the cleaned input wins, so a text mentioning both "pothole"
// and "water" routes to whichever rule is declared first.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veer-004/go-triage/tokenizer"
)

// ErrInvalidRule indicates a rule with an empty keyword or category.
var ErrInvalidRule = errors.New("rules: invalid rule")

// Rule routes any text containing Keyword to Category.
type Rule struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

// Table is an ordered rule list. It is read-only once built and safe for
// concurrent use.
type Table []Rule

// Default returns the built-in municipal routing table.
func Default() Table {
	return Table{
		{"pothole", "Roads"},
		{"sewage", "Sanitation"},
		{"garbage", "Cleanliness"},
		{"trash", "Cleanliness"},
		{"plastic", "Cleanliness"},
		{"water", "Water Supply"},
		{"leakage", "Water Supply"},
		{"light", "Lighting"},
		{"electricity", "Lighting"},
		{"streetlight", "Lighting"},
		{"traffic", "Public Safety"},
		{"accident", "Public Safety"},
		{"noise", "Public Safety"},
		{"tree", "Obstructions"},
		{"fallen tree", "Obstructions"},
		{"mosquito", "Public Safety"},
		{"drain", "Sanitation"},
		{"manhole", "Sanitation"},
	}
}

// Match returns the first rule whose keyword occurs in cleaned, which is
// expected to be the output of tokenizer.CleanText. Matching is plain
// substring containment, so "tree" also matches "street".
func (t Table) Match(cleaned string) (Rule, bool) {
	for _, r := range t {
		if strings.Contains(cleaned, r.Keyword) {
			return r, true
		}
	}
	return Rule{}, false
}

// Categories returns the distinct categories in declaration order.
func (t Table) Categories() []string {
	seen := make(map[string]bool, len(t))
	var out []string
	for _, r := range t {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	return out
}

// Validate rejects rules that could never match or would route to an
// empty category.
func (t Table) Validate() error {
	for i, r := range t {
		if r.Keyword == "" {
			return fmt.Errorf("%w: rule %d has an empty keyword", ErrInvalidRule, i)
		}
		if strings.TrimSpace(r.Category) == "" {
			return fmt.Errorf("%w: rule %d (%q) has an empty category", ErrInvalidRule, i, r.Keyword)
		}
	}
	return nil
}

// Normalize applies the same cleaning to keywords that Match callers apply
// to input text, so a keyword like "Fallen-Tree" still matches.
func (t Table) Normalize() Table {
	out := make(Table, len(t))
	for i, r := range t {
		out[i] = Rule{
			Keyword:  strings.TrimSpace(tokenizer.CleanText(r.Keyword)),
			Category: strings.TrimSpace(r.Category),
		}
	}
	return out
}
