package tokenizer

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"simple", "There is a huge pothole", []string{"there", "is", "a", "huge", "pothole"}},
		{"punctuation", "Garbage!!! near, the park.", []string{"garbage", "near", "the", "park"}},
		{"digits and underscore", "Road_42 blocked 3 days", []string{"road_42", "blocked", "3", "days"}},
		{"hyphen splits", "pot-hole", []string{"pot", "hole"}},
		{"apostrophe splits", "don't", []string{"don", "t"}},
		{"mixed case", "StreetLight OUT", []string{"streetlight", "out"}},
		{"unicode letters", "Café ÉCOLE", []string{"café", "école"}},
		{"whitespace runs", "  water \t\n leak  ", []string{"water", "leak"}},
		{"empty string", "", nil},
		{"punctuation only", "?!... ---", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.input)
			if len(got) == 0 && len(tc.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Tokenize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestTokenize_Idempotent(t *testing.T) {
	inputs := []string{
		"the park bench is broken",
		"Sewage overflow near Block 7, since Monday!",
		"no_water supply 24x7",
		"",
	}

	for _, in := range inputs {
		first := Tokenize(in)
		second := Tokenize(strings.Join(first, " "))
		if len(first) == 0 && len(second) == 0 {
			continue
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Tokenize not idempotent for %q: %q then %q", in, first, second)
		}
	}
}

func TestTokenize_Deterministic(t *testing.T) {
	text := "Broken streetlight on 5th avenue, very dark at night"
	a := Tokenize(text)
	b := Tokenize(text)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Tokenize returned different results: %q vs %q", a, b)
	}
}
