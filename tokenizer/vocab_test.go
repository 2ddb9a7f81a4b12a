package tokenizer

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Veer-004/go-triage/internal/artifact"
)

func TestBuildVocabulary_Order(t *testing.T) {
	corpus := [][]string{
		{"water", "leak", "road"},
		{"road", "pothole", "water"},
		{"road", "light"},
	}

	v := BuildVocabulary(corpus)

	// road=3, water=2, then leak/pothole/light (1 each) in first-seen order
	expected := []string{PadToken, UnkToken, "road", "water", "leak", "pothole", "light"}
	if v.Size() != len(expected) {
		t.Fatalf("expected size %d, got %d", len(expected), v.Size())
	}
	for id, tok := range expected {
		got, ok := v.Token(int32(id))
		if !ok || got != tok {
			t.Errorf("id %d: expected %q, got %q (ok=%v)", id, tok, got, ok)
		}
		if v.ID(tok) != int32(id) {
			t.Errorf("ID(%q) = %d, want %d", tok, v.ID(tok), id)
		}
	}
}

func TestBuildVocabulary_Empty(t *testing.T) {
	v := BuildVocabulary(nil)
	if v.Size() != 2 {
		t.Fatalf("expected only PAD and UNK, got size %d", v.Size())
	}
	if v.ID(PadToken) != PadID {
		t.Errorf("expected PAD id %d, got %d", PadID, v.ID(PadToken))
	}
	if v.ID(UnkToken) != UnkID {
		t.Errorf("expected UNK id %d, got %d", UnkID, v.ID(UnkToken))
	}
}

func TestBuildVocabulary_ReservedTokensIgnored(t *testing.T) {
	v := BuildVocabulary([][]string{{PadToken, "a", UnkToken, PadToken}})
	if v.Size() != 3 {
		t.Fatalf("expected size 3, got %d", v.Size())
	}
	if v.ID("a") != 2 {
		t.Errorf("expected id 2 for %q, got %d", "a", v.ID("a"))
	}
}

func TestVocabulary_Lookup(t *testing.T) {
	v := BuildVocabulary([][]string{{"garbage"}})

	if id, ok := v.Lookup("garbage"); !ok || id != 2 {
		t.Errorf("Lookup(garbage) = %d, %v", id, ok)
	}
	if _, ok := v.Lookup("missing"); ok {
		t.Error("expected missing token to be absent")
	}
	if v.ID("missing") != UnkID {
		t.Errorf("expected UNK for missing token, got %d", v.ID("missing"))
	}
	if _, ok := v.Token(-1); ok {
		t.Error("expected negative id to be absent")
	}
	if _, ok := v.Token(int32(v.Size())); ok {
		t.Error("expected out-of-range id to be absent")
	}
}

func TestEncode(t *testing.T) {
	v := BuildVocabulary([][]string{{"road", "water", "road"}})
	road, water := v.ID("road"), v.ID("water")

	tests := []struct {
		name     string
		tokens   []string
		maxLen   int
		expected []int32
	}{
		{"pads short input", []string{"road"}, 4, []int32{road, PadID, PadID, PadID}},
		{"truncates long input", []string{"water", "road", "water"}, 2, []int32{water, road}},
		{"unknown tokens", []string{"tree", "road"}, 3, []int32{UnkID, road, PadID}},
		{"empty input", nil, 3, []int32{PadID, PadID, PadID}},
		{"exact length", []string{"road", "water"}, 2, []int32{road, water}},
		{"zero length", []string{"road"}, 0, []int32{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Encode(tc.tokens, v, tc.maxLen)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Encode(%q, %d) = %v, want %v", tc.tokens, tc.maxLen, got, tc.expected)
			}
		})
	}
}

func TestEncode_AlwaysMaxLen(t *testing.T) {
	v := BuildVocabulary([][]string{Tokenize("the drain is blocked near the market")})
	texts := []string{
		"",
		"!!!",
		"drain",
		"the drain is blocked near the market and it smells really bad every single morning",
	}

	for _, maxLen := range []int{1, 5, 20} {
		for _, text := range texts {
			got := Encode(Tokenize(text), v, maxLen)
			if len(got) != maxLen {
				t.Errorf("Encode(%q, %d) has length %d", text, maxLen, len(got))
			}
		}
	}
}

func TestVocabulary_MarshalRoundTrip(t *testing.T) {
	v := BuildVocabulary([][]string{{"sewage", "drain", "sewage"}})

	data, err := v.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	got, err := UnmarshalVocabulary(data)
	if err != nil {
		t.Fatalf("UnmarshalVocabulary failed: %v", err)
	}
	if !reflect.DeepEqual(got.tokens, v.tokens) {
		t.Errorf("tokens mismatch: got %q, want %q", got.tokens, v.tokens)
	}
	if got.ID("drain") != v.ID("drain") {
		t.Errorf("id mismatch for drain")
	}
}

func TestUnmarshalVocabulary_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
	}{
		{"empty", nil},
		{"missing unk", []string{PadToken, "road"}},
		{"swapped reserved", []string{UnkToken, PadToken}},
		{"duplicate", []string{PadToken, UnkToken, "road", "road"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := artifact.AppendStrings(nil, fieldToken, tc.tokens)
			_, err := UnmarshalVocabulary(data)
			if !errors.Is(err, ErrInvalidVocabulary) {
				t.Errorf("expected ErrInvalidVocabulary, got %v", err)
			}
		})
	}
}
