package tokenizer

import (
	"errors"
	"sort"
)

// Reserved vocabulary entries. Every Vocabulary contains both, and all
// corpus tokens get ids >= 2.
const (
	PadID int32 = 0
	UnkID int32 = 1

	PadToken = "<PAD>"
	UnkToken = "<UNK>"
)

// ErrInvalidVocabulary indicates a serialized vocabulary violates the
// reserved-id or uniqueness invariants.
var ErrInvalidVocabulary = errors.New("tokenizer: invalid vocabulary")

// Vocabulary maps tokens to dense integer ids. It is immutable once built
// and safe for concurrent use.
type Vocabulary struct {
	ids    map[string]int32 // token -> id
	tokens []string         // id -> token
}

// BuildVocabulary assigns ids to every token in corpus, most frequent
// first. Tokens with equal frequency keep the order in which they were
// first seen. An empty corpus yields a vocabulary of only PAD and UNK.
func BuildVocabulary(corpus [][]string) *Vocabulary {
	counts := make(map[string]int)
	var order []string

	for _, doc := range corpus {
		for _, tok := range doc {
			if tok == PadToken || tok == UnkToken {
				continue
			}
			if _, seen := counts[tok]; !seen {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	tokens := make([]string, 0, len(order)+2)
	tokens = append(tokens, PadToken, UnkToken)
	tokens = append(tokens, order...)

	return newVocabulary(tokens)
}

func newVocabulary(tokens []string) *Vocabulary {
	ids := make(map[string]int32, len(tokens))
	for i, tok := range tokens {
		ids[tok] = int32(i)
	}
	return &Vocabulary{ids: ids, tokens: tokens}
}

// ID returns the id of token, or UnkID if it is not in the vocabulary.
func (v *Vocabulary) ID(token string) int32 {
	if id, ok := v.ids[token]; ok {
		return id
	}
	return UnkID
}

// Lookup reports the id of token and whether it is in the vocabulary.
func (v *Vocabulary) Lookup(token string) (int32, bool) {
	id, ok := v.ids[token]
	return id, ok
}

// Token returns the token with the given id.
func (v *Vocabulary) Token(id int32) (string, bool) {
	if id < 0 || int(id) >= len(v.tokens) {
		return "", false
	}
	return v.tokens[id], true
}

// Size returns the number of ids, including PAD and UNK.
func (v *Vocabulary) Size() int {
	return len(v.tokens)
}

// Encode converts tokens to exactly maxLen vocabulary ids. The first maxLen
// tokens are kept in order, unknown tokens map to UnkID, and the remainder
// is right-padded with PadID.
func Encode(tokens []string, vocab *Vocabulary, maxLen int) []int32 {
	if maxLen <= 0 {
		return []int32{}
	}

	ids := make([]int32, maxLen)
	for i := range ids {
		if i < len(tokens) {
			ids[i] = vocab.ID(tokens[i])
		} else {
			ids[i] = PadID
		}
	}
	return ids
}
