package tokenizer

import (
	"fmt"

	"github.com/Veer-004/go-triage/internal/artifact"
)

// fieldToken holds the vocabulary tokens in id order.
const fieldToken = 1

// MarshalBinary encodes the vocabulary as an artifact payload.
func (v *Vocabulary) MarshalBinary() ([]byte, error) {
	return artifact.AppendStrings(nil, fieldToken, v.tokens), nil
}

// UnmarshalVocabulary decodes a payload written by MarshalBinary.
func UnmarshalVocabulary(data []byte) (*Vocabulary, error) {
	var tokens []string
	err := artifact.Walk(data, func(f artifact.Field) error {
		if f.Num == fieldToken {
			tokens = append(tokens, string(f.Bytes))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing vocabulary: %w", err)
	}

	if len(tokens) < 2 || tokens[PadID] != PadToken || tokens[UnkID] != UnkToken {
		return nil, fmt.Errorf("%w: reserved tokens missing", ErrInvalidVocabulary)
	}

	v := newVocabulary(tokens)
	if len(v.ids) != len(tokens) {
		return nil, fmt.Errorf("%w: duplicate tokens", ErrInvalidVocabulary)
	}
	return v, nil
}
