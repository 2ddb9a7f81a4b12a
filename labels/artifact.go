package labels

import (
	"fmt"

	"github.com/Veer-004/go-triage/internal/artifact"
)

const fieldLabel = 1

// MarshalBinary encodes the codec as an artifact payload, labels in class id order.
func (c *Codec) MarshalBinary() ([]byte, error) {
	return artifact.AppendStrings(nil, fieldLabel, c.labels), nil
}

// UnmarshalCodec decodes a payload written by MarshalBinary.
func UnmarshalCodec(data []byte) (*Codec, error) {
	var names []string
	err := artifact.Walk(data, func(f artifact.Field) error {
		if f.Num == fieldLabel {
			names = append(names, string(f.Bytes))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing labels: %w", err)
	}

	c := Fit(names)
	if c.Len() != len(names) {
		return nil, fmt.Errorf("%w: duplicate labels", ErrInvalidCodec)
	}
	return c, nil
}
