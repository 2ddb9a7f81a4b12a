package inference

import (
	"fmt"

	"github.com/Veer-004/go-triage/internal/artifact"
)

const (
	fieldVocabSize  = 1
	fieldEmbedDim   = 2
	fieldNumClasses = 3
	fieldMaxLen     = 4
	fieldEmbedding  = 5
	fieldWeight     = 6
	fieldBias       = 7
)

// maxDim bounds each serialized dimension so a corrupt header cannot
// request an absurd allocation.
const maxDim = 1 << 24

// MarshalBinary encodes the model shape and parameters as an artifact payload.
func (m *Model) MarshalBinary() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	b := make([]byte, 0, 4*(len(m.Embedding)+len(m.Weight)+len(m.Bias))+64)
	b = artifact.AppendUint(b, fieldVocabSize, uint64(m.VocabSize))
	b = artifact.AppendUint(b, fieldEmbedDim, uint64(m.EmbedDim))
	b = artifact.AppendUint(b, fieldNumClasses, uint64(m.NumClasses))
	b = artifact.AppendUint(b, fieldMaxLen, uint64(m.MaxLen))
	b = artifact.AppendFloats(b, fieldEmbedding, m.Embedding)
	b = artifact.AppendFloats(b, fieldWeight, m.Weight)
	b = artifact.AppendFloats(b, fieldBias, m.Bias)
	return b, nil
}

// UnmarshalModel decodes a payload written by MarshalBinary.
func UnmarshalModel(data []byte) (*Model, error) {
	m := &Model{}
	err := artifact.Walk(data, func(f artifact.Field) error {
		var err error
		switch f.Num {
		case fieldVocabSize:
			m.VocabSize, err = dim(f.Varint)
		case fieldEmbedDim:
			m.EmbedDim, err = dim(f.Varint)
		case fieldNumClasses:
			m.NumClasses, err = dim(f.Varint)
		case fieldMaxLen:
			m.MaxLen, err = dim(f.Varint)
		case fieldEmbedding:
			m.Embedding, err = artifact.ParseFloats(f.Bytes)
		case fieldWeight:
			m.Weight, err = artifact.ParseFloats(f.Bytes)
		case fieldBias:
			m.Bias, err = artifact.ParseFloats(f.Bytes)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func dim(v uint64) (int, error) {
	if v > maxDim {
		return 0, fmt.Errorf("%w: dimension %d too large", ErrShapeMismatch, v)
	}
	return int(v), nil
}
