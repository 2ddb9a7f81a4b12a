// Package inference implements the bag-of-embeddings classifier and the
// session pool used to serve it.
package inference

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

var (
	// ErrPoolClosed indicates Acquire was called on a closed pool.
	ErrPoolClosed = errors.New("inference: pool closed")

	// ErrShapeMismatch indicates an input or parameter buffer has the wrong size.
	ErrShapeMismatch = errors.New("inference: shape mismatch")
)

// Model is an embedding table followed by a mean-pool and a linear map.
// Word order is ignored. PAD positions are averaged like any other id, so
// the PAD embedding participates in every prediction.
//
// Parameters are row-major:
//
//	Embedding [VocabSize][EmbedDim]
//	Weight    [EmbedDim][NumClasses]
//	Bias      [NumClasses]
//
// A Model is only mutated by the trainer that created it; afterwards it is
// read-only and may be shared by any number of goroutines.
type Model struct {
	VocabSize  int
	EmbedDim   int
	NumClasses int
	MaxLen     int

	Embedding []float32
	Weight    []float32
	Bias      []float32
}

// NewModel creates a model with freshly initialized parameters: embeddings
// drawn from N(0, 1) and the linear map from U(-1/sqrt(EmbedDim), 1/sqrt(EmbedDim)).
func NewModel(vocabSize, embedDim, numClasses, maxLen int, rng *rand.Rand) (*Model, error) {
	m := &Model{
		VocabSize:  vocabSize,
		EmbedDim:   embedDim,
		NumClasses: numClasses,
		MaxLen:     maxLen,
	}
	if err := m.validateDims(); err != nil {
		return nil, err
	}
	m.Embedding = make([]float32, vocabSize*embedDim)
	m.Weight = make([]float32, embedDim*numClasses)
	m.Bias = make([]float32, numClasses)

	for i := range m.Embedding {
		m.Embedding[i] = float32(rng.NormFloat64())
	}

	bound := 1 / math.Sqrt(float64(embedDim))
	for i := range m.Weight {
		m.Weight[i] = float32((2*rng.Float64() - 1) * bound)
	}
	for i := range m.Bias {
		m.Bias[i] = float32((2*rng.Float64() - 1) * bound)
	}

	return m, nil
}

// Validate checks that the dimensions are positive and that the parameter
// slices match them.
func (m *Model) Validate() error {
	if err := m.validateDims(); err != nil {
		return err
	}
	if len(m.Embedding) != m.VocabSize*m.EmbedDim {
		return fmt.Errorf("%w: embedding has %d values, want %d", ErrShapeMismatch, len(m.Embedding), m.VocabSize*m.EmbedDim)
	}
	if len(m.Weight) != m.EmbedDim*m.NumClasses {
		return fmt.Errorf("%w: weight has %d values, want %d", ErrShapeMismatch, len(m.Weight), m.EmbedDim*m.NumClasses)
	}
	if len(m.Bias) != m.NumClasses {
		return fmt.Errorf("%w: bias has %d values, want %d", ErrShapeMismatch, len(m.Bias), m.NumClasses)
	}
	return nil
}

func (m *Model) validateDims() error {
	if m.VocabSize < 2 || m.EmbedDim < 1 || m.NumClasses < 1 || m.MaxLen < 1 {
		return fmt.Errorf("%w: vocab=%d dim=%d classes=%d max_len=%d",
			ErrShapeMismatch, m.VocabSize, m.EmbedDim, m.NumClasses, m.MaxLen)
	}
	return nil
}

// Finite reports whether every parameter is a finite number.
func (m *Model) Finite() bool {
	for _, params := range [][]float32{m.Embedding, m.Weight, m.Bias} {
		for _, v := range params {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return false
			}
		}
	}
	return true
}

// Forward computes the pooled sentence vector and the class scores for one
// encoded sequence. pooled must hold EmbedDim values and logits NumClasses
// values; both are overwritten.
func (m *Model) Forward(ids []int32, pooled, logits []float32) error {
	if len(ids) != m.MaxLen {
		return fmt.Errorf("%w: got %d ids, want %d", ErrShapeMismatch, len(ids), m.MaxLen)
	}
	if len(pooled) != m.EmbedDim || len(logits) != m.NumClasses {
		return fmt.Errorf("%w: scratch buffers", ErrShapeMismatch)
	}

	d := m.EmbedDim
	clear(pooled)
	for _, id := range ids {
		if id < 0 || int(id) >= m.VocabSize {
			return fmt.Errorf("%w: id %d outside vocabulary of %d", ErrShapeMismatch, id, m.VocabSize)
		}
		row := m.Embedding[int(id)*d : (int(id)+1)*d]
		for j, v := range row {
			pooled[j] += v
		}
	}
	inv := 1 / float32(len(ids))
	for j := range pooled {
		pooled[j] *= inv
	}

	c := m.NumClasses
	copy(logits, m.Bias)
	for j, p := range pooled {
		w := m.Weight[j*c : (j+1)*c]
		for k, v := range w {
			logits[k] += p * v
		}
	}

	return nil
}

// Predict runs Forward with freshly allocated buffers and returns the
// arg-max class and the scores.
func (m *Model) Predict(ids []int32) (int, []float32, error) {
	pooled := make([]float32, m.EmbedDim)
	logits := make([]float32, m.NumClasses)
	if err := m.Forward(ids, pooled, logits); err != nil {
		return 0, nil, err
	}
	return Argmax(logits), logits, nil
}

// Argmax returns the index of the largest score. Ties resolve to the
// lowest index; an empty slice returns -1.
func Argmax(scores []float32) int {
	best := -1
	for i, s := range scores {
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best
}

// Softmax writes the normalized exponentials of scores into dst.
func Softmax(dst, scores []float32) {
	if len(scores) == 0 {
		return
	}
	maxVal := scores[0]
	for _, s := range scores[1:] {
		if s > maxVal {
			maxVal = s
		}
	}

	var sum float64
	for i, s := range scores {
		e := math.Exp(float64(s - maxVal))
		dst[i] = float32(e)
		sum += e
	}
	for i := range dst[:len(scores)] {
		dst[i] = float32(float64(dst[i]) / sum)
	}
}
