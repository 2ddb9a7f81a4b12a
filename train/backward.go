package train

import "github.com/Veer-004/go-triage/inference"

// gradients mirrors the parameter layout of an inference.Model.
type gradients struct {
	embedding []float32
	weight    []float32
	bias      []float32

	// scratch
	pooled  []float32
	logits  []float32
	dLogits []float32
	dPooled []float32
}

func newGradients(m *inference.Model) *gradients {
	return &gradients{
		embedding: make([]float32, len(m.Embedding)),
		weight:    make([]float32, len(m.Weight)),
		bias:      make([]float32, len(m.Bias)),
		pooled:    make([]float32, m.EmbedDim),
		logits:    make([]float32, m.NumClasses),
		dLogits:   make([]float32, m.NumClasses),
		dPooled:   make([]float32, m.EmbedDim),
	}
}

func (g *gradients) slices() [][]float32 {
	return [][]float32{g.embedding, g.weight, g.bias}
}

func (g *gradients) zero() {
	clear(g.embedding)
	clear(g.weight)
	clear(g.bias)
}

// accumulate runs one example forward, adds scale times its loss gradient
// to g, and returns the unscaled cross-entropy loss.
//
// With pooled = mean(E[ids]) and logits = pooled·W + b:
//
//	dL/db      = dlogits
//	dL/dW[j,k] = pooled[j] * dlogits[k]
//	dL/dE[id]  = (W · dlogits) / len(ids), once per occurrence of id
func (g *gradients) accumulate(m *inference.Model, ids []int32, target int, scale float32) (float64, error) {
	if err := m.Forward(ids, g.pooled, g.logits); err != nil {
		return 0, err
	}
	loss := crossEntropy(g.logits, target, g.dLogits)

	d, c := m.EmbedDim, m.NumClasses
	for k := range g.dLogits {
		g.dLogits[k] *= scale
		g.bias[k] += g.dLogits[k]
	}

	inv := 1 / float32(len(ids))
	for j, p := range g.pooled {
		w := m.Weight[j*c : (j+1)*c]
		gw := g.weight[j*c : (j+1)*c]
		var s float32
		for k, dl := range g.dLogits {
			gw[k] += p * dl
			s += w[k] * dl
		}
		g.dPooled[j] = s * inv
	}

	for _, id := range ids {
		row := g.embedding[int(id)*d : (int(id)+1)*d]
		for j, dp := range g.dPooled {
			row[j] += dp
		}
	}

	return loss, nil
}
