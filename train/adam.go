package train

import "math"

// adam implements the Adam optimizer with bias correction and no weight
// decay. It updates parameter slices in place from matching gradient
// slices; the trainer is its only caller, so there is no locking.
//
//	m = β1*m + (1-β1)*g
//	v = β2*v + (1-β2)*g²
//	θ = θ - lr * m̂ / (sqrt(v̂) + eps)
type adam struct {
	params [][]float32
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	step   int

	m [][]float32
	v [][]float32
}

func newAdam(params [][]float32, cfg Config) *adam {
	m := make([][]float32, len(params))
	v := make([][]float32, len(params))
	for i, p := range params {
		m[i] = make([]float32, len(p))
		v[i] = make([]float32, len(p))
	}
	return &adam{
		params: params,
		lr:     cfg.LearningRate,
		beta1:  cfg.Beta1,
		beta2:  cfg.Beta2,
		eps:    cfg.Epsilon,
		m:      m,
		v:      v,
	}
}

// update applies one step. grads[i] must have the length of params[i].
func (a *adam) update(grads [][]float32) {
	a.step++
	t := float64(a.step)

	bc1 := 1 - math.Pow(a.beta1, t)
	bc2 := 1 - math.Pow(a.beta2, t)
	b1 := float32(a.beta1)
	b2 := float32(a.beta2)

	for i, p := range a.params {
		g := grads[i]
		m := a.m[i]
		v := a.v[i]
		for j := range p {
			m[j] = b1*m[j] + (1-b1)*g[j]
			v[j] = b2*v[j] + (1-b2)*g[j]*g[j]

			mHat := float64(m[j]) / bc1
			vHat := float64(v[j]) / bc2
			p[j] -= float32(a.lr * mHat / (math.Sqrt(vHat) + a.eps))
		}
	}
}
