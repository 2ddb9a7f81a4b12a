package train

import (
	"fmt"
	"math"

	"github.com/Veer-004/go-triage/inference"
)

// crossEntropy returns -log softmax(logits)[target] and writes
// d(loss)/d(logits) = softmax(logits) - onehot(target) into grad.
// The loss is computed with log-sum-exp so it stays finite when the
// target probability underflows.
func crossEntropy(logits []float32, target int, grad []float32) float64 {
	maxVal := logits[0]
	for _, l := range logits[1:] {
		if l > maxVal {
			maxVal = l
		}
	}
	var sum float64
	for _, l := range logits {
		sum += math.Exp(float64(l - maxVal))
	}

	inference.Softmax(grad, logits)
	grad[target] -= 1

	return math.Log(sum) - float64(logits[target]-maxVal)
}

func checkFinite(loss float64, epoch, batch int) error {
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		return fmt.Errorf("%w: %v at epoch %d batch %d", ErrNonFiniteLoss, loss, epoch, batch)
	}
	return nil
}
