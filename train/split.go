package train

import (
	"math"
	"math/rand/v2"
)

// splitIndices partitions 0..n-1 into training and validation indices
// using a seeded permutation. The validation set holds ceil(fraction*n)
// rows but never so many that training is left empty.
func splitIndices(n int, fraction float64, rng *rand.Rand) (trainIdx, valIdx []int) {
	perm := rng.Perm(n)

	nVal := int(math.Ceil(fraction * float64(n)))
	if nVal > n-1 {
		nVal = n - 1
	}
	if nVal < 0 {
		nVal = 0
	}

	return perm[nVal:], perm[:nVal]
}
