// Package estimator defines the action-value boundary the sampler drives and
// a linear reference implementation.
package estimator

import (
	"github.com/cartridge/sampler/internal/weights"
)

// Estimator maps a stacked observation (historyLen frames of equal size) to
// one score per action. Training happens elsewhere; the sampler only queries
// and installs weights.
type Estimator interface {
	// Scores returns the per-action values for the given stacked state.
	Scores(state [][]float64) ([]float64, error)

	// SetWeights replaces the full parameter set. No partial merge.
	SetWeights(w weights.Weights) error

	// Eval switches the estimator to evaluation mode, disabling any
	// stochastic regularization.
	Eval()
}

// Argmax returns the index of the largest score, preferring the first on
// ties.
func Argmax(scores []float64) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}
