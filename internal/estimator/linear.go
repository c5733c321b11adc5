package estimator

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cartridge/sampler/internal/weights"
)

// Parameter names expected by Linear.SetWeights.
const (
	WeightKey = "w"
	BiasKey   = "b"
)

// Linear scores actions with w·x + b over the flattened stacked state.
// Weight matrix rows = actions, cols = features (historyLen * obsSize).
type Linear struct {
	w        *mat.Dense
	b        *mat.VecDense
	actions  int
	features int
	eval     bool
}

// NewLinear creates a zero-initialized linear estimator.
func NewLinear(actions, features int) *Linear {
	return &Linear{
		w:        mat.NewDense(actions, features, nil),
		b:        mat.NewVecDense(actions, nil),
		actions:  actions,
		features: features,
	}
}

// SetWeights implements Estimator. Expects "w" as a row-major
// actions*features blob and "b" of length actions.
func (l *Linear) SetWeights(w weights.Weights) error {
	wBlob, ok := w[WeightKey]
	if !ok {
		return fmt.Errorf("missing parameter %q", WeightKey)
	}
	if len(wBlob) != l.actions*l.features {
		return fmt.Errorf("parameter %q has %d values, want %d",
			WeightKey, len(wBlob), l.actions*l.features)
	}
	bBlob, ok := w[BiasKey]
	if !ok {
		return fmt.Errorf("missing parameter %q", BiasKey)
	}
	if len(bBlob) != l.actions {
		return fmt.Errorf("parameter %q has %d values, want %d",
			BiasKey, len(bBlob), l.actions)
	}
	l.w = mat.NewDense(l.actions, l.features, append([]float64(nil), wBlob...))
	l.b = mat.NewVecDense(l.actions, append([]float64(nil), bBlob...))
	return nil
}

// Eval implements Estimator. A linear map has no stochastic regularization,
// so this only records the mode.
func (l *Linear) Eval() {
	l.eval = true
}

// Scores implements Estimator.
func (l *Linear) Scores(state [][]float64) ([]float64, error) {
	x := make([]float64, 0, l.features)
	for _, frame := range state {
		x = append(x, frame...)
	}
	if len(x) != l.features {
		return nil, fmt.Errorf("state has %d features, want %d", len(x), l.features)
	}

	scores := mat.NewVecDense(l.actions, nil)
	scores.MulVec(l.w, mat.NewVecDense(l.features, x))
	scores.AddVec(scores, l.b)
	return scores.RawVector().Data, nil
}
