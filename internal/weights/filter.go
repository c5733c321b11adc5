package weights

import "strings"

// Filter returns a copy of w without parameters whose names contain any of
// the excluded substrings. Used by consumers that sync partial weights, for
// example skipping normalization and recurrent parameters with
// Filter(w, "norm", "lstm"). The sampler loop itself always installs the
// full set.
func Filter(w Weights, exclude ...string) Weights {
	out := make(Weights, len(w))
	for name, blob := range w {
		skip := false
		for _, substr := range exclude {
			if strings.Contains(name, substr) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		clone := make([]float64, len(blob))
		copy(clone, blob)
		out[name] = clone
	}
	return out
}
