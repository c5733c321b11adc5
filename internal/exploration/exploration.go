// Package exploration implements the epsilon-greedy decay schedule used by the sampler.
package exploration

import (
	"math"
	"math/rand"
)

// Controller anneals epsilon linearly from an initial value down to a floor.
// Decay is continuous across the whole run: Step is called once per environment
// step, never per episode, and epsilon never resets.
type Controller struct {
	eps      float64
	delta    float64
	epsFinal float64
	rng      *rand.Rand
}

// NewController creates a controller that decays epsilon from epsInit to
// epsFinal over decaySteps environment steps. The RNG is shared with the
// caller so that reseeding it reseeds exploration too.
func NewController(epsInit, epsFinal float64, decaySteps int, rng *rand.Rand) *Controller {
	return &Controller{
		eps:      epsInit,
		delta:    (epsInit - epsFinal) / float64(decaySteps),
		epsFinal: epsFinal,
		rng:      rng,
	}
}

// Epsilon returns the current exploration rate.
func (c *Controller) Epsilon() float64 {
	return c.eps
}

// Step advances the decay schedule by one environment step.
func (c *Controller) Step() {
	c.eps = math.Max(c.eps-c.delta, c.epsFinal)
}

// Choose returns a uniformly random action in [0, actions) with probability
// epsilon, otherwise the greedy action.
func (c *Controller) Choose(greedy, actions int) int {
	if c.rng.Float64() < c.eps {
		return c.rng.Intn(actions)
	}
	return greedy
}
