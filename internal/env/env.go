// Package env defines the environment boundary the sampler steps through.
package env

// Outcome is the result of one environment step. RewardOrigin is an
// optional side channel carrying the unshaped reward; environments without
// one leave it zero.
type Outcome struct {
	Observation  []float64
	Reward       float64
	RewardOrigin float64
	Done         bool
}

// Environment is a discrete-action, episodic simulator. All calls are
// synchronous and blocking; failures are fatal to the sampler.
type Environment interface {
	// Reset starts a new episode with the given seed and returns the
	// initial observation. Equal seeds must produce equal episodes for a
	// fixed action sequence.
	Reset(seed int64) ([]float64, error)

	// Step applies an action in [0, Actions()).
	Step(action int) (Outcome, error)

	// ObservationSize is the number of values per observation.
	ObservationSize() int

	// Actions is the size of the discrete action space.
	Actions() int
}
