package env

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	gravity        = 9.81
	massCart       = 1.0
	massPole       = 0.1
	poleLength     = 0.5
	totalMass      = massCart + massPole
	poleMassLength = massPole * poleLength
	forceMax       = 10.0
	tau            = 0.02

	xThreshold     = 2.4
	thetaThreshold = 12.0 * math.Pi / 180.0
	cartpoleSteps  = 500
)

// Cartpole is the classic pole-balancing task: two actions (push left,
// push right), reward 1 per step survived, episode capped at 500 steps.
type Cartpole struct {
	x, xDot, theta, thetaDot float64
	steps                    int
	rng                      *rand.Rand
}

// NewCartpole creates an unstarted cartpole environment. Reset must be
// called before Step.
func NewCartpole() *Cartpole {
	return &Cartpole{rng: rand.New(rand.NewSource(0))}
}

// ObservationSize implements Environment.
func (c *Cartpole) ObservationSize() int { return 4 }

// Actions implements Environment.
func (c *Cartpole) Actions() int { return 2 }

// Reset implements Environment. The seed fully determines the initial state.
func (c *Cartpole) Reset(seed int64) ([]float64, error) {
	c.rng.Seed(seed)
	c.x = c.rng.Float64()*0.1 - 0.05
	c.xDot = c.rng.Float64()*0.1 - 0.05
	c.theta = c.rng.Float64()*0.1 - 0.05
	c.thetaDot = c.rng.Float64()*0.1 - 0.05
	c.steps = 0
	return c.observation(), nil
}

// Step implements Environment.
func (c *Cartpole) Step(action int) (Outcome, error) {
	if action < 0 || action >= c.Actions() {
		return Outcome{}, fmt.Errorf("action %d out of range [0, %d)", action, c.Actions())
	}

	force := forceMax
	if action == 0 {
		force = -forceMax
	}

	cosTheta := math.Cos(c.theta)
	sinTheta := math.Sin(c.theta)

	temp := (force + poleMassLength*c.thetaDot*c.thetaDot*sinTheta) / totalMass
	thetaAcc := (gravity*sinTheta - cosTheta*temp) /
		(poleLength * (4.0/3.0 - massPole*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thetaAcc*cosTheta/totalMass

	c.x += tau * c.xDot
	c.xDot += tau * xAcc
	c.theta += tau * c.thetaDot
	c.thetaDot += tau * thetaAcc
	c.steps++

	fell := c.x < -xThreshold || c.x > xThreshold ||
		c.theta < -thetaThreshold || c.theta > thetaThreshold
	done := fell || c.steps >= cartpoleSteps

	reward := 1.0
	if fell {
		reward = 0.0
	}

	return Outcome{
		Observation:  c.observation(),
		Reward:       reward,
		RewardOrigin: reward,
		Done:         done,
	}, nil
}

func (c *Cartpole) observation() []float64 {
	return []float64{c.x, c.xDot, c.theta, c.thetaDot}
}
