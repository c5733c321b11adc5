// Package buffer implements the single-episode transition store with
// history stacking.
package buffer

import (
	"errors"
	"fmt"
)

// ErrOverflow signals that an episode ran longer than the configured
// capacity. This is a misconfiguration, not a transient condition.
var ErrOverflow = errors.New("episode exceeds buffer capacity")

// ErrIncompleteEpisode signals that a complete episode was requested before
// a terminal transition was pushed.
var ErrIncompleteEpisode = errors.New("episode has no terminal transition")

// Episode holds the four parallel sequences of a finished episode. The
// slices are copies and stay valid after the buffer is reset.
type Episode struct {
	Observations [][]float64
	Actions      []int
	Rewards      []float64
	Dones        []bool
}

// Buffer stores one episode worth of transitions. All storage is allocated
// once at construction and reused across episodes via Reset.
type Buffer struct {
	capacity int
	obsSize  int

	// observations holds capacity+1 frames: frame 0 is the reset
	// observation, frame i+1 is the observation produced by transition i.
	observations [][]float64
	actions      []int
	rewards      []float64
	dones        []bool
	length       int
}

// New creates a buffer for episodes of at most capacity transitions, with
// observations of obsSize elements.
func New(capacity, obsSize int) *Buffer {
	backing := make([]float64, (capacity+1)*obsSize)
	observations := make([][]float64, capacity+1)
	for i := range observations {
		observations[i] = backing[i*obsSize : (i+1)*obsSize]
	}
	return &Buffer{
		capacity:     capacity,
		obsSize:      obsSize,
		observations: observations,
		actions:      make([]int, capacity),
		rewards:      make([]float64, capacity),
		dones:        make([]bool, capacity),
	}
}

// Reset discards any prior contents and seeds frame 0 with the reset
// observation.
func (b *Buffer) Reset(initial []float64) {
	copy(b.observations[0], initial)
	b.length = 0
}

// Len returns the number of transitions pushed since the last Reset.
func (b *Buffer) Len() int {
	return b.length
}

// Done reports whether the most recent transition was terminal.
func (b *Buffer) Done() bool {
	return b.length > 0 && b.dones[b.length-1]
}

// Push appends one transition. obs is the observation produced by the step.
func (b *Buffer) Push(obs []float64, action int, reward float64, done bool) error {
	if b.length >= b.capacity {
		return fmt.Errorf("%w: capacity %d", ErrOverflow, b.capacity)
	}
	if len(obs) != b.obsSize {
		return fmt.Errorf("observation size %d, want %d", len(obs), b.obsSize)
	}
	copy(b.observations[b.length+1], obs)
	b.actions[b.length] = action
	b.rewards[b.length] = reward
	b.dones[b.length] = done
	b.length++
	return nil
}

// State returns the last historyLen observation frames ending at the current
// frame. When fewer frames exist the window is left-padded by repeating the
// earliest observation. The returned slices alias buffer storage and are
// valid until the next Reset.
func (b *Buffer) State(historyLen int) [][]float64 {
	state := make([][]float64, historyLen)
	for i := 0; i < historyLen; i++ {
		frame := b.length - (historyLen - 1 - i)
		if frame < 0 {
			frame = 0
		}
		state[i] = b.observations[frame]
	}
	return state
}

// CompleteEpisode returns copies of the four parallel sequences for the
// finished episode. The i-th observation is the frame the agent acted on at
// step i. Fails unless the last transition was terminal.
func (b *Buffer) CompleteEpisode() (Episode, error) {
	if !b.Done() {
		return Episode{}, ErrIncompleteEpisode
	}
	ep := Episode{
		Observations: make([][]float64, b.length),
		Actions:      make([]int, b.length),
		Rewards:      make([]float64, b.length),
		Dones:        make([]bool, b.length),
	}
	for i := 0; i < b.length; i++ {
		obs := make([]float64, b.obsSize)
		copy(obs, b.observations[i])
		ep.Observations[i] = obs
	}
	copy(ep.Actions, b.actions[:b.length])
	copy(ep.Rewards, b.rewards[:b.length])
	copy(ep.Dones, b.dones[:b.length])
	return ep, nil
}
