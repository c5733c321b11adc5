package exploration

import (
	"math/rand"
	"testing"
)

func TestController_Decay(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := NewController(1.0, 0.05, 100, rng)

	delta := (1.0 - 0.05) / 100.0
	prev := c.Epsilon()
	for i := 1; i <= 200; i++ {
		c.Step()
		eps := c.Epsilon()

		want := 1.0 - float64(i)*delta
		if want < 0.05 {
			want = 0.05
		}
		if diff := eps - want; diff > 1e-12 || diff < -1e-12 {
			t.Fatalf("after %d steps eps = %v, want %v", i, eps, want)
		}
		if eps > prev {
			t.Fatalf("eps increased from %v to %v at step %d", prev, eps, i)
		}
		if eps < 0.05 {
			t.Fatalf("eps %v dropped below floor at step %d", eps, i)
		}
		prev = eps
	}

	// Fully annealed: stuck at the floor.
	if c.Epsilon() != 0.05 {
		t.Errorf("expected eps at floor 0.05, got %v", c.Epsilon())
	}
}

func TestController_ChooseGreedyWhenAnnealed(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := NewController(0.0, 0.0, 1, rng)

	for i := 0; i < 100; i++ {
		if got := c.Choose(3, 5); got != 3 {
			t.Fatalf("eps=0 should always return the greedy action, got %d", got)
		}
	}
}

func TestController_ChooseExploresInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := NewController(1.0, 1.0, 1, rng)

	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		a := c.Choose(0, 4)
		if a < 0 || a >= 4 {
			t.Fatalf("action %d out of range [0, 4)", a)
		}
		seen[a] = true
	}
	if len(seen) < 2 {
		t.Errorf("eps=1 should produce varied actions, saw %d unique", len(seen))
	}
}
