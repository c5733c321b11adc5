// Package metrics emits the sampler's per-episode scalar series.
package metrics

import (
	"time"

	"github.com/rs/zerolog"
)

// Collector logs scalar time series keyed by episode index. A nil Collector
// disables metrics entirely.
type Collector struct {
	logger zerolog.Logger
}

// NewCollector creates a collector writing through the given logger.
func NewCollector(logger zerolog.Logger) *Collector {
	return &Collector{logger: logger}
}

// Episode records the scalars for one completed episode.
func (c *Collector) Episode(index, steps int, reward, rewardOrigin float64, elapsed time.Duration) {
	if c == nil {
		return
	}

	sec := elapsed.Seconds()
	var episodesPerMinute, stepsPerSecond, stepTimeSec float64
	if sec > 0 {
		episodesPerMinute = 60.0 / sec
		stepsPerSecond = float64(steps) / sec
	}
	if steps > 0 {
		stepTimeSec = sec / float64(steps)
	}

	c.logger.Info().
		Str("metric", "episode").
		Int("episode", index).
		Int("steps", steps).
		Float64("reward", reward).
		Float64("reward_origin", rewardOrigin).
		Float64("episodes_per_minute", episodesPerMinute).
		Float64("steps_per_second", stepsPerSecond).
		Float64("episode_time_sec", sec).
		Float64("episode_time_min", sec/60.0).
		Float64("step_time_sec", stepTimeSec).
		Msg("episode metrics")
}
