// Package sampler runs the data-collection loop: it drives an environment
// with an action-value estimator, records transitions, periodically refreshes
// estimator weights from the shared source, and emits completed trajectories
// for the learner.
package sampler

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cartridge/sampler/internal/buffer"
	"github.com/cartridge/sampler/internal/config"
	"github.com/cartridge/sampler/internal/env"
	"github.com/cartridge/sampler/internal/estimator"
	"github.com/cartridge/sampler/internal/exploration"
	"github.com/cartridge/sampler/internal/metrics"
	"github.com/cartridge/sampler/internal/weights"
)

// seedRange bounds every derived seed.
const seedRange = 1<<32 - 2

// seedBase offsets each sampler's base seed by its id so that parallel
// samplers draw decorrelated exploration streams.
const seedBase = 42

// Emitter appends a completed episode to the shared trajectory queue.
type Emitter interface {
	Push(ctx context.Context, ep buffer.Episode) error
}

// Sampler is a single data-collection actor. One sampler is one sequential
// control flow; many samplers coordinate only through the weight source and
// the trajectory queue.
type Sampler struct {
	cfg     *config.Config
	env     env.Environment
	est     estimator.Estimator
	source  weights.Source
	emitter Emitter
	expl    *exploration.Controller
	buf     *buffer.Buffer
	metrics *metrics.Collector
	logger  zerolog.Logger

	rng          *rand.Rand
	baseSeed     int64
	episodeIndex int
}

// New creates a sampler instance. The emitter and collector may be nil, which
// disables trajectory storage and metrics respectively.
func New(
	cfg *config.Config,
	environment env.Environment,
	est estimator.Estimator,
	source weights.Source,
	emitter Emitter,
	collector *metrics.Collector,
	logger zerolog.Logger,
) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	baseSeed := int64(seedBase + cfg.ID)
	rng := rand.New(rand.NewSource(baseSeed))

	return &Sampler{
		cfg:      cfg,
		env:      environment,
		est:      est,
		source:   source,
		emitter:  emitter,
		expl:     exploration.NewController(cfg.EpsInit, cfg.EpsFinal, cfg.DecaySteps, rng),
		buf:      buffer.New(cfg.BufferCapacity, environment.ObservationSize()),
		metrics:  collector,
		logger:   logger,
		rng:      rng,
		baseSeed: baseSeed,
	}, nil
}

// Run executes episodes until the episode limit is reached or the context is
// cancelled. Cancellation is coarse: it is checked between episodes, and an
// in-progress episode's transitions are lost on a kill.
func (s *Sampler) Run(ctx context.Context) error {
	s.logger.Info().
		Int("sampler_id", s.cfg.ID).
		Str("mode", s.cfg.Mode).
		Int("sync_period", s.cfg.SyncPeriod).
		Int("episode_limit", s.cfg.EpisodeLimit).
		Msg("sampler starting")

	s.episodeIndex = 1
	if err := s.loadWeights(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("context cancelled, stopping sampler")
			return ctx.Err()
		default:
		}

		seed, err := s.reset()
		if err != nil {
			return fmt.Errorf("failed to reset environment: %w", err)
		}

		result, err := s.runEpisode()
		if err != nil {
			return err
		}

		if s.shouldStore() {
			ep, err := s.buf.CompleteEpisode()
			if err != nil {
				return err
			}
			if err := s.emitter.Push(ctx, ep); err != nil {
				return fmt.Errorf("failed to emit episode: %w", err)
			}
		}

		s.logger.Info().
			Int("episode", s.episodeIndex).
			Str("episode_id", uuid.NewString()).
			Int("steps", result.steps).
			Float64("reward", result.reward).
			Float64("reward_origin", result.rewardOrigin).
			Int64("seed", seed).
			Float64("eps", s.expl.Epsilon()).
			Msg("episode complete")
		s.metrics.Episode(s.episodeIndex, result.steps, result.reward,
			result.rewardOrigin, result.elapsed)

		if s.cfg.EpisodeLimit > 0 && s.episodeIndex >= s.cfg.EpisodeLimit {
			s.logger.Info().Int("episodes", s.episodeIndex).Msg("episode limit reached, stopping")
			return nil
		}

		s.episodeIndex++
		if s.episodeIndex%s.cfg.SyncPeriod == 0 {
			if err := s.loadWeights(ctx); err != nil {
				return err
			}
		}
	}
}

type episodeResult struct {
	steps        int
	reward       float64
	rewardOrigin float64
	elapsed      time.Duration
}

// runEpisode steps the environment until a terminal transition.
func (s *Sampler) runEpisode() (episodeResult, error) {
	var res episodeResult
	start := time.Now()

	for {
		state := s.buf.State(s.cfg.HistoryLen)
		scores, err := s.est.Scores(state)
		if err != nil {
			return res, fmt.Errorf("estimator query failed: %w", err)
		}

		action := s.expl.Choose(estimator.Argmax(scores), s.cfg.Actions)
		s.expl.Step()

		out, err := s.env.Step(action)
		if err != nil {
			return res, fmt.Errorf("environment step failed: %w", err)
		}
		if err := s.buf.Push(out.Observation, action, out.Reward, out.Done); err != nil {
			return res, err
		}

		res.steps++
		res.reward += out.Reward
		res.rewardOrigin += out.RewardOrigin

		if out.Done {
			break
		}
	}

	res.elapsed = time.Since(start)
	return res, nil
}

// reset runs the two-phase seeding protocol and resets the environment and
// buffer. Phase 1 reseeds the sampler's RNG with a per-actor decorrelation
// seed; phase 2 derives the episode seed, either a fresh draw or a pick from
// the fixed pool, and hands it to the environment.
func (s *Sampler) reset() (int64, error) {
	decorr := s.baseSeed + s.rng.Int63n(seedRange)
	s.rng.Seed(decorr)

	var seed int64
	if len(s.cfg.SeedPool) > 0 {
		seed = s.cfg.SeedPool[s.rng.Intn(len(s.cfg.SeedPool))]
	} else {
		seed = s.rng.Int63n(seedRange)
	}
	s.rng.Seed(seed)

	obs, err := s.env.Reset(seed)
	if err != nil {
		return 0, err
	}
	s.buf.Reset(obs)
	return seed, nil
}

// loadWeights fetches the full parameter set and installs it wholesale into
// the estimator in evaluation mode.
func (s *Sampler) loadWeights(ctx context.Context) error {
	w, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load weights: %w", err)
	}
	if err := s.est.SetWeights(w); err != nil {
		return fmt.Errorf("failed to install weights: %w", err)
	}
	s.est.Eval()
	s.logger.Debug().
		Int("episode", s.episodeIndex).
		Int("parameters", len(w)).
		Msg("weights loaded")
	return nil
}

// shouldStore reports whether completed episodes go to the trajectory queue.
// Infer mode suppresses storage unless force_store overrides it.
func (s *Sampler) shouldStore() bool {
	if s.emitter == nil {
		return false
	}
	return s.cfg.Mode != config.ModeInfer || s.cfg.ForceStore
}
