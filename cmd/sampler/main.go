package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cartridge/sampler/internal/config"
	"github.com/cartridge/sampler/internal/emitter"
	"github.com/cartridge/sampler/internal/env"
	"github.com/cartridge/sampler/internal/estimator"
	"github.com/cartridge/sampler/internal/metrics"
	"github.com/cartridge/sampler/internal/sampler"
	"github.com/cartridge/sampler/internal/weights"
)

var cfg *config.Config
var enableMetrics bool

var rootCmd = &cobra.Command{
	Use:   "sampler",
	Short: "Off-policy RL sampler",
	Long: `Sampler runs environment episodes with an epsilon-greedy action-value
estimator and collects experience data.

Estimator weights are refreshed from a checkpoint file or a shared redis
store written by the learner, and completed trajectories are appended to
the shared queue the learner consumes.`,
	Run: runSampler,
}

func init() {
	cfg = config.Default()

	// Identity
	rootCmd.Flags().IntVar(&cfg.ID, "id", cfg.ID, "Sampler index, offsets the base seed")
	rootCmd.Flags().StringVar(&cfg.Mode, "mode", cfg.Mode, "Run mode (train or infer)")

	// Weight backend (mutually exclusive)
	rootCmd.Flags().StringVar(&cfg.CheckpointPath, "checkpoint", cfg.CheckpointPath, "Checkpoint file to load weights from (clears --redis-addr)")
	rootCmd.Flags().StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the shared weight store and trajectory queue")
	rootCmd.Flags().StringVar(&cfg.RedisPrefix, "redis-prefix", cfg.RedisPrefix, "Key prefix for the shared weight store")

	// Episode settings
	rootCmd.Flags().IntVar(&cfg.BufferCapacity, "buffer-capacity", cfg.BufferCapacity, "Maximum transitions per episode")
	rootCmd.Flags().IntVar(&cfg.HistoryLen, "history-len", cfg.HistoryLen, "Observation frames stacked into the estimator state")
	rootCmd.Flags().IntVar(&cfg.SyncPeriod, "sync-period", cfg.SyncPeriod, "Episodes between weight reloads")
	rootCmd.Flags().IntVar(&cfg.EpisodeLimit, "episode-limit", cfg.EpisodeLimit, "Episodes to run (0 for unlimited)")
	rootCmd.Flags().BoolVar(&cfg.ForceStore, "force-store", cfg.ForceStore, "Store trajectories even in infer mode")

	// Exploration schedule
	rootCmd.Flags().Float64Var(&cfg.EpsInit, "eps-init", cfg.EpsInit, "Initial exploration rate")
	rootCmd.Flags().Float64Var(&cfg.EpsFinal, "eps-final", cfg.EpsFinal, "Final exploration rate")
	rootCmd.Flags().IntVar(&cfg.DecaySteps, "decay-steps", cfg.DecaySteps, "Environment steps to anneal epsilon over")

	// Seeding
	rootCmd.Flags().Int64SliceVar(&cfg.SeedPool, "seeds", cfg.SeedPool, "Fixed pool of episode seeds (empty for fresh draws)")

	// Logging
	rootCmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&enableMetrics, "metrics", true, "Emit per-episode scalar metrics")

	// Bind flags to viper for environment variable support
	viper.BindPFlags(rootCmd.Flags())
	viper.SetEnvPrefix("SAMPLER")
	viper.AutomaticEnv()
}

func runSampler(cmd *cobra.Command, args []string) {
	// A checkpoint flag replaces the default redis backend.
	if cmd.Flags().Changed("checkpoint") && !cmd.Flags().Changed("redis-addr") {
		cfg.RedisAddr = ""
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level %q: %v\n", cfg.LogLevel, err)
		os.Exit(1)
	}
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	environment := env.NewCartpole()
	if cfg.Actions != environment.Actions() {
		logger.Fatal().
			Int("configured", cfg.Actions).
			Int("environment", environment.Actions()).
			Msg("action space mismatch")
	}

	var client *redis.Client
	if cfg.RedisAddr != "" {
		client = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
	}

	var source weights.Source
	if client != nil {
		source, err = weights.New("", cfg.RedisPrefix, client)
	} else {
		source, err = weights.New(cfg.CheckpointPath, "", nil)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure weight source")
	}

	var emit sampler.Emitter
	if client != nil {
		emit = emitter.New(client)
	}

	var collector *metrics.Collector
	if enableMetrics {
		collector = metrics.NewCollector(logger)
	}

	est := estimator.NewLinear(cfg.Actions, cfg.HistoryLen*environment.ObservationSize())

	s, err := sampler.New(cfg, environment, est, source, emit, collector, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create sampler")
	}

	// Cancellation is coarse: the loop stops between episodes.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("shutdown signal received, stopping sampler")
		cancel()
	}()

	if err := s.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatal().Err(err).Msg("sampler failed")
	}

	logger.Info().Msg("sampler stopped")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
