// Package weights fetches estimator parameters from exactly one of two
// backends: a checkpoint file or a shared redis store written by the learner.
package weights

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrBackendConfig signals that zero or both weight backends were configured.
var ErrBackendConfig = errors.New("exactly one weight backend must be configured")

// ErrWeightsUnavailable signals a missing or undecodable weight blob in the
// shared store.
var ErrWeightsUnavailable = errors.New("weights unavailable in shared store")

// Weights maps parameter names to flat numeric blobs.
type Weights map[string][]float64

// Source loads the full parameter set. The caller installs it into the
// estimator wholesale; there is no partial merge.
type Source interface {
	Load(ctx context.Context) (Weights, error)
}

// New selects the backend from the configuration: a non-empty checkpoint
// path or a redis client with a key prefix, never both, never neither.
func New(checkpointPath, prefix string, client redis.Cmdable) (Source, error) {
	switch {
	case checkpointPath != "" && client != nil:
		return nil, fmt.Errorf("%w: both checkpoint and store given", ErrBackendConfig)
	case checkpointPath != "":
		return &CheckpointSource{path: checkpointPath}, nil
	case client != nil:
		return &StoreSource{client: client, prefix: prefix}, nil
	default:
		return nil, ErrBackendConfig
	}
}

// CheckpointSource reads named parameters from a fixed file path. Every
// reload re-reads the same path.
type CheckpointSource struct {
	path string
}

// Load implements Source.
func (s *CheckpointSource) Load(ctx context.Context) (Weights, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint %s: %w", s.path, err)
	}
	var w Weights
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint %s: %w", s.path, err)
	}
	return w, nil
}

// StoreSource fetches a serialized blob from the shared store under
// "{prefix}_weights". The learner is the sole writer; stale reads between
// sync points are expected.
type StoreSource struct {
	client redis.Cmdable
	prefix string
}

// Key returns the store key the source reads from.
func (s *StoreSource) Key() string {
	return s.prefix + "_weights"
}

// Load implements Source.
func (s *StoreSource) Load(ctx context.Context) (Weights, error) {
	data, err := s.client.Get(ctx, s.Key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: key %s not set", ErrWeightsUnavailable, s.Key())
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", s.Key(), err)
	}
	var w Weights
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWeightsUnavailable, err)
	}
	return w, nil
}

// Publish serializes a parameter set and writes it under "{prefix}_weights".
// This is the learner-side write path matching StoreSource.Load.
func Publish(ctx context.Context, client redis.Cmdable, prefix string, w Weights) error {
	data, err := msgpack.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to encode weights: %w", err)
	}
	if err := client.Set(ctx, prefix+"_weights", data, 0).Err(); err != nil {
		return fmt.Errorf("failed to publish weights: %w", err)
	}
	return nil
}

// WriteCheckpoint serializes a parameter set to a checkpoint file readable
// by CheckpointSource.
func WriteCheckpoint(path string, w Weights) error {
	data, err := msgpack.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint %s: %w", path, err)
	}
	return nil
}
