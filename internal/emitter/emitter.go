// Package emitter pushes completed episodes onto the shared trajectory queue
// consumed by the learner.
package emitter

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/cartridge/sampler/internal/buffer"
)

// QueueKey is the list key the learner drains.
const QueueKey = "trajectories"

// record is the wire format: a msgpack 4-tuple of equal-length sequences.
type record struct {
	_msgpack struct{} `msgpack:",as_array"`

	Observations [][]float64
	Actions      []int
	Rewards      []float64
	Dones        []bool
}

// Emitter appends serialized episodes to the tail of the trajectory queue.
// Fire-and-forget: no acknowledgment and no retry; the learner owns
// reliability from there.
type Emitter struct {
	client redis.Cmdable
}

// New creates an emitter on top of a redis client.
func New(client redis.Cmdable) *Emitter {
	return &Emitter{client: client}
}

// Push serializes the episode and appends it to the queue.
func (e *Emitter) Push(ctx context.Context, ep buffer.Episode) error {
	payload, err := msgpack.Marshal(record{
		Observations: ep.Observations,
		Actions:      ep.Actions,
		Rewards:      ep.Rewards,
		Dones:        ep.Dones,
	})
	if err != nil {
		return fmt.Errorf("failed to encode episode: %w", err)
	}
	if err := e.client.RPush(ctx, QueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to push episode: %w", err)
	}
	return nil
}

// Decode parses a queue entry back into an episode. This is the read side
// used by the learner and by tests.
func Decode(payload []byte) (buffer.Episode, error) {
	var rec record
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return buffer.Episode{}, fmt.Errorf("failed to decode episode: %w", err)
	}
	return buffer.Episode{
		Observations: rec.Observations,
		Actions:      rec.Actions,
		Rewards:      rec.Rewards,
		Dones:        rec.Dones,
	}, nil
}
