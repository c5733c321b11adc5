package emitter

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartridge/sampler/internal/buffer"
)

func TestEmitter_PushAndDecode(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	ep := buffer.Episode{
		Observations: [][]float64{{0, 0}, {1, 1}, {2, 2}},
		Actions:      []int{1, 0, 1},
		Rewards:      []float64{0, 0.5, 1},
		Dones:        []bool{false, false, true},
	}

	e := New(client)
	require.NoError(t, e.Push(ctx, ep))
	require.NoError(t, e.Push(ctx, ep))

	entries, err := client.LRange(ctx, QueueKey, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	got, err := Decode([]byte(entries[0]))
	require.NoError(t, err)
	assert.Equal(t, ep, got)
}

func TestEmitter_QueueOrder(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	e := New(client)
	for i := 0; i < 3; i++ {
		ep := buffer.Episode{
			Observations: [][]float64{{float64(i)}},
			Actions:      []int{i},
			Rewards:      []float64{float64(i)},
			Dones:        []bool{true},
		}
		require.NoError(t, e.Push(ctx, ep))
	}

	// Entries come off the head in the order they were appended.
	entries, err := client.LRange(ctx, QueueKey, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		ep, err := Decode([]byte(entry))
		require.NoError(t, err)
		assert.Equal(t, []int{i}, ep.Actions)
	}
}
