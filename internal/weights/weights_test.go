package weights

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWeights() Weights {
	return Weights{
		"w":      {0.1, -0.2, 0.3, -0.4},
		"b":      {0.5, -0.5},
		"norm.g": {1.0},
	}
}

func TestNew_BackendSelection(t *testing.T) {
	client := redis.NewClient(&redis.Options{})

	src, err := New("/tmp/ckpt.bin", "", nil)
	require.NoError(t, err)
	assert.IsType(t, &CheckpointSource{}, src)

	src, err = New("", "run1", client)
	require.NoError(t, err)
	assert.IsType(t, &StoreSource{}, src)

	_, err = New("", "", nil)
	assert.ErrorIs(t, err, ErrBackendConfig)

	_, err = New("/tmp/ckpt.bin", "run1", client)
	assert.ErrorIs(t, err, ErrBackendConfig)
}

func TestStoreSource_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	want := testWeights()
	require.NoError(t, Publish(ctx, client, "run1", want))

	src, err := New("", "run1", client)
	require.NoError(t, err)

	got, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreSource_MissingKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	src, err := New("", "run1", client)
	require.NoError(t, err)

	_, err = src.Load(context.Background())
	assert.ErrorIs(t, err, ErrWeightsUnavailable)
}

func TestStoreSource_MalformedBlob(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	mr.Set("run1_weights", "not msgpack")

	src, err := New("", "run1", client)
	require.NoError(t, err)

	_, err = src.Load(context.Background())
	assert.ErrorIs(t, err, ErrWeightsUnavailable)
}

func TestCheckpointSource_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.bin")
	want := testWeights()
	require.NoError(t, WriteCheckpoint(path, want))

	src, err := New(path, "", nil)
	require.NoError(t, err)

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFilter(t *testing.T) {
	w := Weights{
		"fc1.weight":  {1},
		"norm.weight": {2},
		"lstm.bias":   {3},
	}

	got := Filter(w, "norm", "lstm")
	assert.Equal(t, Weights{"fc1.weight": {1}}, got)

	// The copy is independent of the input.
	got["fc1.weight"][0] = 42
	assert.Equal(t, float64(1), w["fc1.weight"][0])

	assert.Equal(t, w, Filter(w))
}
