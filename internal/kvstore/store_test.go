package kvstore_test

import (
	"context"
	"testing"

	"github.com/2beens/gymsheets/internal/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestEncodeDecode(t *testing.T) {
	encoded, err := kvstore.Encode("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", encoded)

	encoded, err = kvstore.Encode(102.5)
	require.NoError(t, err)
	assert.Equal(t, "102.5", encoded)

	encoded, err = kvstore.Encode(map[string]int{"sets": 3})
	require.NoError(t, err)
	assert.Equal(t, `{"sets":3}`, encoded)

	_, err = kvstore.Encode(nil)
	require.ErrorIs(t, err, kvstore.ErrNilValue)

	assert.Equal(t, 102.5, kvstore.Decode("102.5"))
	assert.Equal(t, map[string]any{"sets": 3.0}, kvstore.Decode(`{"sets":3}`))
	assert.Equal(t, "not json", kvstore.Decode("not json"))
	assert.Equal(t, "quoted", kvstore.Decode(`"quoted"`))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore(0)

	_, ok, err := store.Get(ctx, "previousE1RM")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kvstore.SetValue(ctx, store, "previousE1RM", 100))
	v, ok, err := kvstore.GetValue(ctx, store, "previousE1RM")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 100.0, v)

	require.NoError(t, store.Delete(ctx, "previousE1RM"))
	_, ok, err = kvstore.GetValue(ctx, store, "previousE1RM")
	require.NoError(t, err)
	assert.False(t, ok)

	require.ErrorIs(t, kvstore.SetValue(ctx, store, "k", nil), kvstore.ErrNilValue)
}
