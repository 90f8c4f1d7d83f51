package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStateStore(t *testing.T) (*RedisStateStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStateStore(client), mr
}

func TestRedisStateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("store then consume", func(t *testing.T) {
		store, _ := newStateStore(t)

		require.NoError(t, store.StoreState(ctx, "state-1", time.Minute))
		assert.NoError(t, store.ConsumeState(ctx, "state-1"))
	})

	t.Run("consume is one-time", func(t *testing.T) {
		store, _ := newStateStore(t)

		require.NoError(t, store.StoreState(ctx, "state-1", time.Minute))
		require.NoError(t, store.ConsumeState(ctx, "state-1"))

		err := store.ConsumeState(ctx, "state-1")
		assert.ErrorIs(t, err, ErrStateNotFound)
	})

	t.Run("unknown state", func(t *testing.T) {
		store, _ := newStateStore(t)

		err := store.ConsumeState(ctx, "never-stored")
		assert.ErrorIs(t, err, ErrStateNotFound)
	})

	t.Run("expired state", func(t *testing.T) {
		store, mr := newStateStore(t)

		require.NoError(t, store.StoreState(ctx, "state-1", time.Second))
		mr.FastForward(2 * time.Second)

		err := store.ConsumeState(ctx, "state-1")
		assert.ErrorIs(t, err, ErrStateNotFound)
	})
}
