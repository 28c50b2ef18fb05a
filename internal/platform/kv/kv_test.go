package kv

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, KeyProducts)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, KeyProducts, []byte(`[{"id":"p1"}]`)))

	value, err := store.Get(ctx, KeyProducts)
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"p1"}]`, string(value))

	// Mutating the returned slice must not leak into the store.
	value[0] = 'X'
	again, err := store.Get(ctx, KeyProducts)
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"p1"}]`, string(again))

	require.NoError(t, store.Delete(ctx, KeyProducts))
	_, err = store.Get(ctx, KeyProducts)
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	store := NewRedisStore(client, "meridian")

	_, err := store.Get(ctx, KeySettings)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, KeySettings, []byte(`{"shopName":"Meridian"}`)))

	value, err := store.Get(ctx, KeySettings)
	require.NoError(t, err)
	require.JSONEq(t, `{"shopName":"Meridian"}`, string(value))

	// Prefixed key layout in Redis.
	stored, err := mr.Get("meridian:" + KeySettings)
	require.NoError(t, err)
	require.NotEmpty(t, stored)

	require.NoError(t, store.Delete(ctx, KeySettings))
	_, err = store.Get(ctx, KeySettings)
	require.ErrorIs(t, err, ErrKeyNotFound)
}
