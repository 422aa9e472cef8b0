package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/domain"
	ledgerredis "github.com/jhoicas/ledger-api/internal/infrastructure/redis"
	"github.com/jhoicas/ledger-api/pkg/config"
)

func newStore(t *testing.T) (*ledgerredis.IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := ledgerredis.NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return ledgerredis.NewIdempotencyStore(client, time.Hour), mr
}

func TestIdempotencyStore_ReservaYReplay(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, done, err := store.Reserve(ctx, "c1:k1")
	require.NoError(t, err)
	assert.False(t, done)

	_, _, err = store.Reserve(ctx, "c1:k1")
	assert.True(t, errors.Is(err, domain.ErrInProgress))

	require.NoError(t, store.Complete(ctx, "c1:k1", []byte(`{"ok":true}`)))

	res, done, err := store.Reserve(ctx, "c1:k1")
	require.NoError(t, err)
	assert.True(t, done)
	assert.JSONEq(t, `{"ok":true}`, string(res))
}

func TestIdempotencyStore_ReleasePermiteReintento(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, "c1:k2")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "c1:k2"))

	_, done, err := store.Reserve(ctx, "c1:k2")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestIdempotencyStore_ExpiraConTTL(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, "c1:k3")
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)

	_, done, err := store.Reserve(ctx, "c1:k3")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestIdempotencyStore_RedisCaidoEsStorageError(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	store := ledgerredis.NewIdempotencyStore(client, time.Hour)

	_, _, err := store.Reserve(context.Background(), "c1:k4")
	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))
}

func TestNewClient_SinServidor(t *testing.T) {
	_, err := ledgerredis.NewClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
