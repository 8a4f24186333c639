package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"walletbridge/relay/internal/repository"
)

func TestMemoryKVSetGet(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKVStore()

	require.NoError(t, kv.Set(ctx, "k", []byte("v"), time.Minute))

	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), val)

	val, err = kv.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestMemoryKVSetNXArbiter(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKVStore()

	ok, err := kv.SetNX(ctx, "k", []byte("first"), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = kv.SetNX(ctx, "k", []byte("second"), time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("first"), val, "losing write must not overwrite")
}

func TestMemoryKVGetDelSingleRead(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKVStore()

	require.NoError(t, kv.Set(ctx, "k", []byte("v"), time.Minute))

	val, err := kv.GetDel(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), val)

	val, err = kv.GetDel(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestMemoryKVGetAndConsume(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKVStore()

	require.NoError(t, kv.Set(ctx, "status", []byte("initialized"), time.Minute))
	require.NoError(t, kv.Set(ctx, "payload", []byte("data"), time.Minute))

	got, consumed, err := kv.GetAndConsume(ctx, "status", "payload")
	require.NoError(t, err)
	require.Equal(t, []byte("initialized"), got)
	require.Equal(t, []byte("data"), consumed)

	// The status key is read, not consumed; the payload key is gone.
	val, err := kv.Get(ctx, "status")
	require.NoError(t, err)
	require.Equal(t, []byte("initialized"), val)

	_, consumed, err = kv.GetAndConsume(ctx, "status", "payload")
	require.NoError(t, err)
	require.Nil(t, consumed)
}

func TestMemoryKVTTLExpiry(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKVStore()

	require.NoError(t, kv.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, val)

	exists, err := kv.Exists(ctx, "k")
	require.NoError(t, err)
	require.False(t, exists)

	// An expired key is free for SetNX again.
	ok, err := kv.SetNX(ctx, "k", []byte("v2"), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryKVExpireRefresh(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKVStore()

	require.NoError(t, kv.Set(ctx, "k", []byte("v"), 30*time.Millisecond))
	require.NoError(t, kv.Expire(ctx, "k", time.Minute))
	time.Sleep(50 * time.Millisecond)

	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("v"), val, "refreshed key must outlive its original TTL")

	// Expire on a missing key is a no-op.
	require.NoError(t, kv.Expire(ctx, "missing", time.Minute))
	exists, err := kv.Exists(ctx, "missing")
	require.NoError(t, err)
	require.False(t, exists)
}
