package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/jtl/internal/core/kv"
	"github.com/hay-kot/jtl/internal/data/db"
	"github.com/hay-kot/jtl/internal/data/stores"
)

func newTestKV(t *testing.T) kv.KV {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewKVStore(database)
}

func TestTypedKV_SetAndGet(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[string](newTestKV(t), "summary")

	require.NoError(t, typed.Set(ctx, "JTL-1", "Fix the thing"))

	got, err := typed.Get(ctx, "JTL-1")
	require.NoError(t, err)
	assert.Equal(t, "Fix the thing", got)
}

func TestTypedKV_ScopedPrefix(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)

	alpha := kv.Scoped[int](store, "alpha")
	beta := kv.Scoped[int](store, "beta")

	require.NoError(t, alpha.Set(ctx, "count", 10))
	require.NoError(t, beta.Set(ctx, "count", 20))

	a, err := alpha.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 10, a)

	b, err := beta.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 20, b)

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, "alpha:count")
	assert.Contains(t, keys, "beta:count")
}

func TestTypedKV_GetOr(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[int](newTestKV(t), "n")

	got, err := typed.GetOr(ctx, "missing", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	require.NoError(t, typed.Set(ctx, "present", 9))
	got, err = typed.GetOr(ctx, "present", 5)
	require.NoError(t, err)
	assert.Equal(t, 9, got)
}

func TestTypedKV_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[string](newTestKV(t), "ttl")

	require.NoError(t, typed.SetTTL(ctx, "gone", "soon", time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, err := typed.Get(ctx, "gone")
	require.Error(t, err)
	assert.True(t, kv.IsNotFound(err))
}

func TestTypedKV_Delete(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[string](newTestKV(t), "del")

	require.NoError(t, typed.Set(ctx, "k", "v"))
	require.NoError(t, typed.Delete(ctx, "k"))

	_, err := typed.Get(ctx, "k")
	assert.True(t, kv.IsNotFound(err))
}
