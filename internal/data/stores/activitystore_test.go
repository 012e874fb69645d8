package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/jtl/internal/core/activity"
)

func TestActivityStore_ListEmpty(t *testing.T) {
	store := NewActivityStore(openTestDB(t))

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestActivityStore_SaveAndListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewActivityStore(openTestDB(t))

	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	e1 := activity.New(activity.LevelInfo, "first", base)
	e2 := activity.New(activity.LevelWarn, "second", base.Add(time.Second))
	e3 := activity.New(activity.LevelError, "third", base.Add(2*time.Second))

	for _, e := range []activity.Entry{e1, e2, e3} {
		require.NoError(t, store.Save(ctx, e))
	}

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, e3.ID, entries[0].ID)
	assert.Equal(t, e2.ID, entries[1].ID)
	assert.Equal(t, e1.ID, entries[2].ID)

	assert.Equal(t, activity.LevelError, entries[0].Level)
	assert.Equal(t, "third", entries[0].Message)
	assert.True(t, e3.LoggedAt.Equal(entries[0].LoggedAt))
}

func TestActivityStore_SameTimestampKeepsInsertOrder(t *testing.T) {
	ctx := context.Background()
	store := NewActivityStore(openTestDB(t))

	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	older := activity.New(activity.LevelInfo, "older", at)
	newer := activity.New(activity.LevelInfo, "newer", at)

	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, entries[0].ID)
	assert.Equal(t, older.ID, entries[1].ID)
}

func TestActivityStore_DeleteByID(t *testing.T) {
	ctx := context.Background()
	store := NewActivityStore(openTestDB(t))

	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	keep := activity.New(activity.LevelInfo, "keep", at)
	drop := activity.New(activity.LevelInfo, "drop", at)

	require.NoError(t, store.Save(ctx, keep))
	require.NoError(t, store.Save(ctx, drop))
	require.NoError(t, store.Delete(ctx, drop.ID))
	require.NoError(t, store.Delete(ctx, "unknown"))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, keep.ID, entries[0].ID)
}

func TestActivityStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewActivityStore(openTestDB(t))

	require.NoError(t, store.Save(ctx, activity.New(activity.LevelInfo, "a", time.Now())))
	require.NoError(t, store.Clear(ctx))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
