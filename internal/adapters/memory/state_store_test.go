package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore_ConsumeIsSingleUse(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "state-1", time.Minute))

	ok, err := store.Consume(ctx, "state-1")
	require.NoError(t, err)
	assert.True(t, ok)

	// Replay fails.
	ok, err = store.Consume(ctx, "state-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStateStore_ConsumeUnknown(t *testing.T) {
	store := NewStateStore()

	ok, err := store.Consume(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Consume(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStateStore_ConsumeExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewStateStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "state-1", 10*time.Minute))

	now = now.Add(11 * time.Minute)

	ok, err := store.Consume(ctx, "state-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStateStore_SaveRejectsDuplicates(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "state-1", time.Minute))
	assert.Error(t, store.Save(ctx, "state-1", time.Minute))
}

func TestStateStore_SaveValidatesInput(t *testing.T) {
	store := NewStateStore()
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "", time.Minute))
	assert.Error(t, store.Save(ctx, "state-1", 0))
}

func TestStateStore_SaveSweepsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewStateStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "state-1", time.Minute))

	// Once expired, the value can be issued again.
	now = now.Add(2 * time.Minute)
	assert.NoError(t, store.Save(ctx, "state-1", time.Minute))
}
