package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-chat-bot/internal/dialog"
)

func TestMemoryStoreGetCreatesEmptyState(t *testing.T) {
	s := NewMemoryStore()

	st, err := s.Get(context.Background(), "unknown")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Empty(t, st.Slots)
	assert.False(t, st.Greeted)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	st := dialog.NewState()
	st.MergeEntities([]dialog.Entity{{Type: dialog.SlotLocation, Value: "London"}})
	st.Greeted = true
	require.NoError(t, s.Put(ctx, "conv-1", st))

	// Mutating the original after Put must not leak into the store.
	st.Slots[dialog.SlotLocation] = "Cardiff"

	got, err := s.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "London", got.Slots[dialog.SlotLocation])
	assert.True(t, got.Greeted)
}

func TestMemoryStorePrune(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "old", dialog.NewState()))
	s.data["old"].updatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, s.Put(ctx, "fresh", dialog.NewState()))

	removed := s.Prune(time.Hour)
	assert.Equal(t, 1, removed)

	_, ok := s.data["old"]
	assert.False(t, ok)
	_, ok = s.data["fresh"]
	assert.True(t, ok)
}

func TestMemoryStorePruneDisabled(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put(context.Background(), "a", dialog.NewState()))
	assert.Equal(t, 0, s.Prune(0))
}
