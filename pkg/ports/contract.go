package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	newSnapshot := func(id string) *domain.Snapshot {
		return &domain.Snapshot{
			SessionID: id,
			URL:       "http://example.test/b",
			HTML:      `<html><head></head><body><main data-frame="m:1">b</main></body></html>`,
			History: []domain.HistoryEntry{
				{URL: "http://example.test/a", State: domain.MarkerState()},
				{URL: "http://example.test/b", State: domain.MarkerState()},
			},
			HistoryIndex:   1,
			HistoryUpdates: 1,
			SavedAt:        time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		snap := newSnapshot(sessionID)
		require.NoError(t, store.Save(ctx, snap), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.URL, loaded.URL)
		assert.Equal(t, snap.HTML, loaded.HTML)
		assert.Equal(t, snap.HistoryIndex, loaded.HistoryIndex)
		assert.Equal(t, snap.HistoryUpdates, loaded.HistoryUpdates)
		require.Len(t, loaded.History, 2)
		assert.True(t, loaded.History[1].Marked())
		assert.True(t, snap.SavedAt.Equal(loaded.SavedAt))
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.History[0].URL = "mutated"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "http://example.test/a", again.History[0].URL)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, newSnapshot(sessionID)))
		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, newSnapshot(id1)))
		require.NoError(t, store.Save(ctx, newSnapshot(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
