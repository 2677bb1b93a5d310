package dom_test

import (
	"testing"

	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_PushReplaceTraverse(t *testing.T) {
	w, err := dom.NewWindow("http://example.test/a")
	require.NoError(t, err)
	h := w.History()
	marker := map[string]any{domain.StateMarker: true}

	assert.Equal(t, 1, h.Len())
	h.ReplaceState(marker, "/a")
	h.PushState(marker, "/b")
	h.PushState(marker, "c")
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, "http://example.test/c", w.Location().String())

	entry, ok := h.Back()
	require.True(t, ok)
	assert.Equal(t, "http://example.test/b", entry.URL)
	assert.True(t, entry.Marked())
	assert.Equal(t, "http://example.test/b", w.Location().String())

	h.PushState(nil, "/d")
	assert.Equal(t, 3, h.Len(), "forward entries are dropped")
	_, ok = h.Forward()
	assert.False(t, ok)

	_, ok = h.Go(-5)
	assert.False(t, ok)
}

func TestHistoryGuard(t *testing.T) {
	w, err := dom.NewWindow("http://example.test/")
	require.NoError(t, err)
	g := w.History().Guard()

	assert.Equal(t, int64(0), g.Advance())
	assert.Equal(t, int64(1), g.Advance())
	assert.Equal(t, int64(2), g.Count())

	restored, err := dom.NewWindow("http://example.test/", dom.WithHistoryUpdates(5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), restored.History().Guard().Advance())

	doc, err := dom.ParseString("<p>x</p>")
	require.NoError(t, err)
	w.Load(doc, w.Location(), true)
	assert.Equal(t, int64(0), w.History().Guard().Advance(), "a full load starts a new page")
	assert.Equal(t, 2, w.History().Len())
}

func TestWindow_SnapshotRestore(t *testing.T) {
	win, err := dom.NewWindow("http://example.test/a")
	require.NoError(t, err)
	doc, err := dom.ParseString(`<html><head><title>A</title></head><body><p id="x">1</p></body></html>`)
	require.NoError(t, err)
	win.Load(doc, win.Location(), false)
	h := win.History()
	h.Guard().Advance()
	h.ReplaceState(domain.MarkerState(), "/a")
	h.PushState(domain.MarkerState(), "/b")
	h.Back()

	snap := win.Snapshot()
	assert.Equal(t, "http://example.test/a", snap.URL)
	assert.Equal(t, 0, snap.HistoryIndex)
	assert.EqualValues(t, 1, snap.HistoryUpdates)

	restored, err := dom.RestoreWindow(&snap)
	require.NoError(t, err)
	assert.Equal(t, "A", restored.Document().Title())
	assert.Same(t, restored, restored.Document().Window())
	assert.Equal(t, h.Entries(), restored.History().Entries())
	assert.Equal(t, 0, restored.History().Index())
	assert.EqualValues(t, 1, restored.History().Guard().Count())
	assert.Equal(t, "1", restored.Document().ElementByID("x").TextContent())
}
