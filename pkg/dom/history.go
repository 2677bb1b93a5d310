package dom

import (
	"sync/atomic"

	"github.com/aretw0/hyperway/pkg/domain"
)

// HistoryGuard counts runtime history updates over the lifetime of one page.
// It is created once when the page loads, only moves forward and is never reset;
// the first Advance of a page returns 0.
type HistoryGuard struct {
	n atomic.Int64
}

func newHistoryGuard(start int64) *HistoryGuard {
	g := &HistoryGuard{}
	g.n.Store(start)
	return g
}

// Advance increments the counter and returns its previous value.
func (g *HistoryGuard) Advance() int64 {
	return g.n.Add(1) - 1
}

// Count returns the number of updates so far.
func (g *HistoryGuard) Count() int64 {
	return g.n.Load()
}

// History is the session history of a window.
type History struct {
	win     *Window
	entries []domain.HistoryEntry
	index   int
	guard   *HistoryGuard
}

// Guard returns the history guard of the current page.
func (h *History) Guard() *HistoryGuard {
	return h.guard
}

// PushState adds an entry after the current one, dropping any forward entries, and moves the location.
func (h *History) PushState(state map[string]any, url string) {
	h.win.setLocation(url)
	h.push(domain.HistoryEntry{URL: h.win.location.String(), State: state})
}

// ReplaceState overwrites the current entry and moves the location.
func (h *History) ReplaceState(state map[string]any, url string) {
	h.win.setLocation(url)
	h.replace(domain.HistoryEntry{URL: h.win.location.String(), State: state})
}

func (h *History) push(entry domain.HistoryEntry) {
	h.entries = append(h.entries[:h.index+1], entry)
	h.index = len(h.entries) - 1
}

func (h *History) replace(entry domain.HistoryEntry) {
	h.entries[h.index] = entry
}

// Back moves one entry back. It reports false when already at the first entry.
func (h *History) Back() (domain.HistoryEntry, bool) {
	return h.Go(-1)
}

// Forward moves one entry forward. It reports false when already at the last entry.
func (h *History) Forward() (domain.HistoryEntry, bool) {
	return h.Go(1)
}

// Go moves delta entries and updates the location.
func (h *History) Go(delta int) (domain.HistoryEntry, bool) {
	next := h.index + delta
	if delta == 0 || next < 0 || next >= len(h.entries) {
		return domain.HistoryEntry{}, false
	}
	h.index = next
	entry := h.entries[next]
	h.win.setLocation(entry.URL)
	return entry, true
}

// Current returns the current entry.
func (h *History) Current() domain.HistoryEntry {
	return h.entries[h.index]
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Index returns the position of the current entry.
func (h *History) Index() int {
	return h.index
}

// Entries returns a copy of all entries.
func (h *History) Entries() []domain.HistoryEntry {
	return append([]domain.HistoryEntry(nil), h.entries...)
}
