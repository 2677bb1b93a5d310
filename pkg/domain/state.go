package domain

import "time"

// HistoryEntry is one entry of the session history.
type HistoryEntry struct {
	URL   string         `json:"url"`
	State map[string]any `json:"state,omitempty"`
}

// Marked reports whether the entry was created by the runtime.
func (e HistoryEntry) Marked() bool {
	v, _ := e.State[StateMarker].(bool)
	return v
}

// MarkerState returns a fresh state value carrying the runtime marker.
func MarkerState() map[string]any {
	return map[string]any{StateMarker: true}
}

// Snapshot captures a page session so it can be persisted and restored.
type Snapshot struct {
	SessionID string `json:"session_id"`

	// URL is the current location of the window.
	URL string `json:"url"`

	// HTML is the rendered live document.
	HTML string `json:"html"`

	History      []HistoryEntry `json:"history"`
	HistoryIndex int            `json:"history_index"`

	// HistoryUpdates is the value of the page's history guard.
	HistoryUpdates int64 `json:"history_updates"`

	SavedAt time.Time `json:"saved_at"`
}
