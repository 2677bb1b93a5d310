package dom

import (
	"fmt"
	"net/url"

	"github.com/aretw0/hyperway/pkg/domain"
)

// Scroll is the scroll state of a window.
// Target is the id of the element last scrolled into view ("" for an absolute position).
type Scroll struct {
	X, Y   float64
	Target string
}

// Window holds the live document together with location, history and scroll state.
// A Window is confined to the runtime loop goroutine.
type Window struct {
	doc      *Document
	location *url.URL
	history  *History
	scroll   Scroll
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithHistoryUpdates seeds the history guard, used when restoring a persisted page.
func WithHistoryUpdates(n int64) WindowOption {
	return func(w *Window) {
		w.history.guard = newHistoryGuard(n)
	}
}

// WithHistoryEntries seeds the session history.
func WithHistoryEntries(entries []domain.HistoryEntry, index int) WindowOption {
	return func(w *Window) {
		if len(entries) == 0 {
			return
		}
		w.history.entries = append([]domain.HistoryEntry(nil), entries...)
		if index < 0 || index >= len(entries) {
			index = len(entries) - 1
		}
		w.history.index = index
	}
}

// NewWindow creates a window at location holding an empty document.
func NewWindow(location string, opts ...WindowOption) (*Window, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", location, err)
	}

	w := &Window{location: u}
	w.history = &History{
		win:     w,
		entries: []domain.HistoryEntry{{URL: u.String()}},
		guard:   newHistoryGuard(0),
	}

	doc, err := ParseString("")
	if err != nil {
		return nil, err
	}
	w.attach(doc)

	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Document returns the live document.
func (w *Window) Document() *Document {
	return w.doc
}

func (w *Window) attach(doc *Document) {
	if w.doc != nil && w.doc != doc {
		w.doc.window = nil
	}
	doc.window = w
	w.doc = doc
}

// Load replaces the page: a new live document at location, as a full navigation does.
// The session history survives; the history guard starts over with the new page.
// When push is set a plain (unmarked) entry is pushed, otherwise the current entry is replaced.
func (w *Window) Load(doc *Document, location *url.URL, push bool) {
	w.attach(doc)
	w.location = location
	w.scroll = Scroll{}
	w.history.guard = newHistoryGuard(0)

	entry := domain.HistoryEntry{URL: location.String()}
	if push {
		w.history.push(entry)
	} else {
		w.history.replace(entry)
	}
}

// Location returns a copy of the current location.
func (w *Window) Location() *url.URL {
	u := *w.location
	return &u
}

// Resolve resolves ref against the current location.
func (w *Window) Resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", ref, err)
	}
	return w.location.ResolveReference(u), nil
}

// History returns the session history.
func (w *Window) History() *History {
	return w.history
}

// Scroll returns the current scroll state.
func (w *Window) Scroll() Scroll {
	return w.scroll
}

// ScrollTo scrolls to an absolute position.
func (w *Window) ScrollTo(x, y float64) {
	w.scroll = Scroll{X: x, Y: y}
}

// ScrollIntoView records el as scrolled into view. A nil element scrolls to the document root.
func (w *Window) ScrollIntoView(el *Element) {
	if el == nil {
		w.scroll = Scroll{}
		return
	}
	w.scroll = Scroll{Target: el.ID()}
}

func (w *Window) setLocation(raw string) {
	u, err := w.Resolve(raw)
	if err != nil {
		return
	}
	w.location = u
}

func (w *Window) String() string {
	return "[object Window]"
}

// Snapshot captures the page. SessionID and SavedAt are left to the caller.
func (w *Window) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		URL:            w.location.String(),
		HTML:           w.doc.String(),
		History:        w.history.Entries(),
		HistoryIndex:   w.history.index,
		HistoryUpdates: w.history.guard.Count(),
	}
}

// RestoreWindow rebuilds a window from a snapshot without running any page lifecycle.
func RestoreWindow(s *domain.Snapshot) (*Window, error) {
	w, err := NewWindow(s.URL,
		WithHistoryEntries(s.History, s.HistoryIndex),
		WithHistoryUpdates(s.HistoryUpdates))
	if err != nil {
		return nil, err
	}
	doc, err := ParseString(s.HTML)
	if err != nil {
		return nil, err
	}
	w.attach(doc)
	return w, nil
}
