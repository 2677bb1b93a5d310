// Package reconcile merges incoming HTML into a live document.
//
// Two passes are applied. The head pass keeps live head entries that have a
// structurally identical incoming twin, removes the others and appends the
// incoming leftovers. The frame pass matches data-frame regions by name and
// replaces, removes or keeps them as whole subtrees; nothing inside a frame
// is diffed.
package reconcile

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/hyperway/internal/logging"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
	"golang.org/x/net/html"
)

// Options tunes a reconciliation pass.
type Options struct {
	// OnInsert is called once per subtree inserted into the live document,
	// after the pass has finished mutating the tree.
	OnInsert func(el *dom.Element)
	Logger   *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.NewNop()
	}
	return o.Logger
}

// Result reports what a pass did. Frame names appear in live document order.
type Result struct {
	HeadKept    int
	HeadAdded   int
	HeadRemoved int
	Replaced    []string
	Removed     []string
	Kept        []string
}

// Changed reports whether the live document was mutated.
func (r Result) Changed() bool {
	return r.HeadAdded > 0 || r.HeadRemoved > 0 || len(r.Replaced) > 0 || len(r.Removed) > 0
}

// Document parses text and merges both its head and its frames into live.
func Document(live *dom.Document, text string, opts Options) (Result, error) {
	incoming, err := dom.ParseString(text)
	if err != nil {
		return Result{}, fmt.Errorf("reconcile: %w", err)
	}
	res := Head(live, incoming)
	frames := Frames(live, incoming, opts)
	frames.HeadKept, frames.HeadAdded, frames.HeadRemoved = res.HeadKept, res.HeadAdded, res.HeadRemoved
	return frames, nil
}

// Head merges the head entries of incoming into live, comparing entries by their rendered form.
// Matched live entries stay where they are; new entries are appended in incoming order.
func Head(live, incoming *dom.Document) Result {
	var res Result
	liveHead, newHead := live.Head(), incoming.Head()
	if liveHead == nil || newHead == nil {
		return res
	}

	pending := newHead.Children()
	byHTML := make(map[string][]int, len(pending))
	for i, el := range pending {
		key := el.OuterHTML()
		byHTML[key] = append(byHTML[key], i)
	}

	var stale []*dom.Element
	for _, el := range liveHead.Children() {
		key := el.OuterHTML()
		if idx := byHTML[key]; len(idx) > 0 {
			pending[idx[0]] = nil
			byHTML[key] = idx[1:]
			res.HeadKept++
			continue
		}
		stale = append(stale, el)
	}

	for _, el := range pending {
		if el == nil {
			continue
		}
		liveHead.AppendChild(el)
		res.HeadAdded++
	}
	for _, el := range stale {
		el.Remove()
		res.HeadRemoved++
	}
	return res
}

// Frames merges the frames of incoming into live.
//
// Live frames are visited in document order. A frame with no same-named
// incoming frame is removed; a frame whose value is unchanged is kept and its
// subtree is exempt from further matching; a changed frame is replaced by the
// incoming subtree. Frames nested in a removed, replaced or kept frame are
// never visited. When incoming repeats a name, the last frame in document
// order is the one matched.
func Frames(live, incoming *dom.Document, opts Options) Result {
	var res Result
	log := opts.logger()

	byName := make(map[string]*dom.Element)
	for _, el := range incoming.Frames() {
		f, _ := dom.FrameOf(el)
		byName[f.Name] = el
	}

	var (
		settled  []*html.Node
		inserted []*dom.Element
	)
	isSettled := func(n *html.Node) bool {
		for _, s := range settled {
			if dom.Contains(s, n) {
				return true
			}
		}
		return false
	}

	for _, el := range live.Frames() {
		if isSettled(el.Node()) {
			continue
		}
		current, _ := dom.FrameOf(el)
		next, ok := byName[current.Name]
		switch {
		case !ok:
			log.Debug("frame removed", "frame", current.String())
			el.Remove()
			res.Removed = append(res.Removed, current.Name)
		case !current.Changed(mustFrame(next)):
			log.Debug("frame kept", "frame", current.String())
			res.Kept = append(res.Kept, current.Name)
		default:
			log.Debug("frame replaced", "from", current.String(), "to", mustFrame(next).String())
			delete(byName, current.Name)
			el.ReplaceWith(next)
			inserted = append(inserted, next)
			res.Replaced = append(res.Replaced, current.Name)
		}
		settled = append(settled, el.Node())
	}

	if opts.OnInsert != nil {
		for _, el := range inserted {
			opts.OnInsert(el)
		}
	}
	return res
}

func mustFrame(el *dom.Element) domain.Frame {
	f, _ := dom.FrameOf(el)
	return f
}
