package runtime

import (
	"time"

	"github.com/aretw0/hyperway/pkg/action"
	"golang.org/x/net/html"
)

type timer struct {
	stop func() bool
}

// delay schedules the body after ms milliseconds. A pending delay of the same
// origin element is cancelled first, so only the last one fires.
func (e *Engine) delay(c *Context, ops *action.Operands) error {
	ms, err := ops.Integer("ms")
	if err != nil {
		return err
	}
	if ms < 0 {
		return &action.ArgError{Op: ops.Op(), Name: "ms", Expected: "a non-negative integer", Actual: ms}
	}
	body, err := ops.Action("body")
	if err != nil {
		return err
	}

	var key *html.Node
	if c.Origin != nil {
		key = c.Origin.Node()
	}
	if prev, ok := e.timers[key]; ok {
		prev.stop()
		delete(e.timers, key)
	}

	snapshot, tmpl := c.capture(), body.Clone()
	t := &timer{}
	t.stop = e.loop.AfterFunc(time.Duration(ms)*time.Millisecond, func() {
		// A superseded timer may already sit in the loop queue.
		if e.timers[key] != t {
			return
		}
		delete(e.timers, key)
		if _, err := e.Evaluate(snapshot, tmpl.Clone()); err != nil {
			e.report(err)
		}
	})
	e.timers[key] = t
	return nil
}

// StopTimers cancels every pending delay.
func (e *Engine) StopTimers() {
	for key, t := range e.timers {
		t.stop()
		delete(e.timers, key)
	}
}
