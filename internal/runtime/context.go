package runtime

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/aretw0/hyperway/pkg/action"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
)

// ReservedPrefix marks context slot names owned by the runtime.
const ReservedPrefix = "$"

// Context is the execution record of one trigger (an event, a timer or a
// navigation continuation). It is confined to the loop goroutine.
type Context struct {
	ctx context.Context
	win *dom.Window
	doc *dom.Document

	// Origin is the element that triggered evaluation. It never changes.
	Origin *dom.Element

	// Recv is the current receiver, threaded through chained operations.
	Recv any

	// ResponseURL and ResponseDoc are written by the navigation pipeline and
	// read by the operations of the synthesized follow-up sequence.
	ResponseURL string
	ResponseDoc *dom.Document

	args  []any
	slots map[string]any
}

// NewContext creates a context for a trigger on origin, which may be nil.
func NewContext(ctx context.Context, win *dom.Window, origin *dom.Element) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{ctx: ctx, win: win, Origin: origin, Recv: orNil(origin)}
}

// Ctx returns the context.Context of the trigger.
func (c *Context) Ctx() context.Context {
	return c.ctx
}

// Window returns the window the trigger belongs to.
func (c *Context) Window() (*dom.Window, error) {
	if c.win == nil {
		return nil, fmt.Errorf("illegal state: no window")
	}
	return c.win, nil
}

// Document resolves the live document, once.
func (c *Context) Document() (*dom.Document, error) {
	if c.doc != nil {
		return c.doc, nil
	}
	if c.win == nil || c.win.Document() == nil {
		return nil, domain.ErrNoDocument
	}
	c.doc = c.win.Document()
	return c.doc, nil
}

// Arg returns the positional closure argument at i. Out-of-range reads yield nil.
// Outside a closure call, or in a call without arguments, it fails with action.ErrNoArguments.
func (c *Context) Arg(i int) (any, error) {
	if len(c.args) == 0 {
		return nil, action.ErrNoArguments
	}
	if i < 0 {
		return nil, &action.ArgError{Name: "index", Expected: "a non-negative integer", Actual: i}
	}
	if i >= len(c.args) {
		return nil, nil
	}
	return c.args[i], nil
}

// Slot reads a user slot.
func (c *Context) Slot(name string) (any, error) {
	v, ok := c.slots[name]
	if !ok {
		return nil, &SlotError{Name: name}
	}
	return v, nil
}

// SetSlot writes a user slot. Empty and reserved names are rejected.
func (c *Context) SetSlot(name string, v any) error {
	if name == "" || strings.HasPrefix(name, ReservedPrefix) {
		return &SlotError{Name: name, Reserved: true}
	}
	if c.slots == nil {
		c.slots = make(map[string]any)
	}
	c.slots[name] = v
	return nil
}

// capture returns a shallow copy taken when a closure is created.
// Later writes to c are not visible through the copy.
func (c *Context) capture() *Context {
	cp := *c
	cp.slots = maps.Clone(c.slots)
	return &cp
}

// withArgs returns a shallow copy carrying a positional argument list.
func (c *Context) withArgs(args []any) *Context {
	cp := c.capture()
	cp.args = args
	return cp
}
