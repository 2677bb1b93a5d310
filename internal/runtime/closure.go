package runtime

import (
	"github.com/aretw0/hyperway/pkg/action"
	"github.com/aretw0/hyperway/pkg/dom"
)

// Closure is the callable produced by the function operation.
// It holds a deep copy of its body and a shallow copy of the context it was created in.
type Closure struct {
	engine *Engine
	ctx    *Context
	body   action.Action
}

var _ dom.Object = (*Closure)(nil)

func (e *Engine) newClosure(c *Context, body action.Action) *Closure {
	return &Closure{engine: e, ctx: c.capture(), body: body.Clone()}
}

// Call evaluates a fresh copy of the body with args as positional arguments.
func (f *Closure) Call(args ...any) (any, error) {
	return f.engine.Evaluate(f.ctx.withArgs(args), f.body.Clone())
}

func (f *Closure) Get(name string) (any, error) {
	if name == "length" {
		return 0, nil
	}
	return nil, dom.NewMemberError(f, "property", name, []string{"length"})
}

func (f *Closure) Set(name string, value any) error {
	return dom.NewMemberError(f, "property", name, nil)
}

// Invoke supports call.
func (f *Closure) Invoke(name string, args []any) (any, error) {
	if name == "call" {
		return f.Call(args...)
	}
	return nil, dom.NewMemberError(f, "method", name, []string{"call"})
}

func (f *Closure) TypeNames() []string {
	return []string{"Function"}
}

func (f *Closure) String() string {
	return "[object Function]"
}
