package runtime

import (
	"fmt"

	"github.com/aretw0/hyperway/pkg/action"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
)

func (e *Engine) argsRead(c *Context, ops *action.Operands) (any, error) {
	i, err := ops.Integer("index")
	if err != nil {
		return nil, err
	}
	return c.Arg(i)
}

func (e *Engine) contextRead(c *Context, ops *action.Operands) (any, error) {
	name, err := ops.String("name")
	if err != nil {
		return nil, err
	}
	return c.Slot(name)
}

func (e *Engine) contextWrite(c *Context, ops *action.Operands) (any, error) {
	name, err := ops.String("name")
	if err != nil {
		return nil, err
	}
	v, err := e.operand(c, ops, "value")
	if err != nil {
		return nil, err
	}
	if err := c.SetSlot(name, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *Engine) elementByID(c *Context, ops *action.Operands) (any, error) {
	v, err := e.operand(c, ops, "id")
	if err != nil {
		return nil, err
	}
	id, err := action.CheckString(v, "id")
	if err != nil {
		return nil, err
	}
	doc, err := c.Document()
	if err != nil {
		return nil, err
	}
	el := doc.ElementByID(id)
	if el == nil {
		return nil, fmt.Errorf("%w: #%s", domain.ErrElementNotFound, id)
	}
	return el, nil
}

func (e *Engine) typeEnsure(c *Context, ops *action.Operands) (any, error) {
	typeName, err := ops.String("typeName")
	if err != nil {
		return nil, err
	}
	return dom.CheckType(c.Recv, "receiver", typeName)
}

func (e *Engine) throwError(c *Context, ops *action.Operands) (any, error) {
	v, err := e.operand(c, ops, "message")
	if err != nil {
		return nil, err
	}
	msg, ok := v.(string)
	if !ok {
		msg = action.Describe(v)
	}
	return nil, &ThrownError{Message: msg}
}

func (e *Engine) receiver(c *Context, ops *action.Operands, checked bool) (dom.Object, error) {
	recv := c.Recv
	if checked {
		typeName, err := ops.String("typeName")
		if err != nil {
			return nil, err
		}
		if _, err := dom.CheckType(recv, "receiver", typeName); err != nil {
			return nil, err
		}
	}
	return asObject(recv)
}

func (e *Engine) propertyRead(c *Context, ops *action.Operands, checked bool) (any, error) {
	obj, err := e.receiver(c, ops, checked)
	if err != nil {
		return nil, err
	}
	name, err := ops.String("name")
	if err != nil {
		return nil, err
	}
	return obj.Get(name)
}

func (e *Engine) propertyWrite(c *Context, ops *action.Operands) (any, error) {
	obj, err := e.receiver(c, ops, true)
	if err != nil {
		return nil, err
	}
	name, err := ops.String("name")
	if err != nil {
		return nil, err
	}
	v, err := e.operand(c, ops, "value")
	if err != nil {
		return nil, err
	}
	if err := obj.Set(name, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *Engine) invoke(c *Context, ops *action.Operands, checked bool) (any, error) {
	obj, err := e.receiver(c, ops, checked)
	if err != nil {
		return nil, err
	}
	method, err := ops.String("method")
	if err != nil {
		return nil, err
	}
	var args []any
	if ops.Len() > 0 {
		list, err := ops.Array("args")
		if err != nil {
			return nil, err
		}
		args, err = e.evaluateAll(c, list, "args")
		if err != nil {
			return nil, err
		}
	}
	return obj.Invoke(method, args)
}

func (e *Engine) chain(c *Context, ops *action.Operands) (any, error) {
	saved := c.Recv
	defer func() { c.Recv = saved }()

	var last any
	for ops.Len() > 0 {
		a, err := ops.Action("action")
		if err != nil {
			return nil, err
		}
		v, err := e.Evaluate(c, a)
		if err != nil {
			return nil, err
		}
		c.Recv = v
		last = v
	}
	return last, nil
}

func (e *Engine) sequence(c *Context, ops *action.Operands) (any, error) {
	saved := c.Recv
	defer func() { c.Recv = saved }()

	for ops.Len() > 0 {
		a, err := ops.Action("action")
		if err != nil {
			return nil, err
		}
		if _, err := e.Evaluate(c, a); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (e *Engine) ifElse(c *Context, ops *action.Operands) (any, error) {
	onTrue, err := ops.Action("onTrue")
	if err != nil {
		return nil, err
	}
	onFalse, err := ops.Action("onFalse")
	if err != nil {
		return nil, err
	}
	cond, err := action.CheckBoolean(c.Recv, "receiver")
	if err != nil {
		return nil, err
	}
	if cond {
		return e.Evaluate(c, onTrue)
	}
	return e.Evaluate(c, onFalse)
}

func (e *Engine) function(c *Context, ops *action.Operands) (any, error) {
	body, err := ops.Action("body")
	if err != nil {
		return nil, err
	}
	return e.newClosure(c, body), nil
}

func (e *Engine) forEach(c *Context, ops *action.Operands) (any, error) {
	typeName, err := ops.String("typeName")
	if err != nil {
		return nil, err
	}
	body, err := ops.Action("body")
	if err != nil {
		return nil, err
	}
	if _, err := dom.CheckType(c.Recv, "receiver", typeName); err != nil {
		return nil, err
	}
	items, err := iterate(c.Recv)
	if err != nil {
		return nil, err
	}

	fn := e.newClosure(c, body)
	for i, item := range items {
		if _, err := fn.Call(item, i); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// operand evaluates the next operand, which must be an action.
func (e *Engine) operand(c *Context, ops *action.Operands, name string) (any, error) {
	a, err := ops.Action(name)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(c, a)
}

func (e *Engine) evaluateAll(c *Context, list []any, name string) ([]any, error) {
	values := make([]any, len(list))
	for i, item := range list {
		a, err := action.AsAction(item, fmt.Sprintf("%s[%d]", name, i))
		if err != nil {
			return nil, err
		}
		if values[i], err = e.Evaluate(c, a); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func iterate(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case action.Action:
		return []any(x), nil
	}
	return nil, &action.ArgError{Name: "receiver", Expected: "an iterable value", Actual: v}
}
