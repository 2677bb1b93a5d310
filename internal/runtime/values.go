package runtime

import (
	"github.com/aretw0/hyperway/pkg/action"
	"github.com/aretw0/hyperway/pkg/dom"
)

// asObject adapts a receiver to property and method access.
func asObject(v any) (dom.Object, error) {
	switch x := v.(type) {
	case dom.Object:
		return x, nil
	case map[string]any:
		return record(x), nil
	case []any:
		return array(x), nil
	}
	return nil, &action.ArgError{Name: "receiver", Expected: "an object", Actual: v}
}

// record exposes a JSON object. Missing keys read as nil.
type record map[string]any

func (r record) Get(name string) (any, error) {
	return r[name], nil
}

func (r record) Set(name string, value any) error {
	r[name] = value
	return nil
}

func (r record) Invoke(name string, args []any) (any, error) {
	return nil, dom.NewMemberError(map[string]any(r), "method", name, nil)
}

// array exposes a JSON array.
type array []any

func (a array) Get(name string) (any, error) {
	if name == "length" {
		return len(a), nil
	}
	return nil, dom.NewMemberError([]any(a), "property", name, []string{"length"})
}

func (a array) Set(name string, value any) error {
	return dom.NewMemberError([]any(a), "property", name, nil)
}

func (a array) Invoke(name string, args []any) (any, error) {
	if name == "at" {
		if len(args) != 1 {
			return nil, &action.ArgError{Name: "index", Expected: "an integer value", Actual: action.Undefined}
		}
		i, err := action.CheckInteger(args[0], "index")
		if err != nil {
			return nil, err
		}
		if i < 0 {
			i += len(a)
		}
		if i < 0 || i >= len(a) {
			return nil, nil
		}
		return a[i], nil
	}
	return nil, dom.NewMemberError([]any(a), "method", name, []string{"at"})
}
