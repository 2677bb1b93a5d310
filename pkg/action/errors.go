package action

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownOperation is returned when an opcode is not part of the instruction set.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrNoArguments is returned when a positional argument is read outside of a closure invocation.
var ErrNoArguments = errors.New("no arguments defined")

// ArgError reports a malformed operand: wrong arity or wrong primitive kind.
type ArgError struct {
	Op       string // opcode code, empty for standalone guards
	Name     string // operand name
	Expected string
	Actual   any
}

func (e *ArgError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("illegal arg: %s: %s must be %s but got %s", e.Op, e.Name, e.Expected, Describe(e.Actual))
	}
	return fmt.Sprintf("illegal arg: %s must be %s but got %s", e.Name, e.Expected, Describe(e.Actual))
}

// undefined marks an operand that is absent from the sequence.
type undefined struct{}

// Undefined is the value reported for an exhausted operand sequence.
var Undefined any = undefined{}

// Describe names the shape of a value for error messages.
func Describe(v any) string {
	switch x := v.(type) {
	case undefined:
		return "undefined"
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int32, int64, float32, float64, json.Number:
		return "number"
	case Action:
		return fmt.Sprintf("Array %s", x.String())
	case []any:
		return fmt.Sprintf("Array %s", Action(x).String())
	case map[string]any:
		return "Object"
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}
