package action

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Action is an opcode-tagged instruction: the opcode string followed by its operands.
type Action []any

// Opcode returns the raw opcode string, or "" when the action is empty or malformed.
func (a Action) Opcode() string {
	if len(a) == 0 {
		return ""
	}
	s, _ := a[0].(string)
	return s
}

// Operands returns a fresh cursor over the operands of the action.
func (a Action) Operands() *Operands {
	return NewOperands(a.Opcode(), a[1:])
}

// Clone returns a deep copy of the action.
func (a Action) Clone() Action {
	if a == nil {
		return nil
	}
	return Action(cloneSlice(a))
}

// String renders the action as compact JSON.
func (a Action) String() string {
	data, err := json.Marshal([]any(a))
	if err != nil {
		return fmt.Sprintf("%v", []any(a))
	}
	return string(data)
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case Action:
		return x.Clone()
	case []any:
		return cloneSlice(x)
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, item := range x {
			m[k] = cloneValue(item)
		}
		return m
	default:
		return v
	}
}

func cloneSlice(src []any) []any {
	dst := make([]any, len(src))
	for i, item := range src {
		dst[i] = cloneValue(item)
	}
	return dst
}

// Decode parses the JSON encoding of an action.
// Numbers are decoded as json.Number so integer operands are preserved exactly.
func Decode(data []byte) (Action, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode action: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to decode action: trailing data after value")
	}

	return AsAction(raw, "action")
}

// DecodeString is Decode for attribute values.
func DecodeString(s string) (Action, error) {
	return Decode([]byte(strings.TrimSpace(s)))
}

// AsAction validates that v is a non-empty sequence and returns it as an Action.
func AsAction(v any, name string) (Action, error) {
	var a Action
	switch x := v.(type) {
	case Action:
		a = x
	case []any:
		a = Action(x)
	default:
		return nil, &ArgError{Name: name, Expected: "an Array value", Actual: v}
	}

	if len(a) == 0 {
		return nil, &ArgError{Name: name, Expected: "a non-empty Array value", Actual: v}
	}
	if _, err := CheckString(a[0], "opcode"); err != nil {
		return nil, err
	}
	return a, nil
}
