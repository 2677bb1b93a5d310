package action

import (
	"encoding/json"
	"math"
)

// CheckArray fails unless v is a sequence.
func CheckArray(v any, name string) ([]any, error) {
	switch x := v.(type) {
	case Action:
		return []any(x), nil
	case []any:
		return x, nil
	}
	return nil, &ArgError{Name: name, Expected: "an Array value", Actual: v}
}

// CheckString fails unless v is a string.
func CheckString(v any, name string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &ArgError{Name: name, Expected: "a String value", Actual: v}
	}
	return s, nil
}

// CheckBoolean fails unless v is a boolean.
func CheckBoolean(v any, name string) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, &ArgError{Name: name, Expected: "a Boolean value", Actual: v}
	}
	return b, nil
}

// CheckDefined fails when v is the Undefined marker.
func CheckDefined(v any, name string) (any, error) {
	if _, ok := v.(undefined); ok {
		return nil, &ArgError{Name: name, Expected: "a defined value", Actual: v}
	}
	return v, nil
}

// CheckInteger fails unless v is an integral number.
func CheckInteger(v any, name string) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case float64:
		if !math.IsInf(x, 0) && x == math.Trunc(x) {
			return int(x), nil
		}
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return int(i), nil
		}
	}
	return 0, &ArgError{Name: name, Expected: "an integer value", Actual: v}
}

// CheckNumber converts any numeric operand to float64.
func CheckNumber(v any, name string) (float64, error) {
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f, nil
		}
	}
	return 0, &ArgError{Name: name, Expected: "a Number value", Actual: v}
}
