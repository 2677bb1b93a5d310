package domain

import "strings"

// Frame is the parsed value of a data-frame attribute.
type Frame struct {
	Name     string
	Value    string
	HasValue bool
}

// ParseFrame splits "name:value" at the first colon. A missing colon yields a value-less frame.
func ParseFrame(s string) Frame {
	name, value, ok := strings.Cut(s, ":")
	if !ok {
		return Frame{Name: s}
	}
	return Frame{Name: name, Value: value, HasValue: true}
}

// Changed reports whether the incoming frame must replace f.
// Two value-less frames always count as changed so that frames without an
// explicit value are refreshed on every pass.
func (f Frame) Changed(incoming Frame) bool {
	if !f.HasValue && !incoming.HasValue {
		return true
	}
	return f.HasValue != incoming.HasValue || f.Value != incoming.Value
}

func (f Frame) String() string {
	if !f.HasValue {
		return f.Name
	}
	return f.Name + ":" + f.Value
}
