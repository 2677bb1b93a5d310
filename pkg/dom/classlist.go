package dom

import (
	"strings"

	"github.com/aretw0/hyperway/pkg/action"
)

// ClassList is a live view over the class attribute of an element.
type ClassList struct {
	el *Element
}

// ClassListOf returns the class list of el.
func ClassListOf(el *Element) *ClassList {
	return &ClassList{el: el}
}

func (c *ClassList) tokens() []string {
	return strings.Fields(attr(c.el.node, "class"))
}

func (c *ClassList) store(tokens []string) {
	c.el.SetAttr("class", strings.Join(tokens, " "))
}

// Contains reports whether the token is present.
func (c *ClassList) Contains(token string) bool {
	for _, t := range c.tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// Add appends missing tokens.
func (c *ClassList) Add(tokens ...string) {
	list := c.tokens()
	for _, t := range tokens {
		if !contains(list, t) {
			list = append(list, t)
		}
	}
	c.store(list)
}

// Remove drops tokens.
func (c *ClassList) Remove(tokens ...string) {
	list := c.tokens()
	kept := list[:0]
	for _, t := range list {
		if !contains(tokens, t) {
			kept = append(kept, t)
		}
	}
	c.store(kept)
}

// Toggle flips token, or forces it on or off, and reports whether it is now present.
func (c *ClassList) Toggle(token string, force *bool) bool {
	on := !c.Contains(token)
	if force != nil {
		on = *force
	}
	if on {
		c.Add(token)
	} else {
		c.Remove(token)
	}
	return on
}

// Replace swaps old for replacement in place and reports whether old was present.
func (c *ClassList) Replace(old, replacement string) bool {
	list := c.tokens()
	for i, t := range list {
		if t == old {
			list[i] = replacement
			c.store(list)
			return true
		}
	}
	return false
}

func (c *ClassList) TypeNames() []string {
	return []string{"DOMTokenList"}
}

func (c *ClassList) String() string {
	return "[object DOMTokenList]"
}

// Get reads length or value.
func (c *ClassList) Get(name string) (any, error) {
	switch name {
	case "length":
		return len(c.tokens()), nil
	case "value":
		return attr(c.el.node, "class"), nil
	}
	return nil, memberError(c, "property", name, []string{"length", "value"})
}

// Set writes value.
func (c *ClassList) Set(name string, value any) error {
	if name == "value" {
		s, err := action.CheckString(value, "value")
		if err != nil {
			return err
		}
		c.el.SetAttr("class", s)
		return nil
	}
	return memberError(c, "property", name, []string{"value"})
}

// Invoke calls add, remove, toggle, replace or contains.
func (c *ClassList) Invoke(name string, args []any) (any, error) {
	switch name {
	case "add", "remove":
		tokens := make([]string, len(args))
		for i, a := range args {
			s, err := action.CheckString(a, "token")
			if err != nil {
				return nil, err
			}
			tokens[i] = s
		}
		if name == "add" {
			c.Add(tokens...)
		} else {
			c.Remove(tokens...)
		}
		return nil, nil
	case "toggle":
		token, err := stringArg(args, 0, "token")
		if err != nil {
			return nil, err
		}
		var force *bool
		if len(args) > 1 {
			b, err := action.CheckBoolean(args[1], "force")
			if err != nil {
				return nil, err
			}
			force = &b
		}
		return c.Toggle(token, force), nil
	case "replace":
		old, err := stringArg(args, 0, "token")
		if err != nil {
			return nil, err
		}
		replacement, err := stringArg(args, 1, "newToken")
		if err != nil {
			return nil, err
		}
		return c.Replace(old, replacement), nil
	case "contains":
		token, err := stringArg(args, 0, "token")
		if err != nil {
			return nil, err
		}
		return c.Contains(token), nil
	}
	return nil, memberError(c, "method", name, []string{"add", "remove", "toggle", "replace", "contains"})
}

func contains(list []string, s string) bool {
	for _, t := range list {
		if t == s {
			return true
		}
	}
	return false
}
