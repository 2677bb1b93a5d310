package dom

import (
	"strings"

	"github.com/aretw0/hyperway/pkg/action"
	"golang.org/x/net/html"
)

var (
	_ Object = (*Element)(nil)
	_ Object = (*Document)(nil)
	_ Object = (*Window)(nil)
	_ Object = (*ClassList)(nil)
	_ Object = (*History)(nil)
)

var (
	elementProps   = []string{"id", "tagName", "textContent", "innerHTML", "outerHTML", "className", "hidden", "classList", "children", "dataset", "parentElement"}
	elementMethods = []string{"getAttribute", "setAttribute", "removeAttribute", "toggleAttribute", "hasAttribute", "remove", "scrollIntoView"}
	dialogMethods  = []string{"show", "showModal", "close"}
)

// TypeNames returns the capability set of the element, resolved from its tag.
func (e *Element) TypeNames() []string {
	switch e.Tag() {
	case "form":
		return formTypes
	case "a":
		return anchorTypes
	case "dialog":
		return dialogTypes
	case "button":
		return buttonTypes
	case "input":
		return inputTypes
	case "textarea":
		return textAreaTypes
	case "select":
		return selectTypes
	}
	return elementTypes
}

func (e *Element) isField() bool {
	switch e.Tag() {
	case "input", "textarea", "select", "button":
		return true
	}
	return false
}

func (e *Element) props() []string {
	props := elementProps
	switch {
	case e.isField():
		props = append(props[:len(props):len(props)], "value", "checked", "name", "disabled")
	case e.Tag() == "a":
		props = append(props[:len(props):len(props)], "href")
	case e.Tag() == "form":
		props = append(props[:len(props):len(props)], "action", "method", "enctype", "elements")
	case e.Tag() == "dialog":
		props = append(props[:len(props):len(props)], "open", "returnValue")
	}
	return props
}

func (e *Element) methods() []string {
	if e.Tag() == "dialog" {
		return append(elementMethods[:len(elementMethods):len(elementMethods)], dialogMethods...)
	}
	return elementMethods
}

// Get reads a property.
func (e *Element) Get(name string) (any, error) {
	switch name {
	case "id":
		return e.ID(), nil
	case "tagName":
		return strings.ToUpper(e.Tag()), nil
	case "textContent":
		return e.TextContent(), nil
	case "innerHTML":
		return e.InnerHTML(), nil
	case "outerHTML":
		return e.OuterHTML(), nil
	case "className":
		return attr(e.node, "class"), nil
	case "hidden":
		return e.HasAttr("hidden"), nil
	case "classList":
		return &ClassList{el: e}, nil
	case "children":
		children := e.Children()
		list := make([]any, len(children))
		for i, c := range children {
			list[i] = c
		}
		return list, nil
	case "dataset":
		return e.Dataset(), nil
	case "parentElement":
		if p := e.Parent(); p != nil {
			return p, nil
		}
		return nil, nil
	}

	switch {
	case e.isField():
		switch name {
		case "value":
			return e.Value(), nil
		case "checked":
			return e.HasAttr("checked"), nil
		case "name":
			return attr(e.node, "name"), nil
		case "disabled":
			return e.HasAttr("disabled"), nil
		}
	case e.Tag() == "a":
		if name == "href" {
			return e.Href(), nil
		}
	case e.Tag() == "form":
		switch name {
		case "action":
			return e.FormAction(), nil
		case "method":
			return e.FormMethod(), nil
		case "enctype":
			return e.FormEnctype(), nil
		case "elements":
			fields := FormFields(e)
			list := make([]any, len(fields))
			for i, f := range fields {
				list[i] = f
			}
			return list, nil
		}
	case e.Tag() == "dialog":
		switch name {
		case "open":
			return e.HasAttr("open"), nil
		case "returnValue":
			v, _ := e.Attr("data-return-value")
			return v, nil
		}
	}

	return nil, memberError(e, "property", name, e.props())
}

// Set writes a property.
func (e *Element) Set(name string, value any) error {
	switch name {
	case "id":
		s, err := action.CheckString(value, "id")
		if err != nil {
			return err
		}
		e.SetAttr("id", s)
		return nil
	case "textContent":
		s, err := action.CheckString(value, "textContent")
		if err != nil {
			return err
		}
		e.SetTextContent(s)
		return nil
	case "innerHTML":
		s, err := action.CheckString(value, "innerHTML")
		if err != nil {
			return err
		}
		return e.SetInnerHTML(s)
	case "className":
		s, err := action.CheckString(value, "className")
		if err != nil {
			return err
		}
		e.SetAttr("class", s)
		return nil
	case "hidden":
		return e.setFlag("hidden", value)
	}

	switch {
	case e.isField():
		switch name {
		case "value":
			s, err := action.CheckString(value, "value")
			if err != nil {
				return err
			}
			e.SetValue(s)
			return nil
		case "checked":
			return e.setFlag("checked", value)
		case "disabled":
			return e.setFlag("disabled", value)
		}
	case e.Tag() == "dialog":
		if name == "open" {
			return e.setFlag("open", value)
		}
	}

	return memberError(e, "property", name, e.props())
}

func (e *Element) setFlag(name string, value any) error {
	b, err := action.CheckBoolean(value, name)
	if err != nil {
		return err
	}
	e.ToggleAttr(name, &b)
	return nil
}

// Invoke calls a method.
func (e *Element) Invoke(name string, args []any) (any, error) {
	switch name {
	case "getAttribute":
		attrName, err := stringArg(args, 0, "name")
		if err != nil {
			return nil, err
		}
		if v, ok := e.Attr(attrName); ok {
			return v, nil
		}
		return nil, nil
	case "setAttribute":
		attrName, err := stringArg(args, 0, "name")
		if err != nil {
			return nil, err
		}
		v, err := stringArg(args, 1, "value")
		if err != nil {
			return nil, err
		}
		e.SetAttr(attrName, v)
		return nil, nil
	case "removeAttribute":
		attrName, err := stringArg(args, 0, "name")
		if err != nil {
			return nil, err
		}
		e.RemoveAttr(attrName)
		return nil, nil
	case "toggleAttribute":
		attrName, err := stringArg(args, 0, "name")
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
		return e.ToggleAttr(attrName, force), nil
	case "hasAttribute":
		attrName, err := stringArg(args, 0, "name")
		if err != nil {
			return nil, err
		}
		return e.HasAttr(attrName), nil
	case "remove":
		e.Remove()
		return nil, nil
	case "scrollIntoView":
		if e.win != nil {
			e.win.ScrollIntoView(e)
		}
		return nil, nil
	}

	if e.Tag() == "dialog" {
		switch name {
		case "show", "showModal":
			e.SetAttr("open", "")
			return nil, nil
		case "close":
			if len(args) > 0 {
				rv, err := stringArg(args, 0, "returnValue")
				if err != nil {
					return nil, err
				}
				e.SetAttr("data-return-value", rv)
			}
			e.RemoveAttr("open")
			return nil, nil
		}
	}

	return nil, memberError(e, "method", name, e.methods())
}

// Href returns the anchor target resolved against the window location.
func (e *Element) Href() string {
	href, ok := e.Attr("href")
	if !ok {
		return ""
	}
	if e.win == nil {
		return href
	}
	u, err := e.win.Resolve(href)
	if err != nil {
		return href
	}
	return u.String()
}

// Value returns the current value of a form field.
func (e *Element) Value() string {
	switch e.Tag() {
	case "textarea":
		return e.TextContent()
	case "select":
		for _, opt := range selectedOptions(e.node) {
			return optionValue(opt)
		}
		return ""
	}
	v, ok := e.Attr("value")
	if !ok && (attr(e.node, "type") == "checkbox" || attr(e.node, "type") == "radio") {
		return "on"
	}
	return v
}

// SetValue updates the current value of a form field.
func (e *Element) SetValue(v string) {
	switch e.Tag() {
	case "textarea":
		e.SetTextContent(v)
	case "select":
		walk(e.node, func(n *html.Node) {
			if n.Type != html.ElementNode || n.Data != "option" {
				return
			}
			opt := NewElement(n)
			if optionValue(n) == v {
				opt.SetAttr("selected", "")
			} else {
				opt.RemoveAttr("selected")
			}
		})
	default:
		e.SetAttr("value", v)
	}
}

func stringArg(args []any, i int, name string) (string, error) {
	if i >= len(args) {
		return "", &action.ArgError{Name: name, Expected: "a String value", Actual: action.Undefined}
	}
	return action.CheckString(args[i], name)
}

// Get reads a document property.
func (d *Document) Get(name string) (any, error) {
	switch name {
	case "title":
		return d.Title(), nil
	case "body":
		return orNil(d.Body()), nil
	case "head":
		return orNil(d.Head()), nil
	case "documentElement":
		return orNil(d.DocumentElement()), nil
	case "URL":
		if d.window != nil {
			return d.window.location.String(), nil
		}
		return "about:blank", nil
	}
	return nil, memberError(d, "property", name, []string{"title", "body", "head", "documentElement", "URL"})
}

// Set writes a document property.
func (d *Document) Set(name string, value any) error {
	if name == "title" {
		s, err := action.CheckString(value, "title")
		if err != nil {
			return err
		}
		d.SetTitle(s)
		return nil
	}
	return memberError(d, "property", name, []string{"title"})
}

// Invoke calls a document method.
func (d *Document) Invoke(name string, args []any) (any, error) {
	if name == "getElementById" {
		id, err := stringArg(args, 0, "id")
		if err != nil {
			return nil, err
		}
		return orNil(d.ElementByID(id)), nil
	}
	return nil, memberError(d, "method", name, []string{"getElementById"})
}

func (d *Document) TypeNames() []string {
	return []string{"Node", "Document"}
}

// orNil avoids handing a typed nil *Element to callers as a non-nil any.
func orNil(e *Element) any {
	if e == nil {
		return nil
	}
	return e
}

// Get reads a window property.
func (w *Window) Get(name string) (any, error) {
	switch name {
	case "document":
		return w.doc, nil
	case "location":
		return w.location.String(), nil
	case "scrollX":
		return w.scroll.X, nil
	case "scrollY":
		return w.scroll.Y, nil
	case "history":
		return w.history, nil
	}
	return nil, memberError(w, "property", name, []string{"document", "location", "history", "scrollX", "scrollY"})
}

// Set always fails: window properties are read-only to actions.
func (w *Window) Set(name string, value any) error {
	return memberError(w, "property", name, nil)
}

// Invoke calls a window method.
func (w *Window) Invoke(name string, args []any) (any, error) {
	if name == "scrollTo" {
		if len(args) != 2 {
			return nil, &action.ArgError{Name: "args", Expected: "two Number values", Actual: args}
		}
		x, err := action.CheckNumber(args[0], "x")
		if err != nil {
			return nil, err
		}
		y, err := action.CheckNumber(args[1], "y")
		if err != nil {
			return nil, err
		}
		w.ScrollTo(x, y)
		return nil, nil
	}
	return nil, memberError(w, "method", name, []string{"scrollTo"})
}

func (w *Window) TypeNames() []string {
	return []string{"EventTarget", "Window"}
}

// Get reads length or state.
func (h *History) Get(name string) (any, error) {
	switch name {
	case "length":
		return h.Len(), nil
	case "state":
		if st := h.Current().State; st != nil {
			return st, nil
		}
		return nil, nil
	}
	return nil, memberError(h, "property", name, []string{"length", "state"})
}

// Set always fails: history is read-only to actions.
func (h *History) Set(name string, value any) error {
	return memberError(h, "property", name, nil)
}

// Invoke always fails: traversal belongs to the runtime.
func (h *History) Invoke(name string, args []any) (any, error) {
	return nil, memberError(h, "method", name, nil)
}

func (h *History) TypeNames() []string {
	return []string{"History"}
}

func (h *History) String() string {
	return "[object History]"
}
