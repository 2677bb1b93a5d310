package dom

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Form encodings.
const (
	EnctypeURLEncoded = "application/x-www-form-urlencoded"
	EnctypeMultipart  = "multipart/form-data"
)

// FormAction returns the resolved submission URL of a form; the current location when the action is empty.
func (e *Element) FormAction() string {
	raw := strings.TrimSpace(attr(e.node, "action"))
	if e.win == nil {
		return raw
	}
	if raw == "" {
		return e.win.location.String()
	}
	u, err := e.win.Resolve(raw)
	if err != nil {
		return raw
	}
	return u.String()
}

// FormMethod returns "get" or "post".
func (e *Element) FormMethod() string {
	if strings.EqualFold(attr(e.node, "method"), "post") {
		return "post"
	}
	return "get"
}

// FormEnctype returns the form encoding, defaulting to url encoding.
func (e *Element) FormEnctype() string {
	if strings.EqualFold(attr(e.node, "enctype"), EnctypeMultipart) {
		return EnctypeMultipart
	}
	return EnctypeURLEncoded
}

// FormOf returns the form owning el: the form named by its form attribute, else the nearest ancestor form.
func FormOf(el *Element) *Element {
	if id, ok := el.Attr("form"); ok && el.win != nil {
		if f := el.win.doc.ElementByID(id); f != nil && f.Tag() == "form" {
			return f
		}
	}
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.Tag() == "form" {
			return p
		}
	}
	return nil
}

// FormFields returns the listed controls of a form in document order.
func FormFields(form *Element) []*Element {
	var fields []*Element
	walk(form.node, func(n *html.Node) {
		if n == form.node || n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "input", "select", "textarea", "button":
			fields = append(fields, form.wrap(n))
		}
	})
	return fields
}

// FormEntry is one name/value pair of a form submission.
type FormEntry struct {
	Name  string
	Value string
}

// FormEntries returns the successful controls of form in document order,
// followed by the submitter's own entry when it has a name.
func FormEntries(form, submitter *Element) []FormEntry {
	var entries []FormEntry
	add := func(name, value string) {
		entries = append(entries, FormEntry{Name: name, Value: value})
	}
	for _, f := range FormFields(form) {
		name := attr(f.node, "name")
		if name == "" || f.HasAttr("disabled") {
			continue
		}
		switch f.Tag() {
		case "button":
			continue
		case "select":
			for _, opt := range selectedOptions(f.node) {
				add(name, optionValue(opt))
			}
			continue
		case "textarea":
			add(name, f.TextContent())
			continue
		}

		switch strings.ToLower(attr(f.node, "type")) {
		case "submit", "button", "reset", "image", "file":
			continue
		case "checkbox", "radio":
			if !f.HasAttr("checked") {
				continue
			}
		}
		add(name, f.Value())
	}

	if submitter != nil {
		if name := attr(submitter.node, "name"); name != "" {
			add(name, attr(submitter.node, "value"))
		}
	}
	return entries
}

// FormValues collects FormEntries into url.Values.
func FormValues(form, submitter *Element) url.Values {
	values := url.Values{}
	for _, entry := range FormEntries(form, submitter) {
		values.Add(entry.Name, entry.Value)
	}
	return values
}

// IsSubmitter reports whether el submits its form when clicked.
func IsSubmitter(el *Element) bool {
	typ := strings.ToLower(attr(el.node, "type"))
	switch el.Tag() {
	case "button":
		return typ == "" || typ == "submit"
	case "input":
		return typ == "submit" || typ == "image"
	}
	return false
}

func selectedOptions(sel *html.Node) []*html.Node {
	var all, selected []*html.Node
	walk(sel, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "option" {
			return
		}
		all = append(all, n)
		if NewElement(n).HasAttr("selected") {
			selected = append(selected, n)
		}
	})
	if len(selected) == 0 && len(all) > 0 && !NewElement(sel).HasAttr("multiple") {
		return all[:1]
	}
	return selected
}

func optionValue(opt *html.Node) string {
	el := NewElement(opt)
	if v, ok := el.Attr("value"); ok {
		return v
	}
	return strings.Join(strings.Fields(el.TextContent()), " ")
}
