package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Element wraps an element node. Two Elements are the same element when Node() is equal.
type Element struct {
	node *html.Node
	win  *Window
}

// NewElement wraps a node that does not belong to a window.
func NewElement(n *html.Node) *Element {
	return &Element{node: n}
}

// Node returns the underlying node.
func (e *Element) Node() *html.Node {
	return e.node
}

// Window returns the window of the live document holding e, or nil.
func (e *Element) Window() *Window {
	return e.win
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string {
	return strings.ToLower(e.node.Data)
}

// ID returns the id attribute.
func (e *Element) ID() string {
	return attr(e.node, "id")
}

// Attr returns an attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr sets or adds an attribute.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr removes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

// ToggleAttr toggles a boolean attribute and returns whether it is now present.
func (e *Element) ToggleAttr(name string, force *bool) bool {
	present := e.HasAttr(name)
	want := !present
	if force != nil {
		want = *force
	}
	switch {
	case want && !present:
		e.SetAttr(name, "")
	case !want && present:
		e.RemoveAttr(name)
	}
	return want
}

// TextContent returns the concatenated text of all descendants.
func (e *Element) TextContent() string {
	return htmlquery.InnerText(e.node)
}

// SetTextContent replaces all children with a single text node.
func (e *Element) SetTextContent(s string) {
	removeChildren(e.node)
	if s != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
}

// InnerHTML renders the children of the element.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return sb.String()
		}
	}
	return sb.String()
}

// SetInnerHTML parses s in the context of the element and replaces its children.
func (e *Element) SetInnerHTML(s string) error {
	nodes, err := html.ParseFragment(strings.NewReader(s), e.node)
	if err != nil {
		return fmt.Errorf("failed to parse fragment: %w", err)
	}
	removeChildren(e.node)
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	return nil
}

// OuterHTML renders the element itself.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	if err := html.Render(&sb, e.node); err != nil {
		return ""
	}
	return sb.String()
}

// Parent returns the parent element, or nil when the parent is not an element.
func (e *Element) Parent() *Element {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil
	}
	return e.wrap(p)
}

// Children returns the element children.
func (e *Element) Children() []*Element {
	var children []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, e.wrap(c))
		}
	}
	return children
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	if other == nil {
		return false
	}
	return Contains(e.node, other.node)
}

// Contains reports whether n is ancestor or self of other.
func Contains(n, other *html.Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// ReplaceWith puts other (detached from wherever it lives) in place of e.
func (e *Element) ReplaceWith(other *Element) {
	parent := e.node.Parent
	if parent == nil {
		return
	}
	if other.node.Parent != nil {
		other.node.Parent.RemoveChild(other.node)
	}
	parent.InsertBefore(other.node, e.node)
	parent.RemoveChild(e.node)
	other.win = e.win
}

// AppendChild detaches child and appends it to e.
func (e *Element) AppendChild(child *Element) {
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
	child.win = e.win
}

// FindWithAttr returns e and its descendants carrying the attribute, in document order.
func (e *Element) FindWithAttr(name string) []*Element {
	nodes := htmlquery.Find(e.node, fmt.Sprintf("descendant-or-self::*[@%s]", name))
	els := make([]*Element, len(nodes))
	for i, n := range nodes {
		els[i] = e.wrap(n)
	}
	return els
}

// Dataset returns the data-* attributes keyed by their camel-cased names.
func (e *Element) Dataset() map[string]any {
	data := make(map[string]any)
	for _, a := range e.node.Attr {
		if a.Namespace != "" || !strings.HasPrefix(a.Key, "data-") {
			continue
		}
		data[camelCase(strings.TrimPrefix(a.Key, "data-"))] = a.Val
	}
	return data
}

func (e *Element) String() string {
	if id := e.ID(); id != "" {
		return fmt.Sprintf("<%s id=%q>", e.Tag(), id)
	}
	return fmt.Sprintf("<%s>", e.Tag())
}

func (e *Element) wrap(n *html.Node) *Element {
	return &Element{node: n, win: e.win}
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

func camelCase(s string) string {
	parts := strings.Split(s, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
