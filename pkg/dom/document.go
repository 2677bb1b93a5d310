package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML document, either live (attached to a Window) or detached.
type Document struct {
	root   *html.Node
	window *Window
}

// Parse reads a full HTML document. The parser always synthesizes html, head and body.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Window returns the window the document is attached to, or nil when detached.
func (d *Document) Window() *Window {
	return d.window
}

// Wrap exposes a node of this document as an Element.
func (d *Document) Wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{node: n, win: d.window}
}

func (d *Document) findOne(expr string) *Element {
	return d.Wrap(htmlquery.FindOne(d.root, expr))
}

// DocumentElement returns the html element.
func (d *Document) DocumentElement() *Element {
	return d.findOne("/html")
}

// Head returns the head element, or nil.
func (d *Document) Head() *Element {
	return d.findOne("/html/head")
}

// Body returns the body element, or nil.
func (d *Document) Body() *Element {
	return d.findOne("/html/body")
}

// Title returns the whitespace-collapsed text of the head title element.
func (d *Document) Title() string {
	title := htmlquery.FindOne(d.root, "/html/head/title")
	if title == nil {
		return ""
	}
	return strings.Join(strings.Fields(htmlquery.InnerText(title)), " ")
}

// SetTitle replaces the text of the title element, creating it when absent.
func (d *Document) SetTitle(s string) {
	title := htmlquery.FindOne(d.root, "/html/head/title")
	if title == nil {
		head := d.Head()
		if head == nil {
			return
		}
		title = &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
		head.node.AppendChild(title)
	}
	d.Wrap(title).SetTextContent(s)
}

// ElementByID returns the first element with the given id in document order, or nil.
func (d *Document) ElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	return d.Wrap(findNode(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == id
	}))
}

// Frames returns every frame-marked element in document order.
func (d *Document) Frames() []*Element {
	return d.wrapAll(htmlquery.Find(d.root, "//*[@data-frame]"))
}

// Query returns the elements matching an XPath expression.
func (d *Document) Query(expr string) ([]*Element, error) {
	nodes, err := htmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", expr, err)
	}
	return d.wrapAll(nodes), nil
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	els := make([]*Element, len(nodes))
	for i, n := range nodes {
		els[i] = d.Wrap(n)
	}
	return els
}

// String renders the whole document.
func (d *Document) String() string {
	var sb strings.Builder
	if err := html.Render(&sb, d.root); err != nil {
		return ""
	}
	return sb.String()
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val
		}
	}
	return ""
}
