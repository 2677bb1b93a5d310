// Package tui renders a terminal view of a live page.
package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/hyperway/pkg/dom"
)

// Outline describes a page as markdown: title, location, frames and history.
func Outline(doc *dom.Document) string {
	var b strings.Builder

	title := doc.Title()
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&b, "# %s\n\n", escape(title))

	win := doc.Window()
	if win != nil {
		fmt.Fprintf(&b, "`%s`\n\n", win.Location())
	}

	frames := doc.Frames()
	if len(frames) > 0 {
		b.WriteString("## Frames\n\n| name | value | id |\n|---|---|---|\n")
		for _, el := range frames {
			f, _ := dom.FrameOf(el)
			value := "-"
			if f.HasValue {
				value = escape(f.Value)
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escape(f.Name), value, escape(el.ID()))
		}
		b.WriteString("\n")
	}

	if win != nil {
		h := win.History()
		b.WriteString("## History\n\n")
		for i, e := range h.Entries() {
			marker := ""
			if e.Marked() {
				marker = " *(runtime)*"
			}
			if i == h.Index() {
				fmt.Fprintf(&b, "%d. **%s**%s\n", i+1, e.URL, marker)
				continue
			}
			fmt.Fprintf(&b, "%d. %s%s\n", i+1, e.URL, marker)
		}
	}
	return b.String()
}

func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`).Replace(s)
}
