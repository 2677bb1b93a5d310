package tui

import (
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown using glamour.
// Width 0 keeps glamour's default word wrap.
func NewRenderer(width int) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// Status colours a one-line message for the terminal profile in use.
func Status(ok bool, msg string) string {
	p := termenv.ColorProfile()
	color := "#34d399"
	if !ok {
		color = "#fb7185"
	}
	return termenv.String(msg).Foreground(p.Color(color)).String()
}
