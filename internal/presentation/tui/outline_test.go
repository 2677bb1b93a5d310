package tui_test

import (
	"testing"

	"github.com/aretw0/hyperway/internal/presentation/tui"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutline(t *testing.T) {
	win, err := dom.NewWindow("http://example.test/a")
	require.NoError(t, err)
	doc, err := dom.ParseString(`<html><head><title>Inbox | 2</title></head><body>
		<div id="nav" data-frame="nav:1"></div>
		<div data-frame="main"></div>
	</body></html>`)
	require.NoError(t, err)
	win.Load(doc, win.Location(), false)
	win.History().PushState(domain.MarkerState(), "http://example.test/b")

	out := tui.Outline(doc)

	assert.Contains(t, out, `# Inbox \| 2`)
	assert.Contains(t, out, "| nav | 1 | nav |")
	assert.Contains(t, out, "| main | - |  |")
	assert.Contains(t, out, "1. http://example.test/a\n")
	assert.Contains(t, out, "2. **http://example.test/b** *(runtime)*")
}

func TestOutline_Detached(t *testing.T) {
	doc, err := dom.ParseString(`<p>x</p>`)
	require.NoError(t, err)

	out := tui.Outline(doc)
	assert.Contains(t, out, "# (untitled)")
	assert.NotContains(t, out, "History")
}

func TestRenderer(t *testing.T) {
	render, err := tui.NewRenderer(40)
	require.NoError(t, err)
	out, err := render("# hello")
	require.NoError(t, err)
	assert.Contains(t, out, "hello")
}
