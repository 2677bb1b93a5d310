package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/hyperway/internal/presentation/graph"
	"github.com/aretw0/hyperway/internal/validator"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		pages    []validator.Page
		overlay  *graph.GraphOverlay
		contains []string
	}{
		{
			name:     "Entry Page Shape",
			pages:    []validator.Page{{Path: "/"}},
			contains: []string{`root(("/"))`},
		},
		{
			name: "Frame And Form Shapes",
			pages: []validator.Page{
				{Path: "/"},
				{Path: "/feed", Frames: []string{"list"}},
				{Path: "/login", Forms: 1},
			},
			contains: []string{
				`p_feed[["/feed"]]`,
				`p_login[/"/login"/]`,
			},
		},
		{
			name: "ID Sanitization",
			pages: []validator.Page{
				{Path: "/"},
				{Path: "/docs/getting-started.html", Actions: 2},
			},
			contains: []string{`p_docs_getting_started_html["/docs/getting-started.html <br/> 2 actions"]`},
		},
		{
			name: "Links",
			pages: []validator.Page{
				{Path: "/", Links: []string{"/about", "/docs/intro"}},
			},
			contains: []string{
				"root --> p_about",
				"root -.-> p_docs_intro",
			},
		},
		{
			name:    "Overlay",
			pages:   []validator.Page{{Path: "/"}, {Path: "/about"}},
			overlay: &graph.GraphOverlay{VisitedPages: []string{"/", "/", "/about"}, CurrentPage: "/about"},
			contains: []string{
				"class root visited;",
				"class p_about visited;",
				"class p_about current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.pages, tt.overlay)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			if tt.overlay != nil {
				assert.Equal(t, 1, strings.Count(got, "class root visited;"))
			}
		})
	}
}
