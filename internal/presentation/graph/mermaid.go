package graph

import (
	"fmt"
	"path"
	"strings"

	"github.com/aretw0/hyperway/internal/validator"
)

// GraphOverlay contains session data to visualize on the graph.
type GraphOverlay struct {
	VisitedPages []string
	CurrentPage  string
}

// GenerateMermaid produces a Mermaid flowchart of a crawled site.
// Shapes:
// - Entry page: ((Circle))
// - Page with frames: [[Subroutine]]
// - Page with forms: [/Parallelogram/]
// - Default: [Rectangle]
// Links into another directory are drawn dotted.
func GenerateMermaid(pages []validator.Page, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, page := range pages {
		safeID := sanitizeMermaidID(page.Path)

		opener, closer := "[", "]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case len(page.Frames) > 0:
			opener, closer = "[[", "]]"
		case page.Forms > 0:
			opener, closer = "[/", "/]"
		}

		label := page.Path
		if page.Actions > 0 {
			label = fmt.Sprintf("%s <br/> %d actions", page.Path, page.Actions)
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		for _, link := range page.Links {
			arrow := "-->"
			if path.Dir(page.Path) != path.Dir(link) {
				arrow = "-.->"
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, sanitizeMermaidID(link)))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light fills in both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, p := range overlay.VisitedPages {
			safeID := sanitizeMermaidID(p)
			if !visited[safeID] {
				visited[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}
		if overlay.CurrentPage != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentPage)))
		}
	}

	return sb.String()
}

// sanitizeMermaidID maps a path to a node id; "/" becomes "root".
func sanitizeMermaidID(p string) string {
	s := strings.Trim(p, "/")
	if s == "" {
		return "root"
	}
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_")
	return "p_" + r.Replace(s)
}
