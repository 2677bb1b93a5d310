package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/aretw0/hyperway/internal/config"
	"github.com/aretw0/hyperway/internal/presentation/graph"
	"github.com/aretw0/hyperway/internal/validator"
	"github.com/aretw0/hyperway/pkg/ports"
	"github.com/aretw0/hyperway/pkg/session"
)

// LintOptions selects the page tree to check and how to report it.
type LintOptions struct {
	Dir   string
	Start string

	// Graph prints a Mermaid flowchart of the crawled pages instead of the page list.
	Graph bool

	// SessionID highlights the pages visited by a saved session on the graph.
	SessionID string
	Store     ports.SnapshotStore
}

// Lint crawls the page tree and reports broken links and undecodable actions.
func Lint(ctx context.Context, cfg config.Config, logger *slog.Logger, opts LintOptions, stdout, stderr io.Writer) error {
	if opts.Start == "" {
		opts.Start = "/"
	}
	report, err := validator.ValidateSite(os.DirFS(opts.Dir), opts.Start)
	if err != nil {
		return err
	}
	logger.Debug("site crawled", "dir", opts.Dir, "pages", len(report.Pages), "problems", len(report.Problems))

	if opts.Graph {
		var overlay *graph.GraphOverlay
		if opts.SessionID != "" {
			overlay, err = sessionOverlay(ctx, cfg, logger, opts)
			if err != nil {
				return err
			}
		}
		if _, err := io.WriteString(stdout, graph.GenerateMermaid(report.Pages, overlay)); err != nil {
			return err
		}
	} else {
		for _, p := range report.Pages {
			if _, err := fmt.Fprintf(stdout, "%s\tlinks=%d actions=%d frames=%d\n", p.Path, len(p.Links), p.Actions, len(p.Frames)); err != nil {
				return err
			}
		}
	}

	if err := report.Err(); err != nil {
		status(stderr, false, "%d pages, %d problems", len(report.Pages), len(report.Problems))
		return err
	}
	status(stderr, true, "%d pages, no problems", len(report.Pages))
	return nil
}

func sessionOverlay(ctx context.Context, cfg config.Config, logger *slog.Logger, opts LintOptions) (*graph.GraphOverlay, error) {
	store, locker, done, err := openStore(cfg, opts.Store)
	if err != nil {
		return nil, err
	}
	defer done()

	mgr := session.NewManager(store, session.WithLocker(locker), session.WithLogger(logger))
	snap, err := mgr.Load(ctx, opts.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", opts.SessionID, err)
	}

	overlay := &graph.GraphOverlay{CurrentPage: pathOf(snap.URL)}
	for _, entry := range snap.History {
		overlay.VisitedPages = append(overlay.VisitedPages, pathOf(entry.URL))
	}
	return overlay, nil
}

func pathOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
