package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/hyperway/internal/reconcile"
	"github.com/aretw0/hyperway/pkg/dom"
)

// Morph reconciles the page in nextPath into the page in livePath and prints the merged HTML.
func Morph(logger *slog.Logger, livePath, nextPath string, stdout, stderr io.Writer) error {
	liveText, err := os.ReadFile(livePath)
	if err != nil {
		return fmt.Errorf("failed to read live page: %w", err)
	}
	nextText, err := os.ReadFile(nextPath)
	if err != nil {
		return fmt.Errorf("failed to read incoming page: %w", err)
	}

	live, err := dom.ParseString(string(liveText))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", livePath, err)
	}
	res, err := reconcile.Document(live, string(nextText), reconcile.Options{Logger: logger})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(stdout, live.String()); err != nil {
		return err
	}
	status(stderr, true, "head +%d -%d, frames replaced %v removed %v kept %v",
		res.HeadAdded, res.HeadRemoved, res.Replaced, res.Removed, res.Kept)
	return nil
}
