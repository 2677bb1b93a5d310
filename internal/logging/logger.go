package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// New creates a configured application logger.
// It writes to Stderr (to separate from Stdout page output).
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level) *slog.Logger {
	return slog.New(textHandler(os.Stderr, level))
}

// NewWithSink creates the application logger and additionally fans every record
// out to sink as JSON lines (e.g. a log file configured with log_file).
func NewWithSink(level slog.Level, sink io.Writer) *slog.Logger {
	if sink == nil {
		return New(level)
	}
	return slog.New(slogmulti.Fanout(
		textHandler(os.Stderr, level),
		slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level, ReplaceAttr: standardKeys}),
	))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug, info, warn and error to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func textHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: standardKeys,
	})
}

func standardKeys(groups []string, a slog.Attr) slog.Attr {
	// Standardize 'error' key to 'err'
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}
