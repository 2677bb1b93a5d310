// Package cli implements the hyperway commands on top of the public runtime.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/hyperway/internal/config"
	"github.com/aretw0/hyperway/internal/logging"
	"github.com/aretw0/hyperway/internal/presentation/tui"
	"github.com/aretw0/hyperway/pkg/domain"
	"golang.org/x/term"
)

// SignalContext is cancelled on SIGINT or SIGTERM and remembers which signal did it.
type SignalContext struct {
	context.Context
	Cancel context.CancelFunc

	mu  sync.Mutex
	sig os.Signal
}

// NewSignalContext starts listening for interrupts until parent or the returned context is done.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			sc.mu.Lock()
			sc.sig = sig
			sc.mu.Unlock()
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sig
}

// NewLogger builds the command logger: text on stderr, fanned out to a JSON
// log file when cfg names one. The returned close function releases the file.
func NewLogger(cfg config.Config) (*slog.Logger, func() error, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LogFile == "" {
		return logging.New(level), func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logging.NewWithSink(level, f), f.Close, nil
}

// requestHeaders merges the configured headers and the user agent.
func requestHeaders(cfg config.Config) http.Header {
	h := http.Header{}
	for name, value := range cfg.Headers {
		h.Set(name, value)
	}
	if cfg.UserAgent != "" && h.Get("User-Agent") == "" {
		h.Set("User-Agent", cfg.UserAgent)
	}
	return h
}

func debugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvaluate: func(ctx context.Context, e *domain.EvaluateEvent) {
			if e.IsError {
				logger.Debug("evaluate failed", "op", e.Op)
			}
		},
		OnNavigate: func(ctx context.Context, e *domain.NavigateEvent) {
			logger.Debug("navigate", "method", e.Method, "url", e.URL, "status", e.Status, "duration", e.Duration, "err", e.Err)
		},
		OnReconcile: func(ctx context.Context, e *domain.ReconcileEvent) {
			logger.Debug("reconcile", "replaced", e.Replaced, "removed", e.Removed, "kept", e.Kept,
				"head_added", e.HeadAdded, "head_removed", e.HeadRemoved)
		},
		OnHistory: func(ctx context.Context, e *domain.HistoryEvent) {
			logger.Debug("history", "replace", e.Replace, "url", e.URL)
		},
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// status prints a one-line message to w, coloured when w is a terminal.
func status(w io.Writer, ok bool, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if isTerminal(w) {
		msg = tui.Status(ok, msg)
	}
	fmt.Fprintln(w, msg)
}
