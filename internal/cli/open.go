package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/hyperway"
	"github.com/aretw0/hyperway/internal/config"
	"github.com/aretw0/hyperway/internal/presentation/tui"
	"github.com/aretw0/hyperway/pkg/adapters/memory"
	"github.com/aretw0/hyperway/pkg/adapters/redis"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/aretw0/hyperway/pkg/persistence/middleware"
	"github.com/aretw0/hyperway/pkg/ports"
	"golang.org/x/term"
)

// OpenOptions drives one headless page session.
type OpenOptions struct {
	URL string

	// Inputs are "id=value" pairs applied before Clicks, which run before Submit.
	Inputs []string
	Clicks []string
	Submit string

	// SessionID resumes and saves the session under that id.
	SessionID string

	// Markdown prints the page outline instead of the HTML.
	Markdown bool

	// Client and Store override the defaults derived from the config.
	Client hyperway.Fetcher
	Store  ports.SnapshotStore
}

// Open loads a page, replays the requested interactions and prints the result to stdout.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger, opts OpenOptions, stdout, stderr io.Writer) error {
	rtOpts := []hyperway.Option{
		hyperway.WithLogger(logger),
		hyperway.WithLifecycleHooks(debugHooks(logger)),
		hyperway.WithHistory(cfg.History),
		hyperway.WithTimeout(cfg.Timeout),
		hyperway.WithHeaders(requestHeaders(cfg)),
	}
	if opts.Client != nil {
		rtOpts = append(rtOpts, hyperway.WithClient(opts.Client))
	}
	if opts.SessionID != "" {
		rtOpts = append(rtOpts, hyperway.WithSessionID(opts.SessionID))
		store, locker, closeStore, err := openStore(cfg, opts.Store)
		if err != nil {
			return err
		}
		defer closeStore()
		rtOpts = append(rtOpts, hyperway.WithStore(store))
		if locker != nil {
			rtOpts = append(rtOpts, hyperway.WithLocker(locker, cfg.Timeout))
		}
	}

	rt, err := hyperway.New(rtOpts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	restored := false
	if opts.SessionID != "" {
		err := rt.Restore(ctx, opts.SessionID)
		switch {
		case err == nil:
			restored = true
			status(stderr, true, "resumed session %s", opts.SessionID)
		case !errors.Is(err, domain.ErrSessionNotFound):
			return err
		}
	}

	if opts.URL != "" {
		if err := rt.Open(ctx, opts.URL); err != nil {
			return err
		}
	} else if !restored {
		return errors.New("a URL or an existing session is required")
	}

	if err := interact(ctx, rt, opts); err != nil {
		return err
	}

	if opts.SessionID != "" {
		if _, err := rt.Save(ctx); err != nil {
			return err
		}
		status(stderr, true, "saved session %s", opts.SessionID)
	}
	return printPage(ctx, rt, opts.Markdown, stdout)
}

func interact(ctx context.Context, rt *hyperway.Runtime, opts OpenOptions) error {
	var steps []func() error
	for _, pair := range opts.Inputs {
		id, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid input %q: expected id=value", pair)
		}
		value, err := SanitizeInput(value)
		if err != nil {
			return fmt.Errorf("invalid input for %s: %w", id, err)
		}
		steps = append(steps, func() error { return rt.Input(ctx, id, value) })
	}
	for _, id := range opts.Clicks {
		steps = append(steps, func() error { return rt.Click(ctx, id) })
	}
	if opts.Submit != "" {
		steps = append(steps, func() error { return rt.Submit(ctx, opts.Submit) })
	}

	if err := rt.Wait(ctx); err != nil {
		return err
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
		if err := rt.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// openStore picks the snapshot store and wraps it with redaction and encryption as configured.
func openStore(cfg config.Config, override ports.SnapshotStore) (ports.SnapshotStore, ports.DistributedLocker, func(), error) {
	var (
		store  ports.SnapshotStore
		locker ports.DistributedLocker
		done   = func() {}
	)
	switch {
	case override != nil:
		store = override
	case cfg.RedisAddr != "":
		rs := redis.New(cfg.RedisAddr, "", 0, redis.WithTTL(cfg.RedisTTL))
		store, locker = rs, redis.NewLocker(rs.Client(), redis.DefaultPrefix)
		done = func() { _ = rs.Close() }
	default:
		store = memory.NewStore()
	}

	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mw, err := middleware.NewRedactMiddleware(cfg.Redact)
		if err != nil {
			done()
			return nil, nil, nil, err
		}
		mws = append(mws, mw)
	}
	key, err := cfg.Key()
	if err != nil {
		done()
		return nil, nil, nil, err
	}
	if key != nil {
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			done()
			return nil, nil, nil, err
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(store, mws...), locker, done, nil
}

func printPage(ctx context.Context, rt *hyperway.Runtime, markdown bool, w io.Writer) error {
	if !markdown {
		html, err := rt.HTML(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, html)
		return err
	}

	var outline string
	if err := rt.Do(ctx, func(win *dom.Window) error {
		outline = tui.Outline(win.Document())
		return nil
	}); err != nil {
		return err
	}

	if isTerminal(w) {
		width := 0
		if f, ok := w.(*os.File); ok {
			width, _, _ = term.GetSize(int(f.Fd()))
		}
		render, err := tui.NewRenderer(width)
		if err != nil {
			return err
		}
		if outline, err = render(outline); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, outline)
	return err
}
