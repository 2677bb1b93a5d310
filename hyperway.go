package hyperway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aretw0/hyperway/internal/logging"
	"github.com/aretw0/hyperway/internal/runtime"
	"github.com/aretw0/hyperway/pkg/action"
	"github.com/aretw0/hyperway/pkg/dom"
	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/aretw0/hyperway/pkg/ports"
	"github.com/aretw0/hyperway/pkg/session"
	"github.com/google/uuid"
)

// BlankURL is the location of a runtime that has not opened any page.
const BlankURL = "about:blank"

var (
	// ErrNoHistory is returned by Back and Forward at either end of the session history.
	ErrNoHistory = errors.New("no history entry")

	// ErrNoStore is returned by Save and Restore when no snapshot store is configured.
	ErrNoStore = errors.New("no snapshot store configured")
)

// Fetcher performs page requests. *http.Client satisfies it.
type Fetcher = runtime.Fetcher

// Runtime is a headless page session: a live document, its window and the
// event loop every action runs on.
//
// Runtime is the single place where failures meet the error handler. Methods
// return whatever the handler returns; asynchronous failures are handed to it
// as well and surface from Wait.
type Runtime struct {
	loop   *runtime.Loop
	engine *runtime.Engine
	win    *dom.Window

	logger    *slog.Logger
	client    Fetcher
	hooks     domain.LifecycleHooks
	onError   func(error) error
	history   bool
	headers   http.Header
	timeout   time.Duration
	store     ports.SnapshotStore
	locker    ports.DistributedLocker
	lockTTL   time.Duration
	sessionID string
	sessions  *session.Manager
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithClient sets the client used for every request (default: http.DefaultClient).
func WithClient(client Fetcher) Option {
	return func(r *Runtime) {
		r.client = client
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runtime) {
		r.hooks = hooks
	}
}

// WithErrorHandler sets the hook every failure goes through. Returning nil
// swallows the failure. The default returns it unchanged.
func WithErrorHandler(h func(error) error) Option {
	return func(r *Runtime) {
		r.onError = h
	}
}

// WithHistory enables or disables history updates by soft navigations (default: enabled).
func WithHistory(enabled bool) Option {
	return func(r *Runtime) {
		r.history = enabled
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(h http.Header) Option {
	return func(r *Runtime) {
		r.headers = h.Clone()
	}
}

// WithTimeout bounds each request. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// WithStore enables Save and Restore.
func WithStore(store ports.SnapshotStore) Option {
	return func(r *Runtime) {
		r.store = store
	}
}

// WithLocker guards snapshot writes with a distributed lock held for at most ttl.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(r *Runtime) {
		r.locker = locker
		r.lockTTL = ttl
	}
}

// WithSessionID sets the id snapshots are saved under (default: a random UUID).
func WithSessionID(id string) Option {
	return func(r *Runtime) {
		r.sessionID = id
	}
}

// New creates a runtime showing an empty page at BlankURL.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{
		logger:  logging.NewNop(),
		client:  http.DefaultClient,
		onError: func(err error) error { return err },
		history: true,
		lockTTL: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sessionID == "" {
		r.sessionID = uuid.NewString()
	}
	if r.store != nil {
		r.sessions = session.NewManager(r.store,
			session.WithLocker(r.locker),
			session.WithLockTTL(r.lockTTL),
			session.WithLogger(r.logger),
		)
	}

	win, err := dom.NewWindow(BlankURL)
	if err != nil {
		return nil, err
	}
	r.win = win
	r.loop = runtime.NewLoop(r.logger)
	r.engine = runtime.NewEngine(r.loop,
		runtime.WithFetcher(r.client),
		runtime.WithLogger(r.logger),
		runtime.WithLifecycleHooks(r.hooks),
		runtime.WithErrorHandler(r.onError),
		runtime.WithHistory(r.history),
		runtime.WithHeaders(r.headers),
		runtime.WithTimeout(r.timeout),
	)
	return r, nil
}

// SessionID returns the id snapshots are saved under.
func (r *Runtime) SessionID() string {
	return r.sessionID
}

func (r *Runtime) handle(err error) error {
	if err == nil {
		return nil
	}
	return r.onError(err)
}

// Open loads target as a full page and runs its load actions.
// The first page replaces the blank entry; later pages push a new one.
func (r *Runtime) Open(ctx context.Context, target string) error {
	return r.handle(r.open(ctx, target, runtime.RequestInit{Method: http.MethodGet}, true))
}

func (r *Runtime) open(ctx context.Context, target string, init runtime.RequestInit, push bool) error {
	var u *url.URL
	err := r.loop.Do(ctx, func() error {
		var err error
		u, err = r.win.Resolve(target)
		push = push && r.win.Location().String() != BlankURL
		return err
	})
	if err != nil {
		return err
	}

	r.logger.Debug("loading page", "method", init.Method, "url", u.String())
	final, text, err := r.engine.Fetch(ctx, u, init)
	if err != nil {
		return err
	}
	return r.show(ctx, final, text, push)
}

// LoadHTML shows text as the page at location without any request, replacing
// the current history entry, and runs its load actions.
func (r *Runtime) LoadHTML(ctx context.Context, location, text string) error {
	return r.handle(r.show(ctx, location, text, false))
}

func (r *Runtime) show(ctx context.Context, location, text string, push bool) error {
	return r.loop.Do(ctx, func() error {
		u, err := r.win.Resolve(location)
		if err != nil {
			return err
		}
		doc, err := dom.ParseString(text)
		if err != nil {
			return err
		}
		r.engine.StopTimers()
		r.win.Load(doc, u, push)
		return r.engine.RunLoadActions(ctx, doc.DocumentElement())
	})
}

// Click dispatches a click on the element with the given id. The nearest
// element carrying a click action, starting at the target, handles it and
// suppresses the default. Otherwise the nearest anchor is followed, or the
// nearest submit button submits its form, as a full page load.
func (r *Runtime) Click(ctx context.Context, id string) error {
	var fallback func() error
	err := r.loop.Do(ctx, func() error {
		el, err := r.element(id)
		if err != nil {
			return err
		}
		for n := el; n != nil; n = n.Parent() {
			if n.HasAttr(domain.AttrOnClick) {
				_, err := r.engine.Trigger(ctx, n, domain.AttrOnClick)
				return err
			}
		}
		fallback, err = r.defaultClick(ctx, el)
		return err
	})
	if err == nil && fallback != nil {
		err = fallback()
	}
	return r.handle(err)
}

func (r *Runtime) defaultClick(ctx context.Context, el *dom.Element) (func() error, error) {
	for n := el; n != nil; n = n.Parent() {
		switch {
		case n.Tag() == "a" && n.HasAttr("href"):
			href := n.Href()
			return func() error {
				return r.open(ctx, href, runtime.RequestInit{Method: http.MethodGet}, true)
			}, nil
		case dom.IsSubmitter(n):
			form := dom.FormOf(n)
			if form == nil {
				return nil, nil
			}
			return r.submitForm(ctx, form, n)
		}
	}
	return nil, nil
}

// Input sets the value of a form field and runs the nearest input action.
func (r *Runtime) Input(ctx context.Context, id, value string) error {
	return r.handle(r.loop.Do(ctx, func() error {
		el, err := r.element(id)
		if err != nil {
			return err
		}
		el.SetValue(value)
		for n := el; n != nil; n = n.Parent() {
			if n.HasAttr(domain.AttrOnInput) {
				_, err := r.engine.Trigger(ctx, n, domain.AttrOnInput)
				return err
			}
		}
		return nil
	}))
}

// Submit submits the form with the given id, or the form owning the element
// with that id (which then acts as the submitter). A form carrying a submit
// action runs it instead of the default full page submission.
func (r *Runtime) Submit(ctx context.Context, id string) error {
	var fallback func() error
	err := r.loop.Do(ctx, func() error {
		el, err := r.element(id)
		if err != nil {
			return err
		}
		form, submitter := el, (*dom.Element)(nil)
		if el.Tag() != "form" {
			form = dom.FormOf(el)
			if dom.IsSubmitter(el) {
				submitter = el
			}
		}
		if form == nil {
			return &dom.TypeError{Name: "#" + id, TypeName: "HTMLFormElement", Actual: el}
		}
		fallback, err = r.submitForm(ctx, form, submitter)
		return err
	})
	if err == nil && fallback != nil {
		err = fallback()
	}
	return r.handle(err)
}

// submitForm runs the submit action of form, or returns the default submission to run off the loop.
func (r *Runtime) submitForm(ctx context.Context, form, submitter *dom.Element) (func() error, error) {
	if ok, err := r.engine.Trigger(ctx, form, domain.AttrOnSubmit); ok {
		return nil, err
	}
	target, init, err := runtime.FormRequest(form, submitter)
	if err != nil {
		return nil, err
	}
	return func() error {
		return r.open(ctx, target, init, true)
	}, nil
}

// Back moves one entry back in the session history.
func (r *Runtime) Back(ctx context.Context) error {
	return r.traverse(ctx, -1)
}

// Forward moves one entry forward in the session history.
func (r *Runtime) Forward(ctx context.Context) error {
	return r.traverse(ctx, 1)
}

// traverse moves through the history. Entries created by soft navigations
// are restored with a soft navigation that leaves the history alone; any
// other entry is reloaded as a full page.
func (r *Runtime) traverse(ctx context.Context, delta int) error {
	var reload string
	err := r.loop.Do(ctx, func() error {
		entry, ok := r.win.History().Go(delta)
		if !ok {
			return ErrNoHistory
		}
		if !entry.Marked() {
			reload = entry.URL
			return nil
		}
		c := runtime.NewContext(ctx, r.win, nil)
		opts := []any{[]any(action.WithHistory(false))}
		return r.engine.Navigate(c, opts, entry.URL, runtime.RequestInit{Method: http.MethodGet})
	})
	if err == nil && reload != "" {
		err = r.open(ctx, reload, runtime.RequestInit{Method: http.MethodGet}, false)
	}
	return r.handle(err)
}

// Evaluate runs a on the loop with the element of the given id as origin ("" for none).
func (r *Runtime) Evaluate(ctx context.Context, originID string, a action.Action) (any, error) {
	var v any
	err := r.loop.Do(ctx, func() error {
		var origin *dom.Element
		if originID != "" {
			var err error
			if origin, err = r.element(originID); err != nil {
				return err
			}
		}
		var err error
		v, err = r.engine.Evaluate(runtime.NewContext(ctx, r.win, origin), a)
		return err
	})
	return v, r.handle(err)
}

// Do runs fn on the loop with the window. The window and its document must
// not be retained past fn.
func (r *Runtime) Do(ctx context.Context, fn func(*dom.Window) error) error {
	return r.loop.Do(ctx, func() error {
		return fn(r.win)
	})
}

// HTML renders the live document.
func (r *Runtime) HTML(ctx context.Context) (string, error) {
	var s string
	err := r.Do(ctx, func(w *dom.Window) error {
		s = w.Document().String()
		return nil
	})
	return s, err
}

// Wait blocks until no action, request or timer is outstanding and returns
// the asynchronous failures the error handler passed on.
func (r *Runtime) Wait(ctx context.Context) error {
	return r.loop.Wait(ctx)
}

// Save persists a snapshot of the page under the session id.
func (r *Runtime) Save(ctx context.Context) (*domain.Snapshot, error) {
	if r.sessions == nil {
		return nil, ErrNoStore
	}
	var snap domain.Snapshot
	if err := r.Do(ctx, func(w *dom.Window) error {
		snap = w.Snapshot()
		return nil
	}); err != nil {
		return nil, err
	}
	snap.SessionID = r.sessionID
	snap.SavedAt = time.Now().UTC()

	if err := r.sessions.Save(ctx, &snap); err != nil {
		return nil, fmt.Errorf("failed to save session %s: %w", r.sessionID, err)
	}
	r.logger.Debug("session saved", "session_id", r.sessionID, "url", snap.URL)
	return &snap, nil
}

// Restore replaces the page with the snapshot saved under sessionID and adopts that id.
// Load actions are not run again.
func (r *Runtime) Restore(ctx context.Context, sessionID string) error {
	if r.sessions == nil {
		return ErrNoStore
	}
	snap, err := r.sessions.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	win, err := dom.RestoreWindow(snap)
	if err != nil {
		return fmt.Errorf("failed to restore session %s: %w", sessionID, err)
	}
	err = r.loop.Do(ctx, func() error {
		r.engine.StopTimers()
		r.win = win
		return nil
	})
	if err != nil {
		return err
	}
	r.sessionID = sessionID
	return nil
}

// Close stops pending timers and the event loop.
func (r *Runtime) Close() {
	_ = r.loop.Do(context.Background(), func() error {
		r.engine.StopTimers()
		return nil
	})
	r.loop.Close()
}

func (r *Runtime) element(id string) (*dom.Element, error) {
	el := r.win.Document().ElementByID(id)
	if el == nil {
		return nil, fmt.Errorf("%w: #%s", domain.ErrElementNotFound, id)
	}
	return el, nil
}
