package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/hyperway/internal/logging"
)

// ErrLoopClosed is returned when work is posted to a closed loop.
var ErrLoopClosed = errors.New("event loop closed")

// Loop is the single thread that owns the live document.
// Every evaluation and every document mutation runs on it; network requests and
// timers run elsewhere and post their continuations back.
//
// The loop tracks outstanding work (queued tasks, in-flight requests, armed
// timers) so that Wait can block until the page is quiescent.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	pending int
	idle    chan struct{}
	errs    []error
	closed  bool

	wake   chan struct{}
	done   chan struct{}
	logger *slog.Logger
}

// NewLoop starts a loop goroutine.
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = logging.NewNop()
	}
	idle := make(chan struct{})
	close(idle)
	l := &Loop{
		idle:   idle,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	for {
		select {
		case <-l.done:
			return
		case <-l.wake:
		}

		for {
			l.mu.Lock()
			if len(l.queue) == 0 || l.closed {
				l.mu.Unlock()
				break
			}
			task := l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
			l.mu.Unlock()

			l.exec(task)
			l.settle()
		}
	}
}

func (l *Loop) exec(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop task panicked", "panic", r)
			l.Report(fmt.Errorf("loop task panicked: %v", r))
		}
	}()
	task()
}

// track must be called with mu held.
func (l *Loop) track(n int) {
	if l.closed {
		return
	}
	was := l.pending
	l.pending += n
	switch {
	case was == 0 && l.pending > 0:
		l.idle = make(chan struct{})
	case was > 0 && l.pending == 0:
		close(l.idle)
	}
}

func (l *Loop) settle() {
	l.mu.Lock()
	l.track(-1)
	l.mu.Unlock()
}

// Post queues fn to run on the loop. It reports false when the loop is closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.track(1)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the loop and waits for its result. It must not be called from the loop itself.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	if !l.Post(func() { res <- fn() }) {
		return ErrLoopClosed
	}
	select {
	case err := <-res:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Async registers an operation running off the loop, such as a network request.
// The returned function posts the continuation and releases the registration;
// only its first call has an effect.
func (l *Loop) Async() func(continuation func()) {
	l.mu.Lock()
	l.track(1)
	l.mu.Unlock()

	var once sync.Once
	return func(continuation func()) {
		once.Do(func() {
			if continuation != nil {
				l.Post(continuation)
			}
			l.settle()
		})
	}
}

// AfterFunc runs fn on the loop after d. The returned stop function cancels a
// timer that has not fired yet and reports whether it did so.
func (l *Loop) AfterFunc(d time.Duration, fn func()) (stop func() bool) {
	l.mu.Lock()
	l.track(1)
	l.mu.Unlock()

	var fired atomic.Bool
	t := time.AfterFunc(d, func() {
		if fired.CompareAndSwap(false, true) {
			l.Post(fn)
			l.settle()
		}
	})
	return func() bool {
		if t.Stop() && fired.CompareAndSwap(false, true) {
			l.settle()
			return true
		}
		return false
	}
}

// Report records an error raised by asynchronous work; Wait returns it.
func (l *Loop) Report(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	l.errs = append(l.errs, err)
	l.mu.Unlock()
}

// Wait blocks until no task, request or timer is outstanding and returns the
// errors reported since the previous Wait.
func (l *Loop) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		if l.pending == 0 || l.closed {
			errs := l.errs
			l.errs = nil
			l.mu.Unlock()
			return errors.Join(errs...)
		}
		idle := l.idle
		l.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops the loop. Queued tasks are dropped and late continuations are ignored.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if l.pending > 0 {
		close(l.idle)
	}
	l.closed = true
	l.queue = nil
	l.pending = 0
	close(l.done)
}
