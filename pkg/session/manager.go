package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/hyperway/internal/logging"
	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/aretw0/hyperway/pkg/ports"
)

// DefaultLockTTL is how long a distributed snapshot lock outlives a runtime
// that died while saving.
const DefaultLockTTL = 30 * time.Second

// gate serializes the runtimes of one process that touch the same snapshot.
// waiters counts the callers inside or queued on mu; the gate is dropped at zero.
type gate struct {
	mu      sync.Mutex
	waiters int
}

// Manager reads and writes page snapshots, one writer per session id at a time.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex
	gates map[string]*gate

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLocker also takes a distributed lock around each operation, for stores
// shared by several processes. A nil locker keeps locking in-process.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks. Non-positive values keep DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger sets the logger used for lock release failures.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		gates:   make(map[string]*gate),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// enter blocks until the caller owns the gate of id.
func (m *Manager) enter(id string) *gate {
	m.mu.Lock()
	g := m.gates[id]
	if g == nil {
		g = &gate{}
		m.gates[id] = g
	}
	g.waiters++
	m.mu.Unlock()

	g.mu.Lock()
	return g
}

// leave gives up the gate of id and forgets it when nobody else waits.
func (m *Manager) leave(id string, g *gate) {
	g.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if g.waiters--; g.waiters == 0 && m.gates[id] == g {
		delete(m.gates, id)
	}
}

// hold acquires every lock guarding id and returns the function releasing them.
func (m *Manager) hold(ctx context.Context, id string) (func(), error) {
	g := m.enter(id)
	if m.locker == nil {
		return func() { m.leave(id, g) }, nil
	}

	unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
	if err != nil {
		m.leave(id, g)
		return nil, fmt.Errorf("failed to acquire distributed lock: %w", err)
	}
	return func() {
		// The caller's context may be done by now; the key still has to go.
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			m.logger.Warn("snapshot lock not released, it expires with its ttl",
				"session_id", id,
				"ttl", m.lockTTL,
				"err", err,
			)
		}
		m.leave(id, g)
	}, nil
}

// WithLock runs fn while holding the locks of session id.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	release, err := m.hold(ctx, id)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

// Load returns the snapshot saved under id, or domain.ErrSessionNotFound.
func (m *Manager) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, id)
		return err
	})
	return snap, err
}

// Save writes snap under snap.SessionID.
func (m *Manager) Save(ctx context.Context, snap *domain.Snapshot) error {
	return m.WithLock(ctx, snap.SessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, snap)
	})
}

// Delete removes the snapshot of id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List returns the ids of stored snapshots. It takes no lock.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}
