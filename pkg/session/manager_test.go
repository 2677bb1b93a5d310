package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/hyperway/pkg/adapters/memory"
	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/aretw0/hyperway/pkg/ports"
	"github.com/aretw0/hyperway/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore simulates IO latency and counts overlapping writes per session.
type slowStore struct {
	ports.SnapshotStore
	active  atomic.Int32
	overlap atomic.Bool
}

func (s *slowStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	if s.active.Add(1) > 1 {
		s.overlap.Store(true)
	}
	defer s.active.Add(-1)
	time.Sleep(5 * time.Millisecond)
	return s.SnapshotStore.Save(ctx, snap)
}

type fakeLocker struct {
	mu       sync.Mutex
	keys     []string
	ttl      time.Duration
	released int
	err      error
}

func (l *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.keys = append(l.keys, key)
	l.ttl = ttl
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released++
		return nil
	}, nil
}

func TestManager_SerializesWrites(t *testing.T) {
	store := &slowStore{SnapshotStore: memory.NewStore()}
	mgr := session.NewManager(store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, mgr.Save(ctx, &domain.Snapshot{SessionID: "race", URL: "https://example.com/"}))
		}()
	}
	wg.Wait()

	assert.False(t, store.overlap.Load(), "writes to one session must not overlap")
	snap, err := mgr.Load(ctx, "race")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", snap.URL)
}

func TestManager_LoadMissing(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	_, err := mgr.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_DeleteAndList(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()
	require.NoError(t, mgr.Save(ctx, &domain.Snapshot{SessionID: "a"}))
	require.NoError(t, mgr.Save(ctx, &domain.Snapshot{SessionID: "b"}))
	require.NoError(t, mgr.Delete(ctx, "a"))

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b"}, ids)
}

func TestManager_DistributedLock(t *testing.T) {
	locker := &fakeLocker{}
	mgr := session.NewManager(memory.NewStore(),
		session.WithLocker(locker),
		session.WithLockTTL(time.Second),
	)
	ctx := context.Background()

	require.NoError(t, mgr.Save(ctx, &domain.Snapshot{SessionID: "s1"}))
	_, err := mgr.Load(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, []string{"s1", "s1"}, locker.keys)
	assert.Equal(t, time.Second, locker.ttl)
	assert.Equal(t, 2, locker.released)
}

func TestManager_DistributedLockFailure(t *testing.T) {
	boom := errors.New("contended")
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(&fakeLocker{err: boom}))

	called := false
	err := mgr.WithLock(context.Background(), "s1", func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}
