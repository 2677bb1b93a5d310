package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// The runtime takes it around snapshot writes when several processes share a session.
type DistributedLocker interface {
	// Lock acquires the lock for key (e.g. a session ID), blocking until it is
	// acquired or ctx is done. The lock expires after ttl if never released.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
