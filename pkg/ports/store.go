package ports

import (
	"context"

	"github.com/aretw0/hyperway/pkg/domain"
)

// SnapshotStore persists page session snapshots so a session can be resumed later
// (e.g. by another CLI invocation).
type SnapshotStore interface {
	// Save persists the snapshot under its session ID.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the stored sessions.
	List(ctx context.Context) ([]string, error)
}
