// Package middleware wraps snapshot stores with transformations applied on the way in and out.
package middleware

import "github.com/aretw0/hyperway/pkg/ports"

// Middleware allows wrapping a SnapshotStore to add behavior.
type Middleware func(ports.SnapshotStore) ports.SnapshotStore

// Chain applies mws so that the first one is the outermost.
func Chain(store ports.SnapshotStore, mws ...Middleware) ports.SnapshotStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
