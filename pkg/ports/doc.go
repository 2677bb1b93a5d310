/*
Package ports defines the driven ports (interfaces) of the hyperway runtime.

These interfaces decouple the runtime from external implementations, allowing
page sessions to be persisted in various backends.

# Key Interfaces

  - SnapshotStore: persists and loads page session snapshots (memory, Redis).
  - DistributedLocker: serializes access to a session shared by several processes.
*/
package ports
