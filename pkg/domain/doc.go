/*
Package domain contains the plain data types shared by the hyperway packages.

It is kept free of I/O and of the document model so that stores, metrics and
the runtime can agree on the same vocabulary.

# Key Entities

  - Frame: a named, optionally valued document region (data-frame="name:value").
  - HistoryEntry: one session history entry; runtime-created entries carry the way marker.
  - Snapshot: a persisted page session (document, location, history).
  - LifecycleHooks: observability callbacks fired by the runtime.
*/
package domain
