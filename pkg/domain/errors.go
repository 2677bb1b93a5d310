package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoDocument is returned when an operation needs a live document and the window has none.
var ErrNoDocument = errors.New("illegal state: window has no document")

// ErrElementNotFound is returned when an element lookup by id fails.
var ErrElementNotFound = errors.New("element not found")
