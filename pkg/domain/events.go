package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventEvaluate  EventType = "evaluate"
	EventNavigate  EventType = "navigate"
	EventReconcile EventType = "reconcile"
	EventHistory   EventType = "history"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// EvaluateEvent is emitted for each dispatched operation.
type EvaluateEvent struct {
	EventBase
	Op      string `json:"op"`
	IsError bool   `json:"is_error,omitempty"`
}

// NavigateEvent describes a completed (or failed) network round trip.
type NavigateEvent struct {
	EventBase
	Method      string        `json:"method"`
	URL         string        `json:"url"`
	ResponseURL string        `json:"response_url,omitempty"`
	Status      int           `json:"status,omitempty"`
	Duration    time.Duration `json:"duration"`
	Err         error         `json:"-"`
}

// ReconcileEvent summarises one reconciliation pass.
type ReconcileEvent struct {
	EventBase
	Replaced    []string `json:"replaced,omitempty"`
	Removed     []string `json:"removed,omitempty"`
	Kept        []string `json:"kept,omitempty"`
	HeadAdded   int      `json:"head_added"`
	HeadRemoved int      `json:"head_removed"`
}

// HistoryEvent is emitted when the runtime pushes or replaces a history entry.
type HistoryEvent struct {
	EventBase
	Replace bool   `json:"replace"`
	URL     string `json:"url"`
}

// LifecycleHooks defines callbacks for runtime observability.
type LifecycleHooks struct {
	OnEvaluate  func(context.Context, *EvaluateEvent)
	OnNavigate  func(context.Context, *NavigateEvent)
	OnReconcile func(context.Context, *ReconcileEvent)
	OnHistory   func(context.Context, *HistoryEvent)
}

// Combine returns hooks that invoke each non-nil callback of hs in order.
func Combine(hs ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range hs {
		out.OnEvaluate = chain(out.OnEvaluate, h.OnEvaluate)
		out.OnNavigate = chain(out.OnNavigate, h.OnNavigate)
		out.OnReconcile = chain(out.OnReconcile, h.OnReconcile)
		out.OnHistory = chain(out.OnHistory, h.OnHistory)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
