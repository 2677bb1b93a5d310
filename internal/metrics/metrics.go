// Package metrics exposes runtime lifecycle events as Prometheus collectors.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hyperway"

// Metrics owns a private registry so several runtimes can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	Evaluations *prometheus.CounterVec
	Navigations *prometheus.CounterVec
	Latency     *prometheus.HistogramVec
	Frames      *prometheus.CounterVec
	HeadEntries *prometheus.CounterVec
	History     *prometheus.CounterVec
	Pages       *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Operations dispatched by the action evaluator.",
		}, []string{"op", "result"}),
		Navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Network round trips issued by the navigation pipeline.",
		}, []string{"method", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "navigation_duration_seconds",
			Help:      "Duration of navigation requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		Frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames handled by reconciliation, by outcome.",
		}, []string{"outcome"}),
		HeadEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "head_entries_total",
			Help:      "Head entries added or removed by reconciliation.",
		}, []string{"change"}),
		History: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_updates_total",
			Help:      "History entries written by the runtime.",
		}, []string{"kind"}),
		Pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_served_total",
			Help:      "Pages served by the page server.",
		}, []string{"status", "soft"}),
	}
	m.registry.MustRegister(m.Evaluations, m.Navigations, m.Latency, m.Frames, m.HeadEntries, m.History, m.Pages)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvaluate: func(_ context.Context, e *domain.EvaluateEvent) {
			m.Evaluations.WithLabelValues(e.Op, result(e.IsError)).Inc()
		},
		OnNavigate: func(_ context.Context, e *domain.NavigateEvent) {
			status := strconv.Itoa(e.Status)
			if e.Err != nil && e.Status == 0 {
				status = "error"
			}
			m.Navigations.WithLabelValues(e.Method, status).Inc()
			m.Latency.WithLabelValues(e.Method).Observe(e.Duration.Seconds())
		},
		OnReconcile: func(_ context.Context, e *domain.ReconcileEvent) {
			m.Frames.WithLabelValues("replaced").Add(float64(len(e.Replaced)))
			m.Frames.WithLabelValues("removed").Add(float64(len(e.Removed)))
			m.Frames.WithLabelValues("kept").Add(float64(len(e.Kept)))
			m.HeadEntries.WithLabelValues("added").Add(float64(e.HeadAdded))
			m.HeadEntries.WithLabelValues("removed").Add(float64(e.HeadRemoved))
		},
		OnHistory: func(_ context.Context, e *domain.HistoryEvent) {
			kind := "push"
			if e.Replace {
				kind = "replace"
			}
			m.History.WithLabelValues(kind).Inc()
		},
	}
}

// ObservePage counts a page served with status; soft marks soft-navigation requests.
func (m *Metrics) ObservePage(status int, soft bool) {
	m.Pages.WithLabelValues(strconv.Itoa(status), strconv.FormatBool(soft)).Inc()
}

func result(isErr bool) string {
	if isErr {
		return "error"
	}
	return "ok"
}
