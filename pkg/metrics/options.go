package metrics

import "github.com/prometheus/client_golang/prometheus"

// Option customizes a Manager before its collectors are registered.
type Option func(*Manager)

// WithNamespace replaces the "bestxi" namespace. Empty keeps the default.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithSubsystem replaces the "analyzer" subsystem. Empty keeps the default.
func WithSubsystem(sub string) Option {
	return func(m *Manager) {
		if sub != "" {
			m.subsystem = sub
		}
	}
}

// WithLatencyBuckets sets the millisecond buckets shared by every latency histogram.
func WithLatencyBuckets(ms ...float64) Option {
	return func(m *Manager) {
		if len(ms) > 0 {
			m.latencyBuckets = ms
		}
	}
}

// WithConstLabels adds labels such as env or version to every collector.
func WithConstLabels(labels map[string]string) Option {
	return func(m *Manager) {
		for k, v := range labels {
			m.constLabels[k] = v
		}
	}
}

// WithRegistry registers collectors on reg instead of prometheus.DefaultRegisterer.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}
