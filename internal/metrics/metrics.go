// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package metrics exposes bridge counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Update results.
const (
	ResultApplied = "applied"
	ResultFrozen  = "frozen"
	ResultSkipped = "skipped"
)

// Metrics holds the bridge counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	EventsReceived *prometheus.CounterVec // by event type and transport
	EventsRejected *prometheus.CounterVec // by transport
	Updates        *prometheus.CounterVec // by result
	WSClients      prometheus.Gauge
}

// New creates and registers the bridge metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		EventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orientation_bridge",
			Name:      "events_received_total",
			Help:      "Orientation events dispatched to the controls.",
		}, []string{"type", "transport"}),
		EventsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orientation_bridge",
			Name:      "events_rejected_total",
			Help:      "Payloads that could not be decoded into an event.",
		}, []string{"transport"}),
		Updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orientation_bridge",
			Name:      "updates_total",
			Help:      "Controls update ticks by result.",
		}, []string{"result"}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orientation_bridge",
			Name:      "pose_stream_clients",
			Help:      "Websocket clients receiving the pose stream.",
		}),
	}
	m.registry.MustRegister(m.EventsReceived, m.EventsRejected, m.Updates, m.WSClients)
	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
