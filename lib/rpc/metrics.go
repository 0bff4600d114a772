// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by an Invoker.
//
//	vertex_rpc_requests_total{endpoint,outcome}
//	vertex_rpc_request_duration_seconds{endpoint}
//
// The endpoint label is the unresolved subject template, so partner
// identifiers never become label values.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with registerer.
// A nil registerer leaves them unregistered, which is useful in tests.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vertex",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Backend requests by endpoint template and outcome.",
		}, []string{"endpoint", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vertex",
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency by endpoint template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	if registerer != nil {
		for _, collector := range []prometheus.Collector{m.requests, m.duration} {
			if err := registerer.Register(collector); err != nil {
				return nil, fmt.Errorf("registering rpc metrics: %w", err)
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(endpoint, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(endpoint, outcome).Inc()
	m.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
