// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package dropbox

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors updated by an Uploader.
type Metrics struct {
	provisions *prometheus.CounterVec
	documents  *prometheus.CounterVec
	bytes      *prometheus.CounterVec
}

// NewMetrics creates the dropbox collectors and registers them with
// registerer, if non-nil.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		provisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vertex",
			Subsystem: "dropbox",
			Name:      "provisions_total",
			Help:      "Bucket provisioning attempts by kind and terminal state.",
		}, []string{"kind", "state"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vertex",
			Subsystem: "dropbox",
			Name:      "documents_total",
			Help:      "Document uploads by kind and outcome.",
		}, []string{"kind", "outcome"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vertex",
			Subsystem: "dropbox",
			Name:      "uploaded_bytes_total",
			Help:      "Bytes stored in dropbox buckets by kind.",
		}, []string{"kind"}),
	}
	if registerer != nil {
		for _, collector := range []prometheus.Collector{m.provisions, m.documents, m.bytes} {
			if err := registerer.Register(collector); err != nil {
				return nil, fmt.Errorf("registering dropbox metrics: %w", err)
			}
		}
	}
	return m, nil
}

func (m *Metrics) provisioned(kind Kind, state State) {
	m.provisions.WithLabelValues(kind.String(), state.String()).Inc()
}

func (m *Metrics) uploaded(kind Kind, size uint64) {
	m.documents.WithLabelValues(kind.String(), "stored").Inc()
	m.bytes.WithLabelValues(kind.String()).Add(float64(size))
}

func (m *Metrics) uploadFailed(kind Kind) {
	m.documents.WithLabelValues(kind.String(), "failed").Inc()
}
