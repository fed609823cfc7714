// Package metrics counts conversion outcomes with prometheus collectors. A
// converter run is short lived, so instead of serving /metrics the registry is
// written to a node-exporter textfile at the end of the run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "statement_converter"

// Document statuses.
const (
	StatusConverted      = "converted"
	StatusFailed         = "failed"
	StatusNoTransactions = "no_transactions"
	StatusSkipped        = "skipped"
)

// Metrics holds the converter collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	documents     *prometheus.CounterVec
	pages         prometheus.Counter
	transactions  prometheus.Counter
	droppedBlocks prometheus.Counter
	duration      prometheus.Histogram
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Statement documents processed, by outcome.",
		}, []string{"status"}),
		pages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "PDF pages read.",
		}),
		transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Transactions extracted.",
		}),
		droppedBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_blocks_total",
			Help:      "Transaction blocks dropped because their header carried no amount.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Time to convert one document.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 7),
		}),
	}

	m.registry.MustRegister(m.documents, m.pages, m.transactions, m.droppedBlocks, m.duration)
	return m
}

// Document records one processed document.
func (m *Metrics) Document(status string, pages, transactions, dropped int, took time.Duration) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(status).Inc()
	m.pages.Add(float64(pages))
	m.transactions.Add(float64(transactions))
	m.droppedBlocks.Add(float64(dropped))
	m.duration.Observe(took.Seconds())
}

// Skipped records a document left alone because it was already processed.
func (m *Metrics) Skipped() {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(StatusSkipped).Inc()
}

// Documents returns the counter of documents with the given status.
func (m *Metrics) Documents(status string) prometheus.Counter {
	return m.documents.WithLabelValues(status)
}

// WriteTextfile writes the current values in the text exposition format. The
// file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
