package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records per-batch ingestion outcomes.
type PipelineMetrics struct {
	duration     *prometheus.HistogramVec
	batches      *prometheus.CounterVec
	skippedLines prometheus.Counter
	droppedRows  prometheus.Counter
}

// NewPipelineMetrics registers the batch pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "batch_duration_seconds",
		Help:    "Duration of batch ingestion in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	batches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batches_total",
		Help: "Ingested batches by outcome.",
	}, []string{"outcome"})
	skippedLines := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "customer_lines_skipped_total",
		Help: "Customer lines rejected by the decoder.",
	})
	droppedRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "transactions_dropped_total",
		Help: "Transactions dropped because a join key had no match.",
	})
	reg.MustRegister(duration, batches, skippedLines, droppedRows)
	return &PipelineMetrics{
		duration:     duration,
		batches:      batches,
		skippedLines: skippedLines,
		droppedRows:  droppedRows,
	}
}

// ObserveBatch records one finished batch run.
func (p *PipelineMetrics) ObserveBatch(outcome string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	p.duration.WithLabelValues(outcome).Observe(duration.Seconds())
	p.batches.WithLabelValues(outcome).Inc()
}

// AddSkippedLines counts decoder rejections inside a batch.
func (p *PipelineMetrics) AddSkippedLines(n int) {
	if p == nil || p.skippedLines == nil || n <= 0 {
		return
	}
	p.skippedLines.Add(float64(n))
}

// AddDroppedRows counts transactions excluded by the inner joins.
func (p *PipelineMetrics) AddDroppedRows(n int) {
	if p == nil || p.droppedRows == nil || n <= 0 {
		return
	}
	p.droppedRows.Add(float64(n))
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
