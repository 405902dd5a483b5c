// Package metrics collects and exposes Prometheus metrics for the email
// generation flow.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	generationsStarted   prometheus.Counter
	generationsCompleted prometheus.Counter
	generationsFailed    prometheus.Counter
	generationsSkipped   prometheus.Counter
	chunksStreamed       prometheus.Counter
	generationSeconds    prometheus.Histogram
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		generationsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salesdesk_generations_started_total",
			Help: "Email generations started.",
		}),
		generationsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salesdesk_generations_completed_total",
			Help: "Email generations that ran to stream completion.",
		}),
		generationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salesdesk_generations_failed_total",
			Help: "Email generations terminated by an upstream error.",
		}),
		generationsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salesdesk_generations_skipped_total",
			Help: "Generation requests rejected before any upstream call.",
		}),
		chunksStreamed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "salesdesk_generation_chunks_total",
			Help: "Stream fragments appended to session buffers.",
		}),
		generationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "salesdesk_generation_duration_seconds",
			Help:    "Wall time of one generation, start to stream end.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.generationsStarted,
		c.generationsCompleted,
		c.generationsFailed,
		c.generationsSkipped,
		c.chunksStreamed,
		c.generationSeconds,
	)

	return c
}

func (c *Collector) RecordGenerationStarted()   { c.generationsStarted.Inc() }
func (c *Collector) RecordGenerationCompleted() { c.generationsCompleted.Inc() }
func (c *Collector) RecordGenerationFailed()    { c.generationsFailed.Inc() }
func (c *Collector) RecordGenerationSkipped()   { c.generationsSkipped.Inc() }
func (c *Collector) RecordChunk()               { c.chunksStreamed.Inc() }

func (c *Collector) RecordGenerationDuration(d time.Duration) {
	c.generationSeconds.Observe(d.Seconds())
}

// Handler returns the scrape endpoint handler for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}
