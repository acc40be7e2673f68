// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	PublishesSucceeded prometheus.Counter
	PublishesFailed    prometheus.Counter
	PersistsSucceeded  prometheus.Counter
	SchedulerCooldowns prometheus.Counter
	CommandsHandled    prometheus.Counter

	// Histograms (seconds)
	PublishDuration prometheus.Observer

	// Gauges
	QuoteCountGauge prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		PublishesSucceeded = promauto.NewCounter(prometheus.CounterOpts{Name: "quote_publishes_succeeded_total", Help: "Number of quote publishes that reached the channel"})
		PublishesFailed = promauto.NewCounter(prometheus.CounterOpts{Name: "quote_publishes_failed_total", Help: "Number of quote publishes that failed"})
		PersistsSucceeded = promauto.NewCounter(prometheus.CounterOpts{Name: "quote_persists_succeeded_total", Help: "Number of successful quote file persists"})
		SchedulerCooldowns = promauto.NewCounter(prometheus.CounterOpts{Name: "quote_scheduler_cooldowns_total", Help: "Number of scheduler error cooldowns entered"})
		CommandsHandled = promauto.NewCounter(prometheus.CounterOpts{Name: "quote_commands_handled_total", Help: "Number of slash commands handled"})
		PublishDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "quote_publish_duration_seconds", Help: "Publish duration seconds", Buckets: prometheus.DefBuckets})
		QuoteCountGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "quote_store_size", Help: "Current number of quotes in the store"})
	})
}

// SetQuoteCount records the current store size.
func SetQuoteCount(n int) {
	if QuoteCountGauge != nil {
		QuoteCountGauge.Set(float64(n))
	}
}

// IncPersist counts a successful persist.
func IncPersist() {
	if PersistsSucceeded != nil {
		PersistsSucceeded.Inc()
	}
}

// IncPublish counts a publish outcome and records its duration.
func IncPublish(ok bool, d time.Duration) {
	if ok {
		if PublishesSucceeded != nil {
			PublishesSucceeded.Inc()
		}
	} else if PublishesFailed != nil {
		PublishesFailed.Inc()
	}
	if PublishDuration != nil {
		PublishDuration.Observe(d.Seconds())
	}
}

// IncCooldown counts a scheduler error cooldown.
func IncCooldown() {
	if SchedulerCooldowns != nil {
		SchedulerCooldowns.Inc()
	}
}

// IncCommand counts a handled slash command.
func IncCommand() {
	if CommandsHandled != nil {
		CommandsHandled.Inc()
	}
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns the correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}
