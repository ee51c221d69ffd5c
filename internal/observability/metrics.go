package observability

import (
	"time"

	"github.com/danmuck/wotreplay/format"
	"github.com/prometheus/client_golang/prometheus"
)

// IndexMetrics counts decode outcomes of one index run on a private registry.
type IndexMetrics struct {
	registry *prometheus.Registry
	replays  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	stored   prometheus.Counter
}

func NewIndexMetrics() *IndexMetrics {
	m := &IndexMetrics{
		registry: prometheus.NewRegistry(),
		replays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "wotreplay",
				Subsystem: "index",
				Name:      "replays_total",
				Help:      "Replay files decoded, by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "wotreplay",
				Subsystem: "index",
				Name:      "decode_duration_seconds",
				Help:      "Replay decode duration in seconds.",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"outcome"},
		),
		stored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wotreplay",
			Subsystem: "index",
			Name:      "entries_stored_total",
			Help:      "Catalog entries written.",
		}),
	}
	m.registry.MustRegister(m.replays, m.duration, m.stored)
	return m
}

// Outcome labels err: "ok", a format error kind, or "io" for anything else.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := format.KindOf(err); kind != format.KindUnknown {
		return kind.String()
	}
	return "io"
}

func (m *IndexMetrics) RecordDecode(err error, elapsed time.Duration) {
	outcome := Outcome(err)
	m.replays.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (m *IndexMetrics) RecordStored(n int) {
	m.stored.Add(float64(n))
}

// WriteTextfile writes the registry in the text exposition format, for the
// node_exporter textfile collector.
func (m *IndexMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
