package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resourced",
			Subsystem: "manager",
			Name:      "loads_total",
			Help:      "Total build attempts by outcome",
		},
		[]string{"outcome"},
	)

	loadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resourced",
			Subsystem: "manager",
			Name:      "load_duration_seconds",
			Help:      "Duration of builder invocations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	admissionDeniedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resourced",
			Subsystem: "manager",
			Name:      "admission_denied_total",
			Help:      "Loads refused by admission control, by reason",
		},
		[]string{"reason"},
	)

	evictedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "resourced",
			Subsystem: "manager",
			Name:      "evictions_total",
			Help:      "Resources unloaded by eviction passes",
		},
	)

	residentEstBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "resourced",
			Subsystem: "manager",
			Name:      "resident_est_bytes",
			Help:      "Sum of estimated cost across loaded resources",
		},
	)
)

func init() {
	prometheus.MustRegister(loadsTotal, loadDuration, admissionDeniedTotal, evictedTotal, residentEstBytes)
}
