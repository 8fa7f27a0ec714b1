package mvcc

import "github.com/prometheus/client_golang/prometheus"

// Metrics used in monitoring service.
var (
	commitsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of committed batches",
			Name:      "commits_total",
			Namespace: "vkv",
		},
	)

	currentVersionGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Help:      "Latest committed version",
			Name:      "current_version",
			Namespace: "vkv",
		},
	)

	keysGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Help:      "Number of live keys in the latest snapshot",
			Name:      "keys",
			Namespace: "vkv",
		},
	)
)

func updateStoreMetrics(v Version, keys int) {
	currentVersionGauge.Set(float64(v))
	keysGauge.Set(float64(keys))
}

func init() {
	prometheus.MustRegister(
		commitsCounter,
		currentVersionGauge,
		keysGauge,
	)
}
