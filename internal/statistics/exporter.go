package statistics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "bmcfand"
)

func Register(collector prometheus.Collector) {
	prometheus.MustRegister(collector)
}
