package statistics

import (
	"github.com/avern/bmcfand/internal/controller"
	"github.com/prometheus/client_golang/prometheus"
)

const zoneSubsystem = "zone"

type ZoneCollector struct {
	temperature    *prometheus.Desc
	avgTemperature *prometheus.Desc
	dutyCycle      *prometheus.Desc
	ticks          *prometheus.Desc
}

func NewZoneCollector() *ZoneCollector {
	return &ZoneCollector{
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, zoneSubsystem, "temperature"),
			"Control temperature of the zone after aggregation",
			[]string{"name", "session"}, nil,
		),
		avgTemperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, zoneSubsystem, "temperature_avg"),
			"Rolling average of the control temperature of the zone",
			[]string{"name", "session"}, nil,
		),
		dutyCycle: prometheus.NewDesc(prometheus.BuildFQName(namespace, zoneSubsystem, "duty_cycle"),
			"Duty cycle most recently applied to the zone",
			[]string{"name", "session"}, nil,
		),
		ticks: prometheus.NewDesc(prometheus.BuildFQName(namespace, zoneSubsystem, "ticks"),
			"Counter for completed control ticks of the zone",
			[]string{"name", "session"}, nil,
		),
	}
}

func (collector *ZoneCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.temperature
	ch <- collector.avgTemperature
	ch <- collector.dutyCycle
	ch <- collector.ticks
}

// Collect implements required collect function for all prometheus collectors
func (collector *ZoneCollector) Collect(ch chan<- prometheus.Metric) {
	for _, status := range controller.ZoneStatusMap.Items() {
		ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, float64(status.ControlTemp), status.Name, status.Session)
		ch <- prometheus.MustNewConstMetric(collector.avgTemperature, prometheus.GaugeValue, status.AvgControlTemp, status.Name, status.Session)
		ch <- prometheus.MustNewConstMetric(collector.dutyCycle, prometheus.GaugeValue, float64(status.DutyCycle), status.Name, status.Session)
		ch <- prometheus.MustNewConstMetric(collector.ticks, prometheus.CounterValue, float64(status.Ticks), status.Name, status.Session)
	}
}
