package monitor

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the Prometheus instruments exported by the monitor.
type metrics struct {
	deviceOnline *prometheus.GaugeVec
	entityState  *prometheus.GaugeVec
	pollsTotal   prometheus.Counter
	pollErrors   prometheus.Counter
	pollDuration prometheus.Histogram
}

// newMetrics creates and registers the monitor's instruments.
func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		deviceOnline: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "imou_device_online",
				Help: "Whether the device is reachable from the cloud (1=online).",
			},
			[]string{"device_id", "name"}),
		entityState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "imou_entity_state",
				Help: "Current entity state as a number (booleans as 0/1).",
			},
			[]string{"device_id", "platform", "entity"},
		),
		pollsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "imou_polls_total",
				Help: "Completed poll cycles.",
			},
		),
		pollErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "imou_poll_errors_total",
				Help: "Device refreshes that ended in an error.",
			},
		),
		pollDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "imou_poll_duration_seconds",
				Help:    "Wall time of one full poll cycle.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.deviceOnline)
	reg.MustRegister(m.entityState)
	reg.MustRegister(m.pollsTotal)
	reg.MustRegister(m.pollErrors)
	reg.MustRegister(m.pollDuration)
	return m
}

// gaugeValue converts a generic entity state to a gauge value. Booleans map
// to 0/1, numeric strings to their value. Non-numeric states return false.
func gaugeValue(state any) (float64, bool) {
	switch v := state.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
