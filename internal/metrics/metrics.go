// Package metrics holds the reminder counters. There is no HTTP listener;
// values are exported by writing a node_exporter textfile.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	reg *prometheus.Registry

	Attempts    *prometheus.CounterVec
	LastAttempt *prometheus.GaugeVec
	Active      prometheus.Gauge
	DayRollover prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remindbot_attempts_total",
				Help: "Reminder dispatch attempts by result",
			},
			[]string{"result"},
		),
		LastAttempt: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "remindbot_last_attempt_timestamp_seconds",
				Help: "Unix time of the last attempt by result",
			},
			[]string{"result"},
		),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "remindbot_active",
			Help: "1 once the start date is reached, 0 while waiting",
		}),
		DayRollover: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "remindbot_day_rollovers_total",
			Help: "Dedup ledger resets caused by a date change",
		}),
	}
	m.reg.MustRegister(m.Attempts, m.LastAttempt, m.Active, m.DayRollover)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// WriteTextfile atomically writes all metrics to path in text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
