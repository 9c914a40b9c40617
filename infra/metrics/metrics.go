// Package metrics holds the engine's prometheus instruments.
//
// Counters are created against a caller-supplied registry so tests can
// run isolated registries and the process owns exactly one.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Engine struct {
	FailedPublications prometheus.Counter
	RejectedLogons     prometheus.Counter
	AdmittedSessions   prometheus.Counter
	Disconnects        prometheus.Counter
	ReliefValveDrops   prometheus.Counter
	ConnectedSessions  prometheus.Gauge
	SlowSessions       prometheus.Gauge
}

func NewEngine(reg prometheus.Registerer) *Engine {
	m := &Engine{
		FailedPublications: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fixgw_failed_publications_total",
			Help: "Stream publications abandoned after exhausting claim attempts.",
		}),
		RejectedLogons: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fixgw_rejected_logons_total",
			Help: "Logon attempts rejected by authentication or validation.",
		}),
		AdmittedSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fixgw_admitted_sessions_total",
			Help: "Sessions admitted after a successful logon.",
		}),
		Disconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fixgw_disconnects_total",
			Help: "Connections torn down for any reason.",
		}),
		ReliefValveDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fixgw_relief_valve_drops_total",
			Help: "Frames absorbed by the relief valve instead of the stream log.",
		}),
		ConnectedSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fixgw_connected_sessions",
			Help: "Sessions currently in an active or slow state.",
		}),
		SlowSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fixgw_slow_sessions",
			Help: "Sessions currently marked slow by publication back-pressure.",
		}),
	}
	reg.MustRegister(
		m.FailedPublications,
		m.RejectedLogons,
		m.AdmittedSessions,
		m.Disconnects,
		m.ReliefValveDrops,
		m.ConnectedSessions,
		m.SlowSessions,
	)
	return m
}
