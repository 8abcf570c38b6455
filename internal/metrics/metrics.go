package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kiosk"

//nolint:gochecknoglobals
var (
	PollTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "poller",
		Name:      "ticks_total",
		Help:      "Deal status polls by result.",
	}, []string{"result"})

	ActivePollers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "poller",
		Name:      "active",
		Help:      "Status pollers currently running.",
	})

	DealTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "deal",
		Name:      "transitions_total",
		Help:      "Observed deal status transitions.",
	}, []string{"from", "to"})

	ViewPhases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "view",
		Name:      "phase_entries_total",
		Help:      "Deal view phase entries.",
	}, []string{"phase"})

	ScanSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "vendor",
		Name:      "scans_total",
		Help:      "Vendor token submissions by result.",
	}, []string{"result"})

	SinkFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sink",
		Name:      "failures_total",
		Help:      "Transition sink failures by sink.",
	}, []string{"sink"})
)

const (
	ResultOK       = "ok"
	ResultFailed   = "failed"
	ResultRejected = "rejected"
)
