package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StepDuration is the histogram backing per-step telemetry: the Tool
// Dispatcher records the wall-clock duration of dispatched tool calls here,
// labelled by tool name and status. No duration is written into a step's
// S_result in the workflow env.
var StepDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "deskflow_step_duration_seconds",
	Help:    "Duration of individual workflow step executions.",
	Buckets: prometheus.DefBuckets,
}, []string{"tool", "status"})

// BridgeClients tracks how many browser extension instances are currently
// connected to the bridge.
var BridgeClients = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "deskflow_bridge_clients",
	Help: "Number of browser extension clients currently connected to the bridge.",
})

// ActiveWorkflows tracks in-flight workflow executions.
var ActiveWorkflows = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "deskflow_active_workflows",
	Help: "Number of workflow executions currently running.",
})

// Registry is the collector registry the admin HTTP surface exposes at
// /metrics. Kept distinct from prometheus.DefaultRegisterer so tests can
// construct their own instance without global registration collisions.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(StepDuration, BridgeClients, ActiveWorkflows)
}
