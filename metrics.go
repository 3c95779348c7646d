package multibox

import (
	"github.com/prometheus/client_golang/prometheus"
	"strconv"
)

// RunMetrics counts what an engine does.  Each RunMetrics owns its registry,
// so that engines never share counters through process-wide state
type RunMetrics struct {
	Registry    *prometheus.Registry
	Arrivals    *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Exits       *prometheus.CounterVec
	Holding     *prometheus.HistogramVec
	Passes      prometheus.Counter
	Runs        prometheus.Counter
}

// CreateRunMetrics is a constructor
func CreateRunMetrics() *RunMetrics {
	rm := new(RunMetrics)
	rm.Registry = prometheus.NewRegistry()
	rm.Arrivals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multibox_arrivals_total",
			Help: "Particles created by the birth process, by node",
		},
		[]string{"node"},
	)
	rm.Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multibox_transitions_total",
			Help: "Particles routed out of a node, by node left and node entered",
		},
		[]string{"from", "to"},
	)
	rm.Exits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multibox_exits_total",
			Help: "Particles leaving the system, by the node they left",
		},
		[]string{"node"},
	)
	rm.Holding = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "multibox_holding_time",
			Help:    "Holding times drawn, by node",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"node"},
	)
	rm.Passes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multibox_node_visits_total",
		Help: "Node visits made by the cyclic engine",
	})
	rm.Runs = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multibox_runs_total",
		Help: "Completed runs",
	})
	rm.Registry.MustRegister(rm.Arrivals, rm.Transitions, rm.Exits, rm.Holding, rm.Passes, rm.Runs)
	return rm
}

// observeArrival counts one particle born into node
func (rm *RunMetrics) observeArrival(node int) {
	if rm == nil {
		return
	}
	rm.Arrivals.WithLabelValues(strconv.Itoa(node)).Inc()
}

// observeTransition counts one particle moving from 'from' to 'to' after holding
func (rm *RunMetrics) observeTransition(from, to int, holding float64) {
	if rm == nil {
		return
	}
	fromLabel := strconv.Itoa(from)
	rm.Holding.WithLabelValues(fromLabel).Observe(holding)
	rm.Transitions.WithLabelValues(fromLabel, strconv.Itoa(to)).Inc()
	if to == ExitNode {
		rm.Exits.WithLabelValues(fromLabel).Inc()
	}
}

func (rm *RunMetrics) observeVisit() {
	if rm == nil {
		return
	}
	rm.Passes.Inc()
}

func (rm *RunMetrics) observeRun() {
	if rm == nil {
		return
	}
	rm.Runs.Inc()
}

// WriteToFile dumps the registry in the prometheus text format
func (rm *RunMetrics) WriteToFile(filename string) error {
	return prometheus.WriteToTextfile(filename, rm.Registry)
}
