// Package otmetrics wires exchange outcomes and control-loop state
// transitions to Prometheus, the way runZeroInc-sockstats instruments
// TCP connection lifecycle events.
package otmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/adq/picotherm/internal/otengine"
)

// Recorder implements otengine.Recorder and control.StateObserver,
// exporting counters and a gauge via the default Prometheus registry.
type Recorder struct {
	exchanges *prometheus.CounterVec
	state     *prometheus.GaugeVec
}

// New creates a Recorder and registers its collectors. Call once at
// startup.
func New() *Recorder {
	return &Recorder{
		exchanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "picotherm",
			Name:      "exchanges_total",
			Help:      "OpenTherm exchanges by data ID and outcome.",
		}, []string{"data_id", "outcome"}),
		state: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "picotherm",
			Name:      "control_loop_state",
			Help:      "1 if the control loop is currently in the named state, else 0.",
		}, []string{"state"}),
	}
}

// RecordExchange implements otengine.Recorder.
func (r *Recorder) RecordExchange(dataID uint8, outcome otengine.Outcome) {
	r.exchanges.WithLabelValues(dataIDLabel(dataID), outcome.String()).Inc()
}

// ObserveState implements control.StateObserver.
func (r *Recorder) ObserveState(previous, current string) {
	if previous != "" {
		r.state.WithLabelValues(previous).Set(0)
	}
	r.state.WithLabelValues(current).Set(1)
}

func dataIDLabel(dataID uint8) string {
	const hextable = "0123456789abcdef"
	return string([]byte{'0', 'x', hextable[dataID>>4], hextable[dataID&0xf]})
}
