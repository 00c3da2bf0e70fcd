package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jerxma-git/cat-houses-model/sim"
)

const namespace = "factory"

// Registry builds a Prometheus registry holding the summary as gauges.
func Registry(s Summary) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	gauge := func(name, help string, value float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
		g.Set(value)
		reg.MustRegister(g)
	}
	gauge("runs", "Number of simulation runs in the batch.", float64(s.Runs))
	gauge("total_time_mean", "Mean virtual time of a run.", s.MeanTotalTime)
	gauge("total_time_p90", "90th percentile of run virtual time.", s.TotalTime.P90)
	gauge("accepted_mean", "Mean accepted products per run.", s.MeanAccepted)
	gauge("rejected_mean", "Mean rejected products per run.", s.MeanRejected)
	gauge("planned_mean", "Mean planned products per run.", s.MeanPlanned)
	gauge("throughput", "Accepted products per unit of virtual time.", s.Throughput)
	gauge("success_rate", "Accepted over planned products.", s.SuccessRate)
	gauge("acceptance_rate", "Accepted over tested products.", s.AcceptanceRate)

	reasons := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rejected_by_reason",
		Help:      "Rejected products across the batch by reason.",
	}, []string{"reason"})
	for _, r := range sim.Reasons() {
		if r == sim.ReasonAllTestsPassed {
			continue
		}
		reasons.WithLabelValues(string(r)).Set(float64(s.RejectReasons[r]))
	}
	reg.MustRegister(reasons)
	return reg
}

// WriteTextfile writes the summary in the Prometheus text exposition format,
// ready for a node-exporter textfile collector.
func WriteTextfile(path string, s Summary) error {
	if err := prometheus.WriteToTextfile(path, Registry(s)); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
