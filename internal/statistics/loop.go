package statistics

import (
	"github.com/markusressel/pid2go/internal/loops"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemLoop = "loop"

type LoopCollector struct {
	loops []*loops.Loop

	reference     *prometheus.Desc
	measured      *prometheus.Desc
	output        *prometheus.Desc
	error         *prometheus.Desc
	integral      *prometheus.Desc
	cycles        *prometheus.Desc
	invalidInputs *prometheus.Desc
}

func NewLoopCollector(loops []*loops.Loop) *LoopCollector {
	return &LoopCollector{
		loops: loops,
		reference: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemLoop, "reference"),
			"Current reference value of the loop",
			[]string{"id"}, nil,
		),
		measured: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemLoop, "measured"),
			"Measured value of the last cycle",
			[]string{"id"}, nil,
		),
		output: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemLoop, "output"),
			"Controller output of the last cycle",
			[]string{"id"}, nil,
		),
		error: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemLoop, "error"),
			"Error (reference - measured) of the last cycle",
			[]string{"id"}, nil,
		),
		integral: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemLoop, "integral"),
			"Accumulated error of the controller",
			[]string{"id"}, nil,
		),
		cycles: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemLoop, "cycles_total"),
			"Number of successful control cycles",
			[]string{"id"}, nil,
		),
		invalidInputs: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemLoop, "invalid_inputs_total"),
			"Number of cycles skipped due to an invalid measurement",
			[]string{"id"}, nil,
		),
	}
}

func (collector *LoopCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.reference
	ch <- collector.measured
	ch <- collector.output
	ch <- collector.error
	ch <- collector.integral
	ch <- collector.cycles
	ch <- collector.invalidInputs
}

// Collect implements required collect function for all prometheus collectors
func (collector *LoopCollector) Collect(ch chan<- prometheus.Metric) {
	for _, loop := range collector.loops {
		status := loop.Snapshot()
		id := status.ID
		ch <- prometheus.MustNewConstMetric(collector.reference, prometheus.GaugeValue, status.Reference, id)
		ch <- prometheus.MustNewConstMetric(collector.output, prometheus.GaugeValue, status.Output, id)
		ch <- prometheus.MustNewConstMetric(collector.integral, prometheus.GaugeValue, status.Integral, id)
		ch <- prometheus.MustNewConstMetric(collector.cycles, prometheus.CounterValue, float64(status.Cycles), id)
		ch <- prometheus.MustNewConstMetric(collector.invalidInputs, prometheus.CounterValue, float64(status.InvalidInputs), id)
		if status.Last != nil {
			ch <- prometheus.MustNewConstMetric(collector.measured, prometheus.GaugeValue, status.Last.Measured, id)
			ch <- prometheus.MustNewConstMetric(collector.error, prometheus.GaugeValue, status.Last.Error, id)
		}
	}
}
