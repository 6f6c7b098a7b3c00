package statistics

import (
	"github.com/markusressel/pid2go/internal/plant"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemPlant = "plant"

type PlantCollector struct {
	plants []plant.Plant
	value  *prometheus.Desc
}

func NewPlantCollector(plants []plant.Plant) *PlantCollector {
	return &PlantCollector{
		plants: plants,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemPlant, "value"),
			"Current value of the simulated plant",
			[]string{"id", "type"}, nil,
		),
	}
}

func (collector *PlantCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
}

// Collect implements required collect function for all prometheus collectors
func (collector *PlantCollector) Collect(ch chan<- prometheus.Metric) {
	for _, p := range collector.plants {
		ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, p.Measure(), p.GetId(), p.GetConfig().Type)
	}
}
