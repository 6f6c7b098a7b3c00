package sensors

import (
	"context"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/plant"
)

// PlantSensor measures a simulated plant
type PlantSensor struct {
	Config configuration.SensorConfig `json:"configuration"`

	plant plant.Plant
}

func (sensor *PlantSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *PlantSensor) GetValue(ctx context.Context) (float64, error) {
	return sensor.plant.Measure(), nil
}
