package actuators

import (
	"context"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/plant"
)

// PlantActuator drives a simulated plant
type PlantActuator struct {
	Config configuration.ActuatorConfig `json:"configuration"`

	plant plant.Plant
}

func (a *PlantActuator) GetConfig() configuration.ActuatorConfig {
	return a.Config
}

func (a *PlantActuator) Apply(ctx context.Context, value float64, dt float64) error {
	a.plant.Apply(value, dt)
	return nil
}
