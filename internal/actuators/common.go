package actuators

import (
	"context"
	"fmt"
	"time"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/plant"
)

const defaultCmdTimeout = 1 * time.Second

// Actuator applies the output of a control loop
type Actuator interface {
	GetConfig() configuration.ActuatorConfig

	// Apply applies the given value, dt is the time since the last application
	Apply(ctx context.Context, value float64, dt float64) error
}

func NewActuator(config configuration.ActuatorConfig) (Actuator, error) {
	if len(config.Plant) > 0 {
		p, ok := plant.PlantMap.Get(config.Plant)
		if !ok {
			return nil, fmt.Errorf("no plant with id found: %s", config.Plant)
		}
		return &PlantActuator{
			Config: config,
			plant:  p,
		}, nil
	}

	if config.File != nil {
		return &FileActuator{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdActuator{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching actuator type in actuator configuration")
}
