package sensors

import (
	"context"
	"fmt"
	"time"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/plant"
)

const defaultCmdTimeout = 1 * time.Second

// Sensor provides the measured value of a control loop
type Sensor interface {
	GetConfig() configuration.SensorConfig

	// GetValue returns the current value of this sensor
	GetValue(ctx context.Context) (float64, error)
}

func NewSensor(config configuration.SensorConfig) (Sensor, error) {
	if len(config.Plant) > 0 {
		p, ok := plant.PlantMap.Get(config.Plant)
		if !ok {
			return nil, fmt.Errorf("no plant with id found: %s", config.Plant)
		}
		return &PlantSensor{
			Config: config,
			plant:  p,
		}, nil
	}

	if config.File != nil {
		return &FileSensor{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdSensor{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching sensor type in sensor configuration")
}
