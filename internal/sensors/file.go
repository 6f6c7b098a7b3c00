package sensors

import (
	"context"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/util"
)

// FileSensor reads a single number from a file
type FileSensor struct {
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor *FileSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *FileSensor) GetValue(ctx context.Context) (float64, error) {
	return util.ReadFloatFromFile(sensor.Config.File.Path)
}
