package actuators

import (
	"context"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/util"
)

// FileActuator writes the output to a file, replacing it atomically
type FileActuator struct {
	Config configuration.ActuatorConfig `json:"configuration"`
}

func (a *FileActuator) GetConfig() configuration.ActuatorConfig {
	return a.Config
}

func (a *FileActuator) Apply(ctx context.Context, value float64, dt float64) error {
	return util.WriteFloatToFileAtomic(value, a.Config.File.Path)
}
