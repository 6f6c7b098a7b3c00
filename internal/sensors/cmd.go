package sensors

import (
	"context"
	"fmt"
	"strconv"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/util"
)

// CmdSensor runs an executable and parses its output as a number
type CmdSensor struct {
	Config configuration.SensorConfig `json:"configuration"`
}

func (sensor *CmdSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *CmdSensor) GetValue(ctx context.Context) (float64, error) {
	cmdConfig := sensor.Config.Cmd
	timeout := cmdConfig.Timeout
	if timeout <= 0 {
		timeout = defaultCmdTimeout
	}

	result, err := util.SafeCmdExecution(ctx, cmdConfig.Exec, cmdConfig.Args, timeout)
	if err != nil {
		return 0, err
	}

	value, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return 0, fmt.Errorf("sensor command %s returned a non-numeric value: %q", cmdConfig.Exec, result)
	}
	return value, nil
}
