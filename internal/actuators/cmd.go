package actuators

import (
	"context"
	"strconv"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/util"
)

// CmdActuator runs an executable with the output appended as last argument
type CmdActuator struct {
	Config configuration.ActuatorConfig `json:"configuration"`
}

func (a *CmdActuator) GetConfig() configuration.ActuatorConfig {
	return a.Config
}

func (a *CmdActuator) Apply(ctx context.Context, value float64, dt float64) error {
	cmdConfig := a.Config.Cmd
	timeout := cmdConfig.Timeout
	if timeout <= 0 {
		timeout = defaultCmdTimeout
	}

	args := append([]string{}, cmdConfig.Args...)
	args = append(args, strconv.FormatFloat(value, 'f', -1, 64))
	_, err := util.SafeCmdExecution(ctx, cmdConfig.Exec, args, timeout)
	return err
}
