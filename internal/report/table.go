package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/loops"
	"github.com/mgutz/ansi"
	"github.com/tomlazar/table"
)

func tableConfig(color bool) *table.Config {
	return &table.Config{
		ShowIndex:       false,
		Color:           color,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	}
}

func writeTable(tab table.Table, color bool) (string, error) {
	var buf bytes.Buffer
	err := tab.WriteTable(&buf, tableConfig(color))
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', 6, 64)
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return "-"
	}
	return formatFloat(*value)
}

func formatLimits(limits *configuration.LimitsConfig) string {
	if limits == nil {
		return "-"
	}
	return fmt.Sprintf("[%s, %s]", formatFloat(limits.Min), formatFloat(limits.Max))
}

func formatReference(reference configuration.ReferenceConfig) string {
	if len(reference.Loop) > 0 {
		return "loop:" + reference.Loop
	}
	return formatOptionalFloat(reference.Value)
}

func formatEndpoint(plant string, path string, cmd *configuration.CmdConfig) string {
	switch {
	case len(plant) > 0:
		return "plant:" + plant
	case len(path) > 0:
		return "file:" + path
	case cmd != nil:
		return "cmd:" + cmd.Exec
	}
	return "-"
}

// LoopConfigTable renders the given loop configurations
func LoopConfigTable(configs []configuration.LoopConfig, color bool) (string, error) {
	var rows [][]string
	for _, config := range configs {
		var sensorPath, actuatorPath string
		if config.Sensor.File != nil {
			sensorPath = config.Sensor.File.Path
		}
		if config.Actuator.File != nil {
			actuatorPath = config.Actuator.File.Path
		}
		rows = append(rows, []string{
			config.ID,
			formatReference(config.Reference),
			formatOptionalFloat(config.P),
			formatOptionalFloat(config.I),
			formatOptionalFloat(config.D),
			formatLimits(config.OutputLimits),
			formatEndpoint(config.Sensor.Plant, sensorPath, config.Sensor.Cmd),
			formatEndpoint(config.Actuator.Plant, actuatorPath, config.Actuator.Cmd),
		})
	}

	return writeTable(table.Table{
		Headers: []string{"ID", "Reference", "P", "I", "D", "Output Limits", "Sensor", "Actuator"},
		Rows:    rows,
	}, color)
}

// LoopStatusTable renders the current state of the given loops
func LoopStatusTable(statuses []loops.Status, color bool) (string, error) {
	var rows [][]string
	for _, status := range statuses {
		measured := "-"
		errorValue := "-"
		if status.Last != nil {
			measured = formatFloat(status.Last.Measured)
			errorValue = formatFloat(status.Last.Error)
		}
		rows = append(rows, []string{
			status.ID,
			formatFloat(status.Reference),
			measured,
			errorValue,
			formatFloat(status.Integral),
			formatFloat(status.Output),
			strconv.Itoa(status.Cycles),
			strconv.Itoa(status.InvalidInputs),
		})
	}

	return writeTable(table.Table{
		Headers: []string{"ID", "Reference", "Measured", "Error", "Integral", "Output", "Cycles", "Invalid"},
		Rows:    rows,
	}, color)
}
