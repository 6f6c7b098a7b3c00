package configuration

import (
	"fmt"
	"strings"

	"github.com/looplab/tarjan"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/markusressel/pid2go/internal/util"
	"golang.org/x/exp/slices"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if config.TickRate < 0 {
		return fmt.Errorf("invalid tickRate: %s, must be > 0", config.TickRate)
	}
	err := validatePlants(config)
	if err != nil {
		return err
	}
	return validateLoops(config)
}

func validatePlants(config *Configuration) error {
	var plantIds []string
	for _, plantConfig := range config.Plants {
		if len(plantConfig.ID) <= 0 {
			return fmt.Errorf("plant: missing id")
		}
		if slices.Contains(plantIds, plantConfig.ID) {
			return fmt.Errorf("duplicate plant id detected: %s", plantConfig.ID)
		}
		plantIds = append(plantIds, plantConfig.ID)

		if !slices.Contains(PlantTypes, plantConfig.Type) {
			return fmt.Errorf("plant %s: unsupported type '%s', use one of: %s", plantConfig.ID, plantConfig.Type, strings.Join(PlantTypes, " | "))
		}

		if !isPlantConfigInUse(plantConfig, config.Loops) {
			ui.Warning("Unused plant configuration: %s", plantConfig.ID)
		}
	}
	return nil
}

func isPlantConfigInUse(config PlantConfig, loops []LoopConfig) bool {
	for _, loopConfig := range loops {
		if loopConfig.Sensor.Plant == config.ID || loopConfig.Actuator.Plant == config.ID {
			return true
		}
	}
	return false
}

func validateLoops(config *Configuration) error {
	graph := make(map[interface{}][]interface{})

	var loopIds []string
	for _, loopConfig := range config.Loops {
		if len(loopConfig.ID) <= 0 {
			return fmt.Errorf("loop: missing id")
		}
		if slices.Contains(loopIds, loopConfig.ID) {
			return fmt.Errorf("duplicate loop id detected: %s", loopConfig.ID)
		}
		loopIds = append(loopIds, loopConfig.ID)

		if loopConfig.P == nil || loopConfig.I == nil || loopConfig.D == nil {
			return fmt.Errorf("loop %s: all gains (p, i, d) must be specified, use 0 to disable a term", loopConfig.ID)
		}
		for _, gain := range []float64{*loopConfig.P, *loopConfig.I, *loopConfig.D} {
			if !util.IsFinite(gain) {
				return fmt.Errorf("loop %s: gains must be finite numbers", loopConfig.ID)
			}
		}

		if loopConfig.TimeStep < 0 || !util.IsFinite(loopConfig.TimeStep) {
			return fmt.Errorf("loop %s: invalid timeStep %v, must be > 0", loopConfig.ID, loopConfig.TimeStep)
		}
		if loopConfig.TimeStep == 0 && config.TickRate <= 0 {
			return fmt.Errorf("loop %s: timeStep is missing and no tickRate is configured", loopConfig.ID)
		}

		if err := validateLimits(loopConfig.ID, "outputLimits", loopConfig.OutputLimits); err != nil {
			return err
		}
		if err := validateLimits(loopConfig.ID, "integralLimits", loopConfig.IntegralLimits); err != nil {
			return err
		}

		if loopConfig.MaxOutputChangeRate < 0 || !util.IsFinite(loopConfig.MaxOutputChangeRate) {
			return fmt.Errorf("loop %s: invalid maxOutputChangeRate %v, must be >= 0", loopConfig.ID, loopConfig.MaxOutputChangeRate)
		}

		if loopConfig.HistorySize < 0 {
			return fmt.Errorf("loop %s: invalid historySize %d, must be >= 0", loopConfig.ID, loopConfig.HistorySize)
		}
		if loopConfig.MeasurementWindowSize < 0 {
			return fmt.Errorf("loop %s: invalid measurementWindowSize %d, must be >= 0", loopConfig.ID, loopConfig.MeasurementWindowSize)
		}

		if err := validateSensor(config, loopConfig); err != nil {
			return err
		}
		if err := validateActuator(config, loopConfig); err != nil {
			return err
		}

		var connections []interface{}
		reference := loopConfig.Reference
		if reference.Value != nil && len(reference.Loop) > 0 {
			return fmt.Errorf("loop %s: reference can either be a value or a loop, not both", loopConfig.ID)
		}
		if reference.Value == nil && len(reference.Loop) <= 0 {
			return fmt.Errorf("loop %s: missing reference", loopConfig.ID)
		}
		if reference.Value != nil && !util.IsFinite(*reference.Value) {
			return fmt.Errorf("loop %s: reference must be a finite number", loopConfig.ID)
		}
		if len(reference.Loop) > 0 {
			if reference.Loop == loopConfig.ID {
				return fmt.Errorf("loop %s: a loop cannot reference itself", loopConfig.ID)
			}
			if !loopIdExists(reference.Loop, config) {
				return fmt.Errorf("loop %s: no loop definition with id '%s' found", loopConfig.ID, reference.Loop)
			}
			connections = append(connections, reference.Loop)
		}
		graph[loopConfig.ID] = connections
	}

	return validateNoCycles(graph)
}

func validateLimits(loopId string, name string, limits *LimitsConfig) error {
	if limits == nil {
		return nil
	}
	if !util.IsFinite(limits.Min) || !util.IsFinite(limits.Max) {
		return fmt.Errorf("loop %s: %s must be finite numbers", loopId, name)
	}
	if limits.Min > limits.Max {
		return fmt.Errorf("loop %s: %s min (%v) must be <= max (%v)", loopId, name, limits.Min, limits.Max)
	}
	return nil
}

func validateSensor(config *Configuration, loopConfig LoopConfig) error {
	sensor := loopConfig.Sensor
	subConfigs := 0
	if len(sensor.Plant) > 0 {
		subConfigs++
	}
	if sensor.File != nil {
		subConfigs++
	}
	if sensor.Cmd != nil {
		subConfigs++
	}
	if subConfigs > 1 {
		return fmt.Errorf("loop %s: only one sensor type can be used per loop", loopConfig.ID)
	}
	if subConfigs <= 0 {
		return fmt.Errorf("loop %s: sensor configuration is missing, use one of: plant | file | cmd", loopConfig.ID)
	}

	if len(sensor.Plant) > 0 && !plantIdExists(sensor.Plant, config) {
		return fmt.Errorf("loop %s: no plant definition with id '%s' found", loopConfig.ID, sensor.Plant)
	}
	if sensor.File != nil && len(sensor.File.Path) <= 0 {
		return fmt.Errorf("loop %s: no sensor file path provided", loopConfig.ID)
	}
	if sensor.Cmd != nil && len(sensor.Cmd.Exec) <= 0 {
		return fmt.Errorf("loop %s: sensor executable is missing", loopConfig.ID)
	}
	return nil
}

func validateActuator(config *Configuration, loopConfig LoopConfig) error {
	actuator := loopConfig.Actuator
	subConfigs := 0
	if len(actuator.Plant) > 0 {
		subConfigs++
	}
	if actuator.File != nil {
		subConfigs++
	}
	if actuator.Cmd != nil {
		subConfigs++
	}
	if subConfigs > 1 {
		return fmt.Errorf("loop %s: only one actuator type can be used per loop", loopConfig.ID)
	}
	if subConfigs <= 0 {
		return fmt.Errorf("loop %s: actuator configuration is missing, use one of: plant | file | cmd", loopConfig.ID)
	}

	if len(actuator.Plant) > 0 && !plantIdExists(actuator.Plant, config) {
		return fmt.Errorf("loop %s: no plant definition with id '%s' found", loopConfig.ID, actuator.Plant)
	}
	if actuator.File != nil && len(actuator.File.Path) <= 0 {
		return fmt.Errorf("loop %s: no actuator file path provided", loopConfig.ID)
	}
	if actuator.Cmd != nil && len(actuator.Cmd.Exec) <= 0 {
		return fmt.Errorf("loop %s: actuator executable is missing", loopConfig.ID)
	}
	return nil
}

func validateNoCycles(graph map[interface{}][]interface{}) error {
	output := tarjan.Connections(graph)
	for _, items := range output {
		if len(items) > 1 {
			return fmt.Errorf("you have created a loop reference cycle: %v", items)
		}
	}
	return nil
}

func plantIdExists(plantId string, config *Configuration) bool {
	for _, plant := range config.Plants {
		if plant.ID == plantId {
			return true
		}
	}
	return false
}

func loopIdExists(loopId string, config *Configuration) bool {
	for _, loop := range config.Loops {
		if loop.ID == loopId {
			return true
		}
	}
	return false
}
