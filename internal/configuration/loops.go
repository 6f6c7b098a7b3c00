package configuration

import "time"

type LoopConfig struct {
	ID string `json:"id"`

	// Reference is either a fixed value or the output of another loop
	Reference ReferenceConfig `json:"reference"`

	// Gains are required, an omitted gain is a configuration error
	P *float64 `json:"p"`
	I *float64 `json:"i"`
	D *float64 `json:"d"`

	// TimeStep used by the controller, defaults to the tick rate (in seconds)
	TimeStep float64 `json:"timeStep"`

	OutputLimits   *LimitsConfig `json:"outputLimits,omitempty"`
	IntegralLimits *LimitsConfig `json:"integralLimits,omitempty"`

	// Maximum change of the applied output per second, 0 disables the limit
	MaxOutputChangeRate float64 `json:"maxOutputChangeRate"`

	// Number of samples kept in memory, 0 means unbounded
	HistorySize int `json:"historySize"`
	// Number of sensor readings averaged into one measurement, 0 or 1 disables smoothing
	MeasurementWindowSize int `json:"measurementWindowSize"`

	Sensor   SensorConfig   `json:"sensor"`
	Actuator ActuatorConfig `json:"actuator"`
}

type ReferenceConfig struct {
	Value *float64 `json:"value,omitempty"`
	// ID of an upstream loop whose output is used as reference (cascade)
	Loop string `json:"loop,omitempty"`
}

type LimitsConfig struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type SensorConfig struct {
	// ID of a plant to measure
	Plant string            `json:"plant,omitempty"`
	File  *FileSensorConfig `json:"file,omitempty"`
	Cmd   *CmdConfig        `json:"cmd,omitempty"`
}

type FileSensorConfig struct {
	// Path to a file containing a single number
	Path string `json:"path"`
}

type ActuatorConfig struct {
	// ID of a plant to drive
	Plant string              `json:"plant,omitempty"`
	File  *FileActuatorConfig `json:"file,omitempty"`
	Cmd   *CmdConfig          `json:"cmd,omitempty"`
}

type FileActuatorConfig struct {
	// Path to a file the output is written to
	Path string `json:"path"`
}

type CmdConfig struct {
	// Path to the executable
	Exec string `json:"exec"`
	// Arguments, for actuators the output value is appended as last argument
	Args []string `json:"args"`
	// Timeout of a single execution, defaults to 1s
	Timeout time.Duration `json:"timeout"`
}
