package internal

import (
	"testing"
	"time"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/loops"
	"github.com/markusressel/pid2go/internal/plant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(v float64) *float64 {
	return &v
}

func setConfig(t *testing.T, config configuration.Configuration) {
	previous := configuration.CurrentConfig
	configuration.CurrentConfig = config
	t.Cleanup(func() {
		configuration.CurrentConfig = previous
		plant.PlantMap.Clear()
		loops.LoopMap.Clear()
	})
}

func createConfig() configuration.Configuration {
	return configuration.Configuration{
		TickRate: 100 * time.Millisecond,
		Plants: []configuration.PlantConfig{
			{ID: "oven", Type: configuration.PlantTypeFirstOrder},
		},
		Loops: []configuration.LoopConfig{
			{
				ID:        "temperature",
				Reference: configuration.ReferenceConfig{Value: float(10)},
				P:         float(1),
				I:         float(0.5),
				D:         float(0),
				Sensor:    configuration.SensorConfig{Plant: "oven"},
				Actuator:  configuration.ActuatorConfig{Plant: "oven"},
			},
		},
	}
}

func TestInitializeObjects(t *testing.T) {
	// GIVEN
	setConfig(t, createConfig())

	// WHEN
	plants, loopList, err := InitializeObjects()

	// THEN
	assert.NoError(t, err)
	assert.Len(t, plants, 1)
	require.Len(t, loopList, 1)
	assert.Equal(t, 0.1, loopList[0].Snapshot().TimeStep)
	_, ok := plant.PlantMap.Get("oven")
	assert.True(t, ok)
	_, ok = loops.LoopMap.Get("temperature")
	assert.True(t, ok)
}

func TestInitializeObjects_InvalidPlant(t *testing.T) {
	// GIVEN
	config := createConfig()
	config.Plants[0].Type = "unknown"
	setConfig(t, config)

	// WHEN
	_, _, err := InitializeObjects()

	// THEN
	assert.Error(t, err)
}

func TestSimulate_ReachesReference(t *testing.T) {
	// GIVEN
	setConfig(t, createConfig())

	// WHEN
	loopList, err := Simulate(400)

	// THEN
	assert.NoError(t, err)
	require.Len(t, loopList, 1)
	status := loopList[0].Snapshot()
	assert.Equal(t, 400, status.Cycles)
	require.NotNil(t, status.Last)
	assert.InDelta(t, 10, status.Last.Measured, 0.1)
	assert.InDelta(t, 0, status.Last.Error, 0.1)
}

func TestSimulate_Cascade(t *testing.T) {
	// GIVEN
	config := createConfig()
	config.Plants = append(config.Plants, configuration.PlantConfig{ID: "heater", Type: configuration.PlantTypeFirstOrder})
	config.Loops = append([]configuration.LoopConfig{
		{
			ID:        "power",
			Reference: configuration.ReferenceConfig{Loop: "temperature"},
			P:         float(2),
			I:         float(0),
			D:         float(0),
			Sensor:    configuration.SensorConfig{Plant: "heater"},
			Actuator:  configuration.ActuatorConfig{Plant: "heater"},
		},
	}, config.Loops...)
	setConfig(t, config)

	// WHEN
	loopList, err := Simulate(10)

	// THEN
	assert.NoError(t, err)
	require.Len(t, loopList, 2)
	assert.Equal(t, "temperature", loopList[0].GetId())
	inner := loopList[1].Snapshot()
	assert.Equal(t, "temperature", inner.ReferenceLoop)
	assert.Equal(t, 10, inner.Cycles)
	assert.Equal(t, loopList[0].LastOutput(), inner.Reference)
}
