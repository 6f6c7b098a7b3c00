package sensors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/plant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSensor_Plant(t *testing.T) {
	// GIVEN
	p, err := plant.NewPlant(configuration.PlantConfig{
		ID:     "tank",
		Type:   configuration.PlantTypeIntegrator,
		Params: map[string]interface{}{"initial": 4.5},
	})
	require.NoError(t, err)
	plant.PlantMap.Set(p.GetId(), p)
	defer plant.PlantMap.Remove(p.GetId())

	// WHEN
	sensor, err := NewSensor(configuration.SensorConfig{Plant: "tank"})

	// THEN
	assert.NoError(t, err)
	value, err := sensor.GetValue(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 4.5, value)
}

func TestNewSensor_UnknownPlant(t *testing.T) {
	// WHEN
	_, err := NewSensor(configuration.SensorConfig{Plant: "missing"})

	// THEN
	assert.EqualError(t, err, "no plant with id found: missing")
}

func TestNewSensor_Missing(t *testing.T) {
	// WHEN
	_, err := NewSensor(configuration.SensorConfig{})

	// THEN
	assert.Error(t, err)
}

func TestFileSensor_GetValue(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "temp")
	require.NoError(t, os.WriteFile(path, []byte("21.5\n"), 0644))
	sensor, err := NewSensor(configuration.SensorConfig{
		File: &configuration.FileSensorConfig{Path: path},
	})
	require.NoError(t, err)

	// WHEN
	value, err := sensor.GetValue(context.Background())

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 21.5, value)
}

func TestFileSensor_GetValue_Invalid(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "temp")
	require.NoError(t, os.WriteFile(path, []byte("warm"), 0644))
	sensor := &FileSensor{
		Config: configuration.SensorConfig{File: &configuration.FileSensorConfig{Path: path}},
	}

	// WHEN
	_, err := sensor.GetValue(context.Background())

	// THEN
	assert.Error(t, err)
}

func TestCmdSensor_GetValue_UnsafeExecutable(t *testing.T) {
	// GIVEN
	sensor := &CmdSensor{
		Config: configuration.SensorConfig{Cmd: &configuration.CmdConfig{
			Exec: filepath.Join(t.TempDir(), "missing"),
		}},
	}

	// WHEN
	_, err := sensor.GetValue(context.Background())

	// THEN
	assert.Error(t, err)
}
