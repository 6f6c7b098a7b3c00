package plant

import (
	"math"
	"testing"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPlant(t *testing.T, plantType string, params map[string]interface{}) Plant {
	p, err := NewPlant(configuration.PlantConfig{
		ID:     "plant",
		Type:   plantType,
		Params: params,
	})
	require.NoError(t, err)
	return p
}

func TestNewPlant_UnknownType(t *testing.T) {
	// WHEN
	_, err := NewPlant(configuration.PlantConfig{ID: "plant", Type: "oven"})

	// THEN
	assert.EqualError(t, err, "no matching plant type for plant: plant")
}

func TestNewPlant_UnknownParam(t *testing.T) {
	// WHEN
	_, err := NewPlant(configuration.PlantConfig{
		ID:     "plant",
		Type:   configuration.PlantTypeIntegrator,
		Params: map[string]interface{}{"gian": 2},
	})

	// THEN
	assert.Error(t, err)
}

func TestNewPlant_InvalidTau(t *testing.T) {
	// WHEN
	_, err := NewPlant(configuration.PlantConfig{
		ID:     "plant",
		Type:   configuration.PlantTypeFirstOrder,
		Params: map[string]interface{}{"tau": 0},
	})

	// THEN
	assert.EqualError(t, err, "plant plant: tau must be > 0, got 0")
}

func TestIntegrator(t *testing.T) {
	// GIVEN
	p := createPlant(t, configuration.PlantTypeIntegrator, map[string]interface{}{
		"gain":    "2",
		"initial": 1,
	})

	// WHEN
	p.Apply(3, 0.5)

	// THEN
	assert.InDelta(t, 4.0, p.Measure(), 1e-9)
}

func TestFirstOrder_ApproachesSteadyState(t *testing.T) {
	// GIVEN
	p := createPlant(t, configuration.PlantTypeFirstOrder, map[string]interface{}{
		"tau":  0.5,
		"gain": 2,
	})

	// WHEN
	for i := 0; i < 100; i++ {
		p.Apply(5, 0.1)
	}

	// THEN
	assert.InDelta(t, 10.0, p.Measure(), 1e-3)
}

func TestFirstOrder_TimeConstant(t *testing.T) {
	// GIVEN
	p := createPlant(t, configuration.PlantTypeFirstOrder, map[string]interface{}{
		"tau": 1,
	})

	// WHEN
	p.Apply(1, 1)

	// THEN
	// 1 - e^-1 for the exact solution, euler with small steps is close to it
	assert.InDelta(t, 1-math.Exp(-1), p.Measure(), 0.01)
}

func TestSpringMass_SettlesAtStaticDeflection(t *testing.T) {
	// GIVEN
	p := createPlant(t, configuration.PlantTypeSpringMass, map[string]interface{}{
		"mass":      1,
		"stiffness": 4,
		"damping":   3,
	})

	// WHEN
	for i := 0; i < 200; i++ {
		p.Apply(2, 0.1)
	}

	// THEN
	assert.InDelta(t, 0.5, p.Measure(), 1e-3)
}

func TestPlant_Reset(t *testing.T) {
	// GIVEN
	p := createPlant(t, configuration.PlantTypeIntegrator, map[string]interface{}{
		"initial": 3,
	})
	p.Apply(1, 1)

	// WHEN
	p.Reset()

	// THEN
	assert.Equal(t, 3.0, p.Measure())
}

func TestPlant_NonPositiveTimeStepIsIgnored(t *testing.T) {
	// GIVEN
	p := createPlant(t, configuration.PlantTypeIntegrator, nil)

	// WHEN
	p.Apply(1, 0)
	p.Apply(1, -1)

	// THEN
	assert.Equal(t, 0.0, p.Measure())
}

func TestPlant_LargeTimeStep(t *testing.T) {
	// GIVEN
	p := createPlant(t, configuration.PlantTypeIntegrator, map[string]interface{}{
		"gain": 1,
	})

	// WHEN
	p.Apply(2, 1e6)
	p.Apply(1, 1e300)

	// THEN
	assert.InDelta(t, 1e300, p.Measure(), 1e286)
}

func TestPlant_NonFiniteTimeStepIsIgnored(t *testing.T) {
	// GIVEN
	p := createPlant(t, configuration.PlantTypeIntegrator, nil)

	// WHEN
	p.Apply(1, math.Inf(1))
	p.Apply(1, math.NaN())

	// THEN
	assert.Equal(t, 0.0, p.Measure())
}
