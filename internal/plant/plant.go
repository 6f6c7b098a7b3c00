package plant

import (
	"fmt"
	"math"
	"sync"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/mitchellh/mapstructure"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// maxStep is the largest integration step, larger time steps are split up
const maxStep = 0.01

// maxSteps bounds the integration steps of a single Apply, beyond that the step size grows
const maxSteps = 10000

var (
	PlantMap = cmap.New[Plant]()
)

// Plant is a simulated process that can be driven by a control loop.
type Plant interface {
	GetId() string

	GetConfig() configuration.PlantConfig

	// Measure returns the current process value
	Measure() float64

	// Apply drives the plant with the given input for dt seconds
	Apply(input float64, dt float64)

	// Reset restores the initial state
	Reset()
}

// dynamics describes a plant as a system of first order ODEs
type dynamics interface {
	derivative(x []float64, u float64) []float64
	initialState() []float64
}

// simulatedPlant integrates dynamics with the forward euler method.
type simulatedPlant struct {
	config configuration.PlantConfig
	model  dynamics

	mu    sync.Mutex
	state []float64
}

func NewPlant(config configuration.PlantConfig) (Plant, error) {
	var model dynamics
	var err error
	switch config.Type {
	case configuration.PlantTypeFirstOrder:
		model, err = newFirstOrder(config.Params)
	case configuration.PlantTypeIntegrator:
		model, err = newIntegrator(config.Params)
	case configuration.PlantTypeSpringMass:
		model, err = newSpringMass(config.Params)
	default:
		return nil, fmt.Errorf("no matching plant type for plant: %s", config.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("plant %s: %w", config.ID, err)
	}

	return &simulatedPlant{
		config: config,
		model:  model,
		state:  model.initialState(),
	}, nil
}

func (p *simulatedPlant) GetId() string {
	return p.config.ID
}

func (p *simulatedPlant) GetConfig() configuration.PlantConfig {
	return p.config
}

func (p *simulatedPlant) Measure() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state[0]
}

func (p *simulatedPlant) Apply(input float64, dt float64) {
	if dt <= 0 || math.IsInf(dt, 0) || math.IsNaN(dt) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	steps := maxSteps
	if dt < maxStep*maxSteps {
		steps = int(math.Ceil(dt / maxStep))
	}
	h := dt / float64(steps)
	for i := 0; i < steps; i++ {
		p.state = eulerStep(p.model, p.state, input, h)
	}
}

func (p *simulatedPlant) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = p.model.initialState()
}

func eulerStep(model dynamics, x []float64, u float64, h float64) []float64 {
	dx := model.derivative(x, u)
	result := make([]float64, len(x))
	for i := range x {
		result[i] = x[i] + h*dx[i]
	}
	return result
}

func decodeParams(params map[string]interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(params)
}
