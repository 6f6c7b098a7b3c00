package plant

import "fmt"

// FirstOrderParams: tau * dy/dt = gain * u - y
type FirstOrderParams struct {
	Tau     float64 `mapstructure:"tau"`
	Gain    float64 `mapstructure:"gain"`
	Initial float64 `mapstructure:"initial"`
}

type firstOrder struct {
	params FirstOrderParams
}

func newFirstOrder(params map[string]interface{}) (*firstOrder, error) {
	p := FirstOrderParams{Tau: 1, Gain: 1}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Tau <= 0 {
		return nil, fmt.Errorf("tau must be > 0, got %v", p.Tau)
	}
	return &firstOrder{params: p}, nil
}

func (m *firstOrder) derivative(x []float64, u float64) []float64 {
	return []float64{(m.params.Gain*u - x[0]) / m.params.Tau}
}

func (m *firstOrder) initialState() []float64 {
	return []float64{m.params.Initial}
}

// IntegratorParams: dy/dt = gain * u
type IntegratorParams struct {
	Gain    float64 `mapstructure:"gain"`
	Initial float64 `mapstructure:"initial"`
}

type integrator struct {
	params IntegratorParams
}

func newIntegrator(params map[string]interface{}) (*integrator, error) {
	p := IntegratorParams{Gain: 1}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	return &integrator{params: p}, nil
}

func (m *integrator) derivative(x []float64, u float64) []float64 {
	return []float64{m.params.Gain * u}
}

func (m *integrator) initialState() []float64 {
	return []float64{m.params.Initial}
}

// SpringMassParams: mass * x'' = u - stiffness * x - damping * x'
type SpringMassParams struct {
	Mass      float64 `mapstructure:"mass"`
	Stiffness float64 `mapstructure:"stiffness"`
	Damping   float64 `mapstructure:"damping"`
	Initial   float64 `mapstructure:"initial"`
}

type springMass struct {
	params SpringMassParams
}

func newSpringMass(params map[string]interface{}) (*springMass, error) {
	p := SpringMassParams{Mass: 1, Stiffness: 10, Damping: 0.5}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Mass <= 0 {
		return nil, fmt.Errorf("mass must be > 0, got %v", p.Mass)
	}
	return &springMass{params: p}, nil
}

// state: position, velocity
func (m *springMass) derivative(x []float64, u float64) []float64 {
	force := u - m.params.Stiffness*x[0] - m.params.Damping*x[1]
	return []float64{x[1], force / m.params.Mass}
}

func (m *springMass) initialState() []float64 {
	return []float64{m.params.Initial, 0}
}
