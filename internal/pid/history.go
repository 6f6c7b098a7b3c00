package pid

import (
	"fmt"
	"strings"
)

// ErrorComponent selects one of the recorded error series of a History.
type ErrorComponent string

const (
	// Proportional is the raw error (reference - measured) of each cycle.
	Proportional ErrorComponent = "proportional"
	// Derivative is the rate of change of the error of each cycle.
	Derivative ErrorComponent = "derivative"
	// Integral is the accumulated error after each cycle.
	Integral ErrorComponent = "integral"
)

// ErrorComponents lists all components in plotting order.
var ErrorComponents = []ErrorComponent{Proportional, Derivative, Integral}

// ParseErrorComponent converts the given (case-insensitive) name into an ErrorComponent.
func ParseErrorComponent(name string) (ErrorComponent, error) {
	c := ErrorComponent(strings.ToLower(strings.TrimSpace(name)))
	switch c {
	case Proportional, Derivative, Integral:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownComponent, name)
}

// Sample is a single recorded controller cycle.
type Sample struct {
	// Index of the cycle, starting at 0 and increasing by 1 with every update
	Index int `json:"index" yaml:"index"`
	// Time is the simulated time at the end of the cycle
	Time float64 `json:"time" yaml:"time"`
	// TimeStep used for this cycle
	TimeStep float64 `json:"timeStep" yaml:"timeStep"`

	Measured  float64 `json:"measured" yaml:"measured"`
	Reference float64 `json:"reference" yaml:"reference"`

	// Error is reference - measured
	Error float64 `json:"error" yaml:"error"`
	// DerivativeError is (error - previousError) / timeStep
	DerivativeError float64 `json:"derivativeError" yaml:"derivativeError"`
	// IntegralError is the accumulated error after this cycle
	IntegralError float64 `json:"integralError" yaml:"integralError"`

	ProportionalTerm float64 `json:"proportionalTerm" yaml:"proportionalTerm"`
	IntegralTerm     float64 `json:"integralTerm" yaml:"integralTerm"`
	DerivativeTerm   float64 `json:"derivativeTerm" yaml:"derivativeTerm"`

	Output float64 `json:"output" yaml:"output"`
}

// ErrorValue returns the value of the given error component of this sample.
func (s Sample) ErrorValue(component ErrorComponent) (float64, error) {
	switch component {
	case Proportional:
		return s.Error, nil
	case Derivative:
		return s.DerivativeError, nil
	case Integral:
		return s.IntegralError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownComponent, component)
}

// History is the append-only record of all cycles of a Controller.
// With a capacity > 0 only the most recent samples are kept.
type History struct {
	capacity int

	// ring buffer storage, start points to the oldest entry once full
	samples []Sample
	start   int
}

// NewHistory creates a History. A capacity of 0 means unbounded.
func NewHistory(capacity int) *History {
	h := &History{capacity: capacity}
	if capacity > 0 {
		h.samples = make([]Sample, 0, capacity)
	}
	return h
}

// Capacity returns the maximum number of retained samples, 0 if unbounded.
func (h *History) Capacity() int {
	return h.capacity
}

// Len returns the number of retained samples.
func (h *History) Len() int {
	return len(h.samples)
}

func (h *History) append(s Sample) {
	if h.capacity <= 0 || len(h.samples) < h.capacity {
		h.samples = append(h.samples, s)
		return
	}
	h.samples[h.start] = s
	h.start = (h.start + 1) % h.capacity
}

// Samples returns a copy of all retained samples in call order.
func (h *History) Samples() []Sample {
	result := make([]Sample, 0, len(h.samples))
	result = append(result, h.samples[h.start:]...)
	result = append(result, h.samples[:h.start]...)
	return result
}

// Last returns the most recent sample, if any.
func (h *History) Last() (Sample, bool) {
	if len(h.samples) == 0 {
		return Sample{}, false
	}
	idx := len(h.samples) - 1
	if h.start > 0 {
		idx = h.start - 1
	}
	return h.samples[idx], true
}

func (h *History) series(value func(s Sample) float64) []float64 {
	samples := h.Samples()
	result := make([]float64, len(samples))
	for i, s := range samples {
		result[i] = value(s)
	}
	return result
}

// ErrorSeries returns the recorded values of the given error component in call order.
func (h *History) ErrorSeries(component ErrorComponent) ([]float64, error) {
	if _, err := (Sample{}).ErrorValue(component); err != nil {
		return nil, err
	}
	return h.series(func(s Sample) float64 {
		v, _ := s.ErrorValue(component)
		return v
	}), nil
}

// OutputSeries returns the recorded controller outputs in call order.
func (h *History) OutputSeries() []float64 {
	return h.series(func(s Sample) float64 { return s.Output })
}

// MeasuredSeries returns the recorded measured values in call order.
func (h *History) MeasuredSeries() []float64 {
	return h.series(func(s Sample) float64 { return s.Measured })
}

// ReferenceSeries returns the reference value of each cycle in call order.
func (h *History) ReferenceSeries() []float64 {
	return h.series(func(s Sample) float64 { return s.Reference })
}
