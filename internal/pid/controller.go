package pid

import (
	"fmt"

	"github.com/markusressel/pid2go/internal/util"
)

// DefaultTimeStep is the sampling interval used when none is configured.
const DefaultTimeStep = 1.0

// Gains holds the three coefficients of a Controller.
type Gains struct {
	P float64 `json:"p" yaml:"p"`
	I float64 `json:"i" yaml:"i"`
	D float64 `json:"d" yaml:"d"`
}

// Limits is a closed [Min, Max] interval.
type Limits struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (l Limits) validate(name string) error {
	if !util.IsFinite(l.Min) || !util.IsFinite(l.Max) {
		return fmt.Errorf("%w: %s limits must be finite, got [%v, %v]", ErrInvalidConfiguration, name, l.Min, l.Max)
	}
	if l.Min > l.Max {
		return fmt.Errorf("%w: %s limits min (%v) is greater than max (%v)", ErrInvalidConfiguration, name, l.Min, l.Max)
	}
	return nil
}

// Option configures optional Controller behaviour.
type Option func(c *Controller) error

// WithTimeStep sets a fixed sampling interval used to scale the integral and derivative terms.
func WithTimeStep(dt float64) Option {
	return func(c *Controller) error {
		if err := validateTimeStep(dt); err != nil {
			return err
		}
		c.timeStep = dt
		return nil
	}
}

// WithOutputLimits clamps the output into [min, max]. While the output is saturated,
// error that would push it further into saturation is not integrated.
func WithOutputLimits(min, max float64) Option {
	return func(c *Controller) error {
		l := Limits{Min: min, Max: max}
		if err := l.validate("output"); err != nil {
			return err
		}
		c.outputLimits = &l
		return nil
	}
}

// WithIntegralLimits clamps the integral accumulator into [min, max].
func WithIntegralLimits(min, max float64) Option {
	return func(c *Controller) error {
		l := Limits{Min: min, Max: max}
		if err := l.validate("integral"); err != nil {
			return err
		}
		c.integralLimits = &l
		return nil
	}
}

// WithHistoryCapacity bounds the history to the last n samples. 0 keeps everything.
func WithHistoryCapacity(n int) Option {
	return func(c *Controller) error {
		if n < 0 {
			return fmt.Errorf("%w: history capacity must be >= 0, got %d", ErrInvalidConfiguration, n)
		}
		c.history = NewHistory(n)
		return nil
	}
}

// Controller is a discrete-time PID controller.
//
// A Controller is not safe for concurrent use. Distinct instances share no state.
type Controller struct {
	// target value of the process
	reference float64
	// Proportional Constant
	p float64
	// Derivative Constant
	d float64
	// Integral Constant
	i float64

	// sampling interval used by Update
	timeStep float64

	outputLimits   *Limits
	integralLimits *Limits

	// sum of error * dt
	integral float64
	// error of the previous cycle
	previousError float64
	// false until the first successful update (or after Reset)
	initialized bool
	// last output value, used for conditional integration
	lastOutput float64

	// number of successful updates
	cycles int
	// elapsed time, sum of all time steps
	time float64

	history *History
}

// NewController creates a Controller. All gains must be given explicitly,
// use 0 to disable a term.
func NewController(reference, p, d, i float64, opts ...Option) (*Controller, error) {
	c := &Controller{
		reference: reference,
		p:         p,
		d:         d,
		i:         i,
		timeStep:  DefaultTimeStep,
		history:   NewHistory(0),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func validateTimeStep(dt float64) error {
	if !util.IsFinite(dt) || dt <= 0 {
		return fmt.Errorf("%w: time step must be > 0, got %v", ErrInvalidConfiguration, dt)
	}
	return nil
}

// Update advances the controller by one cycle using the configured time step
// and returns the new output.
func (c *Controller) Update(measured float64) (float64, error) {
	return c.update(measured, c.timeStep)
}

// UpdateWithTimeStep advances the controller by one cycle using the given
// sampling interval instead of the configured one.
func (c *Controller) UpdateWithTimeStep(measured float64, dt float64) (float64, error) {
	if err := validateTimeStep(dt); err != nil {
		return 0, err
	}
	return c.update(measured, dt)
}

func (c *Controller) update(measured float64, dt float64) (float64, error) {
	if !util.IsFinite(measured) {
		return 0, fmt.Errorf("%w: measured value %v is not a finite number", ErrInvalidInput, measured)
	}

	err := c.reference - measured

	// --- P Term ---
	proportionalTerm := c.p * err

	// --- I Term ---
	integral := c.integral
	if c.shouldIntegrate(err) {
		integral += err * dt
	}
	if c.integralLimits != nil {
		integral = util.Coerce(integral, c.integralLimits.Min, c.integralLimits.Max)
	}
	integralTerm := c.i * integral

	// --- D Term ---
	// no derivative kick on the first cycle
	previousError := c.previousError
	if !c.initialized {
		previousError = err
	}
	derivativeRaw := (err - previousError) / dt
	derivativeTerm := c.d * derivativeRaw

	// --- Combine Terms ---
	output := proportionalTerm + integralTerm + derivativeTerm
	for _, v := range []float64{proportionalTerm, integral, integralTerm, derivativeRaw, derivativeTerm, output} {
		if !util.IsFinite(v) {
			return 0, fmt.Errorf("%w: output for measured value %v is not a finite number", ErrInvalidInput, measured)
		}
	}
	if c.outputLimits != nil {
		output = util.Coerce(output, c.outputLimits.Min, c.outputLimits.Max)
	}

	// --- Update State ---
	c.integral = integral
	c.previousError = err
	c.initialized = true
	c.lastOutput = output
	c.time += dt

	c.history.append(Sample{
		Index:            c.cycles,
		Time:             c.time,
		TimeStep:         dt,
		Measured:         measured,
		Reference:        c.reference,
		Error:            err,
		DerivativeError:  derivativeRaw,
		IntegralError:    integral,
		ProportionalTerm: proportionalTerm,
		IntegralTerm:     integralTerm,
		DerivativeTerm:   derivativeTerm,
		Output:           output,
	})
	c.cycles++

	return output, nil
}

// shouldIntegrate implements conditional integration: while the output is
// saturated, error pushing it further into saturation is not accumulated.
func (c *Controller) shouldIntegrate(err float64) bool {
	if c.outputLimits == nil || !c.initialized {
		return true
	}
	push := c.i * err
	if c.lastOutput >= c.outputLimits.Max && push > 0 {
		return false
	}
	if c.lastOutput <= c.outputLimits.Min && push < 0 {
		return false
	}
	return true
}

// SetReference changes the target value, starting with the next update.
func (c *Controller) SetReference(value float64) {
	c.reference = value
}

// SetProportionalGain changes the proportional gain, starting with the next update.
func (c *Controller) SetProportionalGain(value float64) {
	c.p = value
}

// SetDerivativeGain changes the derivative gain, starting with the next update.
func (c *Controller) SetDerivativeGain(value float64) {
	c.d = value
}

// SetIntegralGain changes the integral gain, starting with the next update.
// The accumulated integral is kept.
func (c *Controller) SetIntegralGain(value float64) {
	c.i = value
}

// SetGains replaces all three gains at once.
func (c *Controller) SetGains(gains Gains) {
	c.p = gains.P
	c.i = gains.I
	c.d = gains.D
}

// Reset clears the accumulated integral and the previous error, so the next
// update behaves like the first one. Configuration and history are kept.
func (c *Controller) Reset() {
	c.integral = 0
	c.previousError = 0
	c.lastOutput = 0
	c.initialized = false
}

func (c *Controller) Reference() float64 {
	return c.reference
}

func (c *Controller) Gains() Gains {
	return Gains{P: c.p, I: c.i, D: c.d}
}

// Integral returns the current value of the integral accumulator.
func (c *Controller) Integral() float64 {
	return c.integral
}

// PreviousError returns the error of the last update, 0 before the first one.
func (c *Controller) PreviousError() float64 {
	return c.previousError
}

func (c *Controller) TimeStep() float64 {
	return c.timeStep
}

// OutputLimits returns the configured output limits, if any.
func (c *Controller) OutputLimits() (Limits, bool) {
	if c.outputLimits == nil {
		return Limits{}, false
	}
	return *c.outputLimits, true
}

// IntegralLimits returns the configured integral limits, if any.
func (c *Controller) IntegralLimits() (Limits, bool) {
	if c.integralLimits == nil {
		return Limits{}, false
	}
	return *c.integralLimits, true
}

// Time returns the elapsed time, i.e. the sum of the time steps of all updates.
func (c *Controller) Time() float64 {
	return c.time
}

// Cycles returns the number of successful updates.
func (c *Controller) Cycles() int {
	return c.cycles
}

// History gives read access to the recorded samples.
func (c *Controller) History() *History {
	return c.history
}

// LastOutput returns the output of the last update, 0 before the first one.
func (c *Controller) LastOutput() float64 {
	return c.lastOutput
}
