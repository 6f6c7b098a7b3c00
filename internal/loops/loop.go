package loops

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/markusressel/pid2go/internal/actuators"
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/sensors"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/markusressel/pid2go/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	LoopMap = cmap.New[*Loop]()

	ErrReferenceIsCascaded = errors.New("reference is driven by another loop")
)

// maxUnsaved bounds the samples kept for persistence when no history size is configured
const maxUnsaved = 100000

// OutputSeries is the name of the output series, next to the pid.ErrorComponent names
const OutputSeries = "output"

// Status is a point in time view of a Loop
type Status struct {
	ID            string      `json:"id"`
	Reference     float64     `json:"reference"`
	ReferenceLoop string      `json:"referenceLoop,omitempty"`
	Gains         pid.Gains   `json:"gains"`
	TimeStep      float64     `json:"timeStep"`
	Integral      float64     `json:"integral"`
	Output        float64     `json:"output"`
	Applied       float64     `json:"applied"`
	Time          float64     `json:"time"`
	Cycles        int         `json:"cycles"`
	InvalidInputs int         `json:"invalidInputs"`
	OutputLimits  *pid.Limits `json:"outputLimits,omitempty"`
	Last          *pid.Sample `json:"last,omitempty"`
}

// Loop connects a pid.Controller to a sensor and an actuator.
// All methods are safe for concurrent use.
type Loop struct {
	config configuration.LoopConfig

	mu         sync.Mutex
	controller *pid.Controller
	sensor     sensors.Sensor
	actuator   actuators.Actuator
	// loop whose output is used as reference, nil for a fixed reference
	upstream  *Loop
	smoothing *util.MovingAverage
	slewRate  *slewRateLimiter

	// value last handed to the actuator
	applied float64

	invalidInputs int
	// samples not yet handed to persistence
	unsaved []pid.Sample
}

// NewLoop creates a Loop from its configuration. Sensor and actuator are created
// from their configuration, an upstream loop must already be registered in LoopMap.
// defaultTimeStep is used if the configuration does not specify a time step.
func NewLoop(config configuration.LoopConfig, defaultTimeStep float64) (*Loop, error) {
	sensor, err := sensors.NewSensor(config.Sensor)
	if err != nil {
		return nil, fmt.Errorf("loop %s: %w", config.ID, err)
	}
	actuator, err := actuators.NewActuator(config.Actuator)
	if err != nil {
		return nil, fmt.Errorf("loop %s: %w", config.ID, err)
	}

	var upstream *Loop
	if len(config.Reference.Loop) > 0 {
		l, ok := LoopMap.Get(config.Reference.Loop)
		if !ok {
			return nil, fmt.Errorf("loop %s: upstream loop %s not found", config.ID, config.Reference.Loop)
		}
		upstream = l
	}

	return newLoop(config, sensor, actuator, upstream, defaultTimeStep)
}

func newLoop(
	config configuration.LoopConfig,
	sensor sensors.Sensor,
	actuator actuators.Actuator,
	upstream *Loop,
	defaultTimeStep float64,
) (*Loop, error) {
	if config.P == nil || config.I == nil || config.D == nil {
		return nil, fmt.Errorf("loop %s: missing gain", config.ID)
	}

	timeStep := config.TimeStep
	if timeStep == 0 {
		timeStep = defaultTimeStep
	}
	opts := []pid.Option{
		pid.WithTimeStep(timeStep),
		pid.WithHistoryCapacity(config.HistorySize),
	}
	if config.OutputLimits != nil {
		opts = append(opts, pid.WithOutputLimits(config.OutputLimits.Min, config.OutputLimits.Max))
	}
	if config.IntegralLimits != nil {
		opts = append(opts, pid.WithIntegralLimits(config.IntegralLimits.Min, config.IntegralLimits.Max))
	}

	reference := 0.0
	if config.Reference.Value != nil {
		reference = *config.Reference.Value
	}

	controller, err := pid.NewController(reference, *config.P, *config.D, *config.I, opts...)
	if err != nil {
		return nil, fmt.Errorf("loop %s: %w", config.ID, err)
	}

	l := &Loop{
		config:     config,
		controller: controller,
		sensor:     sensor,
		actuator:   actuator,
		upstream:   upstream,
	}
	if config.MeasurementWindowSize > 1 {
		l.smoothing = util.NewMovingAverage(config.MeasurementWindowSize)
	}
	if config.MaxOutputChangeRate > 0 {
		l.slewRate = newSlewRateLimiter(config.MaxOutputChangeRate)
	}
	return l, nil
}

func (l *Loop) GetId() string {
	return l.config.ID
}

func (l *Loop) GetConfig() configuration.LoopConfig {
	return l.config
}

// Upstream returns the id of the loop driving the reference of this loop, if any
func (l *Loop) Upstream() (string, bool) {
	if l.upstream == nil {
		return "", false
	}
	return l.upstream.GetId(), true
}

// Cycle runs a single control cycle: resolve the reference, measure,
// update the controller and apply the output.
func (l *Loop) Cycle(ctx context.Context) error {
	if l.upstream != nil {
		reference := l.upstream.LastOutput()
		l.mu.Lock()
		l.controller.SetReference(reference)
		l.mu.Unlock()
	}

	measured, err := l.sensor.GetValue(ctx)
	if err != nil {
		return fmt.Errorf("loop %s: error reading sensor: %w", l.GetId(), err)
	}

	l.mu.Lock()
	raw := measured
	smoothed := l.smoothing != nil && util.IsFinite(raw)
	if smoothed {
		measured = l.smoothing.Peek(raw)
	}
	output, err := l.controller.Update(measured)
	if err != nil {
		if errors.Is(err, pid.ErrInvalidInput) {
			l.invalidInputs++
		}
		l.mu.Unlock()
		return fmt.Errorf("loop %s: %w", l.GetId(), err)
	}
	if smoothed {
		l.smoothing.Append(raw)
	}
	sample, _ := l.controller.History().Last()
	l.unsaved = append(l.unsaved, sample)
	l.trimUnsaved()
	dt := sample.TimeStep
	applied := output
	if l.slewRate != nil {
		applied = l.slewRate.Limit(output, dt)
	}
	l.applied = applied
	l.mu.Unlock()

	ui.Debug("Loop %s: reference: %.4f, measured: %.4f, output: %.4f, applied: %.4f", l.GetId(), sample.Reference, measured, output, applied)

	err = l.actuator.Apply(ctx, applied, dt)
	if err != nil {
		return fmt.Errorf("loop %s: error applying output: %w", l.GetId(), err)
	}
	return nil
}

// Run cycles the loop with the given rate until ctx is done.
// A failed cycle is skipped, there is no retry.
func (l *Loop) Run(ctx context.Context, tickRate time.Duration) error {
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := l.Cycle(ctx); err != nil {
				ui.Warning("Skipping cycle: %v", err)
			}
		}
	}
}

// LastOutput returns the output of the last successful cycle
func (l *Loop) LastOutput() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.controller.LastOutput()
}

// SetReference changes the reference of a loop with a fixed reference
func (l *Loop) SetReference(value float64) error {
	if l.upstream != nil {
		return fmt.Errorf("loop %s: %w %s", l.GetId(), ErrReferenceIsCascaded, l.upstream.GetId())
	}
	if !util.IsFinite(value) {
		return fmt.Errorf("loop %s: %w: reference must be a finite number", l.GetId(), pid.ErrInvalidInput)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.controller.SetReference(value)
	return nil
}

// UpdateGains changes the given gains, nil values are left untouched
func (l *Loop) UpdateGains(p, i, d *float64) error {
	for _, gain := range []*float64{p, i, d} {
		if gain != nil && !util.IsFinite(*gain) {
			return fmt.Errorf("loop %s: %w: gains must be finite numbers", l.GetId(), pid.ErrInvalidInput)
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if p != nil {
		l.controller.SetProportionalGain(*p)
	}
	if i != nil {
		l.controller.SetIntegralGain(*i)
	}
	if d != nil {
		l.controller.SetDerivativeGain(*d)
	}
	return nil
}

// Reset clears the integral and derivative state of the controller,
// the measurement window and the slew rate limiter
func (l *Loop) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.controller.Reset()
	if l.smoothing != nil {
		l.smoothing.Reset()
	}
	if l.slewRate != nil {
		l.slewRate.Reset()
	}
}

// Snapshot returns the current Status of the loop
func (l *Loop) Snapshot() Status {
	l.mu.Lock()
	defer l.mu.Unlock()

	c := l.controller
	status := Status{
		ID:            l.GetId(),
		Reference:     c.Reference(),
		Gains:         c.Gains(),
		TimeStep:      c.TimeStep(),
		Integral:      c.Integral(),
		Output:        c.LastOutput(),
		Applied:       l.applied,
		Time:          c.Time(),
		Cycles:        c.Cycles(),
		InvalidInputs: l.invalidInputs,
	}
	if l.upstream != nil {
		status.ReferenceLoop = l.upstream.GetId()
	}
	if limits, ok := c.OutputLimits(); ok {
		status.OutputLimits = &limits
	}
	if last, ok := c.History().Last(); ok {
		status.Last = &last
	}
	return status
}

// Samples returns a copy of the in-memory history
func (l *Loop) Samples() []pid.Sample {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.controller.History().Samples()
}

// Series returns the in-memory history of the given series, which is either
// OutputSeries or the name of a pid.ErrorComponent
func (l *Loop) Series(name string) ([]float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.controller.History()
	if name == OutputSeries {
		return history.OutputSeries(), nil
	}
	component, err := pid.ParseErrorComponent(name)
	if err != nil {
		return nil, err
	}
	return history.ErrorSeries(component)
}

// TakeUnsaved returns all samples recorded since the last call and forgets them
func (l *Loop) TakeUnsaved() []pid.Sample {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := l.unsaved
	l.unsaved = nil
	return result
}

// restoreUnsaved puts back samples that could not be saved
func (l *Loop) restoreUnsaved(samples []pid.Sample) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unsaved = append(samples, l.unsaved...)
	l.trimUnsaved()
}

// trimUnsaved drops the oldest unsaved samples beyond the history size.
// Must be called with mu held.
func (l *Loop) trimUnsaved() {
	limit := l.config.HistorySize
	if limit <= 0 {
		limit = maxUnsaved
	}
	dropped := len(l.unsaved) - limit
	if dropped <= 0 {
		return
	}
	ui.Warning("Loop %s: dropping %d unsaved samples", l.GetId(), dropped)
	l.unsaved = append([]pid.Sample(nil), l.unsaved[dropped:]...)
}
