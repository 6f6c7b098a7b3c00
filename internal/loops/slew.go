package loops

import (
	"github.com/markusressel/pid2go/internal/util"
)

// slewRateLimiter limits the change of the applied output per second,
// which can be used to gracefully approach a new controller output.
type slewRateLimiter struct {
	// maximum allowed change per second
	maxChangeRate float64

	last        float64
	initialized bool
}

func newSlewRateLimiter(maxChangeRate float64) *slewRateLimiter {
	return &slewRateLimiter{
		maxChangeRate: maxChangeRate,
	}
}

// Limit returns the value to apply for the given target, dt is the time since the last call.
// The first target is applied as is.
func (l *slewRateLimiter) Limit(target float64, dt float64) float64 {
	if !l.initialized {
		l.initialized = true
		l.last = target
		return target
	}

	maxChangeThisStep := l.maxChangeRate * dt
	diff := target - l.last
	// we can be above or below the target,
	// so we add or subtract at most the max change,
	// capped to having reached the target
	if diff > 0 {
		l.last += util.Coerce(maxChangeThisStep, 0, diff)
	} else {
		l.last += util.Coerce(-maxChangeThisStep, diff, 0)
	}
	return l.last
}

// Reset makes the next target pass through unchanged
func (l *slewRateLimiter) Reset() {
	l.initialized = false
	l.last = 0
}
