package pid

import "errors"

var (
	// ErrInvalidConfiguration is returned when a controller parameter would make
	// the update step undefined, e.g. a non-positive time step.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput is returned by Update when the measured value (or the
	// resulting output) is not a finite number. No state is changed in that case.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownComponent is returned when an unknown error component is requested
	// from a History.
	ErrUnknownComponent = errors.New("unknown error component")
)
