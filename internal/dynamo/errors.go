package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for advance requests.
var (
	// ErrInvalidStep indicates a tick size that is zero, negative, NaN or infinite.
	ErrInvalidStep = errors.New("dynamo: step must be finite and positive")

	// ErrInvalidDuration indicates a negative or non-finite total time.
	ErrInvalidDuration = errors.New("dynamo: total time must be finite and non-negative")

	// ErrTooManyTicks indicates a step so small relative to the total time
	// that the tick count does not fit in an int.
	ErrTooManyTicks = errors.New("dynamo: tick count overflows")
)

// SimulationError reports a fatal condition raised while advancing.
// Ticks before Tick are committed; the failed tick is not.
type SimulationError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.6gs): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
