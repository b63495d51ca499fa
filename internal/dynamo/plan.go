package dynamo

import (
	"fmt"
	"math"
)

// maxTicks bounds a single Advance call.
const maxTicks = 1 << 50

// Plan splits total into whole ticks of size step plus a remainder in
// [0, step). The tick count is clamped against floor jitter so that the
// planned time never exceeds total.
func Plan(step, total float64) (ticks int, remainder float64, err error) {
	if math.IsNaN(step) || math.IsInf(step, 0) || step <= 0 {
		return 0, 0, fmt.Errorf("%w: got %g", ErrInvalidStep, step)
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return 0, 0, fmt.Errorf("%w: got %g", ErrInvalidDuration, total)
	}

	n := math.Floor(total / step)
	if n > maxTicks {
		return 0, 0, fmt.Errorf("%w: %g / %g", ErrTooManyTicks, total, step)
	}

	for total-n*step >= step {
		n++
	}
	for n > 0 && total-n*step < 0 {
		n--
	}
	return int(n), total - n*step, nil
}
