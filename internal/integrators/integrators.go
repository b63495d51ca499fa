// Package integrators advances a set of bodies by one fixed time increment.
//
// [Verlet] (kick-drift-kick) is the default scheme. [SymplecticEuler] and
// [RK4] exist for accuracy comparisons and are never chosen implicitly.
//
// Every integrator assumes the Acceleration field of each body already holds
// the acceleration at the current positions, and leaves it holding the
// acceleration at the new positions (Euler excepted, which recomputes it at
// the start of the tick).
package integrators

import (
	"fmt"

	"github.com/san-kum/oberth/internal/body"
	"github.com/san-kum/oberth/internal/physics"
)

// ErrUnstable wraps physics.ErrUnstable for non-finite positions or velocities.
var ErrUnstable = fmt.Errorf("integrators: non-finite state: %w", physics.ErrUnstable)

// Evaluator fills in the Acceleration of every body.
type Evaluator interface {
	Accelerate(bodies []body.Body) error
}

func checkState(bodies []body.Body) error {
	for i := range bodies {
		if !body.FiniteVec(bodies[i].Position) {
			return fmt.Errorf("%w: body %d position %v", ErrUnstable, i, bodies[i].Position)
		}
		if !body.FiniteVec(bodies[i].Velocity) {
			return fmt.Errorf("%w: body %d velocity %v", ErrUnstable, i, bodies[i].Velocity)
		}
	}
	return nil
}
