package integrators

import (
	"github.com/san-kum/oberth/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// SymplecticEuler kicks with the full step and then drifts with the updated
// velocity. First order; kept for comparison against Verlet.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Name() string { return "euler" }

func (e *SymplecticEuler) Step(eval Evaluator, bodies []body.Body, dt float64) error {
	if err := eval.Accelerate(bodies); err != nil {
		return err
	}

	for i := range bodies {
		b := &bodies[i]
		b.Velocity = r3.Add(b.Velocity, r3.Scale(dt, b.Acceleration))
		b.Position = r3.Add(b.Position, r3.Scale(dt, b.Velocity))
	}

	return checkState(bodies)
}
