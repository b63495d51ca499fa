package integrators

import (
	"github.com/san-kum/oberth/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// Verlet is velocity Verlet in kick-drift-kick form.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Step(eval Evaluator, bodies []body.Body, dt float64) error {
	halfDt := 0.5 * dt

	for i := range bodies {
		b := &bodies[i]
		b.Velocity = r3.Add(b.Velocity, r3.Scale(halfDt, b.Acceleration))
		b.Position = r3.Add(b.Position, r3.Scale(dt, b.Velocity))
	}

	if err := eval.Accelerate(bodies); err != nil {
		return err
	}

	for i := range bodies {
		b := &bodies[i]
		b.Velocity = r3.Add(b.Velocity, r3.Scale(halfDt, b.Acceleration))
	}

	return checkState(bodies)
}
