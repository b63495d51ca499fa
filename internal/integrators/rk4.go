package integrators

import (
	"github.com/san-kum/oberth/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// RK4 is the classical fourth-order Runge-Kutta scheme over positions and
// velocities. It is not symplectic, so energy drifts over long horizons.
type RK4 struct {
	scratch []body.Body
	kx, kv  [4][]r3.Vec
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) != n {
		r.scratch = make([]body.Body, n)
		for s := range r.kx {
			r.kx[s] = make([]r3.Vec, n)
			r.kv[s] = make([]r3.Vec, n)
		}
	}
}

func (r *RK4) Step(eval Evaluator, bodies []body.Body, dt float64) error {
	r.ensureScratch(len(bodies))
	copy(r.scratch, bodies)

	for i := range bodies {
		r.kx[0][i] = bodies[i].Velocity
		r.kv[0][i] = bodies[i].Acceleration
	}

	offsets := [3]float64{0.5 * dt, 0.5 * dt, dt}
	for s := 1; s < 4; s++ {
		h := offsets[s-1]
		for i := range bodies {
			r.scratch[i].Position = r3.Add(bodies[i].Position, r3.Scale(h, r.kx[s-1][i]))
			r.scratch[i].Velocity = r3.Add(bodies[i].Velocity, r3.Scale(h, r.kv[s-1][i]))
		}

		if err := eval.Accelerate(r.scratch); err != nil {
			return err
		}

		for i := range bodies {
			r.kx[s][i] = r.scratch[i].Velocity
			r.kv[s][i] = r.scratch[i].Acceleration
		}
	}

	dt6 := dt / 6.0
	for i := range bodies {
		dx := r3.Add(r3.Add(r.kx[0][i], r.kx[3][i]), r3.Scale(2, r3.Add(r.kx[1][i], r.kx[2][i])))
		dv := r3.Add(r3.Add(r.kv[0][i], r.kv[3][i]), r3.Scale(2, r3.Add(r.kv[1][i], r.kv[2][i])))
		bodies[i].Position = r3.Add(bodies[i].Position, r3.Scale(dt6, dx))
		bodies[i].Velocity = r3.Add(bodies[i].Velocity, r3.Scale(dt6, dv))
	}

	if err := eval.Accelerate(bodies); err != nil {
		return err
	}

	return checkState(bodies)
}
