// Package dynamo drives a gravitational n-body simulation.
//
// A [Simulation] owns the bodies, an evaluator that computes their mutual
// accelerations and an integrator that advances them:
//
//   - [Simulation.CreateBody]: add a body, get back a [body.Handle]
//   - [Simulation.Position], [Simulation.Velocity] and friends: read state
//   - [Simulation.Advance]: cover a total simulated time in fixed ticks
//
// # Example
//
//	s := dynamo.New()
//	sun, _ := s.CreateBody(r3.Vec{}, r3.Vec{}, 1.9885e30, 6.957e8)
//	earth, _ := s.CreateBody(r3.Vec{X: 1.521e11}, r3.Vec{Z: 29780}, 5.97237e24, 6.371e6)
//	if err := s.Advance(3600, 365.25*86400); err != nil {
//	    // a *SimulationError; errors.Is works against physics.ErrSingularity etc.
//	}
//
// # Ticks
//
// Advance(step, total) runs floor(total/step) ticks of size step and one
// final tick for the remainder, so exactly total seconds are simulated.
// Accelerations are computed once before the first tick and again whenever
// bodies were added since the last pass.
//
// # Thread Safety
//
// Simulation instances are NOT thread-safe. An evaluator pass may fan out
// across goroutines internally (see [WithWorkers]) but Advance itself is
// synchronous.
package dynamo
