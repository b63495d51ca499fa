// Package physics evaluates Newtonian gravity between point masses.
//
// [Gravity] is the brute-force evaluator used by the simulation driver. One
// [Gravity.Accelerate] pass overwrites every body's Acceleration with
//
//	a_i = Σ_{j≠i} G m_j (p_j − p_i) / |p_j − p_i|³
//
// Small sets are evaluated serially, visiting each pair once. Larger sets
// split the outer loop over bodies across goroutines and synchronize before
// returning.
//
// # Failure
//
// Two bodies at zero separation yield [ErrSingularity]. A non-finite
// acceleration yields [ErrUnstable]. Both are fatal for the caller's tick.
//
// # Invariants
//
// [Energy], [Momentum], [AngularMomentum] and [CenterOfMass] measure the
// conserved quantities of an isolated system:
//
//	e0 := physics.Energy(bodies, physics.G)
//	// ... advance ...
//	drift := math.Abs(physics.Energy(bodies, physics.G)-e0) / math.Abs(e0)
package physics
