package physics

import (
	"fmt"
	"math"
	"runtime"

	"github.com/san-kum/oberth/internal/body"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// G is the gravitational constant in N·m²/kg².
const G = 6.674e-11

// parallelThreshold is the body count below which a pass always runs serially.
const parallelThreshold = 16

// Gravity evaluates Newtonian point-mass accelerations by brute force.
type Gravity struct {
	G       float64
	Workers int
}

func NewGravity() *Gravity {
	return &Gravity{
		G:       G,
		Workers: runtime.NumCPU(),
	}
}

// Accelerate overwrites the Acceleration of every body from the current
// positions and masses. It fails on coincident bodies or non-finite results;
// in that case the accelerations are partially written and must not be used.
func (g *Gravity) Accelerate(bodies []body.Body) error {
	n := len(bodies)
	if g.Workers > 1 && n >= parallelThreshold {
		return g.accelerateParallel(bodies)
	}
	return g.accelerateSerial(bodies)
}

// accelerateSerial visits each unordered pair once.
func (g *Gravity) accelerateSerial(bodies []body.Body) error {
	n := len(bodies)
	for i := range bodies {
		bodies[i].Acceleration = r3.Vec{}
	}

	for i := 0; i < n; i++ {
		pi := bodies[i].Position

		for j := i + 1; j < n; j++ {
			r := r3.Sub(bodies[j].Position, pi)
			r2 := r3.Norm2(r)
			if r2 == 0 {
				return fmt.Errorf("%w: bodies %d and %d", ErrSingularity, i, j)
			}

			s := g.G / (r2 * math.Sqrt(r2))
			bodies[i].Acceleration = r3.Add(bodies[i].Acceleration, r3.Scale(s*bodies[j].Mass, r))
			bodies[j].Acceleration = r3.Sub(bodies[j].Acceleration, r3.Scale(s*bodies[i].Mass, r))
		}
	}

	for i := range bodies {
		if !body.FiniteVec(bodies[i].Acceleration) {
			return fmt.Errorf("%w: body %d: %v", ErrUnstable, i, bodies[i].Acceleration)
		}
	}
	return nil
}

// accelerateParallel splits the outer loop into one contiguous chunk per
// worker. Each chunk writes only its own accelerations.
func (g *Gravity) accelerateParallel(bodies []body.Body) error {
	n := len(bodies)
	workers := min(g.Workers, n)
	chunk := (n + workers - 1) / workers

	var eg errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		eg.Go(func() error {
			return g.accelerateRange(bodies, start, end)
		})
	}
	return eg.Wait()
}

func (g *Gravity) accelerateRange(bodies []body.Body, start, end int) error {
	for i := start; i < end; i++ {
		pi := bodies[i].Position
		var acc r3.Vec

		for j := range bodies {
			if i == j {
				continue
			}

			r := r3.Sub(bodies[j].Position, pi)
			r2 := r3.Norm2(r)
			if r2 == 0 {
				return fmt.Errorf("%w: bodies %d and %d", ErrSingularity, i, j)
			}

			s := g.G * bodies[j].Mass / (r2 * math.Sqrt(r2))
			acc = r3.Add(acc, r3.Scale(s, r))
		}

		if !body.FiniteVec(acc) {
			return fmt.Errorf("%w: body %d: %v", ErrUnstable, i, acc)
		}
		bodies[i].Acceleration = acc
	}
	return nil
}

// Force returns the gravitational force exerted on a by b.
// Force(a, b) is the exact negation of Force(b, a).
func (g *Gravity) Force(a, b body.Body) (r3.Vec, error) {
	r := r3.Sub(b.Position, a.Position)
	r2 := r3.Norm2(r)
	if r2 == 0 {
		return r3.Vec{}, ErrSingularity
	}
	return r3.Scale(g.G*(a.Mass*b.Mass)/(r2*math.Sqrt(r2)), r), nil
}
