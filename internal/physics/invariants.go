package physics

import (
	"math"

	"github.com/san-kum/oberth/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// Energy returns total kinetic plus gravitational potential energy.
func Energy(bodies []body.Body, g float64) float64 {
	ke := 0.0
	pe := 0.0

	for i := range bodies {
		ke += 0.5 * bodies[i].Mass * r3.Norm2(bodies[i].Velocity)

		for j := i + 1; j < len(bodies); j++ {
			r := r3.Norm(r3.Sub(bodies[j].Position, bodies[i].Position))
			if r == 0 {
				return math.Inf(-1)
			}
			pe -= g * bodies[i].Mass * bodies[j].Mass / r
		}
	}

	return ke + pe
}

func Momentum(bodies []body.Body) r3.Vec {
	var p r3.Vec
	for i := range bodies {
		p = r3.Add(p, r3.Scale(bodies[i].Mass, bodies[i].Velocity))
	}
	return p
}

// AngularMomentum is taken about the origin.
func AngularMomentum(bodies []body.Body) r3.Vec {
	var l r3.Vec
	for i := range bodies {
		l = r3.Add(l, r3.Scale(bodies[i].Mass, r3.Cross(bodies[i].Position, bodies[i].Velocity)))
	}
	return l
}

func CenterOfMass(bodies []body.Body) r3.Vec {
	var c r3.Vec
	total := 0.0
	for i := range bodies {
		c = r3.Add(c, r3.Scale(bodies[i].Mass, bodies[i].Position))
		total += bodies[i].Mass
	}
	if total == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/total, c)
}
