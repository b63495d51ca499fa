package metrics

import (
	"math"

	"github.com/san-kum/oberth/internal/body"
	"gonum.org/v1/gonum/spatial/r3"
)

// ClosestApproach records the smallest separation between any two bodies,
// measured surface to surface. A negative value means two bodies overlapped.
type ClosestApproach struct {
	name string
	min  float64
	at   float64
}

func NewClosestApproach() *ClosestApproach {
	return &ClosestApproach{
		name: "closest_approach",
		min:  math.Inf(1),
	}
}

func (c *ClosestApproach) Name() string {
	return c.name
}

func (c *ClosestApproach) Observe(bodies []body.Body, t float64) {
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			d := r3.Norm(r3.Sub(bodies[j].Position, bodies[i].Position)) - bodies[i].Radius - bodies[j].Radius
			if d < c.min {
				c.min = d
				c.at = t
			}
		}
	}
}

func (c *ClosestApproach) Value() float64 {
	return c.min
}

// Time is when the closest approach was observed.
func (c *ClosestApproach) Time() float64 {
	return c.at
}

func (c *ClosestApproach) Reset() {
	c.min = math.Inf(1)
	c.at = 0
}
