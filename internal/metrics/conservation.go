// Package metrics measures how well a run preserves the conserved
// quantities of an isolated gravitating system.
package metrics

import (
	"math"

	"github.com/san-kum/oberth/internal/body"
	"github.com/san-kum/oberth/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Metric accumulates a value over observations of the bodies at time t.
type Metric interface {
	Name() string
	Observe(bodies []body.Body, t float64)
	Value() float64
	Reset()
}

type Conservation struct {
	Energy          float64
	Momentum        r3.Vec
	AngularMomentum r3.Vec
}

func Measure(bodies []body.Body, g float64) Conservation {
	return Conservation{
		Energy:          physics.Energy(bodies, g),
		Momentum:        physics.Momentum(bodies),
		AngularMomentum: physics.AngularMomentum(bodies),
	}
}

// Deviation is the change between two measurements. Energy is relative to
// the first measurement unless that was zero; the vectors are absolute norms.
type Deviation struct {
	Energy          float64
	Momentum        float64
	AngularMomentum float64
}

func Drift(before, after Conservation) Deviation {
	return Deviation{
		Energy:          relative(before.Energy, after.Energy),
		Momentum:        r3.Norm(r3.Sub(after.Momentum, before.Momentum)),
		AngularMomentum: r3.Norm(r3.Sub(after.AngularMomentum, before.AngularMomentum)),
	}
}

func relative(before, after float64) float64 {
	if before == 0 {
		return math.Abs(after)
	}
	return math.Abs(after-before) / math.Abs(before)
}
