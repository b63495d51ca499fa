package metrics

import (
	"math"

	"github.com/san-kum/oberth/internal/body"
	"github.com/san-kum/oberth/internal/physics"
)

// EnergyDrift tracks the largest relative energy change seen since the first
// observation.
type EnergyDrift struct {
	name     string
	g        float64
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(g float64) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		g:    g,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies []body.Body, t float64) {
	energy := physics.Energy(bodies, e.g)

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	e.maxDrift = math.Max(e.maxDrift, relative(e.initial, energy))
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
