package config

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/san-kum/oberth/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	sunMass   = 1.9885e30
	earthMass = 5.97237e24
)

var (
	sun   = BodyConfig{Name: "sun", Mass: sunMass, Radius: 695.7e6}
	earth = BodyConfig{Name: "earth", Parent: "sun", Distance: AU, Speed: 29780, Mass: earthMass, Radius: 6.371e6}
	moon  = BodyConfig{Name: "moon", Parent: "earth", Distance: 405.4e6, Speed: 1022, Mass: 7.342e22, Radius: 1.7374e6}
)

var presets = map[string]*Config{
	"sun-earth-moon": {
		Name:       "sun-earth-moon",
		Integrator: "verlet",
		Step:       3600,
		Duration:   Year,
		Samples:    12,
		Bodies:     []BodyConfig{sun, earth, moon},
	},
	"solar-system": {
		Name:       "solar-system",
		Integrator: "verlet",
		Step:       3600,
		Duration:   Year,
		Samples:    12,
		Bodies: []BodyConfig{
			sun,
			{Name: "mercury", Parent: "sun", Distance: 0.466697 * AU, Speed: 47360, Mass: 3.3011e23, Radius: 4.88e6},
			{Name: "venus", Parent: "sun", Distance: 0.728213 * AU, Speed: 35020, Mass: 4.8675e24, Radius: 6.0518e6},
			earth,
			moon,
			{Name: "mars", Parent: "sun", Distance: 1.66621 * AU, Speed: 24070, Mass: 6.4171e23, Radius: 3.3762e6},
			{Name: "jupiter", Parent: "sun", Distance: 5.4570 * AU, Speed: 13070, Mass: 1.8982e27, Radius: 71.492e6},
		},
	},
	"binary":   binary(),
	"circular": circular(),
}

// binary is two solar-mass stars on a circular orbit one AU apart.
func binary() *Config {
	v := math.Sqrt(physics.G * sunMass / (2 * AU))
	return &Config{
		Name:       "binary",
		Integrator: "verlet",
		Step:       3600,
		Duration:   Year,
		Bodies: []BodyConfig{
			{Name: "a", Position: r3.Vec{X: -AU / 2}, Velocity: r3.Vec{Z: -v}, Mass: sunMass, Radius: 695.7e6},
			{Name: "b", Position: r3.Vec{X: AU / 2}, Velocity: r3.Vec{Z: v}, Mass: sunMass, Radius: 695.7e6},
		},
	}
}

// circular is a small satellite on a circular low orbit, run for one period.
func circular() *Config {
	const r = 7.0e6
	gm := physics.G * earthMass
	return &Config{
		Name:       "circular",
		Integrator: "verlet",
		Step:       1,
		Duration:   2 * math.Pi * math.Sqrt(r*r*r/gm),
		Bodies: []BodyConfig{
			{Name: "earth", Mass: earthMass, Radius: 6.371e6},
			{Name: "satellite", Parent: "earth", Distance: r, Speed: math.Sqrt(gm / r), Mass: 1000},
		},
	}
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	return cfg.Clone(), nil
}

func ListPresets() []string {
	return slices.Sorted(maps.Keys(presets))
}
