package experiment

import (
	"fmt"
	"math"

	"github.com/san-kum/oberth/internal/config"
	"github.com/san-kum/oberth/internal/physics"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	clusterStar = 1.9885e30
	clusterMin  = 0.3 * config.AU
	clusterMax  = 5.0 * config.AU
)

// Cluster builds a scenario of one star and n-1 light bodies on roughly
// circular orbits around it. The same seed gives the same scenario.
func Cluster(n int, seed uint64) *config.Config {
	rnd := rand.New(rand.NewSource(seed))

	cfg := &config.Config{
		Name:       fmt.Sprintf("cluster-%d", n),
		Integrator: "verlet",
		Step:       config.Day,
		Duration:   config.Year,
	}
	if n < 1 {
		return cfg
	}
	cfg.Bodies = append(cfg.Bodies, config.BodyConfig{Name: "star", Mass: clusterStar, Radius: 695.7e6})

	for i := 1; i < n; i++ {
		r := clusterMin + (clusterMax-clusterMin)*rnd.Float64()
		theta := 2 * math.Pi * rnd.Float64()
		speed := math.Sqrt(physics.G*clusterStar/r) * (1 + 0.02*rnd.NormFloat64())

		sin, cos := math.Sincos(theta)
		cfg.Bodies = append(cfg.Bodies, config.BodyConfig{
			Name:     fmt.Sprintf("body-%d", i),
			Position: r3.Vec{X: r * cos, Y: 0.01 * r * rnd.NormFloat64(), Z: r * sin},
			Velocity: r3.Vec{X: -speed * sin, Z: speed * cos},
			Mass:     1e20 + 1e25*rnd.Float64(),
			Radius:   1e6,
		})
	}
	return cfg
}
