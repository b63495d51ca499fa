// Package experiment turns scenario configs into simulations and runs them:
// single runs with conservation reports, and step-size precision sweeps.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/oberth/internal/body"
	"github.com/san-kum/oberth/internal/config"
	"github.com/san-kum/oberth/internal/dynamo"
	"github.com/san-kum/oberth/internal/metrics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scene is a simulation built from a config, with its bodies by name.
type Scene struct {
	Sim     *dynamo.Simulation
	Handles map[string]body.Handle
	Names   []string
}

// Build creates the bodies of cfg in declaration order. Options from cfg are
// applied first so that opts can override them.
func Build(cfg *config.Config, opts ...dynamo.Option) (*Scene, error) {
	initial, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	integ, err := NewRegistry().GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	all := []dynamo.Option{dynamo.WithIntegrator(integ)}
	if cfg.Workers > 0 {
		all = append(all, dynamo.WithWorkers(cfg.Workers))
	}
	all = append(all, opts...)

	scene := &Scene{
		Sim:     dynamo.New(all...),
		Handles: make(map[string]body.Handle, len(initial)),
		Names:   make([]string, 0, len(initial)),
	}
	for _, b := range initial {
		h, err := scene.Sim.CreateBody(b.Position, b.Velocity, b.Mass, b.Radius)
		if err != nil {
			return nil, fmt.Errorf("body %q: %w", b.Name, err)
		}
		scene.Handles[b.Name] = h
		scene.Names = append(scene.Names, b.Name)
	}
	return scene, nil
}

type BodyState struct {
	Name     string
	Position r3.Vec
	Velocity r3.Vec
}

// States returns every body's current state in declaration order.
func (s *Scene) States() ([]BodyState, error) {
	out := make([]BodyState, 0, len(s.Names))
	for _, name := range s.Names {
		b, err := s.Sim.Body(s.Handles[name])
		if err != nil {
			return nil, err
		}
		out = append(out, BodyState{Name: name, Position: b.Position, Velocity: b.Velocity})
	}
	return out, nil
}

// Position returns the current position of the named body.
func (s *Scene) Position(name string) (r3.Vec, error) {
	h, ok := s.Handles[name]
	if !ok {
		return r3.Vec{}, fmt.Errorf("unknown body: %s", name)
	}
	return s.Sim.Position(h)
}

type Report struct {
	Name       string
	Integrator string
	Bodies     []BodyState

	Initial metrics.Conservation
	Final   metrics.Conservation
	Drift   metrics.Deviation

	MaxEnergyDrift  float64
	ClosestApproach float64

	Ticks     int
	Simulated float64
	Wall      time.Duration
}

// Run simulates cfg for its full duration. With Samples > 1 the ticks are
// split into that many checkpoints; metrics are observed at each one and ctx
// is checked between them. The trajectory is the same as one Advance call.
func Run(ctx context.Context, cfg *config.Config, opts ...dynamo.Option) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scene, err := Build(cfg, opts...)
	if err != nil {
		return nil, err
	}
	sim := scene.Sim
	g := sim.GravitationalConstant()

	observers := []metrics.Metric{metrics.NewEnergyDrift(g), metrics.NewClosestApproach()}
	observe := func(t float64) {
		bodies := sim.Snapshot()
		for _, m := range observers {
			m.Observe(bodies, t)
		}
	}

	report := &Report{
		Name:       cfg.Name,
		Integrator: sim.Integrator(),
		Initial:    metrics.Measure(sim.Snapshot(), g),
	}
	observe(0)

	ticks, remainder, err := dynamo.Plan(cfg.Step, cfg.Duration)
	if err != nil {
		return nil, err
	}

	// checkpoints fall on whole ticks so that sampling never changes the
	// trajectory; only the last one carries the remainder
	samples := max(cfg.Samples, 1)
	start := time.Now()
	done := 0
	simulated := 0.0
	for i := 1; i <= samples; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target := ticks * i / samples
		if err := sim.Steps(cfg.Step, target-done); err != nil {
			return nil, err
		}
		done = target
		simulated = float64(done) * cfg.Step
		if i == samples && remainder > 0 {
			if err := sim.Steps(remainder, 1); err != nil {
				return nil, err
			}
			simulated += remainder
		}
		observe(simulated)
	}
	report.Wall = time.Since(start)

	report.Final = metrics.Measure(sim.Snapshot(), g)
	report.Drift = metrics.Drift(report.Initial, report.Final)
	report.MaxEnergyDrift = observers[0].Value()
	report.ClosestApproach = observers[1].Value()
	report.Ticks = sim.Ticks()
	report.Simulated = simulated

	if report.Bodies, err = scene.States(); err != nil {
		return nil, err
	}
	return report, nil
}
