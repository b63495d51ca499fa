package experiment

import (
	"context"
	"time"

	"github.com/san-kum/oberth/internal/config"
	"github.com/san-kum/oberth/internal/dynamo"
)

type BenchResult struct {
	Bodies  int
	Workers int
	Ticks   int
	Wall    time.Duration
}

// PerTick is the mean wall time of one tick.
func (r BenchResult) PerTick() time.Duration {
	if r.Ticks == 0 {
		return 0
	}
	return r.Wall / time.Duration(r.Ticks)
}

// Bench times ticks steps of cfg using the given evaluator worker count.
// Priming is excluded from the measurement.
func Bench(ctx context.Context, cfg *config.Config, ticks, workers int) (BenchResult, error) {
	if err := ctx.Err(); err != nil {
		return BenchResult{}, err
	}
	scene, err := Build(cfg, dynamo.WithWorkers(workers))
	if err != nil {
		return BenchResult{}, err
	}
	if err := scene.Sim.Prime(); err != nil {
		return BenchResult{}, err
	}

	start := time.Now()
	if err := scene.Sim.Advance(cfg.Step, cfg.Step*float64(ticks)); err != nil {
		return BenchResult{}, err
	}
	return BenchResult{
		Bodies:  scene.Sim.Len(),
		Workers: workers,
		Ticks:   scene.Sim.Ticks(),
		Wall:    time.Since(start),
	}, nil
}
