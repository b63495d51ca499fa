package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/oberth/internal/config"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

var ErrNoScenario = errors.New("experiment: precision sweep needs a scenario")

// PrecisionConfig describes a step-size sweep. Every run simulates Scenario
// for Duration seconds; the run at Reference is taken as ground truth.
type PrecisionConfig struct {
	Scenario  *config.Config
	Body      string
	Duration  float64
	Reference float64

	// Steps to compare against the reference. When empty, Runs steps of
	// Reference·2^i for i = 1..Runs are used.
	Steps []float64
	Runs  int

	// Parallel bounds concurrent runs. Zero means one per CPU.
	Parallel int
	Logger   *log.Logger
}

type PrecisionResult struct {
	Step     float64
	Position r3.Vec
	Error    float64
	Ticks    int
	Wall     time.Duration
}

type PrecisionReport struct {
	Body      string
	Reference PrecisionResult
	Results   []PrecisionResult
}

func (pc PrecisionConfig) steps() []float64 {
	if len(pc.Steps) > 0 {
		return pc.Steps
	}
	steps := make([]float64, pc.Runs)
	for i := range steps {
		steps[i] = pc.Reference * math.Exp2(float64(i+1))
	}
	return steps
}

// Precision runs the reference and every comparison step concurrently and
// reports each run's distance from the reference position of Body.
func Precision(ctx context.Context, pc PrecisionConfig) (*PrecisionReport, error) {
	if pc.Scenario == nil {
		return nil, ErrNoScenario
	}
	logger := pc.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	parallel := pc.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	steps := append([]float64{pc.Reference}, pc.steps()...)
	results := make([]PrecisionResult, len(steps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, step := range steps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := precisionRun(pc, step)
			if err != nil {
				return fmt.Errorf("step %gs: %w", step, err)
			}
			logger.Info("run finished", "step", step, "ticks", res.Ticks, "wall", res.Wall)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &PrecisionReport{Body: pc.Body, Reference: results[0]}
	for _, res := range results[1:] {
		res.Error = r3.Norm(r3.Sub(res.Position, report.Reference.Position))
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func precisionRun(pc PrecisionConfig, step float64) (PrecisionResult, error) {
	cfg := pc.Scenario.Clone()
	cfg.Step = step
	cfg.Duration = pc.Duration

	scene, err := Build(cfg)
	if err != nil {
		return PrecisionResult{}, err
	}
	start := time.Now()
	if err := scene.Sim.Advance(step, pc.Duration); err != nil {
		return PrecisionResult{}, err
	}
	pos, err := scene.Position(pc.Body)
	if err != nil {
		return PrecisionResult{}, err
	}
	return PrecisionResult{
		Step:     step,
		Position: pos,
		Ticks:    scene.Sim.Ticks(),
		Wall:     time.Since(start),
	}, nil
}
