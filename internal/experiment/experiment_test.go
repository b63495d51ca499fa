package experiment

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/san-kum/oberth/internal/config"
	"gonum.org/v1/gonum/spatial/r3"
)

func preset(t *testing.T, name string) *config.Config {
	t.Helper()
	cfg, err := config.GetPreset(name)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	want := []string{"euler", "leapfrog", "rk4", "verlet"}
	if got := r.ListIntegrators(); !slices.Equal(got, want) {
		t.Errorf("ListIntegrators() = %v, want %v", got, want)
	}

	tests := []struct {
		name string
		want string
	}{
		{"", "verlet"},
		{"verlet", "verlet"},
		{"leapfrog", "verlet"},
		{"euler", "euler"},
		{"rk4", "rk4"},
	}
	for _, tt := range tests {
		integ, err := r.GetIntegrator(tt.name)
		if err != nil {
			t.Fatalf("GetIntegrator(%q): %v", tt.name, err)
		}
		if integ.Name() != tt.want {
			t.Errorf("GetIntegrator(%q) = %s, want %s", tt.name, integ.Name(), tt.want)
		}
	}

	if _, err := r.GetIntegrator("nonexistent"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestBuild(t *testing.T) {
	cfg := preset(t, "solar-system")
	cfg.Integrator = "rk4"

	scene, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if scene.Sim.Len() != len(cfg.Bodies) || len(scene.Names) != len(cfg.Bodies) {
		t.Fatalf("built %d bodies, want %d", scene.Sim.Len(), len(cfg.Bodies))
	}
	if scene.Sim.Integrator() != "rk4" {
		t.Errorf("integrator = %s, want rk4", scene.Sim.Integrator())
	}

	moon, err := scene.Position("moon")
	if err != nil {
		t.Fatal(err)
	}
	if want := (r3.Vec{X: config.AU + 405.4e6}); moon != want {
		t.Errorf("moon at %v, want %v", moon, want)
	}
	if _, err := scene.Position("pluto"); err == nil {
		t.Error("expected error for unknown body")
	}
}

func TestBuildRejects(t *testing.T) {
	cfg := preset(t, "binary")
	cfg.Integrator = "nonexistent"
	if _, err := Build(cfg); err == nil {
		t.Error("expected error for unknown integrator")
	}

	cfg = preset(t, "binary")
	cfg.Bodies[1].Parent = "nope"
	if _, err := Build(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunCircularOrbit(t *testing.T) {
	cfg := preset(t, "circular")

	report, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	const r = 7.0e6
	sat := report.Bodies[1]
	if sat.Name != "satellite" {
		t.Fatalf("second body is %q", sat.Name)
	}
	if d := r3.Norm(r3.Sub(sat.Position, r3.Vec{X: r})); d > 1e-4*r {
		t.Errorf("satellite %g m from its start after one period", d)
	}
	if report.MaxEnergyDrift > 1e-5 {
		t.Errorf("energy drift %g", report.MaxEnergyDrift)
	}
	if math.Abs(report.ClosestApproach-(r-6.371e6)) > 1e-3*r {
		t.Errorf("closest approach %g", report.ClosestApproach)
	}
	if report.Ticks != int(math.Ceil(cfg.Duration/cfg.Step)) {
		t.Errorf("ticks = %d for %gs at %gs", report.Ticks, cfg.Duration, cfg.Step)
	}
}

func TestRunSampled(t *testing.T) {
	cfg := preset(t, "solar-system")

	report, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(report.Simulated-config.Year) > 1e-6 {
		t.Errorf("simulated %gs, want %gs", report.Simulated, config.Year)
	}
	if report.Ticks != int(config.Year/cfg.Step) {
		t.Errorf("ran %d ticks, want %d", report.Ticks, int(config.Year/cfg.Step))
	}
	if report.Drift.Energy > 1e-5 || report.MaxEnergyDrift < report.Drift.Energy {
		t.Errorf("energy drift %g, max %g", report.Drift.Energy, report.MaxEnergyDrift)
	}
}

func TestRunSamplingKeepsTrajectory(t *testing.T) {
	for _, duration := range []float64{config.Year, config.Year + 1800} {
		sampled := preset(t, "sun-earth-moon")
		sampled.Duration = duration
		single := sampled.Clone()
		single.Samples = 0

		a, err := Run(context.Background(), sampled)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Run(context.Background(), single)
		if err != nil {
			t.Fatal(err)
		}

		if a.Ticks != b.Ticks {
			t.Errorf("duration %g: %d ticks sampled, %d unsampled", duration, a.Ticks, b.Ticks)
		}
		if !slices.Equal(a.Bodies, b.Bodies) {
			t.Errorf("duration %g: sampling changed the final state:\n%+v\n%+v", duration, a.Bodies, b.Bodies)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, preset(t, "binary")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPrecision(t *testing.T) {
	cfg := preset(t, "circular")

	report, err := Precision(context.Background(), PrecisionConfig{
		Scenario:  cfg,
		Body:      "satellite",
		Duration:  cfg.Duration,
		Reference: 0.5,
		Runs:      3,
		Parallel:  2,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(report.Results) != 3 {
		t.Fatalf("got %d results, want 3", len(report.Results))
	}
	prev := 0.0
	for i, res := range report.Results {
		if want := 0.5 * math.Exp2(float64(i+1)); res.Step != want {
			t.Errorf("result %d step %g, want %g", i, res.Step, want)
		}
		if res.Error <= prev {
			t.Errorf("error did not grow with step: %g at %gs after %g", res.Error, res.Step, prev)
		}
		prev = res.Error
	}
}

func TestPrecisionErrors(t *testing.T) {
	if _, err := Precision(context.Background(), PrecisionConfig{}); !errors.Is(err, ErrNoScenario) {
		t.Errorf("expected ErrNoScenario, got %v", err)
	}

	cfg := preset(t, "binary")
	_, err := Precision(context.Background(), PrecisionConfig{
		Scenario:  cfg,
		Body:      "nonexistent",
		Duration:  config.Day,
		Reference: 3600,
		Steps:     []float64{7200},
	})
	if err == nil {
		t.Error("expected error for unknown body")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Precision(ctx, PrecisionConfig{
		Scenario:  cfg,
		Body:      "a",
		Duration:  config.Day,
		Reference: 3600,
		Runs:      2,
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCluster(t *testing.T) {
	a := Cluster(20, 7)
	b := Cluster(20, 7)
	c := Cluster(20, 8)

	if len(a.Bodies) != 20 {
		t.Fatalf("got %d bodies, want 20", len(a.Bodies))
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("cluster invalid: %v", err)
	}
	if !slices.Equal(a.Bodies, b.Bodies) {
		t.Error("same seed produced different clusters")
	}
	if slices.Equal(a.Bodies, c.Bodies) {
		t.Error("different seeds produced identical clusters")
	}
}

func TestBench(t *testing.T) {
	cfg := Cluster(32, 1)
	for _, workers := range []int{1, 4} {
		res, err := Bench(context.Background(), cfg, 10, workers)
		if err != nil {
			t.Fatal(err)
		}
		if res.Bodies != 32 || res.Ticks != 10 || res.Workers != workers {
			t.Errorf("unexpected result %+v", res)
		}
		if res.PerTick() <= 0 {
			t.Errorf("per-tick time %v", res.PerTick())
		}
	}
}
