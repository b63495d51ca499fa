// Package config describes simulation scenarios: integration settings plus
// the initial bodies, loadable from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

const (
	Day  = 86400.0
	Year = 365.25 * Day
	AU   = 152.1e9
)

const (
	DefaultIntegrator = "verlet"
	DefaultStep       = 3600.0
	DefaultDuration   = Year
)

// Config is one scenario. Step and Duration are in seconds. Samples is the
// number of evenly spaced checkpoints at which a run observes its metrics.
type Config struct {
	Name       string       `yaml:"name"`
	Integrator string       `yaml:"integrator"`
	Step       float64      `yaml:"step"`
	Duration   float64      `yaml:"duration"`
	Workers    int          `yaml:"workers,omitempty"`
	Samples    int          `yaml:"samples,omitempty"`
	Bodies     []BodyConfig `yaml:"bodies"`
}

// BodyConfig places a body either absolutely or relative to an earlier body.
// With a parent, Position and Velocity are offsets from the parent's initial
// state. Distance is added along +x and Speed along +z.
type BodyConfig struct {
	Name     string  `yaml:"name"`
	Parent   string  `yaml:"parent,omitempty"`
	Distance float64 `yaml:"distance,omitempty"`
	Speed    float64 `yaml:"speed,omitempty"`
	Position r3.Vec  `yaml:"position,omitempty"`
	Velocity r3.Vec  `yaml:"velocity,omitempty"`
	Mass     float64 `yaml:"mass"`
	Radius   float64 `yaml:"radius,omitempty"`
}

// Initial is a body's resolved starting state in absolute coordinates.
type Initial struct {
	Name     string
	Position r3.Vec
	Velocity r3.Vec
	Mass     float64
	Radius   float64
}

func DefaultConfig() *Config {
	cfg, _ := GetPreset("sun-earth-moon")
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Integrator: DefaultIntegrator,
		Step:       DefaultStep,
		Duration:   DefaultDuration,
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.Step > 0) || math.IsInf(c.Step, 0) {
		return fmt.Errorf("%w: step must be positive and finite, got %g", ErrInvalidConfig, c.Step)
	}
	if !(c.Duration >= 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be non-negative and finite, got %g", ErrInvalidConfig, c.Duration)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Samples < 0 {
		return fmt.Errorf("%w: samples must not be negative, got %d", ErrInvalidConfig, c.Samples)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			return fmt.Errorf("%w: body %d has no name", ErrInvalidConfig, i)
		}
		if seen[b.Name] {
			return fmt.Errorf("%w: duplicate body %q", ErrInvalidConfig, b.Name)
		}
		if b.Parent != "" && !seen[b.Parent] {
			return fmt.Errorf("%w: body %q: parent %q must be declared before it", ErrInvalidConfig, b.Name, b.Parent)
		}
		if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
			return fmt.Errorf("%w: body %q: mass must be positive and finite, got %g", ErrInvalidConfig, b.Name, b.Mass)
		}
		if !(b.Radius >= 0) || math.IsInf(b.Radius, 0) {
			return fmt.Errorf("%w: body %q: radius must be non-negative and finite, got %g", ErrInvalidConfig, b.Name, b.Radius)
		}
		seen[b.Name] = true
	}
	return nil
}

// Resolve validates c and returns every body's absolute initial state in
// declaration order.
func (c *Config) Resolve() ([]Initial, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := make([]Initial, 0, len(c.Bodies))
	index := make(map[string]int, len(c.Bodies))
	for _, b := range c.Bodies {
		var pos, vel r3.Vec
		if b.Parent != "" {
			p := out[index[b.Parent]]
			pos, vel = p.Position, p.Velocity
		}
		pos = r3.Add(pos, r3.Add(b.Position, r3.Vec{X: b.Distance}))
		vel = r3.Add(vel, r3.Add(b.Velocity, r3.Vec{Z: b.Speed}))

		index[b.Name] = len(out)
		out = append(out, Initial{
			Name:     b.Name,
			Position: pos,
			Velocity: vel,
			Mass:     b.Mass,
			Radius:   b.Radius,
		})
	}
	return out, nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &out
}
