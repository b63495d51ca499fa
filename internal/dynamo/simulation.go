package dynamo

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/oberth/internal/body"
	"github.com/san-kum/oberth/internal/integrators"
	"github.com/san-kum/oberth/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Integrator advances every body by dt, leaving Acceleration current.
type Integrator interface {
	Name() string
	Step(eval integrators.Evaluator, bodies []body.Body, dt float64) error
}

type Option func(*Simulation)

func WithIntegrator(integ Integrator) Option {
	return func(s *Simulation) { s.integ = integ }
}

// WithEvaluator replaces the gravity evaluator. WithWorkers and
// WithGravitationalConstant have no effect on a custom evaluator.
func WithEvaluator(eval integrators.Evaluator) Option {
	return func(s *Simulation) { s.eval = eval }
}

// WithWorkers bounds the goroutines used by one evaluator pass.
// Values below 2 force a serial pass.
func WithWorkers(n int) Option {
	return func(s *Simulation) { s.gravity.Workers = n }
}

func WithGravitationalConstant(g float64) Option {
	return func(s *Simulation) { s.gravity.G = g }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// Simulation owns a body store and advances it in fixed ticks.
// It is not safe for concurrent use.
type Simulation struct {
	store   *body.Store
	gravity *physics.Gravity
	eval    integrators.Evaluator
	integ   Integrator
	log     *log.Logger

	// primed is set once Acceleration reflects the current configuration.
	primed  bool
	ticks   int
	elapsed float64
}

func New(opts ...Option) *Simulation {
	s := &Simulation{
		store:   body.NewStore(),
		gravity: physics.NewGravity(),
		integ:   integrators.NewVerlet(),
		log:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.eval == nil {
		s.eval = s.gravity
	}
	return s
}

// CreateBody adds a body. Accelerations are recomputed before the next tick.
func (s *Simulation) CreateBody(pos, vel r3.Vec, mass, radius float64) (body.Handle, error) {
	h, err := s.store.Create(pos, vel, mass, radius)
	if err != nil {
		return body.Handle{}, err
	}
	s.primed = false
	s.log.Debug("body created", "handle", h, "mass", mass, "radius", radius)
	return h, nil
}

func (s *Simulation) Position(h body.Handle) (r3.Vec, error)     { return s.store.Position(h) }
func (s *Simulation) Velocity(h body.Handle) (r3.Vec, error)     { return s.store.Velocity(h) }
func (s *Simulation) Acceleration(h body.Handle) (r3.Vec, error) { return s.store.Acceleration(h) }
func (s *Simulation) Mass(h body.Handle) (float64, error)        { return s.store.Mass(h) }
func (s *Simulation) Radius(h body.Handle) (float64, error)      { return s.store.Radius(h) }
func (s *Simulation) Body(h body.Handle) (body.Body, error)      { return s.store.Get(h) }

func (s *Simulation) Len() int               { return s.store.Len() }
func (s *Simulation) Handles() []body.Handle { return s.store.Handles() }
func (s *Simulation) Snapshot() []body.Body  { return s.store.Snapshot() }
func (s *Simulation) Integrator() string     { return s.integ.Name() }

// GravitationalConstant is the G used by the default evaluator.
func (s *Simulation) GravitationalConstant() float64 { return s.gravity.G }

// Ticks is the number of ticks committed since creation.
func (s *Simulation) Ticks() int { return s.ticks }

// Prime runs one evaluator pass over the current configuration so that
// every body's Acceleration is valid. Advance calls it when needed.
func (s *Simulation) Prime() error {
	if err := s.eval.Accelerate(s.store.Bodies()); err != nil {
		s.primed = false
		return err
	}
	s.primed = true
	s.log.Debug("accelerations primed", "bodies", s.store.Len())
	return nil
}

// Advance simulates total seconds in ticks of step seconds, finishing with
// one shorter tick for any remainder. A fatal numerical condition aborts the
// call with a *SimulationError; ticks completed before it stay applied.
func (s *Simulation) Advance(step, total float64) error {
	ticks, remainder, err := Plan(step, total)
	if err != nil {
		return err
	}
	s.log.Debug("advance", "step", step, "total", total, "ticks", ticks, "remainder", remainder)

	if err := s.Steps(step, ticks); err != nil {
		return err
	}
	if remainder > 0 {
		return s.Steps(remainder, 1)
	}
	return nil
}

// Steps runs exactly n ticks of dt seconds, priming first if needed.
// Advance(step, total) is Steps over its planned ticks plus one remainder tick.
func (s *Simulation) Steps(dt float64, n int) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidStep, dt)
	}
	if n < 0 {
		return fmt.Errorf("%w: negative tick count %d", ErrInvalidDuration, n)
	}
	if n == 0 {
		return nil
	}

	if !s.primed {
		if err := s.Prime(); err != nil {
			return s.fail(err)
		}
	}
	for i := 0; i < n; i++ {
		if err := s.tick(dt); err != nil {
			return s.fail(err)
		}
	}
	return nil
}

// AdvanceDuration is Advance with time.Duration arguments.
func (s *Simulation) AdvanceDuration(step, total time.Duration) error {
	return s.Advance(step.Seconds(), total.Seconds())
}

func (s *Simulation) tick(dt float64) error {
	if err := s.integ.Step(s.eval, s.store.Bodies(), dt); err != nil {
		return err
	}
	s.ticks++
	s.elapsed += dt
	return nil
}

func (s *Simulation) fail(err error) error {
	s.primed = false
	simErr := &SimulationError{Tick: s.ticks, Time: s.elapsed, Wrapped: err}
	s.log.Error("advance aborted", "tick", s.ticks, "time", s.elapsed, "err", err)
	return simErr
}
