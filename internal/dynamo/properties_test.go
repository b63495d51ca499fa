package dynamo_test

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/oberth/internal/body"
	"github.com/san-kum/oberth/internal/dynamo"
	"github.com/san-kum/oberth/internal/integrators"
	"github.com/san-kum/oberth/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	day  = 86400.0
	year = 365.25 * day
	au   = 152.1e9
)

type system struct {
	sim   *dynamo.Simulation
	sun   body.Handle
	earth body.Handle
	moon  body.Handle
}

func sunEarthMoon(opts ...dynamo.Option) system {
	sim := dynamo.New(opts...)
	sun, err := sim.CreateBody(r3.Vec{}, r3.Vec{}, 1.9885e30, 695.7e6)
	Expect(err).NotTo(HaveOccurred())

	earthPos := r3.Vec{X: au}
	earthVel := r3.Vec{Z: 29780}
	earth, err := sim.CreateBody(earthPos, earthVel, 5.97237e24, 6371e3)
	Expect(err).NotTo(HaveOccurred())

	moon, err := sim.CreateBody(
		r3.Add(earthPos, r3.Vec{X: 405.4e6}),
		r3.Add(earthVel, r3.Vec{Z: 1022}),
		7.342e22, 1737.4e3,
	)
	Expect(err).NotTo(HaveOccurred())

	return system{sim: sim, sun: sun, earth: earth, moon: moon}
}

func position(sim *dynamo.Simulation, h body.Handle) r3.Vec {
	p, err := sim.Position(h)
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Simulation", func() {
	Describe("a two-body circular orbit", func() {
		const (
			planet = 5.972e24
			r      = 7.0e6
		)
		speed := math.Sqrt(physics.G * planet / r)
		period := 2 * math.Pi * math.Sqrt(r*r*r/(physics.G*planet))

		// orbitError returns the position and velocity deviation after one period.
		orbitError := func(step float64) (float64, float64) {
			sim := dynamo.New()
			_, err := sim.CreateBody(r3.Vec{}, r3.Vec{}, planet, 0)
			Expect(err).NotTo(HaveOccurred())
			sat, err := sim.CreateBody(r3.Vec{X: r}, r3.Vec{Y: speed}, 1000, 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(sim.Advance(step, period)).To(Succeed())
			v, err := sim.Velocity(sat)
			Expect(err).NotTo(HaveOccurred())
			return r3.Norm(r3.Sub(position(sim, sat), r3.Vec{X: r})), r3.Norm(r3.Sub(v, r3.Vec{Y: speed}))
		}

		It("returns close to its starting state after one period", func() {
			// Verlet's phase error after one period is about 17 m at a 1 s step
			// and grows with the square of the step.
			dp, dv := orbitError(2.5)
			Expect(dp).To(BeNumerically("<", 1e-4*r))
			Expect(dv).To(BeNumerically("<", 1e-4*speed))
		})

		It("gets closer with a smaller step", func() {
			coarseP, coarseV := orbitError(10)
			fineP, fineV := orbitError(1)
			Expect(fineP).To(BeNumerically("<", coarseP))
			Expect(fineV).To(BeNumerically("<", coarseV))
		})
	})

	Describe("conservation", func() {
		var s system

		BeforeEach(func() {
			s = sunEarthMoon()
		})

		It("conserves total momentum", func() {
			before := s.sim.Snapshot()
			p0 := physics.Momentum(before)
			scale := 0.0
			for _, b := range before {
				scale += b.Mass * r3.Norm(b.Velocity)
			}

			Expect(s.sim.Advance(3600, year)).To(Succeed())

			p1 := physics.Momentum(s.sim.Snapshot())
			Expect(r3.Norm(r3.Sub(p1, p0))).To(BeNumerically("<=", 1e-10*scale))
		})

		It("keeps Verlet energy drift bounded", func() {
			e0 := physics.Energy(s.sim.Snapshot(), physics.G)
			Expect(s.sim.Advance(3600, year)).To(Succeed())
			e1 := physics.Energy(s.sim.Snapshot(), physics.G)

			Expect(math.Abs((e1 - e0) / e0)).To(BeNumerically("<", 1e-6))
		})

		It("applies equal and opposite pairwise forces", func() {
			Expect(s.sim.Advance(3600, 30*day)).To(Succeed())

			g := physics.NewGravity()
			bodies := s.sim.Snapshot()
			for i := range bodies {
				for j := range bodies {
					if i == j {
						continue
					}
					fij, err := g.Force(bodies[i], bodies[j])
					Expect(err).NotTo(HaveOccurred())
					fji, err := g.Force(bodies[j], bodies[i])
					Expect(err).NotTo(HaveOccurred())
					Expect(fij).To(Equal(r3.Scale(-1, fji)))
				}
			}
		})
	})

	Describe("advancing", func() {
		It("is a no-op for zero duration", func() {
			s := sunEarthMoon()
			before := s.sim.Snapshot()

			Expect(s.sim.Advance(3600, 0)).To(Succeed())
			Expect(s.sim.Snapshot()).To(Equal(before))
		})

		It("fails on coincident bodies", func() {
			sim := dynamo.New()
			_, err := sim.CreateBody(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{}, 1e10, 0)
			Expect(err).NotTo(HaveOccurred())
			_, err = sim.CreateBody(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 1}, 1e10, 0)
			Expect(err).NotTo(HaveOccurred())

			err = sim.Advance(1, 1)
			Expect(err).To(MatchError(physics.ErrSingularity))

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
		})

		It("fails when bodies are driven into each other mid-advance", func() {
			sim := dynamo.New(dynamo.WithGravitationalConstant(0))
			_, err := sim.CreateBody(r3.Vec{X: -4}, r3.Vec{X: 1}, 1e10, 0)
			Expect(err).NotTo(HaveOccurred())
			_, err = sim.CreateBody(r3.Vec{X: 4}, r3.Vec{X: -1}, 1e10, 0)
			Expect(err).NotTo(HaveOccurred())

			err = sim.Advance(1, 10)
			Expect(err).To(MatchError(physics.ErrSingularity))

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Tick).To(Equal(3))
			Expect(simErr.Time).To(Equal(3.0))
			Expect(sim.Ticks()).To(Equal(3))
		})

		It("fails when the first evaluation overflows", func() {
			sim := dynamo.New()
			_, err := sim.CreateBody(r3.Vec{}, r3.Vec{}, 1e30, 0)
			Expect(err).NotTo(HaveOccurred())
			_, err = sim.CreateBody(r3.Vec{X: 1e-160}, r3.Vec{}, 1e30, 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(sim.Advance(1, 1)).To(MatchError(physics.ErrUnstable))
		})

		It("accepts bodies added between advances", func() {
			s := sunEarthMoon()
			Expect(s.sim.Advance(3600, day)).To(Succeed())

			probe, err := s.sim.CreateBody(r3.Vec{Y: au}, r3.Vec{}, 1000, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.sim.Advance(3600, day)).To(Succeed())

			v, err := s.sim.Velocity(probe)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Y).To(BeNumerically("<", 0), "probe should fall toward the sun")
		})
	})

	DescribeTable("integrators stay on a bound orbit",
		func(integ dynamo.Integrator) {
			s := sunEarthMoon(dynamo.WithIntegrator(integ))
			Expect(s.sim.Advance(3600, year)).To(Succeed())

			earth := position(s.sim, s.earth)
			Expect(r3.Norm(earth)).To(BeNumerically("~", au, 0.05*au))
		},
		Entry("verlet", integrators.NewVerlet()),
		Entry("euler", integrators.NewSymplecticEuler()),
		Entry("rk4", integrators.NewRK4()),
	)

	Describe("step size convergence", func() {
		It("reduces the Moon's position error as the step shrinks", func() {
			if testing.Short() {
				Skip("century-long runs are skipped in short mode")
			}

			run := func(step float64) r3.Vec {
				s := sunEarthMoon()
				Expect(s.sim.Advance(step, 100*year)).To(Succeed())
				return position(s.sim, s.moon)
			}

			reference := run(600)
			prev := 0.0
			for _, step := range []float64{1800, 3600, 7200, 14400} {
				deviation := r3.Norm(r3.Sub(run(step), reference))
				Expect(deviation).To(BeNumerically(">", prev), "step %gs", step)
				prev = deviation
			}
		})
	})
})
