package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vecmath"
)

type failingIntegrator struct{ calls int }

func (f *failingIntegrator) Name() string { return "failing" }

func (f *failingIntegrator) Step(bodies []*dynamo.Body, fm dynamo.ForceModel, dt float64) error {
	f.calls++
	return &dynamo.BodyError{Index: 1, Name: bodies[1].Name, Wrapped: dynamo.ErrInvalidState}
}

type countingMetric struct{ n int }

func (c *countingMetric) Name() string                           { return "count" }
func (c *countingMetric) Observe(_ []dynamo.Snapshot, _ float64) { c.n++ }
func (c *countingMetric) Value() float64                         { return float64(c.n) }
func (c *countingMetric) Reset()                                 { c.n = 0 }

var _ = Describe("Simulation", func() {
	const dt = 3600.0

	var s *sim.Simulation

	BeforeEach(func() {
		var err error
		s, err = sim.New(physics.Kepler(), sim.WithDt(dt))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("keeps catalog order and defaults to rk4", func() {
			Expect(s.Len()).To(Equal(2))
			snaps := s.Snapshots()
			Expect(snaps[0].Name).To(Equal("sun"))
			Expect(snaps[1].Name).To(Equal("earth"))
			Expect(s.IntegratorName()).To(Equal("rk4"))
			Expect(s.Dt()).To(Equal(dt))
			Expect(s.Steps()).To(BeZero())
		})

		DescribeTable("rejects bad step sizes",
			func(step float64) {
				_, err := sim.New(physics.Kepler(), sim.WithDt(step))
				Expect(err).To(MatchError(dynamo.ErrParameterBounds))
			},
			Entry("zero", 0.0),
			Entry("negative", -1.0),
		)

		It("rejects a negative mass with the offending index", func() {
			catalog := physics.Kepler()
			catalog[1].Mass = -1
			_, err := sim.New(catalog)

			var be *dynamo.BodyError
			Expect(errors.As(err, &be)).To(BeTrue())
			Expect(be.Index).To(Equal(1))
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("accepts an empty catalog", func() {
			empty, err := sim.New(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(empty.Step()).To(Succeed())
			Expect(empty.Snapshots()).To(BeEmpty())
		})
	})

	Describe("stepping", func() {
		It("advances time and step count together", func() {
			for i := 0; i < 10; i++ {
				Expect(s.Step()).To(Succeed())
			}
			Expect(s.Steps()).To(Equal(10))
			Expect(s.Time()).To(BeNumerically("~", 10*dt, 1e-9))
		})

		It("notifies observers once per step with every body", func() {
			var calls int
			var lastTime float64
			s.AddObserver(sim.ObserverFunc(func(snaps []dynamo.Snapshot, t float64) {
				calls++
				lastTime = t
				Expect(snaps).To(HaveLen(2))
			}))

			for i := 0; i < 3; i++ {
				Expect(s.Step()).To(Succeed())
			}
			Expect(calls).To(Equal(3))
			Expect(lastTime).To(Equal(s.Time()))
		})

		It("hands out copies", func() {
			Expect(s.Step()).To(Succeed())
			snaps := s.Snapshots()
			snaps[1].Position = vecmath.Zero
			snaps[1].Trajectory[0] = dynamo.Point{}

			fresh := s.Snapshots()
			Expect(fresh[1].Position).NotTo(Equal(vecmath.Zero))
			Expect(fresh[1].Trajectory[0]).NotTo(Equal(dynamo.Point{}))
		})

		It("swaps integrators between steps without touching state", func() {
			Expect(s.Step()).To(Succeed())
			before := s.Snapshots()

			s.SetIntegrator(integrators.NewLeapfrog())
			Expect(s.IntegratorName()).To(Equal("leapfrog"))
			Expect(s.Snapshots()).To(Equal(before))

			Expect(s.Step()).To(Succeed())
			Expect(s.Steps()).To(Equal(2))
		})

		It("clears trails without moving bodies", func() {
			for i := 0; i < 5; i++ {
				Expect(s.Step()).To(Succeed())
			}
			before := s.Snapshots()
			s.ClearTrails()

			after := s.Snapshots()
			for i := range after {
				Expect(after[i].Trajectory).To(BeEmpty())
				Expect(after[i].Position).To(Equal(before[i].Position))
			}
			Expect(s.Steps()).To(Equal(5))

			Expect(s.Step()).To(Succeed())
			Expect(s.Snapshots()[1].Trajectory).To(HaveLen(1))
		})

		It("ignores a nil integrator", func() {
			s.SetIntegrator(nil)
			Expect(s.IntegratorName()).To(Equal("rk4"))
		})
	})

	Describe("failure", func() {
		var broken *failingIntegrator

		BeforeEach(func() {
			Expect(s.Step()).To(Succeed())
			broken = &failingIntegrator{}
			s.SetIntegrator(broken)
		})

		It("reports step, time and integrator", func() {
			err := s.Step()

			var se *dynamo.SimulationError
			Expect(errors.As(err, &se)).To(BeTrue())
			Expect(se.Step).To(Equal(1))
			Expect(se.Time).To(Equal(dt))
			Expect(se.Integrator).To(Equal("failing"))
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			Expect(s.Steps()).To(Equal(1))
		})

		It("halts further stepping", func() {
			first := s.Step()
			Expect(first).To(HaveOccurred())

			s.SetIntegrator(integrators.NewRK4())
			err := s.Step()
			Expect(err).To(MatchError(dynamo.ErrHalted))
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			Expect(broken.calls).To(Equal(1))
			Expect(s.Err()).To(Equal(first))
		})

		It("stops a run early", func() {
			res, err := s.Run(context.Background(), 5)
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			Expect(res.StepsTaken).To(BeZero())
			Expect(res.Final).To(HaveLen(2))
		})
	})

	Describe("Run", func() {
		It("collects metrics including the initial state", func() {
			m := &countingMetric{}
			s.AddMetric(m)

			res, err := s.Run(context.Background(), 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(4))
			Expect(res.Metrics).To(HaveKeyWithValue("count", 5.0))
			Expect(res.Time).To(BeNumerically("~", 4*dt, 1e-9))
		})

		It("checks the context between steps", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res, err := s.Run(ctx, 10)
			Expect(err).To(MatchError(dynamo.ErrContextCanceled))
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.StepsTaken).To(BeZero())
			Expect(s.Steps()).To(BeZero())
		})

		It("rejects negative step counts", func() {
			_, err := s.Run(context.Background(), -1)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one simulation per integrator", func() {
		kinds := integrators.Kinds()
		ens := sim.NewEnsemble(len(kinds), func(i int) (*sim.Simulation, error) {
			return sim.New(physics.Kepler(),
				sim.WithIntegrator(integrators.New(kinds[i])),
				sim.WithDt(physics.Year/1920))
		})

		results, err := ens.Run(context.Background(), 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(kinds)))
		for _, r := range results {
			Expect(r.StepsTaken).To(Equal(100))
			Expect(r.Final[1].Trajectory).To(HaveLen(100))
		}
	})

	DescribeTable("RunFor rejects unusable durations",
		func(duration float64) {
			ens := sim.NewEnsemble(1, func(int) (*sim.Simulation, error) {
				return sim.New(physics.Kepler(), sim.WithDt(3600))
			})
			_, err := ens.RunFor(context.Background(), duration)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		},
		Entry("negative", -1.0),
		Entry("nan", math.NaN()),
		Entry("positive infinity", math.Inf(1)),
		Entry("negative infinity", math.Inf(-1)),
	)

	It("surfaces build errors", func() {
		ens := sim.NewEnsemble(2, func(i int) (*sim.Simulation, error) {
			return sim.New(physics.Kepler(), sim.WithDt(float64(i)))
		})
		_, err := ens.Run(context.Background(), 1)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})
})
