package sim_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/projectile/internal/dynamo"
	"github.com/san-kum/projectile/internal/integrators"
	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/sim"
)

func newEngine() *sim.Engine {
	e, err := sim.NewEngine(integrators.NewEuler(), sim.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	return e
}

func latestSteps(r *sim.Runner) func() int {
	return func() int {
		f, _ := r.Latest().Load()
		return f.Steps
	}
}

var _ = Describe("Runner", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		DeferCleanup(func() { cancel() })
	})

	Context("with a fast tick", func() {
		It("runs a flight to landing and reports the summary once", func() {
			summaries := make(chan sim.Summary, 2)
			r := sim.NewRunner(newEngine(),
				sim.WithTick(time.Millisecond),
				sim.OnComplete(func(s sim.Summary) { summaries <- s }),
			)
			DeferCleanup(r.Close)

			r.Start(ctx, launch.Params{Speed: 7.5, Angle: 45})

			var s sim.Summary
			Eventually(summaries).WithTimeout(2 * time.Second).Should(Receive(&s))
			Expect(s.InitialSpeed).To(Equal(7.5))
			Expect(s.ThrowAngle).To(Equal(45.0))
			Expect(s.Steps).To(Equal(12))
			Expect(s.Range).To(BeNumerically("~", 6.364, 1e-3))
			Expect(s.MaxHeight).To(BeNumerically("~", 1.7105, 1e-3))

			r.Wait()
			f, ok := r.Latest().Load()
			Expect(ok).To(BeTrue())
			Expect(f.Phase).To(Equal(sim.Completed))
			Expect(f.Y).To(BeNumerically("<", 0))
			Expect(r.Running()).To(BeFalse())
			Consistently(summaries, 50*time.Millisecond).ShouldNot(Receive())
		})

		It("refuses to continue a completed flight", func() {
			done := make(chan struct{})
			r := sim.NewRunner(newEngine(),
				sim.WithTick(time.Millisecond),
				sim.OnComplete(func(sim.Summary) { close(done) }),
			)
			DeferCleanup(r.Close)

			r.Start(ctx, launch.Params{Speed: 5, Angle: 20})
			Eventually(done).WithTimeout(2 * time.Second).Should(BeClosed())
			r.Wait()

			Expect(r.Continue(ctx)).To(MatchError(dynamo.ErrNothingToResume))
		})
	})

	Context("with a tick long enough to hold the loop between steps", func() {
		var r *sim.Runner

		BeforeEach(func() {
			r = sim.NewRunner(newEngine(), sim.WithTick(time.Hour))
			DeferCleanup(r.Close)
		})

		It("takes the first step immediately", func() {
			r.Start(ctx, launch.Params{Speed: 7.5, Angle: 45})
			Eventually(latestSteps(r)).Should(Equal(1))
			Expect(r.Running()).To(BeTrue())
		})

		It("freezes on Stop and resumes from the same state on Continue", func() {
			r.Start(ctx, launch.Params{Speed: 7.5, Angle: 45})
			Eventually(latestSteps(r)).Should(Equal(1))

			r.Stop()
			r.Wait()
			frozen, _ := r.Latest().Load()
			Expect(frozen.Phase).To(Equal(sim.Stopped))
			Expect(frozen.Steps).To(Equal(1))
			Expect(r.Running()).To(BeFalse())

			Expect(r.Continue(ctx)).To(Succeed())
			Eventually(latestSteps(r)).Should(Equal(2))

			reference := newEngine()
			reference.Launch(launch.Params{Speed: 7.5, Angle: 45})
			reference.Step()
			reference.Step()

			resumed, _ := r.Latest().Load()
			Expect(resumed.X).To(Equal(reference.Snapshot().X))
			Expect(resumed.Y).To(Equal(reference.Snapshot().Y))
			Expect(resumed.VY).To(Equal(reference.Snapshot().VY))
		})

		It("ignores Continue while a flight is running", func() {
			r.Start(ctx, launch.Params{Speed: 6, Angle: 30})
			Eventually(latestSteps(r)).Should(Equal(1))

			Expect(r.Continue(ctx)).To(Succeed())
			Consistently(latestSteps(r), 50*time.Millisecond).Should(Equal(1))
		})

		It("refuses to continue before any flight", func() {
			Expect(r.Continue(ctx)).To(MatchError(dynamo.ErrNothingToResume))
		})

		It("interrupts the previous flight on a new Start", func() {
			r.Start(ctx, launch.Params{Speed: 6, Angle: 30})
			Eventually(latestSteps(r)).Should(Equal(1))

			r.Start(ctx, launch.Params{Speed: 9, Angle: 80})
			Eventually(func() float64 {
				f, _ := r.Latest().Load()
				return f.InitialSpeed
			}).Should(Equal(9.0))
			Eventually(latestSteps(r)).Should(Equal(1))

			f, _ := r.Latest().Load()
			Expect(f.ThrowAngle).To(Equal(80.0))
			Expect(f.Phase).To(Equal(sim.Running))
		})

		It("stops silently when the parent context is canceled", func() {
			completed := false
			r = sim.NewRunner(newEngine(), sim.WithTick(time.Hour), sim.OnComplete(func(sim.Summary) { completed = true }))

			r.Start(ctx, launch.Params{Speed: 6, Angle: 30})
			Eventually(latestSteps(r)).Should(Equal(1))
			cancel()
			r.Wait()

			f, _ := r.Latest().Load()
			Expect(f.Phase).To(Equal(sim.Stopped))
			Expect(completed).To(BeFalse())
		})
	})
})
