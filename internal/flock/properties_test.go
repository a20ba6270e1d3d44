package flock

import (
	"math"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Flock", func() {
	var p Params

	BeforeEach(func() {
		p = testParams()
		p.Width, p.Height = 400, 300
	})

	run := func(boids []Boid, frames int, opts ...Option) *Flock {
		f, err := New(boids, p, opts...)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < frames; i++ {
			f.Step()
		}
		return f
	}

	Describe("bounds", func() {
		It("keeps every boid inside the rectangle for many frames", func() {
			f, err := New(randomBoids(1500, p.Width, p.Height, p.MaxSpeed, 21), p, WithSeed(3))
			Expect(err).NotTo(HaveOccurred())

			for frame := 0; frame < 60; frame++ {
				f.Step()
				Expect(p.CheckBounds(f.Boids())).To(Succeed(), "frame %d", frame)
			}
		})

		It("clamps boids driven hard at the walls", func() {
			boids := []Boid{
				{ID: 0, Pos: Vec2{X: 399.9, Y: 150}, Vel: Vec2{X: 3, Y: 0}},
				{ID: 1, Pos: Vec2{X: 0.1, Y: 150}, Vel: Vec2{X: -3, Y: 0}},
				{ID: 2, Pos: Vec2{X: 200, Y: 299.5}, Vel: Vec2{X: 0, Y: 3}},
				{ID: 3, Pos: Vec2{X: 200, Y: 0.5}, Vel: Vec2{X: 0, Y: -3}},
			}
			f := run(boids, 1)
			Expect(p.CheckBounds(f.Boids())).To(Succeed())
			Expect(f.Boids()[0].Pos.X).To(Equal(399.0))
			Expect(f.Boids()[1].Pos.X).To(Equal(0.0))
			Expect(f.Boids()[2].Pos.Y).To(Equal(299.0))
			Expect(f.Boids()[3].Pos.Y).To(Equal(0.0))
		})
	})

	Describe("speed", func() {
		It("never records a speed outside [min, max] once min > 0", func() {
			f, err := New(randomBoids(1000, p.Width, p.Height, p.MaxSpeed, 8), p, WithSeed(1))
			Expect(err).NotTo(HaveOccurred())

			for frame := 0; frame < 60; frame++ {
				f.Step()
				for _, b := range f.Boids() {
					Expect(b.Speed).To(BeNumerically(">=", p.MinSpeed))
					Expect(b.Speed).To(BeNumerically("<=", p.MaxSpeed))
				}
			}
		})

		It("keeps |vel| consistent with the recorded speed when it rescales", func() {
			f := run(randomBoids(800, p.Width, p.Height, 4*p.MaxSpeed, 4), 10)
			for _, b := range f.Boids() {
				if b.Speed == p.MaxSpeed || b.Speed == p.MinSpeed {
					Expect(b.Vel.Norm()).To(BeNumerically("~", b.Speed, 1e-9))
				}
			}
		})
	})

	Describe("determinism", func() {
		It("produces identical output for identical input and seed", func() {
			a := run(randomBoids(1200, p.Width, p.Height, p.MaxSpeed, 77), 25, WithSeed(9))
			b := run(randomBoids(1200, p.Width, p.Height, p.MaxSpeed, 77), 25, WithSeed(9))
			Expect(a.Boids()).To(Equal(b.Boids()))
		})

		It("does not depend on the worker count", func() {
			serial := run(randomBoids(3000, p.Width, p.Height, p.MaxSpeed, 5), 15,
				WithSeed(2), WithWorkers(1))
			parallel := run(randomBoids(3000, p.Width, p.Height, p.MaxSpeed, 5), 15,
				WithSeed(2), WithWorkers(8), WithMinChunk(32))
			Expect(parallel.Boids()).To(Equal(serial.Boids()))
		})

		It("does not depend on the worker count when nudges fire", func() {
			// every boid starts at rest, so the first frame nudges all of them
			boids := make([]Boid, 0, 400)
			for y := 0; y < 10; y++ {
				for x := 0; x < 40; x++ {
					boids = append(boids, Boid{ID: len(boids), Pos: Vec2{X: float64(x*10 + 5), Y: float64(y*30 + 15)}})
				}
			}
			p.LegacySpeed = true

			serial := run(Clone(boids), 3, WithSeed(4), WithWorkers(1))
			parallel := run(Clone(boids), 3, WithSeed(4), WithWorkers(6), WithMinChunk(16))
			Expect(parallel.Boids()).To(Equal(serial.Boids()))
		})

		It("gives approximately equal results for a reordered snapshot", func() {
			boids := randomBoids(1500, p.Width, p.Height, p.MaxSpeed, 31)
			reversed := Clone(boids)
			for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
				reversed[i], reversed[j] = reversed[j], reversed[i]
			}

			a := run(boids, 1).Boids()
			b := run(reversed, 1).Boids()
			sort.Slice(b, func(i, j int) bool { return b[i].ID < b[j].ID })

			for i := range a {
				Expect(b[i].ID).To(Equal(a[i].ID))
				Expect(b[i].Pos.X).To(BeNumerically("~", a[i].Pos.X, 1e-9))
				Expect(b[i].Pos.Y).To(BeNumerically("~", a[i].Pos.Y, 1e-9))
				Expect(b[i].Vel.X).To(BeNumerically("~", a[i].Vel.X, 1e-9))
				Expect(b[i].Vel.Y).To(BeNumerically("~", a[i].Vel.Y, 1e-9))
			}
		})
	})

	Describe("isolation", func() {
		It("leaves a lone interior boid's velocity untouched", func() {
			boids := []Boid{{Pos: Vec2{X: 200, Y: 150}, Vel: Vec2{X: 0.7, Y: -1.1}}}
			f := run(boids, 5)
			Expect(f.Boids()[0].Vel).To(Equal(Vec2{X: 0.7, Y: -1.1}))
		})
	})

	Describe("symmetry breaking", func() {
		It("moves two co-located resting boids to speed min within one frame", func() {
			p.LegacySpeed = true
			boids := []Boid{{ID: 0, Pos: Vec2{X: 200, Y: 150}}, {ID: 1, Pos: Vec2{X: 200, Y: 150}}}
			f := run(boids, 1, WithSeed(12))
			for _, b := range f.Boids() {
				Expect(b.Speed).To(Equal(p.MinSpeed))
				Expect(b.Vel.X).To(BeNumerically(">=", -p.MinSpeed))
				Expect(b.Vel.X).To(BeNumerically("<", p.MinSpeed))
				Expect(b.Vel.Y).To(BeNumerically(">=", -p.MinSpeed))
				Expect(b.Vel.Y).To(BeNumerically("<", p.MinSpeed))
			}
			Expect(f.Boids()[0].Vel).NotTo(Equal(f.Boids()[1].Vel))
		})

		It("gives every resting boid a speed of min in the default mode", func() {
			boids := []Boid{{ID: 0, Pos: Vec2{X: 100, Y: 100}}, {ID: 1, Pos: Vec2{X: 300, Y: 200}}}
			f := run(boids, 1, WithSeed(12))
			for _, b := range f.Boids() {
				Expect(b.Speed).To(Equal(p.MinSpeed))
				Expect(math.IsNaN(b.Vel.X) || math.IsNaN(b.Vel.Y)).To(BeFalse())
			}
		})
	})
})
