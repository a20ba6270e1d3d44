package flock

// Options controls how a single frame is executed. None of it changes the result.
type Options struct {
	Workers  int    // <= 0 means GOMAXPROCS
	MinChunk int    // <= 0 means DefaultMinChunk
	Seed     uint64 // base seed of the zero-speed nudge
	Frame    uint64 // frame number mixed into the nudge seed
}

// Advance applies one frame to boids in place. idx must have been built from the same
// snapshot, and p must have passed Validate.
func Advance(boids []Boid, idx *Index, p Params, opts Options) {
	next := make([]NextState, len(boids))
	compute(boids, idx, &p, opts, next)
	commit(boids, next)
}

// compute fills next with every boid's new state. It only reads boids and idx; each
// worker writes a disjoint range of next.
func compute(boids []Boid, idx *Index, p *Params, opts Options, next []NextState) {
	minChunk := opts.MinChunk
	if minChunk <= 0 {
		minChunk = DefaultMinChunk
	}
	ParallelFor(len(boids), minChunk, opts.Workers, func(start, end int) {
		for slot := start; slot < end; slot++ {
			next[slot] = nextState(boids, idx, p, opts, slot)
		}
	})
}

func commit(boids []Boid, next []NextState) {
	for i := range boids {
		boids[i].Pos = next[i].Pos
		boids[i].Vel = next[i].Vel
		boids[i].Speed = next[i].Speed
	}
}

// nextState computes the new state of the boid in slot without touching any shared state.
func nextState(boids []Boid, idx *Index, p *Params, opts Options, slot int) NextState {
	b := &boids[slot]

	protectedSq := p.ProtectedRange * p.ProtectedRange
	visibleSq := p.VisibleRange * p.VisibleRange

	var posSum, velSum, closeSum Vec2
	neighbors := 0

	home := idx.CellOf(b.Pos)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			key := CellKey{X: home.X + dx, Y: home.Y + dy}
			if key.X < 0 || key.Y < 0 {
				continue
			}
			for _, other := range idx.Cell(key) {
				if other == slot {
					continue
				}
				o := &boids[other]

				offset := b.Pos.Sub(o.Pos)
				// box pre-filter; the circular tests follow
				if abs(offset.X) >= p.VisibleRange || abs(offset.Y) >= p.VisibleRange {
					continue
				}

				distSq := offset.NormSq()
				if distSq < protectedSq {
					closeSum = closeSum.Add(offset)
				} else if distSq < visibleSq {
					posSum = posSum.Add(o.Pos)
					velSum = velSum.Add(o.Vel)
					neighbors++
				}
			}
		}
	}

	vel := b.Vel
	if neighbors > 0 {
		n := float64(neighbors)
		posAvg := posSum.Div(n)
		velAvg := velSum.Div(n)
		cohesion := posAvg.Sub(b.Pos).Scale(p.CenteringFactor)
		alignment := velAvg.Sub(b.Vel).Scale(p.MatchingFactor)
		vel = vel.Add(cohesion.Add(alignment))
	}
	vel = vel.Add(closeSum.Scale(p.AvoidFactor))

	vel = turn(b.Pos, vel, p)

	vel, speed := clampSpeed(b, vel, p, opts, slot)

	return NextState{
		Pos:   clampPosition(b.Pos.Add(vel), p),
		Vel:   vel,
		Speed: speed,
	}
}

// turn nudges the velocity back toward the interior near each edge. The four checks are
// independent, so a boid in a corner is turned on both axes.
func turn(pos, vel Vec2, p *Params) Vec2 {
	w, h := float64(p.Width), float64(p.Height)
	if pos.Y > h-p.Margin {
		vel.Y -= p.TurnFactor
	}
	if pos.X > w-p.Margin {
		vel.X -= p.TurnFactor
	}
	if pos.X < p.Margin {
		vel.X += p.TurnFactor
	}
	if pos.Y < p.Margin {
		vel.Y += p.TurnFactor
	}
	return vel
}

// clampSpeed rescales vel into [MinSpeed, MaxSpeed], or replaces a zero velocity with a
// random one of at most MinSpeed per axis. It returns the new velocity and the speed to record.
func clampSpeed(b *Boid, vel Vec2, p *Params, opts Options, slot int) (Vec2, float64) {
	speed := vel.Norm()
	if p.LegacySpeed {
		speed = b.Vel.Norm()
	}

	switch {
	case speed > 0:
		if speed < p.MinSpeed {
			return vel.Scale(p.MinSpeed / speed), p.MinSpeed
		}
		if speed > p.MaxSpeed {
			return vel.Scale(p.MaxSpeed / speed), p.MaxSpeed
		}
		return vel, speed
	case p.MinSpeed > 0:
		r := nudgeSource(opts.Seed, opts.Frame, slot)
		return randomVelocity(r, p.MinSpeed), p.MinSpeed
	default:
		return vel, speed
	}
}

// clampPosition keeps a position inside [0, dim-1] on each axis using signed comparisons.
func clampPosition(pos Vec2, p *Params) Vec2 {
	w, h := float64(p.Width), float64(p.Height)
	if pos.X < 0 {
		pos.X = 0
	} else if pos.X >= w {
		pos.X = w - 1
	}
	if pos.Y < 0 {
		pos.Y = 0
	} else if pos.Y >= h {
		pos.Y = h - 1
	}
	return pos
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
