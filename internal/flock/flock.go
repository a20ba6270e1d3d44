package flock

import "fmt"

// Flock owns a boid population and steps it frame by frame, reusing the index and the
// next-state buffer between frames.
type Flock struct {
	boids   []Boid
	params  Params
	opts    Options
	index   *Index
	next    []NextState
	initial []Boid
}

// Option configures a Flock.
type Option func(*Flock)

// WithWorkers sets the number of goroutines used by the parallel phase.
func WithWorkers(n int) Option {
	return func(f *Flock) { f.opts.Workers = n }
}

// WithMinChunk sets the smallest number of boids handed to one worker.
func WithMinChunk(n int) Option {
	return func(f *Flock) { f.opts.MinChunk = n }
}

// WithSeed sets the base seed of the zero-speed nudge.
func WithSeed(seed int64) Option {
	return func(f *Flock) { f.opts.Seed = uint64(seed) }
}

// New validates params and the initial positions and takes ownership of boids.
func New(boids []Boid, params Params, options ...Option) (*Flock, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if err := params.CheckBounds(boids); err != nil {
		return nil, err
	}

	f := &Flock{
		boids:   boids,
		params:  params,
		next:    make([]NextState, len(boids)),
		initial: Clone(boids),
	}
	for _, opt := range options {
		opt(f)
	}
	f.index = BuildIndex(boids, params.CellSize)
	return f, nil
}

// Step advances the flock by one frame: index build, parallel compute, commit.
func (f *Flock) Step() {
	f.index.Rebuild(f.boids)
	compute(f.boids, f.index, &f.params, f.opts, f.next)
	commit(f.boids, f.next)
	f.opts.Frame++
}

// Reset restores the population captured by New and rewinds the frame counter.
func (f *Flock) Reset() {
	copy(f.boids, f.initial)
	f.opts.Frame = 0
}

// Boids returns the live population. Callers must not modify it while Step runs.
func (f *Flock) Boids() []Boid { return f.boids }

// Params returns the parameters the flock was built with.
func (f *Flock) Params() Params { return f.params }

// Frame returns the number of frames applied since New or the last Reset.
func (f *Flock) Frame() uint64 { return f.opts.Frame }

// Index returns the index of the most recent frame.
func (f *Flock) Index() *Index { return f.index }
