package sim

import (
	"time"

	"github.com/san-kum/flocksim/internal/flock"
)

// Metric reduces one frame of the flock to a number.
type Metric interface {
	Name() string
	Observe(boids []flock.Boid, p flock.Params)
	Value() float64 // value of the last observed frame
	Reset()
}

// Observer is called after every committed frame. Returning an error aborts the run.
type Observer interface {
	OnFrame(frame uint64, boids []flock.Boid) error
}

// Flusher is implemented by observers that buffer work, such as frame writers.
// Flush is called once when the run ends.
type Flusher interface {
	Flush() error
}

type Config struct {
	Frames      int
	SampleEvery int // metric sampling interval in frames, <= 0 means every frame
}

type Result struct {
	Frames       int
	SampleFrames []uint64
	Series       map[string][]float64
	Metrics      map[string]float64 // mean of each series
	Elapsed      time.Duration
}

// FPS is the average number of frames computed per second.
func (r *Result) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}
