package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/san-kum/flocksim/internal/flock"
)

type Simulator struct {
	flock     *flock.Flock
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

type Option func(*Simulator)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func WithMetrics(ms ...Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, ms...) }
}

func WithObservers(obs ...Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, obs...) }
}

func New(f *flock.Flock, opts ...Option) *Simulator {
	s := &Simulator{
		flock:     f,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Flock() *flock.Flock { return s.flock }

// Run steps the flock cfg.Frames times. Cancellation is checked between frames; a
// canceled run returns the partial result together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Frames <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNoFrames, cfg.Frames)
	}
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		SampleFrames: make([]uint64, 0, cfg.Frames/every+1),
		Series:       make(map[string][]float64, len(s.metrics)),
		Metrics:      make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	params := s.flock.Params()
	s.logger.Debug("run started",
		"boids", len(s.flock.Boids()), "frames", cfg.Frames, "cell_size", params.CellSize)

	start := time.Now()
	runErr := s.loop(ctx, cfg.Frames, every, params, result)
	result.Elapsed = time.Since(start)

	if err := s.flush(); err != nil && runErr == nil {
		runErr = err
	}

	for name, series := range result.Series {
		result.Metrics[name] = mean(series)
	}

	if runErr != nil {
		return result, runErr
	}
	s.logger.Info("run complete",
		"frames", result.Frames, "elapsed", result.Elapsed.Round(time.Millisecond),
		"fps", fmt.Sprintf("%.1f", result.FPS()))
	return result, nil
}

func (s *Simulator) loop(ctx context.Context, frames, every int, params flock.Params, result *Result) error {
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.flock.Step()
		frame := s.flock.Frame()
		boids := s.flock.Boids()

		if i%every == 0 || i == frames-1 {
			result.SampleFrames = append(result.SampleFrames, frame)
			for _, m := range s.metrics {
				m.Observe(boids, params)
				result.Series[m.Name()] = append(result.Series[m.Name()], m.Value())
			}
		}
		for _, obs := range s.observers {
			if err := obs.OnFrame(frame, boids); err != nil {
				return &FrameError{Frame: frame, Wrapped: err}
			}
		}
		result.Frames++
	}
	return nil
}

func (s *Simulator) flush() error {
	var errs []error
	for _, obs := range s.observers {
		if f, ok := obs.(Flusher); ok {
			if err := f.Flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
