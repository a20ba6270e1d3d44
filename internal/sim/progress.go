package sim

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/flocksim/internal/flock"
)

// Progress logs throughput and an estimated time to completion every few frames.
type Progress struct {
	logger *slog.Logger
	total  int
	every  int
	done   int
	start  time.Time
}

func NewProgress(logger *slog.Logger, total, every int) *Progress {
	if every <= 0 {
		every = 100
	}
	return &Progress{logger: logger, total: total, every: every}
}

func (p *Progress) OnFrame(frame uint64, _ []flock.Boid) error {
	if p.start.IsZero() {
		p.start = time.Now()
	}
	p.done++
	if p.done%p.every != 0 && p.done != p.total {
		return nil
	}

	elapsed := time.Since(p.start)
	fps := float64(p.done) / elapsed.Seconds()
	var eta time.Duration
	if fps > 0 && p.total > p.done {
		eta = time.Duration(float64(p.total-p.done) / fps * float64(time.Second))
	}
	p.logger.Info("progress",
		"frame", frame,
		"done", fmt.Sprintf("%d/%d", p.done, p.total),
		"fps", fmt.Sprintf("%.1f", fps),
		"eta", eta.Round(time.Second))
	return nil
}
