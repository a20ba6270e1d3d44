package sim

import (
	"github.com/san-kum/flocksim/internal/config"
	"github.com/san-kum/flocksim/internal/flock"
)

// NewFlock validates cfg and builds a flock from it. A nil population is spawned from
// cfg; otherwise boids is used as given and must fit cfg's area.
func NewFlock(cfg *config.Config, boids []flock.Boid) (*flock.Flock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if boids == nil {
		palette, err := ParsePalette(cfg.Palette)
		if err != nil {
			return nil, err
		}
		boids = Spawn(cfg.Boids, cfg.Width, cfg.Height, cfg.Flock.MaxSpeed, palette, cfg.Seed)
	}
	return flock.New(boids, cfg.Params(),
		flock.WithSeed(cfg.Seed),
		flock.WithWorkers(cfg.Workers),
		flock.WithMinChunk(cfg.MinChunk))
}
