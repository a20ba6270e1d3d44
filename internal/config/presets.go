package config

import "sort"

// Presets are named starting points. Each one is a complete config.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"small": withFlock(func(c *Config) {
		c.Width, c.Height, c.Boids, c.Frames = 800, 600, 2000, 1000
	}),
	"dense": withFlock(func(c *Config) {
		c.Width, c.Height, c.Boids, c.Frames = 1280, 720, 50000, 2000
	}),
	"swarm": withFlock(func(c *Config) {
		c.Width, c.Height, c.Boids, c.Frames = 1280, 720, 10000, 2000
		c.Flock.CenteringFactor = 0.005
		c.Flock.MatchingFactor = 0.02
	}),
	"school": withFlock(func(c *Config) {
		c.Width, c.Height, c.Boids, c.Frames = 1280, 720, 10000, 2000
		c.Flock.MatchingFactor = 0.15
		c.Flock.AvoidFactor = 0.03
		c.Flock.VisibleRange = 30
	}),
	"scatter": withFlock(func(c *Config) {
		c.Width, c.Height, c.Boids, c.Frames = 1280, 720, 10000, 1000
		c.Flock.AvoidFactor = 0.2
		c.Flock.ProtectedRange = 6
		c.Flock.CenteringFactor = 0
	}),
	"legacy": withFlock(func(c *Config) {
		c.Flock.LegacySpeed = true
	}),
	"terminal": withFlock(func(c *Config) {
		c.Width, c.Height, c.Boids, c.Frames = 320, 160, 600, 2000
		c.Flock.VisibleRange = 12
		c.Flock.Margin = 8
	}),
}

func withFlock(modify func(*Config)) *Config {
	c := DefaultConfig()
	modify(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
