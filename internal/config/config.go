package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/flocksim/internal/flock"
)

const (
	DefaultWidth           = 1920
	DefaultHeight          = 1080
	DefaultBoids           = 100000
	DefaultFrames          = 5000
	DefaultMaxSpeed        = 3.0
	DefaultMinSpeed        = 0.5
	DefaultMargin          = 10.0
	DefaultVisibleRange    = 20.0
	DefaultProtectedRange  = 2.0
	DefaultAvoidFactor     = 0.05
	DefaultMatchingFactor  = 0.05
	DefaultCenteringFactor = 0.0005
	DefaultTurnFactor      = 0.2
	DefaultDrawRadius      = 1

	// CellSizeRatio derives the cell size from the visible range when none is set.
	CellSizeRatio = 1.1
)

var (
	ErrUnknownParam = errors.New("config: unknown parameter")
	ErrInvalid      = errors.New("config: invalid run configuration")
)

type Config struct {
	Width      int         `yaml:"width" toml:"width" json:"width"`
	Height     int         `yaml:"height" toml:"height" json:"height"`
	Boids      int         `yaml:"boids" toml:"boids" json:"boids"`
	Frames     int         `yaml:"frames" toml:"frames" json:"frames"`
	Seed       int64       `yaml:"seed" toml:"seed" json:"seed"`
	Workers    int         `yaml:"workers" toml:"workers" json:"workers"`
	MinChunk   int         `yaml:"min_chunk" toml:"min_chunk" json:"min_chunk"`
	Palette    string      `yaml:"palette" toml:"palette" json:"palette"`
	DrawRadius int         `yaml:"draw_radius" toml:"draw_radius" json:"draw_radius"`
	Flock      FlockConfig `yaml:"flock" toml:"flock" json:"flock"`
}

type FlockConfig struct {
	MaxSpeed        float64 `yaml:"max_speed" toml:"max_speed" json:"max_speed"`
	MinSpeed        float64 `yaml:"min_speed" toml:"min_speed" json:"min_speed"`
	Margin          float64 `yaml:"margin" toml:"margin" json:"margin"`
	VisibleRange    float64 `yaml:"visible_range" toml:"visible_range" json:"visible_range"`
	ProtectedRange  float64 `yaml:"protected_range" toml:"protected_range" json:"protected_range"`
	AvoidFactor     float64 `yaml:"avoid_factor" toml:"avoid_factor" json:"avoid_factor"`
	MatchingFactor  float64 `yaml:"matching_factor" toml:"matching_factor" json:"matching_factor"`
	CenteringFactor float64 `yaml:"centering_factor" toml:"centering_factor" json:"centering_factor"`
	TurnFactor      float64 `yaml:"turn_factor" toml:"turn_factor" json:"turn_factor"`
	CellSize        float64 `yaml:"cell_size" toml:"cell_size" json:"cell_size"` // 0 derives visible_range * CellSizeRatio
	LegacySpeed     bool    `yaml:"legacy_speed" toml:"legacy_speed" json:"legacy_speed"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Boids:      DefaultBoids,
		Frames:     DefaultFrames,
		Palette:    "white",
		DrawRadius: DefaultDrawRadius,
		Flock: FlockConfig{
			MaxSpeed:        DefaultMaxSpeed,
			MinSpeed:        DefaultMinSpeed,
			Margin:          DefaultMargin,
			VisibleRange:    DefaultVisibleRange,
			ProtectedRange:  DefaultProtectedRange,
			AvoidFactor:     DefaultAvoidFactor,
			MatchingFactor:  DefaultMatchingFactor,
			CenteringFactor: DefaultCenteringFactor,
			TurnFactor:      DefaultTurnFactor,
		},
	}
}

// Load reads a config file on top of DefaultConfig. Files ending in .toml are
// decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// CellSize returns the configured cell size, or the one derived from the visible range.
func (c *Config) CellSize() float64 {
	if c.Flock.CellSize > 0 {
		return c.Flock.CellSize
	}
	return c.Flock.VisibleRange * CellSizeRatio
}

// Params converts the config into the parameter set of the flock update.
func (c *Config) Params() flock.Params {
	return flock.Params{
		MaxSpeed:        c.Flock.MaxSpeed,
		MinSpeed:        c.Flock.MinSpeed,
		Margin:          c.Flock.Margin,
		VisibleRange:    c.Flock.VisibleRange,
		ProtectedRange:  c.Flock.ProtectedRange,
		AvoidFactor:     c.Flock.AvoidFactor,
		MatchingFactor:  c.Flock.MatchingFactor,
		CenteringFactor: c.Flock.CenteringFactor,
		TurnFactor:      c.Flock.TurnFactor,
		CellSize:        c.CellSize(),
		Width:           c.Width,
		Height:          c.Height,
		LegacySpeed:     c.Flock.LegacySpeed,
	}
}

// Validate checks the run settings and the flock parameters.
func (c *Config) Validate() error {
	switch {
	case c.Boids <= 0:
		return fmt.Errorf("%w: boids=%d", ErrInvalid, c.Boids)
	case c.Frames <= 0:
		return fmt.Errorf("%w: frames=%d", ErrInvalid, c.Frames)
	case c.DrawRadius < 0:
		return fmt.Errorf("%w: draw_radius=%d", ErrInvalid, c.DrawRadius)
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("invalid flock parameters: %w", err)
	}
	return nil
}

// Warnings lists settings that are legal but probably unintended.
func (c *Config) Warnings() []string {
	var w []string
	if c.CellSize() < c.Flock.VisibleRange {
		w = append(w, fmt.Sprintf("cell_size %g is smaller than visible_range %g; neighbors beyond one cell are ignored",
			c.CellSize(), c.Flock.VisibleRange))
	}
	if c.Flock.ProtectedRange >= c.Flock.VisibleRange {
		w = append(w, "protected_range >= visible_range; cohesion and alignment never apply")
	}
	if float64(c.Width) <= 2*c.Flock.Margin || float64(c.Height) <= 2*c.Flock.Margin {
		w = append(w, "margin covers the whole area; boids are turned everywhere")
	}
	return w
}

// SetParam assigns a single setting by its config key, e.g. "visible_range" or "boids".
func (c *Config) SetParam(key, value string) error {
	if p, ok := c.floatParam(key); ok {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*p = v
		return nil
	}
	if p, ok := c.intParam(key); ok {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*p = v
		return nil
	}

	switch key {
	case "seed":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Seed = v
	case "legacy_speed":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Flock.LegacySpeed = v
	case "palette":
		c.Palette = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, key)
	}
	return nil
}

// ApplyOverrides applies "key=value" pairs in order.
func (c *Config) ApplyOverrides(pairs []string) error {
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("override %q: expected key=value", pair)
		}
		if err := c.SetParam(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) floatParam(key string) (*float64, bool) {
	switch key {
	case "max_speed":
		return &c.Flock.MaxSpeed, true
	case "min_speed":
		return &c.Flock.MinSpeed, true
	case "margin":
		return &c.Flock.Margin, true
	case "visible_range":
		return &c.Flock.VisibleRange, true
	case "protected_range":
		return &c.Flock.ProtectedRange, true
	case "avoid_factor":
		return &c.Flock.AvoidFactor, true
	case "matching_factor":
		return &c.Flock.MatchingFactor, true
	case "centering_factor":
		return &c.Flock.CenteringFactor, true
	case "turn_factor":
		return &c.Flock.TurnFactor, true
	case "cell_size":
		return &c.Flock.CellSize, true
	}
	return nil, false
}

func (c *Config) intParam(key string) (*int, bool) {
	switch key {
	case "width":
		return &c.Width, true
	case "height":
		return &c.Height, true
	case "boids":
		return &c.Boids, true
	case "frames":
		return &c.Frames, true
	case "workers":
		return &c.Workers, true
	case "min_chunk":
		return &c.MinChunk, true
	case "draw_radius":
		return &c.DrawRadius, true
	}
	return nil, false
}
