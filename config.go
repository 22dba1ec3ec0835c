package trellis

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/tanema/gween/ease"
)

// Config holds the tunable defaults of a Surface. LoadConfig reads it from
// TRELLIS_* environment variables.
type Config struct {
	Duration      time.Duration `envconfig:"DURATION" default:"1s"`
	QuickDuration time.Duration `envconfig:"QUICK_DURATION" default:"250ms"`
	StateDuration time.Duration `envconfig:"STATE_DURATION" default:"100ms"`
	DragDuration  time.Duration `envconfig:"DRAG_DURATION" default:"100ms"`

	Ease      string `envconfig:"EASE" default:"cubicOut"`
	StateEase string `envconfig:"STATE_EASE" default:"linear"`

	TransformOrigin string `envconfig:"TRANSFORM_ORIGIN" default:"top left"`

	ScaleMin float64 `envconfig:"SCALE_MIN" default:"0"`
	ScaleMax float64 `envconfig:"SCALE_MAX" default:"1000"`

	ViewportWidth  float64 `envconfig:"VIEWPORT_WIDTH" default:"1280"`
	ViewportHeight float64 `envconfig:"VIEWPORT_HEIGHT" default:"720"`

	Debug bool `envconfig:"DEBUG" default:"false"`
}

// DefaultConfig returns the built-in defaults without reading the
// environment.
func DefaultConfig() Config {
	return Config{
		Duration:        time.Second,
		QuickDuration:   250 * time.Millisecond,
		StateDuration:   100 * time.Millisecond,
		DragDuration:    100 * time.Millisecond,
		Ease:            "cubicOut",
		StateEase:       "linear",
		TransformOrigin: "top left",
		ScaleMin:        0,
		ScaleMax:        1000,
		ViewportWidth:   1280,
		ViewportHeight:  720,
	}
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("trellis", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks easing names, durations, the transform origin and scale
// bounds.
func (c Config) Validate() error {
	for _, name := range []string{c.Ease, c.StateEase} {
		if _, ok := EasingByName(name); !ok {
			return fmt.Errorf("%w: unknown easing %q", ErrType, name)
		}
	}
	for _, d := range []time.Duration{c.Duration, c.QuickDuration, c.StateDuration, c.DragDuration} {
		if d < 0 {
			return fmt.Errorf("%w: negative duration %v", ErrType, d)
		}
	}
	if _, ok := ParseOrigin(c.TransformOrigin); !ok {
		return fmt.Errorf("%w: unknown transform origin %q", ErrType, c.TransformOrigin)
	}
	if c.ScaleMin > c.ScaleMax {
		return fmt.Errorf("%w: scale bounds [%v, %v] are inverted", ErrType, c.ScaleMin, c.ScaleMax)
	}
	return nil
}

func (c Config) ease() ease.TweenFunc {
	if fn, ok := EasingByName(c.Ease); ok {
		return fn
	}
	return ease.OutCubic
}

func (c Config) stateEase() ease.TweenFunc {
	if fn, ok := EasingByName(c.StateEase); ok {
		return fn
	}
	return ease.Linear
}

func (c Config) origin() Origin {
	if o, ok := ParseOrigin(c.TransformOrigin); ok {
		return o
	}
	return OriginTopLeft
}
