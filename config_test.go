package trellis

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.origin() != OriginTopLeft {
		t.Errorf("origin = %v", cfg.origin())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig = %+v, want %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TRELLIS_DURATION", "2s")
	t.Setenv("TRELLIS_EASE", "linear")
	t.Setenv("TRELLIS_TRANSFORM_ORIGIN", "center")
	t.Setenv("TRELLIS_SCALE_MAX", "8")
	t.Setenv("TRELLIS_DEBUG", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Duration != 2*time.Second || cfg.Ease != "linear" || cfg.ScaleMax != 8 || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.origin() != OriginCenter {
		t.Errorf("origin = %v", cfg.origin())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv("TRELLIS_DURATION", "soon")
	if _, err := LoadConfig(); err == nil || !strings.HasPrefix(err.Error(), "load config") {
		t.Errorf("bad duration err = %v", err)
	}

	t.Setenv("TRELLIS_DURATION", "1s")
	t.Setenv("TRELLIS_EASE", "wobble")
	if _, err := LoadConfig(); !errors.Is(err, ErrType) {
		t.Errorf("unknown ease err = %v, want ErrType", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"state ease":     func(c *Config) { c.StateEase = "nope" },
		"negative quick": func(c *Config) { c.QuickDuration = -time.Millisecond },
		"origin":         func(c *Config) { c.TransformOrigin = "middle" },
		"scale bounds":   func(c *Config) { c.ScaleMin, c.ScaleMax = 2, 1 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrType) {
			t.Errorf("%s: err = %v, want ErrType", name, err)
		}
	}
}

func TestSurfaceUsesConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TransformOrigin = "bottom right"
	cfg.ViewportWidth, cfg.ViewportHeight = 320, 200
	s := NewSurface(NewManualFrames(), WithConfig(cfg))
	if s.Viewport() != (Vec2{X: 320, Y: 200}) {
		t.Errorf("viewport = %v", s.Viewport())
	}
	p, err := s.NewPosition()
	if err != nil {
		t.Fatal(err)
	}
	if p.Data().TransformOrigin != OriginBottomRight {
		t.Errorf("origin = %v", p.Data().TransformOrigin)
	}
}
