package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.World.Mode != ModeHeightfield {
		t.Errorf("expected default mode %q, got %q", ModeHeightfield, cfg.World.Mode)
	}
	if cfg.World.Width != 120 || cfg.World.Depth != 120 {
		t.Errorf("expected 120x120 world, got %dx%d", cfg.World.Width, cfg.World.Depth)
	}
	if cfg.World.Seed != 1337 {
		t.Errorf("expected seed 1337, got %d", cfg.World.Seed)
	}
	if cfg.Noise.Octaves != 5 || cfg.Noise.Lacunarity != 2.0 || cfg.Noise.Gain != 0.5 {
		t.Errorf("unexpected noise defaults: %+v", cfg.Noise)
	}
	if cfg.Derived.HalfWidth != 60 || cfg.Derived.HalfDepth != 60 {
		t.Errorf("expected half extents 60, got %v/%v", cfg.Derived.HalfWidth, cfg.Derived.HalfDepth)
	}
	if cfg.Derived.DT32 <= 0 {
		t.Error("expected positive derived dt")
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	overlay := []byte("world:\n  mode: voxel\n  seed: 7\nmovement:\n  gravity: 9.81\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay: %v", err)
	}

	if cfg.World.Mode != ModeVoxel {
		t.Errorf("expected overlay mode voxel, got %q", cfg.World.Mode)
	}
	if cfg.World.Seed != 7 {
		t.Errorf("expected overlay seed 7, got %d", cfg.World.Seed)
	}
	if cfg.Movement.Gravity != 9.81 {
		t.Errorf("expected overlay gravity 9.81, got %v", cfg.Movement.Gravity)
	}
	// Untouched fields keep their defaults
	if cfg.World.Width != 120 {
		t.Errorf("expected default width to survive overlay, got %d", cfg.World.Width)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.World.Width = 0 }},
		{"negative depth", func(c *Config) { c.World.Depth = -3 }},
		{"unknown mode", func(c *Config) { c.World.Mode = "caves" }},
		{"zero noise scale", func(c *Config) { c.World.NoiseScale = 0 }},
		{"negative octaves", func(c *Config) { c.Noise.Octaves = -1 }},
		{"zero voxel radius", func(c *Config) { c.Voxel.Radius = 0 }},
		{"zero player height", func(c *Config) { c.Player.Height = 0 }},
		{"negative gravity", func(c *Config) { c.Movement.Gravity = -1 }},
		{"zero dt", func(c *Config) { c.Physics.DT = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.World.Seed = 99

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading yaml: %v", err)
	}
	if loaded.World.Seed != 99 {
		t.Errorf("expected seed 99 after roundtrip, got %d", loaded.World.Seed)
	}
}
