package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "config.json", `{"width": 32, "height": 16, "frame_rate": 50000000, "workers": 4, "seed": 9}`},
		{"yaml", "config.yaml", "width: 32\nheight: 16\nframe_rate: 50ms\nworkers: 4\nseed: 9\n"},
		{"yml", "config.yml", "width: 32\nheight: 16\nframe_rate: 50ms\nworkers: 4\nseed: 9\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if cfg.Width != 32 || cfg.Height != 16 {
				t.Errorf("dimensions = %dx%d, want 32x16", cfg.Width, cfg.Height)
			}
			if cfg.FrameRate != 50*time.Millisecond {
				t.Errorf("FrameRate = %v, want 50ms", cfg.FrameRate)
			}
			if cfg.Workers != 4 || cfg.Seed != 9 {
				t.Errorf("Workers = %d, Seed = %d", cfg.Workers, cfg.Seed)
			}
			// untouched fields keep their defaults
			if cfg.RandomDensity != 0.5 || !cfg.Glider {
				t.Errorf("defaults lost: %+v", cfg)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not exist", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected defaults on failure")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	if _, err := LoadConfig(writeFile(t, "bad.json", "{")); err == nil {
		t.Error("expected error for malformed json")
	}
	if _, err := LoadConfig(writeFile(t, "bad.yaml", "width: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig(writeFile(t, "zero.yaml", "width: 0\n"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"one by one", func(c *Config) { c.Width, c.Height = 1, 1 }, true},
		{"zero width", func(c *Config) { c.Width = 0 }, false},
		{"negative height", func(c *Config) { c.Height = -3 }, false},
		{"density above one", func(c *Config) { c.RandomDensity = 1.5 }, false},
		{"negative density", func(c *Config) { c.RandomDensity = -0.1 }, false},
		{"negative workers", func(c *Config) { c.Workers = -1 }, false},
		{"all cpus", func(c *Config) { c.Workers = 0 }, true},
		{"negative frame rate", func(c *Config) { c.FrameRate = -time.Second }, false},
		{"negative max generations", func(c *Config) { c.MaxGenerations = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
