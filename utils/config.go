package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the configuration for the simulation
type Config struct {
	Width               int           `json:"width" yaml:"width"`
	Height              int           `json:"height" yaml:"height"`
	FrameRate           time.Duration `json:"frame_rate" yaml:"frame_rate"`
	MaxGenerations      int           `json:"max_generations" yaml:"max_generations"`
	RandomDensity       float64       `json:"random_density" yaml:"random_density"`
	Seed                int64         `json:"seed" yaml:"seed"` // 0 seeds from the clock
	Glider              bool          `json:"glider" yaml:"glider"`
	Workers             int           `json:"workers" yaml:"workers"` // 0 uses every CPU
	UseMemoryPool       bool          `json:"use_memory_pool" yaml:"use_memory_pool"`
	AutoRestart         bool          `json:"auto_restart" yaml:"auto_restart"`
	StagnationThreshold int           `json:"stagnation_threshold" yaml:"stagnation_threshold"`
	InjectionCount      int           `json:"injection_count" yaml:"injection_count"`
	StatsFile           string        `json:"stats_file" yaml:"stats_file"`
	Interactive         bool          `json:"interactive" yaml:"interactive"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:               64,
		Height:              64,
		FrameRate:           100 * time.Millisecond,
		MaxGenerations:      1000,
		RandomDensity:       0.5,
		Glider:              true,
		Workers:             1,
		UseMemoryPool:       true,
		AutoRestart:         false,
		StagnationThreshold: 5,
		InjectionCount:      3,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] file: %+v", filename)
	}
	return config, nil
}

// Validate rejects configs that cannot build a universe
func (c Config) Validate() error {
	switch {
	case c.Width < 1 || c.Height < 1:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] dimensions must be positive, got %dx%d", c.Width, c.Height)
	case c.RandomDensity < 0 || c.RandomDensity > 1:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] random_density %v outside [0, 1]", c.RandomDensity)
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] workers must not be negative, got %d", c.Workers)
	case c.FrameRate < 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] frame_rate must not be negative, got %v", c.FrameRate)
	case c.MaxGenerations < 0:
		return errors.Wrapf(ErrInvalidConfig, "[Validate] max_generations must not be negative, got %d", c.MaxGenerations)
	}
	return nil
}
