// Package config loads the graph_scene TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// DefaultPath is the config file looked up when no path is given.
const DefaultPath = "graph_scene.toml"

// Config is the root of the TOML document.
type Config struct {
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	Graph  GraphConfig  `toml:"graph"`
}

type ServerConfig struct {
	Addr          string `toml:"addr" validate:"required"`
	ReadTimeout   int    `toml:"read_timeout" validate:"gte=0"`
	WriteTimeout  int    `toml:"write_timeout" validate:"gte=0"`
	MaxConcurrent int    `toml:"max_concurrent" validate:"gte=1"`
	CORSOrigin    string `toml:"cors_origin"`
}

type LogConfig struct {
	Level       string `toml:"level" validate:"oneof=debug info warn error"`
	File        string `toml:"file"`
	MaxSize     int    `toml:"max_size_mb" validate:"gte=0"`
	MaxAge      int    `toml:"max_age_days" validate:"gte=0"`
	Development bool   `toml:"development"`
}

type GraphConfig struct {
	// Data is an optional JSON file of import records loaded at startup.
	Data             string  `toml:"data"`
	PlacementRadius  float64 `toml:"placement_radius" validate:"gt=0"`
	BestEffortImport bool    `toml:"best_effort_import"`
	// Seed fixes the random source for colors and placement. Zero seeds
	// from the runtime.
	Seed uint64 `toml:"seed"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8090",
			ReadTimeout:   10,
			WriteTimeout:  30,
			MaxConcurrent: 64,
			CORSOrigin:    "*",
		},
		Log: LogConfig{
			Level:   "info",
			MaxSize: 100,
			MaxAge:  14,
		},
		Graph: GraphConfig{
			PlacementRadius: 50,
		},
	}
}

// Load reads path over the defaults. A missing file at DefaultPath is not
// an error; a missing explicit path is. Relative paths in the file are
// resolved against its directory.
func Load(path string) (*Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return c, c.Validate()
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("could not decode TOML config: %w", err)
	}
	c.resolvePaths(filepath.Dir(path))
	return c, c.Validate()
}

func (c *Config) resolvePaths(dir string) {
	if c.Graph.Data != "" && !filepath.IsAbs(c.Graph.Data) {
		c.Graph.Data = filepath.Join(dir, c.Graph.Data)
	}
	if c.Log.File != "" && !filepath.IsAbs(c.Log.File) {
		c.Log.File = filepath.Join(dir, c.Log.File)
	}
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}
