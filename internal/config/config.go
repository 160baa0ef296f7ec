// Package config holds the viewer settings. Values come from Default, then
// an optional YAML file, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"meshview/internal/colormap"
	"meshview/internal/feed"
	"meshview/internal/mesh"
	"meshview/internal/session"
)

// Feed sources.
const (
	SourceWebSocket = "ws"
	SourceFile      = "file"
	SourceStdin     = "stdin"
	SourceSim       = "sim"
)

type Config struct {
	// feed
	Source      string        `yaml:"source"`
	URL         string        `yaml:"url"`
	InputPath   string        `yaml:"input"`
	Pace        time.Duration `yaml:"pace"`
	SimSize     int           `yaml:"sim_size"`
	SimInterval time.Duration `yaml:"sim_interval"`

	// render
	Shrink         float64  `yaml:"shrink"`
	Palette        []string `yaml:"palette"`
	NonNegativeMin bool     `yaml:"non_negative_min"`
	VertexRadius   float64  `yaml:"vertex_radius"`
	AltScreen      bool     `yaml:"alt_screen"`

	// logging
	LogFile string `yaml:"log_file"`
}

func Default() Config {
	return Config{
		Source:       SourceSim,
		URL:          "ws://localhost:8081/websocket",
		SimSize:      feed.DefaultSimSize,
		SimInterval:  feed.DefaultSimInterval,
		Shrink:       mesh.DefaultShrink,
		Palette:      append([]string(nil), colormap.DefaultPalette...),
		VertexRadius: session.DefaultVertexRadius,
		AltScreen:    true,
	}
}

// Load overlays the YAML file at path on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Source {
	case SourceWebSocket:
		if c.URL == "" {
			return errors.New("-url is required with -source ws")
		}
	case SourceFile:
		if c.InputPath == "" {
			return errors.New("-in is required with -source file")
		}
	case SourceStdin, SourceSim:
	default:
		return fmt.Errorf("-source must be one of ws, file, stdin, sim (got %q)", c.Source)
	}
	if c.Pace < 0 {
		return errors.New("-pace must be >= 0")
	}
	if c.SimSize < 2 {
		return errors.New("-sim-size must be >= 2")
	}
	if c.SimInterval <= 0 {
		return errors.New("-sim-interval must be > 0")
	}
	if c.Shrink <= 0 || c.Shrink > 1 {
		return errors.New("-shrink must be in (0,1]")
	}
	if len(c.Palette) == 0 {
		return errors.New("palette must not be empty")
	}
	if _, err := colormap.New(colormap.Linspace(0, 1, len(c.Palette)), c.Palette); err != nil {
		return err
	}
	if c.VertexRadius <= 0 {
		return errors.New("vertex_radius must be > 0")
	}
	return nil
}
