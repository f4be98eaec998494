package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/menta2k/appshot/pkg/compositor"
	"github.com/menta2k/appshot/pkg/layout"
	"github.com/menta2k/appshot/pkg/processing"
	"github.com/menta2k/appshot/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Frame  FrameConfig  `json:"frame"`
	Output OutputConfig `json:"output"`
	Log    LogConfig    `json:"log"`
	// Jobs replaces the built-in example table when not empty
	Jobs []types.Job `json:"jobs,omitempty"`
}

// FrameConfig holds the device frame defaults
type FrameConfig struct {
	RelativeBorderWidth  float64 `json:"relative_border_width"`
	RelativeCornerRadius float64 `json:"relative_corner_radius"`
	BorderColor          string  `json:"border_color"`
	Filter               string  `json:"filter"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	OutputDir string `json:"output_dir"`
	Quality   int    `json:"quality"`
	Lossless  bool   `json:"lossless"`
	Debug     bool   `json:"debug"`
}

// LogConfig selects the logger flavor
type LogConfig struct {
	Mode string `json:"mode"`
}

var filters = map[string]imaging.ResampleFilter{
	"lanczos":         imaging.Lanczos,
	"catmullrom":      imaging.CatmullRom,
	"linear":          imaging.Linear,
	"box":             imaging.Box,
	"nearestneighbor": imaging.NearestNeighbor,
}

// Default returns a configuration with default values
func Default() *Config {
	d := layout.DefaultDefaults()
	return &Config{
		Frame: FrameConfig{
			RelativeBorderWidth:  d.RelativeBorderWidth,
			RelativeCornerRadius: d.RelativeCornerRadius,
			BorderColor:          "#000000",
			Filter:               "lanczos",
		},
		Output: OutputConfig{
			OutputDir: "output",
			Quality:   90,
		},
		Log: LogConfig{
			Mode: "development",
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Missing fields keep
// their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Frame.RelativeBorderWidth < 0 || c.Frame.RelativeBorderWidth >= 0.5 {
		return fmt.Errorf("frame.relative_border_width must be in [0, 0.5)")
	}

	if c.Frame.RelativeCornerRadius < 0 {
		return fmt.Errorf("frame.relative_corner_radius must not be negative")
	}

	if _, err := ParseColor(c.Frame.BorderColor); err != nil {
		return fmt.Errorf("frame.border_color: %w", err)
	}

	if _, ok := filters[strings.ToLower(c.Frame.Filter)]; !ok {
		return fmt.Errorf("frame.filter %q is not supported", c.Frame.Filter)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if c.Output.OutputDir == "" {
		return fmt.Errorf("output.output_dir cannot be empty")
	}

	for i, job := range c.Jobs {
		if job.Background == "" {
			return fmt.Errorf("jobs[%d].background cannot be empty", i)
		}
		if job.Output == "" {
			return fmt.Errorf("jobs[%d].output cannot be empty", i)
		}
		if format := processing.FormatFromPath(job.Output); format != "png" && format != "jpg" && format != "webp" {
			return fmt.Errorf("jobs[%d].output has unsupported format %q", i, format)
		}
		for j, p := range job.Placements {
			if p.Image == "" {
				return fmt.Errorf("jobs[%d].placements[%d].image cannot be empty", i, j)
			}
			if _, err := layout.Resolve(p, layout.DefaultDefaults()); err != nil {
				return fmt.Errorf("jobs[%d].placements[%d]: %w", i, j, err)
			}
		}
	}

	return nil
}

// Compositor converts the configuration into compositor settings.
// Call Validate first; invalid colors and filters fall back to defaults.
func (c *Config) Compositor() compositor.Config {
	cc := compositor.DefaultConfig()
	cc.Defaults = layout.Defaults{
		RelativeBorderWidth:  c.Frame.RelativeBorderWidth,
		RelativeCornerRadius: c.Frame.RelativeCornerRadius,
	}
	if col, err := ParseColor(c.Frame.BorderColor); err == nil {
		cc.BorderColor = col
	}
	if f, ok := filters[strings.ToLower(c.Frame.Filter)]; ok {
		cc.Filter = f
	}
	cc.Quality = c.Output.Quality
	cc.Lossless = c.Output.Lossless
	return cc
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA"
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	c := color.NRGBA{A: 255}
	var err error
	switch len(hex) {
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./appshot.json"
	}
	return filepath.Join(home, ".config", "appshot", "config.json")
}
