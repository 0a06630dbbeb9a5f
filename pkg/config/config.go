// Package config holds the user-tunable settings of a thumbnail run and converts
// them into the scene setup policy and camera planner.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/df07/go-model-thumbnailer/pkg/batch"
	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/framing"
	"github.com/df07/go-model-thumbnailer/pkg/scene"
)

// maxFileSize bounds config files read from disk
const maxFileSize = 1 * 1024 * 1024 // 1MB

// LightConfig is one rig light in JSON form
type LightConfig struct {
	Name     string     `json:"name"`
	Position [3]float64 `json:"position"`
	Power    float64    `json:"power"`
	Size     float64    `json:"size"`
}

// Config is the complete run configuration. Zero fields never mean "default";
// start from Default and overlay.
type Config struct {
	Size            int           `json:"size"`
	SamplesPerPixel int           `json:"samples_per_pixel"`
	MaxDepth        int           `json:"max_depth"`
	TileSize        int           `json:"tile_size"`
	Workers         int           `json:"workers"` // 0 means one per CPU
	Seed            int64         `json:"seed"`
	Margin          float64       `json:"margin"`
	FocalLengthMm   float64       `json:"focal_length_mm"`
	Extensions      []string      `json:"extensions"`
	UniformMaterial bool          `json:"uniform_material"`
	Albedo          float64       `json:"albedo"`     // Gray level of the uniform material
	Background      float64       `json:"background"` // Gray level of the world color
	Lights          []LightConfig `json:"lights"`
}

// Default returns the configuration that reproduces the standard studio setup
func Default() *Config {
	policy := scene.DefaultSetupPolicy()
	planner := framing.DefaultPlanner()

	lights := make([]LightConfig, len(policy.Lights))
	for i, l := range policy.Lights {
		lights[i] = LightConfig{
			Name:     l.Name,
			Position: [3]float64{l.Position.X, l.Position.Y, l.Position.Z},
			Power:    l.Power,
			Size:     l.Size,
		}
	}

	return &Config{
		Size:            policy.Size,
		SamplesPerPixel: policy.SamplesPerPixel,
		MaxDepth:        policy.MaxDepth,
		TileSize:        policy.TileSize,
		Workers:         policy.Workers,
		Seed:            policy.Seed,
		Margin:          planner.Margin,
		FocalLengthMm:   planner.FocalLengthMm,
		Extensions:      append([]string(nil), batch.DefaultExtensions...),
		UniformMaterial: policy.UniformMaterial,
		Albedo:          policy.Albedo.X,
		Background:      policy.Background.X,
		Lights:          lights,
	}
}

// Load reads a JSON config file and overlays it on the defaults.
// Fields missing from the file keep their default values.
func Load(path string) (*Config, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every field for a usable value
func (c *Config) Validate() error {
	if c.Margin <= 0 {
		return fmt.Errorf("margin must be positive, got %g", c.Margin)
	}
	if len(batch.NormalizeExtensions(c.Extensions)) == 0 {
		return fmt.Errorf("at least one file extension is required")
	}
	if c.Albedo < 0 || c.Albedo > 1 {
		return fmt.Errorf("albedo must be in [0,1], got %g", c.Albedo)
	}
	if c.Background < 0 {
		return fmt.Errorf("background must not be negative, got %g", c.Background)
	}
	return c.SetupPolicy().Validate()
}

// SetupPolicy converts the configuration into the per-file scene policy
func (c *Config) SetupPolicy() scene.SetupPolicy {
	policy := scene.DefaultSetupPolicy()
	policy.Size = c.Size
	policy.SamplesPerPixel = c.SamplesPerPixel
	policy.MaxDepth = c.MaxDepth
	policy.TileSize = c.TileSize
	policy.Workers = c.Workers
	policy.Seed = c.Seed
	policy.FocalLengthMm = c.FocalLengthMm
	policy.UniformMaterial = c.UniformMaterial
	policy.Albedo = core.NewVec3(c.Albedo, c.Albedo, c.Albedo)
	policy.Background = core.NewVec3(c.Background, c.Background, c.Background)

	policy.Lights = make([]scene.RigLight, len(c.Lights))
	for i, l := range c.Lights {
		policy.Lights[i] = scene.RigLight{
			Name:     l.Name,
			Position: core.NewVec3(l.Position[0], l.Position[1], l.Position[2]),
			Power:    l.Power,
			Size:     l.Size,
		}
	}
	return policy
}

// Planner converts the configuration into the camera planner
func (c *Config) Planner() framing.Planner {
	planner := framing.DefaultPlanner()
	planner.Margin = c.Margin
	planner.FocalLengthMm = c.FocalLengthMm
	return planner
}
