package scene

import (
	"fmt"
	"runtime"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/framing"
)

// RigLight is one area light of the studio rig, in rig units.
// Rig units are scaled to the framed geometry when the scene is preprocessed.
type RigLight struct {
	Name     string
	Position core.Vec3 // Relative to the geometry center
	Power    float64   // Watts
	Size     float64   // Edge length of the square emitter
}

// SetupPolicy is the fixed per-file scene configuration.
// It is applied to a fresh scene before every import.
type SetupPolicy struct {
	Size            int     // Output is Size x Size pixels
	SamplesPerPixel int     // Fixed sample count per pixel
	MaxDepth        int     // Maximum ray bounce depth
	TileSize        int     // Tile edge length for parallel rendering
	Workers         int     // Render goroutines, 0 means runtime.NumCPU()
	Seed            int64   // Base seed for per-tile random generators
	RayEpsilon      float64 // Self-intersection offset relative to scene radius

	Background      core.Vec3 // Constant dark world color, also lights the scene
	UniformMaterial bool      // Override every mesh material with Albedo
	Albedo          core.Vec3 // Neutral gray used for uniform and fallback materials

	DefaultCameraPosition core.Vec3 // Camera before framing
	DefaultCameraLookAt   core.Vec3
	FocalLengthMm         float64

	Lights []RigLight
}

// DefaultSetupPolicy returns the studio setup: 512px square, three-point
// area lighting, dark neutral background and a uniform gray material
func DefaultSetupPolicy() SetupPolicy {
	return SetupPolicy{
		Size:            512,
		SamplesPerPixel: 32,
		MaxDepth:        4,
		TileSize:        32,
		Workers:         0,
		Seed:            42,
		RayEpsilon:      1e-6,

		Background:      core.NewVec3(0.05, 0.05, 0.05),
		UniformMaterial: true,
		Albedo:          core.NewVec3(0.4, 0.4, 0.4),

		DefaultCameraPosition: core.NewVec3(0, -10, 0),
		DefaultCameraLookAt:   core.NewVec3(0, 0, 0),
		FocalLengthMm:         50,

		Lights: []RigLight{
			{Name: "Key_Light", Position: core.NewVec3(5, -5, 5), Power: 500, Size: 1},
			{Name: "Fill_Light", Position: core.NewVec3(-5, -3, 3), Power: 250, Size: 1},
			{Name: "Back_Light", Position: core.NewVec3(0, 6, 4), Power: 300, Size: 1},
		},
	}
}

// Validate checks that the policy can produce a renderable scene
func (p SetupPolicy) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d", p.Size)
	}
	if p.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", p.SamplesPerPixel)
	}
	if p.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", p.MaxDepth)
	}
	if p.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", p.TileSize)
	}
	if p.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", p.Workers)
	}
	if p.FocalLengthMm <= 0 {
		return fmt.Errorf("focal length must be positive, got %f", p.FocalLengthMm)
	}
	for _, light := range p.Lights {
		if light.Power < 0 || light.Size <= 0 {
			return fmt.Errorf("light %q needs non-negative power and positive size", light.Name)
		}
	}
	return nil
}

// Apply builds a brand new scene configured by the policy.
// Nothing from any previous scene is reachable from the result.
func (p SetupPolicy) Apply() *Scene {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	policy := p
	policy.Lights = append([]RigLight(nil), p.Lights...)

	s := &Scene{
		Objects:    make([]*Object, 0),
		Background: p.Background,
		SamplingConfig: SamplingConfig{
			Width:           p.Size,
			Height:          p.Size,
			SamplesPerPixel: p.SamplesPerPixel,
			MaxDepth:        p.MaxDepth,
			TileSize:        p.TileSize,
			Workers:         workers,
			Seed:            p.Seed,
			RayEpsilon:      p.RayEpsilon,
		},
		policy: policy,
	}
	s.SetCamera(framing.CameraPose{
		Position:      p.DefaultCameraPosition,
		LookDirection: p.DefaultCameraLookAt.Subtract(p.DefaultCameraPosition).Normalize(),
		FocalLengthMm: p.FocalLengthMm,
	})
	return s
}
