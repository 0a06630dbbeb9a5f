package scene

import (
	"fmt"
	"math"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/framing"
	"github.com/df07/go-model-thumbnailer/pkg/geometry"
	"github.com/df07/go-model-thumbnailer/pkg/lights"
	"github.com/df07/go-model-thumbnailer/pkg/material"
)

// rigReferenceRadius is the bounding radius the light rig positions are authored for:
// a 2 unit cube centered at the origin
var rigReferenceRadius = math.Sqrt(3)

// Scene contains all the elements needed for rendering
type Scene struct {
	Objects        []*Object             // Imported objects, meshes and empties
	Camera         *geometry.Camera      // Active camera
	CameraConfig   geometry.CameraConfig // Settings the active camera was built from
	Shapes         []geometry.Shape      // Renderable geometry, built by Preprocess
	Lights         []lights.Light        // Area lights, built by Preprocess
	LightSampler   lights.LightSampler   // Light sampler
	Background     core.Vec3             // Constant world color
	SamplingConfig SamplingConfig
	BVH            *geometry.BVH // Acceleration structure for ray-object intersection

	policy SetupPolicy
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int     // Image width
	Height          int     // Image height
	SamplesPerPixel int     // Number of rays per pixel
	MaxDepth        int     // Maximum ray bounce depth
	TileSize        int     // Tile edge length in pixels
	Workers         int     // Number of render goroutines
	Seed            int64   // Base seed for deterministic tiles
	RayEpsilon      float64 // Self-intersection offset relative to scene radius
}

// AddObject appends an imported object to the scene
func (s *Scene) AddObject(obj *Object) {
	s.Objects = append(s.Objects, obj)
}

// MeshObjects returns the objects that carry triangles, in import order
func (s *Scene) MeshObjects() []*Object {
	meshes := make([]*Object, 0, len(s.Objects))
	for _, obj := range s.Objects {
		if obj.IsMesh() {
			meshes = append(meshes, obj)
		}
	}
	return meshes
}

// SetCamera points the active camera using a planned pose. The camera basis is
// the pose's track-to orientation, so the image is never rolled off world up.
func (s *Scene) SetCamera(pose framing.CameraPose) {
	aspectRatio := float64(s.SamplingConfig.Width) / float64(max(1, s.SamplingConfig.Height))
	right, up, forward := pose.Orientation()
	s.CameraConfig = geometry.CameraConfig{
		Center:      pose.Position,
		Right:       right,
		Up:          up,
		Forward:     forward,
		Width:       s.SamplingConfig.Width,
		AspectRatio: aspectRatio,
		VFov:        geometry.FocalLengthToVFov(pose.FocalLengthMm, geometry.SensorWidthMm, aspectRatio),
	}
	s.Camera = geometry.NewCamera(s.CameraConfig)
}

// Preprocess prepares the scene for rendering: builds triangle meshes,
// the BVH, and the light rig scaled to the geometry
func (s *Scene) Preprocess() error {
	s.Shapes = s.Shapes[:0]
	for _, obj := range s.MeshObjects() {
		mesh, err := geometry.NewTriangleMesh(obj.Vertices, obj.Faces, obj.Transform, s.materialFor(obj))
		if err != nil {
			return fmt.Errorf("object %q: %w", obj.Name, err)
		}
		if mesh.GetTriangleCount() > 0 {
			s.Shapes = append(s.Shapes, mesh)
		}
	}

	// Create the BVH
	s.BVH = geometry.NewBVH(s.Shapes)

	s.Lights = s.buildLightRig()
	s.LightSampler = lights.NewPowerLightSampler(s.Lights)

	return nil
}

// materialFor picks the uniform gray, or the importer color when the policy allows it
func (s *Scene) materialFor(obj *Object) material.Material {
	if !s.policy.UniformMaterial && obj.Color != nil {
		return material.NewLambertian(*obj.Color)
	}
	return material.NewLambertian(s.policy.Albedo)
}

// buildLightRig places the rig around the BVH center, scaled so the lighting
// looks the same for any asset size. Radiance is computed in rig units and is
// therefore unchanged by the scaling.
func (s *Scene) buildLightRig() []lights.Light {
	center := core.Vec3{}
	scale := 1.0
	if s.BVH != nil && s.BVH.Radius > 0 {
		center = s.BVH.Center
		scale = s.BVH.Radius / rigReferenceRadius
	}

	rig := make([]lights.Light, 0, len(s.policy.Lights))
	for _, rl := range s.policy.Lights {
		size := rl.Size * scale
		lightCenter := center.Add(rl.Position.Multiply(scale))

		// U × V = -Z, so the quad emits downward
		u := core.NewVec3(0, size, 0)
		v := core.NewVec3(size, 0, 0)
		corner := lightCenter.Subtract(u.Multiply(0.5)).Subtract(v.Multiply(0.5))

		radiance := lights.RadianceForPower(rl.Power, rl.Size*rl.Size, core.NewVec3(1, 1, 1))
		rig = append(rig, lights.NewQuadLight(corner, u, v, radiance))
	}
	return rig
}

// GetPrimitiveCount returns the total number of triangles in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		if mesh, ok := shape.(*geometry.TriangleMesh); ok {
			count += mesh.GetTriangleCount()
		} else {
			count++
		}
	}
	return count
}
