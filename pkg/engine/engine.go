// Package engine is the in-process 3D engine the batch runner drives: it owns the
// current scene, imports model files into it and renders it from the active camera.
package engine

import (
	"fmt"
	"time"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/framing"
	"github.com/df07/go-model-thumbnailer/pkg/integrator"
	"github.com/df07/go-model-thumbnailer/pkg/loaders"
	"github.com/df07/go-model-thumbnailer/pkg/renderer"
	"github.com/df07/go-model-thumbnailer/pkg/scene"
)

// Engine holds exactly one scene at a time. It is not safe for concurrent use.
type Engine struct {
	policy scene.SetupPolicy
	logger core.Logger
	scene  *scene.Scene
}

// New creates an engine that configures every scene with policy
func New(policy scene.SetupPolicy, logger core.Logger) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid setup policy: %w", err)
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	e := &Engine{policy: policy, logger: logger}
	e.Reset()
	return e, nil
}

// Reset discards the current scene and starts a fresh one from the policy
func (e *Engine) Reset() {
	e.scene = e.policy.Apply()
}

// Import adds every object in path to the current scene
func (e *Engine) Import(path string) error {
	objects, err := loaders.Load(path, e.logger)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		e.scene.AddObject(obj)
	}
	return nil
}

// MeshObjects returns the current scene's objects that carry triangles
func (e *Engine) MeshObjects() []framing.MeshHandle {
	meshes := e.scene.MeshObjects()
	handles := make([]framing.MeshHandle, len(meshes))
	for i, mesh := range meshes {
		handles[i] = mesh
	}
	return handles
}

// ApplyCamera points the active camera using pose
func (e *Engine) ApplyCamera(pose framing.CameraPose) {
	e.scene.SetCamera(pose)
}

// RenderActiveCameraTo renders the current scene and writes a PNG to path
func (e *Engine) RenderActiveCameraTo(path string) error {
	start := time.Now()

	if err := e.scene.Preprocess(); err != nil {
		return fmt.Errorf("failed to prepare scene: %w", err)
	}

	raytracer := renderer.NewRaytracer(e.scene, integrator.NewPathTracingIntegrator(e.scene.SamplingConfig), e.logger)
	img, stats, err := raytracer.Render()
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	stats.RenderTime = time.Since(start)
	e.logger.Printf("🎨 Rendered %d triangles at %.1f samples/pixel in %v\n",
		stats.Primitives, stats.AverageSamples, stats.RenderTime)

	if err := renderer.SavePNG(img, path); err != nil {
		return err
	}
	return nil
}
