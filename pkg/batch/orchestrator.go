// Package batch drives the per-file thumbnail pipeline over a list of model files.
package batch

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/framing"
)

// Engine is the 3D engine the orchestrator drives. One scene is current at a time.
type Engine interface {
	// Reset discards the current scene and applies the setup policy to a fresh one
	Reset()
	// Import loads a model file into the current scene
	Import(path string) error
	// MeshObjects returns the current scene's objects that carry triangles
	MeshObjects() []framing.MeshHandle
	// ApplyCamera points the active camera using pose
	ApplyCamera(pose framing.CameraPose)
	// RenderActiveCameraTo renders the current scene to a PNG at path
	RenderActiveCameraTo(path string) error
}

// Orchestrator processes files strictly one at a time. Failures are recorded
// and skipped; nothing but the summary survives from one file to the next.
type Orchestrator struct {
	Engine   Engine
	Planner  framing.Planner
	Logger   core.Logger
	OnStart  func(total int)     // Optional, called once before the first file
	OnResult func(ProcessResult) // Optional, called after every file
}

// NewOrchestrator creates an orchestrator with the default planner
func NewOrchestrator(engine Engine, logger core.Logger) *Orchestrator {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Orchestrator{
		Engine:  engine,
		Planner: framing.DefaultPlanner(),
		Logger:  logger,
	}
}

// RunDirectory discovers model files under root and processes them.
// An empty discovery is not an error: it is logged and the summary has Total 0.
func (o *Orchestrator) RunDirectory(root string, exts []string) (Summary, error) {
	files, err := Discover(root, exts)
	if err != nil {
		return Summary{}, err
	}
	if len(files) == 0 {
		o.Logger.Printf("No model files found in %s\n", root)
		return Summary{}, nil
	}
	return o.Run(files), nil
}

// Run processes every file in order and returns the aggregate summary
func (o *Orchestrator) Run(files []string) Summary {
	summary := Summary{
		RunID: uuid.New().String(),
		Total: len(files),
	}

	o.Logger.Printf("Found %d model files to process (run %s)\n", len(files), summary.RunID[:8])
	if o.OnStart != nil {
		o.OnStart(len(files))
	}

	for _, file := range files {
		result := o.ProcessFile(file)
		summary.record(result)
		if o.OnResult != nil {
			o.OnResult(result)
		}
	}

	o.Logger.Printf("Processed %d of %d model files successfully\n", summary.Succeeded, summary.Total)
	if summary.Failed() > 0 {
		o.Logger.Printf("  %d import failed, %d without geometry, %d output failed\n",
			summary.ImportFailed, summary.NoGeometry, summary.OutputFailed)
	}
	if summary.Succeeded > 0 {
		mean, stdDev, maxTime := summary.TimingStats()
		o.Logger.Printf("  Render time per file: mean %.2fs, stddev %.2fs, max %.2fs\n", mean, stdDev, maxTime)
	}
	return summary
}

// ProcessFile runs the full pipeline for one file on a freshly reset scene
func (o *Orchestrator) ProcessFile(path string) ProcessResult {
	start := time.Now()
	result := ProcessResult{Path: path}
	finish := func(outcome Outcome, err error) ProcessResult {
		result.Outcome = outcome
		result.Err = err
		result.Elapsed = time.Since(start)
		return result
	}

	o.Logger.Printf("Processing: %s\n", path)

	// 1. Fresh scene
	o.Engine.Reset()

	// 2. Import
	if err := o.Engine.Import(path); err != nil {
		o.Logger.Printf("Failed to import %s: %v. Skipping...\n", path, err)
		return finish(ImportFailed, err)
	}

	// 3. Frame the mesh objects only
	meshes := o.Engine.MeshObjects()
	bounds, ok := framing.ComputeWorldBounds(meshes)
	if !ok {
		o.Logger.Printf("No mesh objects found in %s. Skipping...\n", path)
		return finish(NoGeometryFound, nil)
	}
	pose := o.Planner.Plan(bounds)
	o.Engine.ApplyCamera(pose)

	// 4. Output beside the source file
	outputPath, err := OutputPathFor(path)
	if err != nil {
		o.Logger.Printf("Failed to resolve output path for %s: %v\n", path, err)
		return finish(OutputFailed, err)
	}
	result.OutputPath = outputPath
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		o.Logger.Printf("Failed to create output directory for %s: %v\n", path, err)
		return finish(OutputFailed, err)
	}

	o.Logger.Printf("Will save thumbnail to: %s\n", outputPath)
	renderStart := time.Now()
	err = o.Engine.RenderActiveCameraTo(outputPath)
	result.RenderTime = time.Since(renderStart)
	if err != nil {
		o.Logger.Printf("Failed to render %s: %v\n", path, err)
		return finish(OutputFailed, err)
	}

	o.Logger.Printf("Thumbnail saved to: %s\n", outputPath)
	return finish(Succeeded, nil)
}
