package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/integrator"
	"github.com/df07/go-model-thumbnailer/pkg/scene"
)

// Raytracer renders a preprocessed scene in parallel tiles with a fixed sample count
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	width      int
	height     int
	logger     core.Logger
}

// NewRaytracer creates a raytracer for s. The scene must already be preprocessed.
func NewRaytracer(s *scene.Scene, integratorInst integrator.Integrator, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		scene:      s,
		integrator: integratorInst,
		width:      s.SamplingConfig.Width,
		height:     s.SamplingConfig.Height,
		logger:     logger,
	}
}

// Render renders the whole image from the scene's active camera
func (rt *Raytracer) Render() (*image.RGBA, RenderStats, error) {
	config := rt.scene.SamplingConfig
	if rt.width <= 0 || rt.height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("invalid image size %dx%d", rt.width, rt.height)
	}
	if rt.scene.Camera == nil {
		return nil, RenderStats{}, fmt.Errorf("scene has no active camera")
	}

	pixelStats := make([][]PixelStats, rt.height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, rt.width)
	}

	tileSize := max(1, config.TileSize)
	tiles := NewTileGrid(rt.width, rt.height, tileSize, config.Seed)

	pool := NewWorkerPool(NewTileRenderer(rt.scene, rt.integrator), config.Workers, len(tiles))
	pool.Start()

	rt.logger.Printf("Rendering %dx%d at %d spp (%d tiles, %d workers, %d triangles)\n",
		rt.width, rt.height, config.SamplesPerPixel, len(tiles), pool.GetNumWorkers(), rt.scene.GetPrimitiveCount())

	for i, tile := range tiles {
		pool.SubmitTask(TileTask{
			Tile:          tile,
			TargetSamples: config.SamplesPerPixel,
			TaskID:        i,
			PixelStats:    pixelStats,
		})
	}

	// Drain every result before stopping so no worker blocks
	var renderErr error
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			renderErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil && renderErr == nil {
			renderErr = result.Error
		}
	}
	pool.Stop()
	if renderErr != nil {
		return nil, RenderStats{}, renderErr
	}

	img, stats := rt.assembleImage(pixelStats, config.SamplesPerPixel)
	stats.Primitives = rt.scene.GetPrimitiveCount()
	return img, stats, nil
}

// assembleImage converts accumulated pixel stats into an image and overall statistics
func (rt *Raytracer) assembleImage(pixelStats [][]PixelStats, targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))

	stats := RenderStats{
		TotalPixels: rt.width * rt.height,
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples, // Start high, will be reduced
	}

	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			pixel := &pixelStats[y][x]
			img.SetRGBA(x, y, vec3ToColor(pixel.GetColor()))

			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return img, stats
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Clamp first so gamma never sees negative values
	colorVec = colorVec.Clamp(0.0, 1.0)

	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}

// SavePNG encodes img as PNG at path, replacing any existing file
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("error saving PNG: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", path, err)
	}
	return nil
}
