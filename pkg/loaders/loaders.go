package loaders

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/scene"
)

var (
	// ErrUnsupportedFormat is returned when no importer handles the file's extension
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrMalformed wraps every parse failure of a recognised format
	ErrMalformed = errors.New("malformed model file")
)

// ImportFunc reads a model file and returns its objects in file order
type ImportFunc func(path string) ([]*scene.Object, error)

var importers = map[string]ImportFunc{
	".ply": importPLY,
	".obj": LoadOBJ,
	".stl": LoadSTL,
	".3mf": Load3MF,
}

// SupportedExtensions returns the lowercase extensions that have an importer, sorted
func SupportedExtensions() []string {
	exts := make([]string, 0, len(importers))
	for ext := range importers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupported reports whether path's extension has an importer.
// A bare extension such as ".obj" is accepted too.
func IsSupported(path string) bool {
	_, ok := importers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load imports path with the importer for its extension and logs a one-line summary
func Load(path string, logger core.Logger) ([]*scene.Object, error) {
	ext := strings.ToLower(filepath.Ext(path))
	importer, ok := importers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	start := time.Now()
	objects, err := importer(path)
	if err != nil {
		return nil, err
	}
	if err := checkFinite(objects); err != nil {
		return nil, err
	}

	vertices, triangles := 0, 0
	for _, obj := range objects {
		vertices += len(obj.Vertices)
		triangles += obj.TriangleCount()
	}
	if logger != nil {
		logger.Printf("✅ Loaded %s data: %d objects, %d vertices, %d triangles in %v\n",
			strings.ToUpper(strings.TrimPrefix(ext, ".")), len(objects), vertices, triangles, time.Since(start))
	}
	return objects, nil
}

// checkFinite rejects objects whose vertices or world transform are NaN or infinite.
// Parsers accept "nan" and "inf" as numbers and binary formats can carry them as bit patterns.
func checkFinite(objects []*scene.Object) error {
	for _, obj := range objects {
		for i, v := range obj.Vertices {
			if !v.IsFinite() {
				return fmt.Errorf("%w: object %q vertex %d is not finite: %v", ErrMalformed, obj.Name, i, v)
			}
		}
		for _, corner := range obj.LocalCorners() {
			if !obj.LocalToWorld().MulPoint(corner).IsFinite() {
				return fmt.Errorf("%w: object %q has a non-finite transform", ErrMalformed, obj.Name)
			}
		}
	}
	return nil
}

// importPLY wraps LoadPLY as a single object named after the file
func importPLY(path string) ([]*scene.Object, error) {
	data, err := LoadPLY(path)
	if err != nil {
		return nil, err
	}
	obj := scene.NewMeshObject(objectName(path), data.Vertices, data.Faces, core.Identity())
	obj.Color = data.AverageColor()
	return []*scene.Object{obj}, nil
}

// objectName derives an object name from a file path
func objectName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
