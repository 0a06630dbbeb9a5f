package batch

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the model formats discovered when none are configured
var DefaultExtensions = []string{".fbx", ".obj", ".ply", ".stl", ".3mf"}

// NormalizeExtensions lowercases extensions and adds a leading dot where missing
func NormalizeExtensions(exts []string) []string {
	normalized := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !seen[ext] {
			seen[ext] = true
			normalized = append(normalized, ext)
		}
	}
	return normalized
}

// Discover walks root recursively and returns every regular file whose extension
// matches one of exts, case-insensitively, in traversal order
func Discover(root string, exts []string) ([]string, error) {
	wanted := make(map[string]bool)
	for _, ext := range NormalizeExtensions(exts) {
		wanted[ext] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if wanted[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return files, nil
}

// OutputPathFor returns the absolute path of the preview for a model file:
// same directory, same base name, .png extension
func OutputPathFor(modelPath string) (string, error) {
	abs, err := filepath.Abs(modelPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", modelPath, err)
	}
	return strings.TrimSuffix(abs, filepath.Ext(abs)) + ".png", nil
}
