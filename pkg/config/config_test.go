package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/framing"
	"github.com/df07/go-model-thumbnailer/pkg/scene"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_RoundTripsPolicyAndPlanner(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	if diff := cmp.Diff(scene.DefaultSetupPolicy(), cfg.SetupPolicy()); diff != "" {
		t.Errorf("default policy mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, framing.DefaultPlanner(), cfg.Planner())
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, "thumbs.json", `{
		"size": 256,
		"margin": 2.0,
		"uniform_material": false,
		"extensions": ["obj", ".STL"]
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.Size)
	assert.Equal(t, 2.0, cfg.Margin)
	assert.False(t, cfg.UniformMaterial)
	assert.Equal(t, []string{"obj", ".STL"}, cfg.Extensions)

	// Untouched fields keep their defaults
	defaults := Default()
	assert.Equal(t, defaults.SamplesPerPixel, cfg.SamplesPerPixel)
	assert.Equal(t, defaults.Lights, cfg.Lights)

	policy := cfg.SetupPolicy()
	assert.Equal(t, 256, policy.Size)
	assert.False(t, policy.UniformMaterial)
	assert.Equal(t, 2.0, cfg.Planner().Margin)
}

func TestLoad_CustomLights(t *testing.T) {
	path := writeConfig(t, "rig.json", `{"lights": [{"name": "Top", "position": [0, 0, 8], "power": 800, "size": 2}]}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	policy := cfg.SetupPolicy()
	require.Len(t, policy.Lights, 1)
	assert.Equal(t, scene.RigLight{Name: "Top", Position: core.NewVec3(0, 0, 8), Power: 800, Size: 2}, policy.Lights[0])
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"wrong extension", "config.yaml", "size: 1", ".json extension"},
		{"bad json", "bad.json", "{size: }", "failed to parse"},
		{"negative size", "neg.json", `{"size": -1}`, "invalid configuration"},
		{"zero margin", "margin.json", `{"margin": 0}`, "margin"},
		{"no extensions", "ext.json", `{"extensions": []}`, "extension"},
		{"albedo out of range", "albedo.json", `{"albedo": 1.5}`, "albedo"},
		{"bad light", "light.json", `{"lights": [{"name": "x", "power": 10, "size": 0}]}`, "light"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, test.file, test.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.contains)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoad_TooLarge(t *testing.T) {
	big := `{"size": 64, "pad": "` + strings.Repeat("x", maxFileSize) + `"}`
	_, err := Load(writeConfig(t, "big.json", big))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}
