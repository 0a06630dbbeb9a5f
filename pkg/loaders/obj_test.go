package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-model-thumbnailer/pkg/core"
)

func TestReadOBJ_Groups(t *testing.T) {
	content := `# two objects sharing nothing
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
o Quad
f 1 2 3 4
v 5 5 5
v 6 5 5
v 5 6 5
o Tri
g TriGroup
f -3/1 -2/2 -1/3
`
	objects, err := ReadOBJ(strings.NewReader(content), "file")
	require.NoError(t, err)
	require.Len(t, objects, 2)

	quad := objects[0]
	assert.Equal(t, "Quad", quad.Name)
	assert.True(t, quad.IsMesh())
	assert.Equal(t, []int{0, 1, 2, 0, 2, 3}, quad.Faces)
	assert.Len(t, quad.Vertices, 4)

	// "o Tri" followed by "g TriGroup" with no faces between is one object
	tri := objects[1]
	assert.Equal(t, "TriGroup", tri.Name)
	assert.Equal(t, []int{0, 1, 2}, tri.Faces)
	require.Len(t, tri.Vertices, 3)
	assert.Equal(t, core.NewVec3(5, 5, 5), tri.Vertices[0])

	corners := tri.LocalCorners()
	assert.Equal(t, core.NewVec3(5, 5, 5), corners[0])
	assert.Equal(t, core.NewVec3(6, 6, 5), corners[7])
}

func TestReadOBJ_DefaultObjectAndFaceForms(t *testing.T) {
	content := `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
vt 0 0
f 1//1 2/1/1 3/1
`
	objects, err := ReadOBJ(strings.NewReader(content), "model")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "model", objects[0].Name)
	assert.Equal(t, 1, objects[0].TriangleCount())
	assert.Nil(t, objects[0].Color)
}

func TestReadOBJ_VertexColors(t *testing.T) {
	content := "v 0 0 0 1 0 0\nv 1 0 0 0 1 0\nv 0 1 0 0 0 1\nf 1 2 3\n"

	objects, err := ReadOBJ(strings.NewReader(content), "colored")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	require.NotNil(t, objects[0].Color)
	assert.InDelta(t, 1.0/3.0, objects[0].Color.X, 1e-9)
	assert.InDelta(t, 1.0/3.0, objects[0].Color.Y, 1e-9)
	assert.InDelta(t, 1.0/3.0, objects[0].Color.Z, 1e-9)
}

func TestReadOBJ_PointsOnly(t *testing.T) {
	objects, err := ReadOBJ(strings.NewReader("v 0 0 0\nv 1 1 1\n"), "cloud")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.False(t, objects[0].IsMesh())
}

func TestReadOBJ_Empty(t *testing.T) {
	objects, err := ReadOBJ(strings.NewReader("# nothing here\n"), "empty")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestReadOBJ_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"short vertex", "v 0 0\n"},
		{"bad vertex", "v 0 x 0\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"negative past start", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -1 -2 -4\n"},
		{"bad index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 two 3\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ReadOBJ(strings.NewReader(test.content), "bad")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "expected ErrMalformed, got %v", err)
		})
	}
}

func TestLoadOBJ_NamesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teapot.obj")
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644))

	objects, err := LoadOBJ(path)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "teapot", objects[0].Name)
}
