// Package samples builds small demonstration models with signed distance functions
// and writes them in every format the thumbnailer imports.
package samples

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/df07/go-model-thumbnailer/pkg/core"
)

// DefaultMeshCells controls marching cubes resolution along the longest axis
const DefaultMeshCells = 48

// Mesh is an indexed triangle mesh
type Mesh struct {
	Name     string
	Vertices []core.Vec3
	Faces    []int // 3 per triangle
}

// TriangleCount returns the number of triangles
func (m *Mesh) TriangleCount() int {
	return len(m.Faces) / 3
}

// Bounds returns the bounding box of the vertices
func (m *Mesh) Bounds() core.AABB {
	return core.NewAABBFromPoints(m.Vertices...)
}

// Peg is a flat base with a post on top, offset from the origin so framing has to find it
func Peg(cells int) (*Mesh, error) {
	base, err := sdf.Box3D(v3.Vec{X: 4, Y: 3, Z: 0.5}, 0.1)
	if err != nil {
		return nil, fmt.Errorf("peg base: %w", err)
	}
	post, err := sdf.Cylinder3D(3, 0.6, 0.1)
	if err != nil {
		return nil, fmt.Errorf("peg post: %w", err)
	}
	post = sdf.Transform3D(post, sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: 1.5}))

	peg := sdf.Union3D(base, post)
	peg = sdf.Transform3D(peg, sdf.Translate3d(v3.Vec{X: 10, Y: 5, Z: 2}))
	return meshFromSDF("peg", peg, cells), nil
}

// Ball is a small sphere; at this size the tessellation is coarse
func Ball(cells int) (*Mesh, error) {
	ball, err := sdf.Sphere3D(0.05)
	if err != nil {
		return nil, fmt.Errorf("ball: %w", err)
	}
	return meshFromSDF("ball", ball, cells), nil
}

// Bracket is an L-shaped plate, long along X
func Bracket(cells int) (*Mesh, error) {
	plate, err := sdf.Box3D(v3.Vec{X: 40, Y: 6, Z: 1}, 0)
	if err != nil {
		return nil, fmt.Errorf("bracket plate: %w", err)
	}
	flange, err := sdf.Box3D(v3.Vec{X: 1, Y: 6, Z: 10}, 0)
	if err != nil {
		return nil, fmt.Errorf("bracket flange: %w", err)
	}
	flange = sdf.Transform3D(flange, sdf.Translate3d(v3.Vec{X: -19.5, Y: 0, Z: 5}))
	return meshFromSDF("bracket", sdf.Union3D(plate, flange), cells), nil
}

// meshFromSDF tessellates s with uniform marching cubes and welds shared vertices
func meshFromSDF(name string, s sdf.SDF3, cells int) *Mesh {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	mesh := &Mesh{Name: name, Faces: make([]int, 0, len(triangles)*3)}
	index := make(map[[3]float64]int)
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			key := [3]float64{v.X, v.Y, v.Z}
			i, ok := index[key]
			if !ok {
				i = len(mesh.Vertices)
				index[key] = i
				mesh.Vertices = append(mesh.Vertices, core.NewVec3(v.X, v.Y, v.Z))
			}
			mesh.Faces = append(mesh.Faces, i)
		}
	}
	return mesh
}

// Generate writes the demonstration set into dir and returns the written paths.
// Each model goes out in a different format so one batch exercises every importer.
func Generate(dir string, cells int) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	peg, err := Peg(cells)
	if err != nil {
		return nil, err
	}
	ball, err := Ball(cells)
	if err != nil {
		return nil, err
	}
	bracket, err := Bracket(cells)
	if err != nil {
		return nil, err
	}

	outputs := []struct {
		file  string
		mesh  *Mesh
		write func(string, *Mesh) error
	}{
		{"peg.stl", peg, WriteSTL},
		{"ball.ply", ball, WritePLY},
		{"bracket.obj", bracket, WriteOBJ},
		{filepath.Join("print", "peg.3mf"), peg, Write3MF},
	}

	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(dir, out.file)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
		if err := out.write(path, out.mesh); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// faceNormal returns the unit normal of triangle t, or zero when degenerate
func faceNormal(m *Mesh, t int) core.Vec3 {
	a := m.Vertices[m.Faces[t*3]]
	b := m.Vertices[m.Faces[t*3+1]]
	c := m.Vertices[m.Faces[t*3+2]]
	n := b.Subtract(a).Cross(c.Subtract(a))
	if n.Length() == 0 || math.IsNaN(n.Length()) {
		return core.Vec3{}
	}
	return n.Normalize()
}
