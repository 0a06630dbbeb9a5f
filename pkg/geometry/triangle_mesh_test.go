package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/material"
)

// quadVertices is a unit square in the XY plane split into 2 triangles
var quadVertices = []core.Vec3{
	core.NewVec3(0, 0, 0), // 0
	core.NewVec3(1, 0, 0), // 1
	core.NewVec3(1, 1, 0), // 2
	core.NewVec3(0, 1, 0), // 3
}

var quadFaces = []int{
	0, 1, 2, // first triangle
	0, 2, 3, // second triangle
}

func TestTriangleMesh_Creation(t *testing.T) {
	mesh, err := NewTriangleMesh(quadVertices, quadFaces, core.Identity(), gray)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if mesh.GetTriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.GetTriangleCount())
	}

	bbox := mesh.BoundingBox()
	const tolerance = 1e-9
	if bbox.Min.Subtract(core.NewVec3(0, 0, 0)).Length() > tolerance {
		t.Errorf("Expected min (0,0,0), got %v", bbox.Min)
	}
	if bbox.Max.Subtract(core.NewVec3(1, 1, 0)).Length() > tolerance {
		t.Errorf("Expected max (1,1,0), got %v", bbox.Max)
	}
}

func TestTriangleMesh_AppliesTransform(t *testing.T) {
	transform := core.NewTranslation(core.NewVec3(10, 0, 5)).Mul(core.NewScale(core.NewVec3(2, 2, 2)))
	mesh, err := NewTriangleMesh(quadVertices, quadFaces, transform, gray)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	bbox := mesh.BoundingBox()
	if bbox.Min != core.NewVec3(10, 0, 5) || bbox.Max != core.NewVec3(12, 2, 5) {
		t.Errorf("Expected world bounds (10,0,5)-(12,2,5), got %v", bbox)
	}

	ray := core.NewRay(core.NewVec3(11, 1, 10), core.NewVec3(0, 0, -1))
	hit, isHit := mesh.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected ray to hit transformed mesh")
	}
	if math.Abs(hit.T-5) > 1e-9 {
		t.Errorf("Expected t=5, got %f", hit.T)
	}
	if hit.Material != material.Material(gray) {
		t.Error("Expected hit to carry the mesh material")
	}
}

func TestTriangleMesh_Hit(t *testing.T) {
	mesh, err := NewTriangleMesh(quadVertices, quadFaces, core.Identity(), gray)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
	}{
		{"Hits first triangle", core.NewRay(core.NewVec3(0.75, 0.25, 1), core.NewVec3(0, 0, -1)), true},
		{"Hits second triangle", core.NewRay(core.NewVec3(0.25, 0.75, 1), core.NewVec3(0, 0, -1)), true},
		{"Misses mesh", core.NewRay(core.NewVec3(2, 2, 1), core.NewVec3(0, 0, -1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, isHit := mesh.Hit(tt.ray, 0.001, 10)
			if isHit != tt.shouldHit {
				t.Errorf("Expected hit=%v, got %v", tt.shouldHit, isHit)
			}
		})
	}
}

func TestTriangleMesh_ErrorHandling(t *testing.T) {
	if _, err := NewTriangleMesh(quadVertices, []int{0, 1}, core.Identity(), gray); err == nil {
		t.Error("Expected error for face count not a multiple of 3")
	}
	if _, err := NewTriangleMesh(quadVertices, []int{0, 1, 9}, core.Identity(), gray); err == nil {
		t.Error("Expected error for out of range index")
	}
	if _, err := NewTriangleMesh(quadVertices, []int{0, -1, 2}, core.Identity(), gray); err == nil {
		t.Error("Expected error for negative index")
	}
}

func TestTriangleMesh_DropsDegenerateTriangles(t *testing.T) {
	faces := []int{0, 1, 2, 0, 0, 1}
	mesh, err := NewTriangleMesh(quadVertices, faces, core.Identity(), gray)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if mesh.GetTriangleCount() != 1 {
		t.Errorf("Expected degenerate triangle to be dropped, got %d triangles", mesh.GetTriangleCount())
	}
}
