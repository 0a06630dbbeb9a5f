package geometry

import (
	"fmt"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/material"
)

// TriangleMesh represents a collection of triangles with efficient ray intersection
// It uses an internal BVH (Bounding Volume Hierarchy) for fast intersection tests
type TriangleMesh struct {
	triangles []Shape           // Individual triangles as shapes
	bvh       *BVH              // BVH for fast intersection
	material  material.Material // Material shared by all triangles
}

// NewTriangleMesh creates a world-space triangle mesh.
// vertices are in local space and are moved into world space with transform;
// faces holds triangle indices, three per triangle.
// Triangles with zero area are dropped since they can never be hit.
func NewTriangleMesh(vertices []core.Vec3, faces []int, transform core.Mat4, mat material.Material) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(faces))
	}

	worldVertices := make([]core.Vec3, len(vertices))
	for i, vertex := range vertices {
		worldVertices[i] = transform.MulPoint(vertex)
	}

	numTriangles := len(faces) / 3
	triangles := make([]Shape, 0, numTriangles)

	for i := 0; i < numTriangles; i++ {
		i0 := faces[i*3]
		i1 := faces[i*3+1]
		i2 := faces[i*3+2]

		// Bounds check
		if i0 >= len(worldVertices) || i1 >= len(worldVertices) || i2 >= len(worldVertices) ||
			i0 < 0 || i1 < 0 || i2 < 0 {
			return nil, fmt.Errorf("face %d index out of bounds (%d vertices)", i, len(worldVertices))
		}

		v0, v1, v2 := worldVertices[i0], worldVertices[i1], worldVertices[i2]
		if v1.Subtract(v0).Cross(v2.Subtract(v0)).LengthSquared() == 0 {
			continue
		}
		triangles = append(triangles, NewTriangle(v0, v1, v2, mat))
	}

	return &TriangleMesh{
		triangles: triangles,
		bvh:       NewBVH(triangles),
		material:  mat,
	}, nil
}

// Hit tests if a ray intersects with any triangle in the mesh
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	// Use the BVH for fast intersection
	return tm.bvh.Hit(ray, tMin, tMax)
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bvh.BoundingBox()
}

// GetTriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) GetTriangleCount() int {
	return len(tm.triangles)
}
