package scene

import (
	"github.com/df07/go-model-thumbnailer/pkg/core"
)

// Kind distinguishes objects that carry renderable geometry from the rest
type Kind int

const (
	KindMesh  Kind = iota // Has triangles
	KindEmpty             // Transform only: empties, lights, point clouds
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Object is one imported scene object. Vertices are in object-local space
// and Transform maps them into world space.
type Object struct {
	Name      string
	Kind      Kind
	Vertices  []core.Vec3
	Faces     []int      // Triangle vertex indices, 3 per triangle
	Transform core.Mat4  // Local-to-world
	Color     *core.Vec3 // Importer-provided albedo, nil when the file has none

	bounds core.AABB
}

// NewMeshObject creates a mesh object and caches its local bounding box
func NewMeshObject(name string, vertices []core.Vec3, faces []int, transform core.Mat4) *Object {
	obj := &Object{
		Name:      name,
		Kind:      KindMesh,
		Vertices:  vertices,
		Faces:     faces,
		Transform: transform,
	}
	if len(faces) == 0 {
		obj.Kind = KindEmpty
	}
	if len(vertices) > 0 {
		obj.bounds = core.NewAABBFromPoints(vertices...)
	}
	return obj
}

// IsMesh reports whether the object has renderable triangles
func (o *Object) IsMesh() bool {
	return o.Kind == KindMesh
}

// LocalCorners returns the 8 corners of the local bounding box.
// Objects without vertices report all corners at the local origin.
func (o *Object) LocalCorners() [8]core.Vec3 {
	return o.bounds.Corners()
}

// LocalToWorld returns the object's world transform
func (o *Object) LocalToWorld() core.Mat4 {
	return o.Transform
}

// TriangleCount returns the number of triangles in the object
func (o *Object) TriangleCount() int {
	return len(o.Faces) / 3
}
