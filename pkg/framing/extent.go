package framing

import (
	"github.com/df07/go-model-thumbnailer/pkg/core"
)

// MeshHandle is the read-only view of one imported mesh object needed for framing.
// Implementations must not change while ComputeWorldBounds is running.
type MeshHandle interface {
	// LocalCorners returns the 8 corners of the mesh's local-space bounding box
	LocalCorners() [8]core.Vec3
	// LocalToWorld returns the transform from local space to world space
	LocalToWorld() core.Mat4
}

// ComputeWorldBounds returns the world-space box enclosing every mesh's local bounding box.
// Each mesh contributes its 8 transformed corners, so the result is a box of boxes and
// can be looser than the true vertex hull under rotation.
// The second return value is false when meshes is empty; the box is then meaningless.
func ComputeWorldBounds(meshes []MeshHandle) (core.AABB, bool) {
	if len(meshes) == 0 {
		return core.AABB{}, false
	}

	bounds := core.EmptyAABB()
	for _, mesh := range meshes {
		toWorld := mesh.LocalToWorld()
		for _, corner := range mesh.LocalCorners() {
			bounds = bounds.Extend(toWorld.MulPoint(corner))
		}
	}

	return bounds, true
}
