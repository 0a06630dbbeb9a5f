package framing

import (
	"math"

	"github.com/df07/go-model-thumbnailer/pkg/core"
)

const (
	// DefaultMargin multiplies the largest box dimension to get the camera offset.
	// It is an empirical safety factor, not derived from the lens: at 50mm on a 36mm
	// sensor it leaves the box's bounding sphere just inside the frustum.
	DefaultMargin = 1.5

	// DefaultFocalLengthMm is the fixed standard lens used for every asset
	DefaultFocalLengthMm = 50.0

	// DefaultMinExtent replaces a zero largest dimension (a point or coincident geometry)
	DefaultMinExtent = 1e-3
)

// WorldUp is the vertical axis the camera keeps its roll aligned to
var WorldUp = core.NewVec3(0, 0, 1)

// CameraPose fully describes where the preview camera sits and what it sees.
type CameraPose struct {
	Position      core.Vec3 // Camera location in world space
	LookDirection core.Vec3 // Unit vector from Position toward the framed center
	FocalLengthMm float64   // Lens focal length in millimetres
}

// Target returns the point the pose was aimed at, distance units along LookDirection
func (p CameraPose) Target(distance float64) core.Vec3 {
	return p.Position.Add(p.LookDirection.Multiply(distance))
}

// Orientation returns a roll-free orthonormal camera basis using track-to semantics:
// forward points along LookDirection and up stays as close to WorldUp as forward allows.
// When forward is parallel to WorldUp, +Y is used as the up reference instead.
func (p CameraPose) Orientation() (right, up, forward core.Vec3) {
	forward = p.LookDirection.Normalize()

	reference := WorldUp
	if math.Abs(forward.Dot(reference)) > 1-1e-9 {
		reference = core.NewVec3(0, 1, 0)
	}

	right = forward.Cross(reference).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// Planner derives a CameraPose from a bounding box.
// The zero value is not useful; start from DefaultPlanner.
type Planner struct {
	Margin        float64 // Offset distance as a multiple of the largest box dimension
	FocalLengthMm float64 // Fixed lens, never adapted to distance or size
	MinExtent     float64 // Substitute for a zero largest dimension
}

// DefaultPlanner returns the planner used for every preview
func DefaultPlanner() Planner {
	return Planner{
		Margin:        DefaultMargin,
		FocalLengthMm: DefaultFocalLengthMm,
		MinExtent:     DefaultMinExtent,
	}
}

// PlanCamera plans a pose for box with the default planner
func PlanCamera(box core.AABB) CameraPose {
	return DefaultPlanner().Plan(box)
}

// Distance returns the per-axis camera offset used for box.
// box must be finite; importers reject NaN and infinite coordinates.
func (pl Planner) Distance(box core.AABB) float64 {
	maxDim := box.Size().MaxComponent()
	if maxDim <= 0 {
		maxDim = pl.MinExtent
	}
	return maxDim * pl.Margin
}

// Plan places the camera on the fixed (+d, -d, +d) diagonal from the box center,
// where d scales with the largest box dimension and the lens stays fixed.
// The same viewing angle is used for every asset regardless of its own principal axes;
// a long object lying along that diagonal can render smaller than it needs to.
func (pl Planner) Plan(box core.AABB) CameraPose {
	center := box.Center()
	distance := pl.Distance(box)

	position := center.Add(core.NewVec3(distance, -distance, distance))
	lookDirection := center.Subtract(position).Normalize()

	return CameraPose{
		Position:      position,
		LookDirection: lookDirection,
		FocalLengthMm: pl.FocalLengthMm,
	}
}
