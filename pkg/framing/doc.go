// Package framing computes where to put a camera so that imported geometry fills the view.
//
// ComputeWorldBounds folds the local bounding boxes of a set of meshes into one
// world-space axis-aligned box. PlanCamera turns that box into a CameraPose that
// looks at it from a fixed isometric diagonal, far enough back that the whole box
// fits a 50mm lens. Both are pure functions of their input.
package framing
