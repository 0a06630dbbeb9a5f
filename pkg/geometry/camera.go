package geometry

import (
	"math"

	"github.com/df07/go-model-thumbnailer/pkg/core"
)

// SensorWidthMm is the horizontal film size used to convert focal lengths to field of view
const SensorWidthMm = 36.0

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Center      core.Vec3 // Camera position
	Right       core.Vec3 // Image +x direction
	Up          core.Vec3 // Image +y direction
	Forward     core.Vec3 // Viewing direction; Right, Up and Forward form an orthonormal basis
	Width       int       // Image width in pixels
	AspectRatio float64   // Width / height
	VFov        float64   // Vertical field of view in degrees
}

// Camera is a pinhole camera that generates primary rays
type Camera struct {
	config          CameraConfig
	origin          core.Vec3
	upperLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	imageHeight     int
}

// FocalLengthToVFov converts a lens focal length to a vertical field of view in degrees
// for the given sensor width and aspect ratio (sensor fit on the horizontal axis)
func FocalLengthToVFov(focalLengthMm, sensorWidthMm, aspectRatio float64) float64 {
	if focalLengthMm <= 0 || aspectRatio <= 0 {
		return 0
	}
	sensorHeight := sensorWidthMm / aspectRatio
	return 2 * math.Atan(sensorHeight/(2*focalLengthMm)) * 180 / math.Pi
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	imageHeight := max(1, int(float64(config.Width)/config.AspectRatio))

	theta := config.VFov * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2)
	viewportWidth := viewportHeight * config.AspectRatio

	// The basis is used as given; callers derive it from a track-to orientation
	w := config.Forward.Normalize().Negate()
	u := config.Right.Normalize()
	v := config.Up.Normalize()

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	upperLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Add(vertical.Multiply(0.5)).
		Subtract(w)

	return &Camera{
		config:          config,
		origin:          config.Center,
		upperLeftCorner: upperLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		imageHeight:     imageHeight,
	}
}

// GetRay generates a ray through pixel (i, j), where j counts rows from the top.
// sample jitters the ray within the pixel.
func (c *Camera) GetRay(i, j int, sample core.Vec2) core.Ray {
	s := (float64(i) + sample.X) / float64(c.config.Width)
	t := (float64(j) + sample.Y) / float64(c.imageHeight)

	target := c.upperLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Subtract(c.vertical.Multiply(t))

	return core.NewRay(c.origin, target.Subtract(c.origin).Normalize())
}

// ImageSize returns the image width and height in pixels
func (c *Camera) ImageSize() (int, int) {
	return c.config.Width, c.imageHeight
}
