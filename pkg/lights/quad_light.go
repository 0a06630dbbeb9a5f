package lights

import (
	"math"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/geometry"
)

// QuadLight represents a one-sided rectangular area light.
// It emits from the side its normal (U × V) points to and is never hit by camera rays.
type QuadLight struct {
	*geometry.Quad           // Embed quad for geometry
	Area           float64   // Cached area for PDF calculations
	Radiance       core.Vec3 // Emitted radiance, constant over the surface
}

// NewQuadLight creates a new quad light emitting the given radiance
func NewQuadLight(corner, u, v core.Vec3, radiance core.Vec3) *QuadLight {
	return &QuadLight{
		Quad:     geometry.NewQuad(corner, u, v, nil),
		Area:     u.Cross(v).Length(),
		Radiance: radiance,
	}
}

// RadianceForPower converts a light power in watts to the radiance of a
// lambertian emitter of the given area: L = P / (pi * A)
func RadianceForPower(power, area float64, color core.Vec3) core.Vec3 {
	if area <= 0 {
		return core.Vec3{}
	}
	return color.Multiply(power / (math.Pi * area))
}

func (ql *QuadLight) Type() LightType {
	return LightTypeArea
}

// Power returns the emitted power, pi * A * L, using luminance for colored lights
func (ql *QuadLight) Power() float64 {
	return math.Pi * ql.Area * ql.Radiance.Luminance()
}

// Sample implements the Light interface - samples a point on the quad for direct lighting
func (ql *QuadLight) Sample(point core.Vec3, normal core.Vec3, sample core.Vec2) LightSample {
	// Sample uniformly on the quad surface
	samplePoint := ql.Corner.Add(ql.U.Multiply(sample.X)).Add(ql.V.Multiply(sample.Y))

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	if distance == 0 {
		return LightSample{Point: samplePoint, Normal: ql.Normal}
	}
	direction := toLight.Multiply(1.0 / distance)

	// Front face when the direction toward the light opposes its normal
	cosTheta := -ql.Normal.Dot(direction)
	if cosTheta < 1e-8 {
		// Edge-on or behind the emitting side, no contribution
		return LightSample{
			Point:     samplePoint,
			Normal:    ql.Normal,
			Direction: direction,
			Distance:  distance,
		}
	}

	// PDF_solid_angle = PDF_area * distance² / cos(θ)
	solidAnglePDF := (1.0 / ql.Area) * distance * distance / cosTheta

	return LightSample{
		Point:     samplePoint,
		Normal:    ql.Normal,
		Direction: direction,
		Distance:  distance,
		Emission:  ql.Radiance,
		PDF:       solidAnglePDF,
	}
}
