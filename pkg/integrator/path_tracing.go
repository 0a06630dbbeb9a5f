package integrator

import (
	"math"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/lights"
	"github.com/df07/go-model-thumbnailer/pkg/material"
	"github.com/df07/go-model-thumbnailer/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with next event estimation.
// Area lights are reached only through light sampling; escaped rays pick up the
// constant background, which acts as a dim ambient environment.
type PathTracingIntegrator struct {
	config scene.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.rayColor(ray, s, sampler, pt.config.MaxDepth, pt.rayEpsilon(s))
}

// rayEpsilon scales the self-intersection offset with the scene so tiny and huge assets both work
func (pt *PathTracingIntegrator) rayEpsilon(s *scene.Scene) float64 {
	epsilon := pt.config.RayEpsilon
	if epsilon <= 0 {
		epsilon = 1e-6
	}
	if s.BVH != nil && s.BVH.Radius > 0 {
		return epsilon * s.BVH.Radius
	}
	return epsilon
}

// rayColor recursively traces a ray with depth remaining bounces
func (pt *PathTracingIntegrator) rayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler, depth int, epsilon float64) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	if s.BVH == nil {
		return s.Background
	}
	hit, isHit := s.BVH.Hit(ray, epsilon, math.Inf(1))
	if !isHit {
		return s.Background
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		// Material absorbed the ray
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	directLight := pt.calculateDirectLighting(s, ray, hit, sampler, epsilon)
	indirectLight := pt.calculateIndirectLighting(s, scatter, hit, sampler, depth, epsilon)
	return directLight.Add(indirectLight)
}

// calculateDirectLighting samples one light and tests visibility with a shadow ray
func (pt *PathTracingIntegrator) calculateDirectLighting(s *scene.Scene, ray core.Ray, hit *material.HitRecord, sampler core.Sampler, epsilon float64) core.Vec3 {
	lightSample, hasLight := lights.SampleLight(s.LightSampler, hit.Point, hit.Normal, sampler)
	if !hasLight || lightSample.PDF <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	// Calculate the cosine factor
	cosine := lightSample.Direction.Dot(hit.Normal)
	if cosine <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0} // Light is behind the surface
	}

	// Check if light is visible (shadow ray)
	shadowRay := core.NewRay(hit.Point, lightSample.Direction)
	if _, blocked := s.BVH.Hit(shadowRay, epsilon, lightSample.Distance-epsilon); blocked {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	brdf := hit.Material.EvaluateBRDF(ray.Direction.Negate(), lightSample.Direction, hit.Normal)

	// Lights are invisible to BRDF sampling, so light sampling carries the full weight
	return brdf.MultiplyVec(lightSample.Emission).Multiply(cosine / lightSample.PDF)
}

// calculateIndirectLighting continues the path along the sampled scatter direction
func (pt *PathTracingIntegrator) calculateIndirectLighting(s *scene.Scene, scatter material.ScatterResult, hit *material.HitRecord, sampler core.Sampler, depth int, epsilon float64) core.Vec3 {
	if scatter.IsSpecular() {
		return scatter.Attenuation.MultiplyVec(pt.rayColor(scatter.Scattered, s, sampler, depth-1, epsilon))
	}

	scatterDirection := scatter.Scattered.Direction.Normalize()
	cosine := scatterDirection.Dot(hit.Normal)
	if cosine <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	// Monte Carlo estimator: (BRDF * incomingLight * cosine) / PDF
	incomingLight := pt.rayColor(scatter.Scattered, s, sampler, depth-1, epsilon)
	return scatter.Attenuation.Multiply(cosine / scatter.PDF).MultiplyVec(incomingLight)
}
