package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-model-thumbnailer/pkg/core"
)

func TestLambertian_PDFCalculation(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.8, 0.8)
	lambertian := NewLambertian(albedo)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	// Normal pointing up (z-axis)
	normal := core.NewVec3(0, 0, 1)
	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: normal,
	}
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	// Test that PDF calculation matches expected formula
	for i := 0; i < 100; i++ {
		scatter, didScatter := lambertian.Scatter(ray, hit, sampler)
		if !didScatter {
			t.Fatal("Lambertian should always scatter")
		}

		scatterDirection := scatter.Scattered.Direction.Normalize()
		cosTheta := scatterDirection.Dot(normal)
		expectedPDF := cosTheta / math.Pi
		if math.Abs(scatter.PDF-expectedPDF) > 1e-10 {
			t.Errorf("PDF mismatch: got %f, expected %f", scatter.PDF, expectedPDF)
		}

		pdf, isDelta := lambertian.PDF(ray.Direction, scatterDirection, normal)
		if isDelta {
			t.Error("Lambertian PDF should never be a delta")
		}
		if math.Abs(pdf-expectedPDF) > 1e-10 {
			t.Errorf("PDF() mismatch: got %f, expected %f", pdf, expectedPDF)
		}
	}
}

func TestLambertian_EnergyConservation(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.7, 0.9)
	lambertian := NewLambertian(albedo)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	hit := HitRecord{
		Point:  core.NewVec3(0, 0, 0),
		Normal: core.NewVec3(0, 0, 1),
	}
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	scatter, didScatter := lambertian.Scatter(ray, hit, sampler)
	if !didScatter {
		t.Fatal("Lambertian should always scatter")
	}

	// BRDF should be albedo/π
	expectedBRDF := albedo.Multiply(1.0 / math.Pi)
	if scatter.Attenuation.Subtract(expectedBRDF).Length() > 1e-10 {
		t.Errorf("BRDF mismatch: got %v, expected %v", scatter.Attenuation, expectedBRDF)
	}
	if scatter.IsSpecular() {
		t.Error("Lambertian scatter should not be specular")
	}
}

func TestLambertian_EvaluateBRDFBelowSurface(t *testing.T) {
	lambertian := NewLambertian(core.NewVec3(1, 1, 1))
	normal := core.NewVec3(0, 0, 1)

	below := lambertian.EvaluateBRDF(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -1), normal)
	if below != (core.Vec3{}) {
		t.Errorf("Expected zero BRDF below surface, got %v", below)
	}

	above := lambertian.EvaluateBRDF(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1), normal)
	if math.Abs(above.X-1/math.Pi) > 1e-12 {
		t.Errorf("Expected 1/π above surface, got %v", above)
	}
}

func TestHitRecord_SetFaceNormal(t *testing.T) {
	var hit HitRecord
	outward := core.NewVec3(0, 0, 1)

	hit.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1)), outward)
	if !hit.FrontFace || hit.Normal != outward {
		t.Errorf("Expected front face with outward normal, got %+v", hit)
	}

	hit.SetFaceNormal(core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)), outward)
	if hit.FrontFace || hit.Normal != outward.Negate() {
		t.Errorf("Expected back face with flipped normal, got %+v", hit)
	}
}
