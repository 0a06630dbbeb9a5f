package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-model-thumbnailer/pkg/core"
)

func TestTriangle_Hit(t *testing.T) {
	unit := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), gray)

	// Sub-millimetre facets from CAD exports in metres still register
	small := 1e-5
	fine := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(small, 0, 0), core.NewVec3(0, small, 0), gray)

	// Edge products below 1e-12 are treated as parallel
	sliver := 1e-7
	tooFine := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(sliver, 0, 0), core.NewVec3(0, sliver, 0), gray)

	collinear := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), gray)

	up := core.NewVec3(0, 0, 1)
	tests := []struct {
		name      string
		triangle  *Triangle
		ray       core.Ray
		tMax      float64
		shouldHit bool
		expectedT float64
		frontFace bool
	}{
		{"Center from below", unit, core.NewRay(core.NewVec3(0.25, 0.25, -1), up), 10, true, 1, false},
		{"Center from above", unit, core.NewRay(core.NewVec3(0.25, 0.25, 2), up.Negate()), 10, true, 2, true},
		{"Edge counts as inside", unit, core.NewRay(core.NewVec3(0.5, 0, -1), up), 10, true, 1, false},
		{"Outside the hypotenuse", unit, core.NewRay(core.NewVec3(1, 1, -1), up), 10, false, 0, false},
		{"Parallel in plane", unit, core.NewRay(core.NewVec3(0.25, 0.25, 0), core.NewVec3(1, 0, 0)), 10, false, 0, false},
		{"Beyond tMax", unit, core.NewRay(core.NewVec3(0.25, 0.25, -5), up), 4, false, 0, false},
		{"Behind origin", unit, core.NewRay(core.NewVec3(0.25, 0.25, 1), up), 10, false, 0, false},
		{"Fine facet", fine, core.NewRay(core.NewVec3(small/4, small/4, -1), up), 10, true, 1, false},
		{"Facet below epsilon", tooFine, core.NewRay(core.NewVec3(sliver/4, sliver/4, -1), up), 10, false, 0, false},
		{"Collinear vertices", collinear, core.NewRay(core.NewVec3(0.5, 0, -1), up), 10, false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := tt.triangle.Hit(tt.ray, 0.001, tt.tMax)

			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v", tt.shouldHit, isHit)
			}
			if !tt.shouldHit {
				if hit != nil {
					t.Errorf("Expected nil record on a miss, got %+v", hit)
				}
				return
			}

			if hit == nil {
				t.Fatal("Expected hit record, got nil")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-6 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.Point.Subtract(tt.ray.At(hit.T)).Length() > 1e-9 {
				t.Errorf("Hit point %v is not on the ray at t=%f", hit.Point, hit.T)
			}
			if hit.FrontFace != tt.frontFace {
				t.Errorf("Expected FrontFace=%v, got %v", tt.frontFace, hit.FrontFace)
			}
			if hit.Normal.Dot(tt.ray.Direction) >= 0 {
				t.Errorf("Normal %v should face against the ray %v", hit.Normal, tt.ray.Direction)
			}
			if hit.Material != gray {
				t.Errorf("Expected the triangle's material on the record")
			}
		})
	}
}

func TestTriangle_BoundingBox(t *testing.T) {
	triangle := NewTriangle(core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(1, 3, -1), gray)

	bbox := triangle.BoundingBox()

	expectedMin := core.NewVec3(0, 0, -1)
	expectedMax := core.NewVec3(2, 3, 0)
	if bbox.Min != expectedMin {
		t.Errorf("Expected min %v, got %v", expectedMin, bbox.Min)
	}
	if bbox.Max != expectedMax {
		t.Errorf("Expected max %v, got %v", expectedMax, bbox.Max)
	}
}
