package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-model-thumbnailer/pkg/core"
	"github.com/df07/go-model-thumbnailer/pkg/framing"
)

// lookAtConfig builds a camera config whose basis comes from a planned pose
func lookAtConfig(center, lookAt core.Vec3, width int, vfov float64) CameraConfig {
	pose := framing.CameraPose{Position: center, LookDirection: lookAt.Subtract(center).Normalize()}
	right, up, forward := pose.Orientation()
	return CameraConfig{
		Center:      center,
		Right:       right,
		Up:          up,
		Forward:     forward,
		Width:       width,
		AspectRatio: 1.0,
		VFov:        vfov,
	}
}

func TestCameraGetRay_CenterPixel(t *testing.T) {
	camera := NewCamera(lookAtConfig(core.NewVec3(1, -1, 1), core.NewVec3(0, 0, 0), 101, 40.0))

	ray := camera.GetRay(50, 50, core.NewVec2(0.5, 0.5))
	expected := core.NewVec3(-1, 1, -1).Normalize()

	if ray.Direction.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Center ray should point at the target: expected %v, got %v", expected, ray.Direction)
	}
	if ray.Origin != core.NewVec3(1, -1, 1) {
		t.Errorf("Ray should start at camera center, got %v", ray.Origin)
	}
}

func TestCameraGetRay_ImageOrientation(t *testing.T) {
	// Z-up world, camera looking along +Y
	camera := NewCamera(lookAtConfig(core.NewVec3(0, -10, 0), core.NewVec3(0, 0, 0), 10, 40.0))

	top := camera.GetRay(5, 0, core.NewVec2(0, 0))
	bottom := camera.GetRay(5, 9, core.NewVec2(0, 1))
	left := camera.GetRay(0, 5, core.NewVec2(0, 0))
	right := camera.GetRay(9, 5, core.NewVec2(1, 0))

	if top.Direction.Z <= 0 || bottom.Direction.Z >= 0 {
		t.Errorf("Row 0 should look up and the last row down: top %v, bottom %v", top.Direction, bottom.Direction)
	}
	if left.Direction.X >= 0 || right.Direction.X <= 0 {
		t.Errorf("Column 0 should look left (-X) and the last column right: left %v, right %v", left.Direction, right.Direction)
	}
}

func TestCameraLookingStraightDown(t *testing.T) {
	camera := NewCamera(lookAtConfig(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), 8, 30.0))

	ray := camera.GetRay(4, 4, core.NewVec2(0, 0))
	if !ray.Direction.IsFinite() {
		t.Fatalf("Expected finite ray direction, got %v", ray.Direction)
	}
	if ray.Direction.Z >= 0 {
		t.Errorf("Expected ray to point down, got %v", ray.Direction)
	}
}

func TestFocalLengthToVFov(t *testing.T) {
	tests := []struct {
		name        string
		focal       float64
		aspect      float64
		expectedDeg float64
	}{
		{"50mm square", 50, 1, 2 * math.Atan(18.0/50.0) * 180 / math.Pi},
		{"18mm square is 90 degrees", 18, 1, 90},
		{"50mm 3:2 uses sensor height", 50, 1.5, 2 * math.Atan(12.0/50.0) * 180 / math.Pi},
		{"invalid focal", 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FocalLengthToVFov(tt.focal, SensorWidthMm, tt.aspect)
			if math.Abs(got-tt.expectedDeg) > 1e-9 {
				t.Errorf("Expected %f degrees, got %f", tt.expectedDeg, got)
			}
		})
	}

	config := lookAtConfig(core.Vec3{}, core.NewVec3(0, 1, 0), 300, 40)
	config.AspectRatio = 1.5
	w, h := NewCamera(config).ImageSize()
	if w != 300 || h != 200 {
		t.Errorf("Expected 300x200, got %dx%d", w, h)
	}
}
