package camera

import (
	"testing"

	"github.com/Faultbox/meshprep/pkg/math"
)

func TestOrbitCameraPosition(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 1, Y: 2, Z: 3}
	c.Distance = 5
	c.Pitch = 0
	c.Yaw = 0

	want := math.Vec3{X: 1, Y: 2, Z: 8}
	if got := c.Position(); !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Position() = %v, want %v", got, want)
	}

	// The view matrix maps the center onto the negative Z axis.
	center := c.ViewMatrix().TransformVec3(c.Center)
	if !center.ApproxEqual(math.Vec3{Z: -5}, 1e-4) {
		t.Errorf("center in view space = %v, want (0,0,-5)", center)
	}
}

func TestOrbitCameraClamps(t *testing.T) {
	c := NewOrbitCamera()

	c.HandleDrag(0, 1e6)
	if c.Pitch != c.MaxPitch {
		t.Errorf("Pitch = %v, want clamped to %v", c.Pitch, c.MaxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.Pitch != c.MinPitch {
		t.Errorf("Pitch = %v, want clamped to %v", c.Pitch, c.MinPitch)
	}

	for range 200 {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %v, want clamped to %v", c.Distance, c.MinDistance)
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(math.Vec3{X: -1, Y: 0, Z: -1}, math.Vec3{X: 1, Y: 2, Z: 1})

	if want := (math.Vec3{Y: 1}); c.Center != want {
		t.Errorf("Center = %v, want %v", c.Center, want)
	}
	// Bounding sphere radius is sqrt(3); the camera must sit outside it.
	if c.Distance <= 1.7320508 {
		t.Errorf("Distance = %v, camera inside the bounds", c.Distance)
	}
	if c.Distance < c.MinDistance || c.Distance > c.MaxDistance {
		t.Errorf("Distance %v outside [%v, %v]", c.Distance, c.MinDistance, c.MaxDistance)
	}
}
