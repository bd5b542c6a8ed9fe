// Package camera provides the orbit camera used by the mesh preview.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshprep/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // Vertical angle (radians)
	Yaw      float32 // Horizontal angle (radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	FovY float32
}

// NewOrbitCamera creates an orbit camera looking at the origin from distance 1.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        1,
		Pitch:           0.35,
		MinDistance:     0.01,
		MaxDistance:     1000,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovY:            0.8,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sp, cp := math32.Sincos(c.Pitch)
	sy, cy := math32.Sincos(c.Yaw)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cp * sy,
		Y: c.Distance * sp,
		Z: c.Distance * cp * cy,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Y: 1})
}

// ProjectionMatrix returns a perspective projection whose clip planes follow the
// orbit distance.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.Distance*0.01, c.Distance*10)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers the camera on a bounding box and backs off until the whole box
// fits the vertical field of view.
func (c *OrbitCamera) FitToBounds(boxMin, boxMax math.Vec3) {
	c.Center = boxMin.Add(boxMax).Scale(0.5)

	radius := max(boxMax.Sub(boxMin).Length()/2, 1e-3)
	c.Distance = radius / math32.Sin(c.FovY/2)
	c.MinDistance = radius * 0.05
	c.MaxDistance = c.Distance * 20

	c.Pitch = 0.35
	c.Yaw = 0
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
