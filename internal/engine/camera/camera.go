// Package camera implements the pointer-driven orbit camera.
package camera

import (
	gomath "math"

	"github.com/meshfall/meshfall/pkg/math"
)

// pitchMargin keeps the pitch away from the poles so the view axis never
// flips.
const pitchMargin = 0.01

// Orbit is a yaw/pitch/radius camera around a fixed target. The eye position
// is a pure function of the three values; there is no smoothing or inertia.
type Orbit struct {
	Target math.Vec3
	Radius float32
	Yaw    float32
	Pitch  float32

	DragSensitivity float32
}

// New creates an orbit camera with default sensitivity.
func New(target math.Vec3, radius float32) *Orbit {
	return &Orbit{
		Target:          target,
		Radius:          radius,
		DragSensitivity: 0.005,
	}
}

// HandleDrag applies a pointer drag delta in screen pixels.
func (c *Orbit) HandleDrag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch -= dy * c.DragSensitivity

	limit := float32(gomath.Pi/2) - pitchMargin
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

// Eye returns the camera position in world space:
// target + radius * (sin(yaw)cos(pitch), sin(pitch), cos(yaw)cos(pitch)).
func (c *Orbit) Eye() math.Vec3 {
	sy, cy := gomath.Sincos(float64(c.Yaw))
	sp, cp := gomath.Sincos(float64(c.Pitch))

	offset := math.Vec3{
		X: float32(sy * cp),
		Y: float32(sp),
		Z: float32(cy * cp),
	}.Scale(c.Radius)

	return c.Target.Add(offset)
}

// ViewMatrix returns the look-at view matrix for the current pose.
func (c *Orbit) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Eye(), c.Target, math.Vec3{Y: 1})
}
