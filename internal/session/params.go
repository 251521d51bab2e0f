package session

import (
	"fmt"
	gomath "math"

	"github.com/meshfall/meshfall/internal/assets"
	"github.com/meshfall/meshfall/pkg/math"
)

// Params are the inputs a session is built from. A session never mutates
// its params; the host builds a new session when any of them change.
type Params struct {
	Primary      string  // primary obstacle mesh name
	AngleDeg     float32 // launch azimuth, wraps 0-360
	ElevationDeg float32 // launch elevation, clamped 0-90
	Speed        float32 // launch speed, must be positive
	Run          bool    // false = idle, true = launch on bootstrap
}

// Normalized returns params with the angle wrapped into [0, 360) and the
// elevation clamped into [0, 90].
func (p Params) Normalized() Params {
	p.AngleDeg = float32(gomath.Mod(float64(p.AngleDeg), 360))
	if p.AngleDeg < 0 {
		p.AngleDeg += 360
	}
	if p.ElevationDeg < 0 {
		p.ElevationDeg = 0
	}
	if p.ElevationDeg > 90 {
		p.ElevationDeg = 90
	}
	return p
}

// Validate rejects params no session can be built from.
func (p Params) Validate() error {
	if !assets.IsPrimary(p.Primary) {
		return fmt.Errorf("unknown primary mesh %q", p.Primary)
	}
	if p.Speed <= 0 {
		return fmt.Errorf("launch speed must be positive, got %f", p.Speed)
	}
	return nil
}

// LaunchPosition derives the idle body pose from the launch parameters: the
// body sits at the given distance from the target, opposite the aim
// direction, never sinking below minZ. Aiming at the target from this pose
// yields the requested azimuth and elevation.
func LaunchPosition(target math.Vec3, angleDeg, elevationDeg, distance, minZ float32) math.Vec3 {
	az := float64(angleDeg) * gomath.Pi / 180
	el := float64(elevationDeg) * gomath.Pi / 180

	aim := math.Vec3{
		X: float32(gomath.Sin(az) * gomath.Cos(el)),
		Y: float32(gomath.Cos(az) * gomath.Cos(el)),
		Z: float32(gomath.Sin(el)),
	}

	pos := target.Sub(aim.Scale(distance))
	if pos.Z < minZ {
		pos.Z = minZ
	}
	return pos
}
