// Package mesh derives canonical-space transforms for parsed geometry.
package mesh

import (
	gomath "math"

	"github.com/meshfall/meshfall/internal/engine/geometry"
	"github.com/meshfall/meshfall/pkg/math"
)

// ReferenceExtent is the canonical-space size of a normalized mesh: its
// largest axis-aligned extent after normalization.
const ReferenceExtent = 2.0

// Normalization maps a mesh's local space into canonical space: centered at
// the origin with the largest extent equal to ReferenceExtent. Radius is the
// circumscribing sphere radius measured in canonical space, used as the
// collision proxy.
type Normalization struct {
	Transform math.Mat4
	Center    math.Vec3
	Scale     float32
	Radius    float32
}

// Normalize computes the canonical transform and bounding radius for a mesh.
// A degenerate extent (single point, empty mesh) falls back to 1 so the
// scale stays finite.
func Normalize(m *geometry.FlatMesh) Normalization {
	min := math.Vec3{X: gomath.MaxFloat32, Y: gomath.MaxFloat32, Z: gomath.MaxFloat32}
	max := math.Vec3{X: -gomath.MaxFloat32, Y: -gomath.MaxFloat32, Z: -gomath.MaxFloat32}

	count := m.VertexCount()
	if count == 0 {
		min, max = math.Vec3{}, math.Vec3{}
	}
	for i := 0; i < count; i++ {
		p := m.Position(i)
		min = vecMin(min, p)
		max = vecMax(max, p)
	}

	center := min.Add(max).Scale(0.5)

	extent := max.Sub(min)
	maxExtent := extent.X
	if extent.Y > maxExtent {
		maxExtent = extent.Y
	}
	if extent.Z > maxExtent {
		maxExtent = extent.Z
	}
	if maxExtent <= 0 {
		maxExtent = 1
	}

	scale := float32(ReferenceExtent) / maxExtent
	transform := math.ScaleUniform(scale).Mul(math.Translate(-center.X, -center.Y, -center.Z))

	// The radius is recomputed from the transformed vertices rather than
	// derived from the box, so it is a true circumscribing radius.
	var radius float32
	for i := 0; i < count; i++ {
		d := transform.TransformPoint(m.Position(i)).Length()
		if d > radius {
			radius = d
		}
	}

	return Normalization{
		Transform: transform,
		Center:    center,
		Scale:     scale,
		Radius:    radius,
	}
}

func vecMin(a, b math.Vec3) math.Vec3 {
	if b.X < a.X {
		a.X = b.X
	}
	if b.Y < a.Y {
		a.Y = b.Y
	}
	if b.Z < a.Z {
		a.Z = b.Z
	}
	return a
}

func vecMax(a, b math.Vec3) math.Vec3 {
	if b.X > a.X {
		a.X = b.X
	}
	if b.Y > a.Y {
		a.Y = b.Y
	}
	if b.Z > a.Z {
		a.Z = b.Z
	}
	return a
}
