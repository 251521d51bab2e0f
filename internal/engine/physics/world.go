// Package physics steps the projectile and resolves its collisions.
package physics

import (
	"github.com/meshfall/meshfall/pkg/math"
)

// State tracks the projectile lifecycle. There is no terminal state: a
// launched body keeps falling and bouncing for as long as the session lives.
type State int

const (
	// StateIdle keeps the body pinned to the launch pose; gravity is off.
	StateIdle State = iota
	// StateLaunched means velocity has been set but no step has run yet.
	StateLaunched
	// StateSimulating means the body is being integrated every frame.
	StateSimulating
)

// Config holds the integrator's tuning values. Gravity acts along the world
// Z axis and is negative for a downward pull.
type Config struct {
	Gravity            float32
	PlaneZ             float32
	DTMax              float32
	Skin               float32 // pushed past a contact by this much
	PrimaryRestitution float32
	PlaneRestitution   float32
}

// Body is the one dynamic sphere.
type Body struct {
	Position math.Vec3
	Velocity math.Vec3
	Radius   float32
}

// Obstacle is the static primary mesh approximated by its bounding sphere.
type Obstacle struct {
	Position math.Vec3
	Radius   float32
}

// World owns the dynamic body, the static plane and the primary obstacle.
// Contact events are recorded during Step and drained by the caller after
// it; each contact key fires at most once per run.
type World struct {
	cfg   Config
	state State

	body    Body
	primary Obstacle

	fired  map[string]struct{}
	events []string
}

// New creates a world in the idle state.
func New(cfg Config) *World {
	return &World{
		cfg:   cfg,
		fired: make(map[string]struct{}),
	}
}

// State returns the current lifecycle state.
func (w *World) State() State {
	return w.state
}

// Body returns a copy of the dynamic body.
func (w *World) Body() Body {
	return w.body
}

// SetPrimary places the static obstacle sphere.
func (w *World) SetPrimary(position math.Vec3, radius float32) {
	w.primary = Obstacle{Position: position, Radius: radius}
}

// PlaceIdle pins the body to a pose while idle. Calling it resets velocity
// and returns the world to the idle state.
func (w *World) PlaceIdle(position math.Vec3, radius float32) {
	w.state = StateIdle
	w.body = Body{Position: position, Radius: radius}
}

// Launch aims the body at the target and gives it its initial speed.
func (w *World) Launch(target math.Vec3, speed float32) {
	dir := target.Sub(w.body.Position).Normalize()
	w.body.Velocity = dir.Scale(speed)
	w.state = StateLaunched
}

// Step advances the simulation by the elapsed wall time. dt is clamped to
// [0, DTMax] to bound worst-case displacement on frame hitches. Collisions
// resolve in a fixed order, primary then plane, both checked every step.
// Idle bodies are not integrated.
func (w *World) Step(dt float32) {
	if w.state == StateIdle {
		return
	}
	w.state = StateSimulating

	if dt < 0 {
		dt = 0
	}
	if dt > w.cfg.DTMax {
		dt = w.cfg.DTMax
	}

	// Semi-implicit Euler: velocity first, then position.
	w.body.Velocity.Z += w.cfg.Gravity * dt
	w.body.Position = w.body.Position.Add(w.body.Velocity.Scale(dt))

	w.collidePrimary()
	w.collidePlane()
}

func (w *World) collidePrimary() {
	if w.primary.Radius <= 0 {
		return
	}

	delta := w.body.Position.Sub(w.primary.Position)
	d := delta.Length()
	minDist := w.body.Radius + w.primary.Radius
	if d > minDist {
		return
	}

	n := math.Vec3{Z: 1}
	if d > 0 {
		n = delta.Scale(1 / d)
	}

	w.body.Position = w.body.Position.Add(n.Scale(minDist - d + w.cfg.Skin))

	if vn := w.body.Velocity.Dot(n); vn < 0 {
		w.body.Velocity = w.body.Velocity.Sub(n.Scale((1 + w.cfg.PrimaryRestitution) * vn))
	}

	w.notify("primary", "hit primary")
}

func (w *World) collidePlane() {
	if w.body.Position.Z-w.body.Radius > w.cfg.PlaneZ {
		return
	}

	w.body.Position.Z = w.cfg.PlaneZ + w.body.Radius + w.cfg.Skin

	if w.body.Velocity.Z < 0 {
		w.body.Velocity.Z = -w.body.Velocity.Z * w.cfg.PlaneRestitution
	}

	w.notify("plane", "hit plane")
}

// notify records a one-shot contact event, deduplicated by key.
func (w *World) notify(key, message string) {
	if _, ok := w.fired[key]; ok {
		return
	}
	w.fired[key] = struct{}{}
	w.events = append(w.events, message)
}

// DrainEvents returns the contact events recorded since the last drain.
// Delivery therefore always happens after the step that produced them.
func (w *World) DrainEvents() []string {
	if len(w.events) == 0 {
		return nil
	}
	out := w.events
	w.events = nil
	return out
}
