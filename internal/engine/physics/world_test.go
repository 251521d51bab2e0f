package physics

import (
	"testing"

	"github.com/meshfall/meshfall/pkg/math"
)

func testConfig() Config {
	return Config{
		Gravity:            -9.81,
		PlaneZ:             0,
		DTMax:              0.05,
		Skin:               0.001,
		PrimaryRestitution: 0.6,
		PlaneRestitution:   0.5,
	}
}

func approx(got, want, tol float32) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestIdleBodyDoesNotMove(t *testing.T) {
	w := New(testConfig())
	w.PlaceIdle(math.Vec3{X: 1, Y: 2, Z: 3}, 0.5)

	w.Step(0.016)

	if w.Body().Position != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("idle body moved to %v", w.Body().Position)
	}
	if w.State() != StateIdle {
		t.Errorf("state: got %v, want StateIdle", w.State())
	}
}

func TestLaunchVelocity(t *testing.T) {
	w := New(testConfig())
	w.PlaceIdle(math.Vec3{X: 0, Y: 0, Z: 0}, 0.5)
	w.Launch(math.Vec3{X: 10, Y: 0, Z: 0}, 4)

	v := w.Body().Velocity
	if !approx(v.X, 4, 1e-5) || v.Y != 0 || v.Z != 0 {
		t.Errorf("launch velocity: got %v, want (4, 0, 0)", v)
	}
	if w.State() != StateLaunched {
		t.Errorf("state: got %v, want StateLaunched", w.State())
	}
}

func TestGravityIsSemiImplicit(t *testing.T) {
	cfg := testConfig()
	w := New(cfg)
	w.PlaceIdle(math.Vec3{Z: 100}, 0.5)
	w.Launch(math.Vec3{X: 1, Z: 100}, 0)

	dt := float32(0.05)
	w.Step(dt)

	// Velocity updates before position, so the first step already moves
	// the body by g*dt*dt.
	wantVZ := cfg.Gravity * dt
	wantPZ := 100 + wantVZ*dt
	b := w.Body()
	if !approx(b.Velocity.Z, wantVZ, 1e-5) {
		t.Errorf("velocity.z after one step: got %f, want %f", b.Velocity.Z, wantVZ)
	}
	if !approx(b.Position.Z, wantPZ, 1e-4) {
		t.Errorf("position.z after one step: got %f, want %f", b.Position.Z, wantPZ)
	}
}

func TestStepClampsDT(t *testing.T) {
	cfg := testConfig()
	w := New(cfg)
	w.PlaceIdle(math.Vec3{Z: 1000}, 0.5)
	w.Launch(math.Vec3{X: 1, Z: 1000}, 0)

	// A huge frame hitch must integrate as DTMax, not as ten seconds.
	w.Step(10)

	wantVZ := cfg.Gravity * cfg.DTMax
	if !approx(w.Body().Velocity.Z, wantVZ, 1e-5) {
		t.Errorf("velocity.z after hitch: got %f, want %f", w.Body().Velocity.Z, wantVZ)
	}

	// Negative elapsed time clamps to zero.
	before := w.Body()
	w.Step(-1)
	if w.Body().Position != before.Position || w.Body().Velocity != before.Velocity {
		t.Error("negative dt must not integrate")
	}
}

func TestPlaneReflection(t *testing.T) {
	cfg := testConfig()
	w := New(cfg)
	w.PlaceIdle(math.Vec3{Z: 0.4}, 0.5)
	w.Launch(math.Vec3{Z: -10}, 0)
	w.body.Velocity = math.Vec3{Z: -5}

	w.Step(0.001)

	b := w.Body()
	if !approx(b.Velocity.Z, 2.5, 0.05) {
		t.Errorf("reflected velocity.z: got %f, want 2.5", b.Velocity.Z)
	}
	wantZ := cfg.PlaneZ + b.Radius + cfg.Skin
	if !approx(b.Position.Z, wantZ, 1e-5) {
		t.Errorf("clamped position.z: got %f, want %f", b.Position.Z, wantZ)
	}

	events := w.DrainEvents()
	if len(events) != 1 || events[0] != "hit plane" {
		t.Errorf("events: got %v, want [hit plane]", events)
	}
}

func TestPlaneNotificationIsOneShot(t *testing.T) {
	w := New(testConfig())
	w.PlaceIdle(math.Vec3{Z: 2}, 0.5)
	w.Launch(math.Vec3{Z: -10}, 5)

	var total int
	for i := 0; i < 400; i++ {
		w.Step(0.016)
		total += len(w.DrainEvents())
	}

	// Many bounces, one notification.
	if total != 1 {
		t.Errorf("plane notifications over the run: got %d, want 1", total)
	}
}

func TestPrimaryCollisionPushOutAndReflect(t *testing.T) {
	cfg := testConfig()
	w := New(cfg)
	w.SetPrimary(math.Vec3{X: 5, Z: 5}, 1)
	w.PlaceIdle(math.Vec3{X: 2.5, Z: 5}, 0.5)
	w.Launch(math.Vec3{X: 5, Z: 5}, 10)

	// Step until contact.
	var hit bool
	for i := 0; i < 100 && !hit; i++ {
		w.Step(0.016)
		for _, e := range w.DrainEvents() {
			if e == "hit primary" {
				hit = true
			}
		}
	}
	if !hit {
		t.Fatal("body never hit the primary obstacle")
	}

	b := w.Body()
	dist := b.Position.Distance(math.Vec3{X: 5, Z: 5})
	if dist < b.Radius+1 {
		t.Errorf("body not pushed out of contact: distance %f, want >= %f", dist, b.Radius+1)
	}
	// Approach was along +X, so the reflected velocity points back.
	if b.Velocity.X >= 0 {
		t.Errorf("velocity.x after reflection: got %f, want negative", b.Velocity.X)
	}
}

func TestPrimaryZeroDistanceFallbackNormal(t *testing.T) {
	w := New(testConfig())
	w.SetPrimary(math.Vec3{X: 3, Y: 3, Z: 3}, 1)
	w.PlaceIdle(math.Vec3{X: 3, Y: 3, Z: 3}, 0.5)
	w.Launch(math.Vec3{X: 3, Y: 3, Z: 3}, 0)

	// Zero dt keeps the centers exactly coincident through the step.
	w.Step(0)

	// Coincident centers push out along the fixed fallback normal (+Z).
	b := w.Body()
	if b.Position.Z <= 3 {
		t.Errorf("fallback push-out should raise z above 3, got %f", b.Position.Z)
	}
	if b.Position.X != 3 || b.Position.Y != 3 {
		t.Errorf("fallback push-out should stay on the z axis, got %v", b.Position)
	}
}

func TestPrimaryBeforePlaneOrder(t *testing.T) {
	// A body sandwiched between the obstacle above and the plane below
	// resolves the primary first; the plane clamp then wins on z.
	cfg := testConfig()
	w := New(cfg)
	w.SetPrimary(math.Vec3{X: 0, Z: 1.2}, 0.5)
	w.PlaceIdle(math.Vec3{X: 0, Z: 0.9}, 0.5)
	w.Launch(math.Vec3{Z: -10}, 0)
	w.body.Velocity = math.Vec3{Z: -1}

	w.Step(0.05)

	events := w.DrainEvents()
	if len(events) != 2 || events[0] != "hit primary" || events[1] != "hit plane" {
		t.Fatalf("events: got %v, want [hit primary, hit plane]", events)
	}

	b := w.Body()
	wantZ := cfg.PlaneZ + b.Radius + cfg.Skin
	if !approx(b.Position.Z, wantZ, 1e-5) {
		t.Errorf("plane clamp should win on z: got %f, want %f", b.Position.Z, wantZ)
	}
}
