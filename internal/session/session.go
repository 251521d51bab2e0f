// Package session owns one simulation run: bootstrap, per-frame stepping
// and teardown. Sessions are immutable with respect to their inputs; any
// parameter change tears the session down and builds a fresh one.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/meshfall/meshfall/internal/assets"
	"github.com/meshfall/meshfall/internal/config"
	"github.com/meshfall/meshfall/internal/engine/camera"
	"github.com/meshfall/meshfall/internal/engine/geometry"
	"github.com/meshfall/meshfall/internal/engine/mesh"
	"github.com/meshfall/meshfall/internal/engine/physics"
	"github.com/meshfall/meshfall/internal/engine/render"
	"github.com/meshfall/meshfall/internal/logger"
	"github.com/meshfall/meshfall/pkg/math"
)

// Scene placement constants: the primary obstacle floats above the origin,
// the ground plane spans the scene underneath it.
var primaryPosition = math.Vec3{Z: 3}

const (
	planeScale      = 12.0
	primaryScale    = 1.0
	projectileScale = 0.25

	cameraRadius = 14.0
	fovY         = float32(0.9) // radians
	nearPlane    = 0.1
	farPlane     = 200.0
)

// Notifier receives one-shot collision notifications ("hit primary",
// "hit plane") after the frame step that produced them.
type Notifier func(message string)

// Session owns the GPU resources, physics world and camera for one run.
type Session struct {
	params Params
	cfg    *config.Config

	renderer *render.Renderer
	cam      *camera.Orbit
	world    *physics.World
	notify   Notifier

	planeRes      *render.MeshResource
	projectileRes *render.MeshResource
	primaryRes    *render.MeshResource

	disposed bool
}

// New bootstraps a session: it fetches the three mesh texts concurrently,
// parses and normalizes them, uploads GPU resources and initializes the
// physics world. Any failure is returned as the session's terminal error;
// nothing half-built leaks (resources acquired before the failure are
// released).
func New(lib *assets.Library, renderer *render.Renderer, cfg *config.Config, params Params, notify Notifier) (*Session, error) {
	params = params.Normalized()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		params:   params,
		cfg:      cfg,
		renderer: renderer,
		notify:   notify,
	}

	texts, err := lib.LoadAll(assets.PlaneMesh, assets.ProjectileMesh, params.Primary)
	if err != nil {
		return nil, err
	}

	s.planeRes, err = buildResource(texts[assets.PlaneMesh], assets.PlaneMesh)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.projectileRes, err = buildResource(texts[assets.ProjectileMesh], assets.ProjectileMesh)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.primaryRes, err = buildResource(texts[params.Primary], params.Primary)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.world = physics.New(physics.Config{
		Gravity:            cfg.Physics.Gravity,
		PlaneZ:             0,
		DTMax:              cfg.Physics.DTMax,
		Skin:               cfg.Physics.Skin,
		PrimaryRestitution: cfg.Physics.PrimaryRestitution,
		PlaneRestitution:   cfg.Physics.PlaneRestitution,
	})
	s.world.SetPrimary(primaryPosition, s.primaryRes.Norm.Radius*primaryScale)

	bodyRadius := s.projectileRes.Norm.Radius * projectileScale
	idle := LaunchPosition(primaryPosition, params.AngleDeg, params.ElevationDeg,
		cfg.Launch.Distance, bodyRadius+cfg.Physics.Skin)
	s.world.PlaceIdle(idle, bodyRadius)

	if params.Run {
		s.world.Launch(primaryPosition, params.Speed)
	}

	s.cam = camera.New(math.Vec3{Z: 1.5}, cameraRadius)
	s.cam.Pitch = 0.4

	logger.Info("session ready",
		zap.String("primary", params.Primary),
		zap.Float32("angle", params.AngleDeg),
		zap.Float32("elevation", params.ElevationDeg),
		zap.Float32("speed", params.Speed),
		zap.Bool("run", params.Run),
	)

	return s, nil
}

// buildResource parses, normalizes and uploads one mesh.
func buildResource(text, name string) (*render.MeshResource, error) {
	flat, err := geometry.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", name, err)
	}
	if flat.TriangleCount() == 0 {
		return nil, fmt.Errorf("mesh %s: no triangles", name)
	}
	res, err := render.Upload(flat, mesh.Normalize(flat))
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", name, err)
	}
	return res, nil
}

// Camera exposes the orbit camera for pointer-drag routing.
func (s *Session) Camera() *camera.Orbit {
	return s.cam
}

// Params returns the session's (normalized) input parameters.
func (s *Session) Params() Params {
	return s.params
}

// Frame runs one simulation+render step: integrate physics when running,
// deliver any one-shot collision notifications, then draw the scene.
func (s *Session) Frame(dt float32) {
	if s.disposed {
		return
	}

	if s.params.Run {
		s.world.Step(dt)
	}

	// Notifications go out after the step, never during it.
	if s.notify != nil {
		for _, msg := range s.world.DrainEvents() {
			s.notify(msg)
		}
	}

	proj := math.Perspective(fovY, s.renderer.Aspect(), nearPlane, farPlane)
	viewProj := proj.Mul(s.cam.ViewMatrix())

	s.renderer.Begin()
	s.renderer.Draw(viewProj, render.Instance{
		Res:      s.planeRes,
		Position: math.Vec3{},
		Scale:    planeScale,
		Color:    math.Vec3{X: 0.35, Y: 0.42, Z: 0.36},
	})
	s.renderer.Draw(viewProj, render.Instance{
		Res:      s.primaryRes,
		Position: primaryPosition,
		Scale:    primaryScale,
		Color:    math.Vec3{X: 0.85, Y: 0.45, Z: 0.2},
	})
	s.renderer.Draw(viewProj, render.Instance{
		Res:      s.projectileRes,
		Position: s.world.Body().Position,
		Scale:    projectileScale,
		Color:    math.Vec3{X: 0.85, Y: 0.85, Z: 0.9},
	})
}

// Close releases all GPU resources owned by the session. Safe to call more
// than once; after Close the session ignores further frames.
func (s *Session) Close() {
	if s.disposed {
		return
	}
	s.disposed = true

	for _, res := range []*render.MeshResource{s.planeRes, s.projectileRes, s.primaryRes} {
		if res != nil {
			res.Release()
		}
	}
}
