// Package app runs the host loop: window, input routing and session
// lifecycle. All simulation state lives in the current session; the app only
// decides when to replace it.
package app

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/meshfall/meshfall/internal/assets"
	"github.com/meshfall/meshfall/internal/config"
	"github.com/meshfall/meshfall/internal/engine/input"
	"github.com/meshfall/meshfall/internal/engine/render"
	"github.com/meshfall/meshfall/internal/engine/window"
	"github.com/meshfall/meshfall/internal/logger"
	"github.com/meshfall/meshfall/internal/session"
)

const (
	angleStep     = 5.0
	elevationStep = 5.0
	speedStep     = 1.0
)

// App owns the window, renderer and the current session.
type App struct {
	cfg      *config.Config
	window   *window.Window
	renderer *render.Renderer
	input    *input.Input
	library  *assets.Library

	session *session.Session
	params  session.Params

	dragging     bool
	lastX, lastY int
	running      bool
}

// New creates the window, the renderer and the first (idle) session.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		params: session.Params{
			Primary:      cfg.Assets.Primary,
			AngleDeg:     cfg.Launch.AngleDeg,
			ElevationDeg: cfg.Launch.ElevationDeg,
			Speed:        cfg.Launch.Speed,
		},
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      "Meshfall",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	a.renderer, err = render.New(render.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	a.input = input.New()
	a.library = assets.NewLibrary(cfg.Assets.Dir)

	if err := a.rebuildSession(); err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, err
	}

	return a, nil
}

// rebuildSession tears down the current session and bootstraps one from the
// current params. Input changes never mutate a live session.
func (a *App) rebuildSession() error {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}

	s, err := session.New(a.library, a.renderer, a.cfg, a.params, func(msg string) {
		logger.Info("collision", zap.String("event", msg))
	})
	if err != nil {
		return fmt.Errorf("session bootstrap: %w", err)
	}
	a.session = s
	return nil
}

// Run drives the frame loop until quit or a terminal error.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if a.input.Update() {
			break
		}
		if err := a.handleEvents(); err != nil {
			return err
		}
		if !a.running {
			break
		}

		a.session.Frame(dt)
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvents() error {
	for _, ev := range a.input.Events() {
		switch ev.Type {
		case input.EventQuit:
			a.running = false

		case input.EventWindowResize:
			a.renderer.Resize(ev.Width, ev.Height)

		case input.EventMouseDown:
			if ev.Button == sdl.BUTTON_LEFT {
				a.dragging = true
				a.lastX, a.lastY = ev.MouseX, ev.MouseY
			}

		case input.EventMouseUp:
			if ev.Button == sdl.BUTTON_LEFT {
				a.dragging = false
			}

		case input.EventMouseMove:
			if a.dragging {
				dx := float32(ev.MouseX - a.lastX)
				dy := float32(ev.MouseY - a.lastY)
				a.lastX, a.lastY = ev.MouseX, ev.MouseY
				a.session.Camera().HandleDrag(dx, dy)
			}

		case input.EventKeyDown:
			if err := a.handleKey(ev.Key); err != nil {
				return err
			}
		}
	}
	return nil
}

// handleKey maps keys to param changes. Every change replaces the session.
func (a *App) handleKey(key sdl.Scancode) error {
	p := a.params

	switch key {
	case sdl.SCANCODE_ESCAPE:
		a.running = false
		return nil

	case sdl.SCANCODE_SPACE:
		p.Run = true

	case sdl.SCANCODE_R:
		p.Run = false

	case sdl.SCANCODE_LEFT:
		p.AngleDeg -= angleStep
	case sdl.SCANCODE_RIGHT:
		p.AngleDeg += angleStep

	case sdl.SCANCODE_UP:
		p.ElevationDeg += elevationStep
	case sdl.SCANCODE_DOWN:
		p.ElevationDeg -= elevationStep

	case sdl.SCANCODE_EQUALS:
		p.Speed += speedStep
	case sdl.SCANCODE_MINUS:
		if p.Speed > speedStep {
			p.Speed -= speedStep
		}

	case sdl.SCANCODE_1, sdl.SCANCODE_2, sdl.SCANCODE_3:
		idx := int(key - sdl.SCANCODE_1)
		if idx < len(assets.Primaries) {
			p.Primary = assets.Primaries[idx]
		}

	default:
		return nil
	}

	p = p.Normalized()
	if p == a.params {
		return nil
	}
	a.params = p
	return a.rebuildSession()
}

// Close tears everything down in reverse acquisition order.
func (a *App) Close() {
	if a.session != nil {
		a.session.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
