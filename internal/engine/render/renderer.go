// Package render owns the OpenGL program and per-instance draw calls.
package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/meshfall/meshfall/internal/engine/shader"
	"github.com/meshfall/meshfall/internal/logger"
	"github.com/meshfall/meshfall/pkg/math"
)

const vertexShaderSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uMVP;
uniform mat4 uModel;

out vec3 vNormal;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vNormal = mat3(uModel) * aNormal;
}
`

const fragmentShaderSrc = `
#version 410 core

in vec3 vNormal;
out vec4 FragColor;

uniform vec3 uLightDir;
uniform vec3 uColor;
uniform float uAmbient;
uniform float uDiffuse;

void main() {
	vec3 n = normalize(vNormal);
	float intensity = max(dot(n, -uLightDir), 0.0);
	vec3 shaded = uColor * (uAmbient + uDiffuse * intensity);
	FragColor = vec4(shaded, 1.0);
}
`

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Instance places a shared MeshResource in the world with a position, a
// uniform scale and a flat color.
type Instance struct {
	Res      *MeshResource
	Position math.Vec3
	Scale    float32
	Color    math.Vec3
}

// Renderer compiles the Lambert program once and issues per-instance draws.
// All uniform locations are resolved and validated at construction.
type Renderer struct {
	config  Config
	program uint32

	locMVP      int32
	locModel    int32
	locLightDir int32
	locColor    int32
	locAmbient  int32
	locDiffuse  int32

	lightDir math.Vec3
	ambient  float32
	diffuse  float32
}

// New initializes OpenGL state and builds the shader program.
// Must be called after the GL context exists.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		lightDir: math.Vec3{X: -0.4, Y: -0.7, Z: -0.6}.Normalize(),
		ambient:  0.25,
		diffuse:  0.75,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.08, 0.09, 0.12, 1.0)

	program, err := shader.CompileProgram(vertexShaderSrc, fragmentShaderSrc)
	if err != nil {
		return nil, err
	}
	r.program = program

	// Resolve every uniform up front so a missing one fails construction
	// instead of a frame.
	locs := []struct {
		name string
		dst  *int32
	}{
		{"uMVP", &r.locMVP},
		{"uModel", &r.locModel},
		{"uLightDir", &r.locLightDir},
		{"uColor", &r.locColor},
		{"uAmbient", &r.locAmbient},
		{"uDiffuse", &r.locDiffuse},
	}
	for _, l := range locs {
		loc, err := shader.Uniform(program, l.name)
		if err != nil {
			gl.DeleteProgram(program)
			return nil, err
		}
		*l.dst = loc
	}

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// Close releases the program.
func (r *Renderer) Close() {
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Aspect returns the current width/height ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin clears the frame and binds the program with the frame-constant
// lighting uniforms.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(r.program)
	gl.Uniform3f(r.locLightDir, r.lightDir.X, r.lightDir.Y, r.lightDir.Z)
	gl.Uniform1f(r.locAmbient, r.ambient)
	gl.Uniform1f(r.locDiffuse, r.diffuse)
}

// Draw issues a triangle-list draw for one instance.
// model = translate(position) * scale(scale) * normalization.
func (r *Renderer) Draw(viewProj math.Mat4, inst Instance) {
	model := math.TranslateVec(inst.Position).
		Mul(math.ScaleUniform(inst.Scale)).
		Mul(inst.Res.Norm.Transform)
	mvp := viewProj.Mul(model)

	gl.UniformMatrix4fv(r.locMVP, 1, false, mvp.Ptr())
	gl.UniformMatrix4fv(r.locModel, 1, false, model.Ptr())
	gl.Uniform3f(r.locColor, inst.Color.X, inst.Color.Y, inst.Color.Z)

	gl.BindVertexArray(inst.Res.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, inst.Res.vertexCount)
	gl.BindVertexArray(0)
}
