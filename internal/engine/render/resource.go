package render

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/meshfall/meshfall/internal/engine/geometry"
	"github.com/meshfall/meshfall/internal/engine/mesh"
)

// AllocError reports a GPU object the backend refused to create.
type AllocError struct {
	Object string
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("could not allocate GPU %s", e.Object)
}

// MeshResource owns the GPU-side buffers for one uploaded FlatMesh: a vertex
// array with separate position and normal buffers, plus the mesh's
// normalization. Released explicitly; GPU memory is never left to the
// garbage collector.
type MeshResource struct {
	vao         uint32
	positionVBO uint32
	normalVBO   uint32
	vertexCount int32

	Norm mesh.Normalization
}

// Upload creates GPU buffers for a flat mesh. The caller keeps exclusive
// ownership and must call Release.
func Upload(m *geometry.FlatMesh, norm mesh.Normalization) (*MeshResource, error) {
	res := &MeshResource{
		vertexCount: int32(m.VertexCount()),
		Norm:        norm,
	}

	gl.GenVertexArrays(1, &res.vao)
	if res.vao == 0 {
		return nil, &AllocError{Object: "vertex array"}
	}
	gl.BindVertexArray(res.vao)

	gl.GenBuffers(1, &res.positionVBO)
	if res.positionVBO == 0 {
		res.Release()
		return nil, &AllocError{Object: "position buffer"}
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, res.positionVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Positions)*4, unsafe.Pointer(&m.Positions[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &res.normalVBO)
	if res.normalVBO == 0 {
		res.Release()
		return nil, &AllocError{Object: "normal buffer"}
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, res.normalVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Normals)*4, unsafe.Pointer(&m.Normals[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return res, nil
}

// VertexCount returns the number of vertices uploaded.
func (r *MeshResource) VertexCount() int32 {
	return r.vertexCount
}

// Release frees the GPU objects. Safe to call more than once.
func (r *MeshResource) Release() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.positionVBO != 0 {
		gl.DeleteBuffers(1, &r.positionVBO)
		r.positionVBO = 0
	}
	if r.normalVBO != 0 {
		gl.DeleteBuffers(1, &r.normalVBO)
		r.normalVBO = 0
	}
}
