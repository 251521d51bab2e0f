// Package geometry parses the OBJ-subset text format into flat triangle buffers.
package geometry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meshfall/meshfall/pkg/math"
)

// FlatMesh is a triangulated, index-free vertex buffer pair. Positions and
// Normals are interleaved-free xyz triples of equal length.
type FlatMesh struct {
	Positions []float32
	Normals   []float32
}

// VertexCount returns the number of triangle vertices.
func (m *FlatMesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *FlatMesh) TriangleCount() int {
	return len(m.Positions) / 9
}

// Position returns the i-th vertex position.
func (m *FlatMesh) Position(i int) math.Vec3 {
	return math.Vec3{X: m.Positions[i*3], Y: m.Positions[i*3+1], Z: m.Positions[i*3+2]}
}

// MalformedError reports geometry text that cannot produce a usable mesh.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "malformed geometry: " + e.Reason
}

// faceVertex is one corner of a source face, indices still 1-based.
type faceVertex struct {
	position int
	normal   int // 0 when the token carried no normal index
}

// Parse converts OBJ-subset text into a FlatMesh. Recognized lines are
// "v x y z", "vn x y z" and "f" with three or more vertex tokens; everything
// else (comments, blanks, unknown keywords) is ignored. Faces with more than
// three vertices are fan-triangulated from the first vertex. Line order does
// not matter: faces may reference vertices defined later in the file.
//
// When the file contains no "vn" line at all, flat normals are synthesized
// per triangle from its edge cross product. Files with partial normal
// coverage keep whatever was parsed, with zero normals for uncovered corners.
func Parse(text string) (*FlatMesh, error) {
	var (
		positions []math.Vec3
		normals   []math.Vec3
		faces     [][]faceVertex
	)

	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, &MalformedError{Reason: fmt.Sprintf("vertex line %q: %v", strings.TrimSpace(line), err)}
			}
			positions = append(positions, v)

		case "vn":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, &MalformedError{Reason: fmt.Sprintf("normal line %q: %v", strings.TrimSpace(line), err)}
			}
			normals = append(normals, v)

		case "f":
			if len(fields) < 4 {
				return nil, &MalformedError{Reason: fmt.Sprintf("face line %q: needs at least 3 vertices", strings.TrimSpace(line))}
			}
			face := make([]faceVertex, 0, len(fields)-1)
			for _, token := range fields[1:] {
				fv, err := parseFaceVertex(token)
				if err != nil {
					return nil, &MalformedError{Reason: fmt.Sprintf("face token %q: %v", token, err)}
				}
				face = append(face, fv)
			}
			faces = append(faces, face)
		}
	}

	if len(faces) == 0 && len(positions) < 3 {
		return nil, &MalformedError{Reason: fmt.Sprintf("degenerate mesh: %d vertices and no faces", len(positions))}
	}

	mesh := &FlatMesh{}
	for _, face := range faces {
		// Fan triangulation from the first vertex.
		for i := 1; i+1 < len(face); i++ {
			if err := emitTriangle(mesh, positions, normals, face[0], face[i], face[i+1]); err != nil {
				return nil, err
			}
		}
	}

	// Flat-shading fallback: only when the entire file lacks normals.
	if len(normals) == 0 {
		synthesizeNormals(mesh)
	}

	return mesh, nil
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var c [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, err
		}
		c[i] = float32(f)
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// parseFaceVertex parses "i", "i/t", "i//n" or "i/t/n". The texture slot is
// ignored.
func parseFaceVertex(token string) (faceVertex, error) {
	parts := strings.Split(token, "/")

	pos, err := strconv.Atoi(parts[0])
	if err != nil {
		return faceVertex{}, err
	}

	fv := faceVertex{position: pos}
	if len(parts) >= 3 && parts[2] != "" {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return faceVertex{}, err
		}
		fv.normal = n
	}
	return fv, nil
}

func emitTriangle(mesh *FlatMesh, positions, normals []math.Vec3, corners ...faceVertex) error {
	for _, fv := range corners {
		if fv.position < 1 || fv.position > len(positions) {
			return &MalformedError{Reason: fmt.Sprintf("face references vertex %d of %d", fv.position, len(positions))}
		}
		p := positions[fv.position-1]
		mesh.Positions = append(mesh.Positions, p.X, p.Y, p.Z)

		var n math.Vec3
		if fv.normal >= 1 && fv.normal <= len(normals) {
			n = normals[fv.normal-1]
		}
		mesh.Normals = append(mesh.Normals, n.X, n.Y, n.Z)
	}
	return nil
}

// synthesizeNormals writes a per-triangle flat normal across all three
// corners of every triangle.
func synthesizeNormals(mesh *FlatMesh) {
	for t := 0; t < mesh.TriangleCount(); t++ {
		v0 := mesh.Position(t * 3)
		v1 := mesh.Position(t*3 + 1)
		v2 := mesh.Position(t*3 + 2)
		n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

		for j := 0; j < 3; j++ {
			i := (t*3 + j) * 3
			mesh.Normals[i] = n.X
			mesh.Normals[i+1] = n.Y
			mesh.Normals[i+2] = n.Z
		}
	}
}
