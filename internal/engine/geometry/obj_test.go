package geometry

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const triangleOBJ = `
# simple triangle
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func TestParseTriangle(t *testing.T) {
	mesh, err := Parse(triangleOBJ)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if mesh.TriangleCount() != 1 {
		t.Errorf("triangle count: got %d, want 1", mesh.TriangleCount())
	}
	if len(mesh.Positions) != len(mesh.Normals) {
		t.Errorf("positions (%d) and normals (%d) must match", len(mesh.Positions), len(mesh.Normals))
	}
	if len(mesh.Positions)%9 != 0 {
		t.Errorf("positions length %d must be a multiple of 9", len(mesh.Positions))
	}
}

func TestParseQuadFan(t *testing.T) {
	mesh, err := Parse(`
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Fatalf("quad should fan into 2 triangles, got %d", mesh.TriangleCount())
	}

	// Fan order: (1,2,3) then (1,3,4).
	wantFirst := []float32{0, 0, 0, 1, 0, 0, 1, 1, 0}
	wantSecond := []float32{0, 0, 0, 1, 1, 0, 0, 1, 0}
	for i, w := range wantFirst {
		if mesh.Positions[i] != w {
			t.Fatalf("first triangle position %d: got %f, want %f", i, mesh.Positions[i], w)
		}
	}
	for i, w := range wantSecond {
		if mesh.Positions[9+i] != w {
			t.Fatalf("second triangle position %d: got %f, want %f", i, mesh.Positions[9+i], w)
		}
	}
}

func TestParseFaceBeforeVertices(t *testing.T) {
	// Line order must not matter.
	mesh, err := Parse(`
f 1 2 3
v 0 0 0
v 1 0 0
v 0 1 0
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("triangle count: got %d, want 1", mesh.TriangleCount())
	}
}

func TestParseExplicitNormals(t *testing.T) {
	mesh, err := Parse(`
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for i := 0; i < 3; i++ {
		if mesh.Normals[i*3+2] != 1 {
			t.Errorf("vertex %d normal z: got %f, want 1", i, mesh.Normals[i*3+2])
		}
	}
}

func TestParsePartialNormalsKeptAsIs(t *testing.T) {
	// One vn line exists, so no fallback fires: corners without a normal
	// index keep a zero vector.
	mesh, err := Parse(`
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2 3
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if mesh.Normals[2] != 1 {
		t.Errorf("first corner should keep explicit normal, got z=%f", mesh.Normals[2])
	}
	if mesh.Normals[3] != 0 || mesh.Normals[4] != 0 || mesh.Normals[5] != 0 {
		t.Error("uncovered corner should keep a zero normal")
	}
}

func cubeOBJ() string {
	var sb strings.Builder
	for _, v := range []string{
		"v -1 -1 -1", "v 1 -1 -1", "v 1 1 -1", "v -1 1 -1",
		"v -1 -1 1", "v 1 -1 1", "v 1 1 1", "v -1 1 1",
	} {
		sb.WriteString(v + "\n")
	}
	for _, f := range []string{
		"f 1 2 3 4", "f 5 8 7 6", "f 1 5 6 2",
		"f 2 6 7 3", "f 3 7 8 4", "f 5 1 4 8",
	} {
		sb.WriteString(f + "\n")
	}
	return sb.String()
}

func TestParseCubeSynthesizedNormals(t *testing.T) {
	mesh, err := Parse(cubeOBJ())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if mesh.TriangleCount() != 12 {
		t.Fatalf("cube should have 12 triangles, got %d", mesh.TriangleCount())
	}

	for tri := 0; tri < mesh.TriangleCount(); tri++ {
		nx := mesh.Normals[tri*9]
		ny := mesh.Normals[tri*9+1]
		nz := mesh.Normals[tri*9+2]

		length := math.Sqrt(float64(nx*nx + ny*ny + nz*nz))
		if math.Abs(length-1) > 1e-5 {
			t.Errorf("triangle %d normal length: got %f, want 1", tri, length)
		}

		// Axis-aligned cube faces: exactly one non-zero component.
		nonZero := 0
		for _, c := range []float32{nx, ny, nz} {
			if c != 0 {
				nonZero++
			}
		}
		if nonZero != 1 {
			t.Errorf("triangle %d normal (%f, %f, %f): want exactly one non-zero axis", tri, nx, ny, nz)
		}

		// Flat shading: replicated across all three corners.
		for j := 1; j < 3; j++ {
			if mesh.Normals[(tri*3+j)*3] != nx || mesh.Normals[(tri*3+j)*3+1] != ny || mesh.Normals[(tri*3+j)*3+2] != nz {
				t.Errorf("triangle %d corner %d normal differs from corner 0", tri, j)
			}
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing vertex", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"degenerate", "v 0 0 0\nv 1 0 0\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2\n"},
		{"bad float", "v 0 0 zero\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			var malformed *MalformedError
			if !errors.As(err, &malformed) {
				t.Fatalf("want MalformedError, got %v", err)
			}
		})
	}
}

func TestParseIgnoresUnknownLines(t *testing.T) {
	mesh, err := Parse(`
# comment
mtllib ignored.mtl
o object
vt 0.5 0.5
v 0 0 0
v 1 0 0
v 0 1 0
f 1/1 2/1 3/1
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("triangle count: got %d, want 1", mesh.TriangleCount())
	}
}
