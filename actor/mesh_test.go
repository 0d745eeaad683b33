package actor

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewMeshValidation(t *testing.T) {
	vertices := []Vertex{
		{Position: mgl64.Vec3{0, 0, 0}},
		{Position: mgl64.Vec3{1, 0, 0}},
		{Position: mgl64.Vec3{0, 1, 0}},
	}

	tests := []struct {
		name    string
		indices []uint32
		wantErr bool
	}{
		{"Valid triangle", []uint32{0, 1, 2}, false},
		{"Empty", nil, false},
		{"Not a triangle list", []uint32{0, 1}, true},
		{"Index out of range", []uint32{0, 1, 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMesh("test", vertices, tt.indices)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMesh) {
					t.Errorf("expected ErrInvalidMesh, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestProceduralMeshes(t *testing.T) {
	tests := []struct {
		name      string
		mesh      *Mesh
		vertices  int
		triangles int
		bounds    AABB
	}{
		{
			name:      "Triangle",
			mesh:      NewTriangle(),
			vertices:  3,
			triangles: 1,
			bounds:    AABB{Min: mgl64.Vec3{-0.5, -0.5, 0}, Max: mgl64.Vec3{0.5, 0.5, 0}},
		},
		{
			name:      "Quad",
			mesh:      NewQuad(2),
			vertices:  4,
			triangles: 2,
			bounds:    AABB{Min: mgl64.Vec3{-1, -1, 0}, Max: mgl64.Vec3{1, 1, 0}},
		},
		{
			name:      "Cube",
			mesh:      NewCube(1),
			vertices:  24,
			triangles: 12,
			bounds:    AABB{Min: mgl64.Vec3{-0.5, -0.5, -0.5}, Max: mgl64.Vec3{0.5, 0.5, 0.5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.mesh.VertexCount() != tt.vertices {
				t.Errorf("VertexCount = %d, expected %d", tt.mesh.VertexCount(), tt.vertices)
			}
			if tt.mesh.TriangleCount() != tt.triangles {
				t.Errorf("TriangleCount = %d, expected %d", tt.mesh.TriangleCount(), tt.triangles)
			}
			if tt.mesh.IndexCount() != 3*tt.triangles {
				t.Errorf("IndexCount = %d, expected %d", tt.mesh.IndexCount(), 3*tt.triangles)
			}
			b := tt.mesh.Bounds()
			if !b.Min.ApproxEqualThreshold(tt.bounds.Min, 1e-12) || !b.Max.ApproxEqualThreshold(tt.bounds.Max, 1e-12) {
				t.Errorf("Bounds = %v, expected %v", b, tt.bounds)
			}
		})
	}
}

func TestCubeFacesPointOutward(t *testing.T) {
	cube := NewCube(2)

	for i := 0; i < len(cube.Indices); i += 3 {
		a := cube.Vertices[cube.Indices[i]]
		b := cube.Vertices[cube.Indices[i+1]]
		c := cube.Vertices[cube.Indices[i+2]]

		// every vertex of a face lies on the plane the normal points to
		for _, v := range []Vertex{a, b, c} {
			if d := v.Position.Dot(a.Normal); math.Abs(d-1) > 1e-12 {
				t.Fatalf("triangle %d: vertex %v not on face with normal %v", i/3, v.Position, a.Normal)
			}
		}

		// clockwise seen from outside in a left-handed frame
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		if n.Dot(a.Normal) <= 0 {
			t.Errorf("triangle %d: winding normal %v against face normal %v", i/3, n, a.Normal)
		}
	}
}

func TestSphere(t *testing.T) {
	sphere := NewSphere(2, 8, 4)

	if sphere.VertexCount() != 9*5 {
		t.Errorf("VertexCount = %d, expected 45", sphere.VertexCount())
	}
	if sphere.TriangleCount() != 8*4*2 {
		t.Errorf("TriangleCount = %d, expected 64", sphere.TriangleCount())
	}
	for i, v := range sphere.Vertices {
		if math.Abs(v.Position.Len()-2) > 1e-9 {
			t.Fatalf("vertex %d at distance %v, expected 2", i, v.Position.Len())
		}
		if math.Abs(v.Normal.Len()-1) > 1e-9 {
			t.Fatalf("vertex %d normal not unit: %v", i, v.Normal)
		}
	}

	clamped := NewSphere(1, 0, 0)
	if clamped.TriangleCount() != 3*2*2 {
		t.Errorf("degenerate sphere should be clamped to 3 slices and 2 stacks, got %d triangles", clamped.TriangleCount())
	}
}

func TestMeshEdges(t *testing.T) {
	quad := NewQuad(1)
	edges := quad.Edges()

	// 4 sides plus the shared diagonal
	if len(edges) != 5 {
		t.Fatalf("expected 5 unique edges, got %d: %v", len(edges), edges)
	}

	seen := make(map[[2]uint32]bool)
	for _, e := range edges {
		key := e
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			t.Errorf("edge %v listed twice", e)
		}
		seen[key] = true
	}
}

func TestEntityWorldBounds(t *testing.T) {
	entity := NewEntity("box", NewCube(1), nil)
	entity.Transform().SetPositionXYZ(10, 0, 0)
	entity.Transform().SetScaleXYZ(2, 2, 2)

	b := entity.WorldBounds()
	if !b.Min.ApproxEqualThreshold(mgl64.Vec3{9, -1, -1}, 1e-12) || !b.Max.ApproxEqualThreshold(mgl64.Vec3{11, 1, 1}, 1e-12) {
		t.Errorf("WorldBounds = %v", b)
	}

	empty := NewEntity("nothing", nil, nil)
	if !empty.WorldBounds().IsEmpty() {
		t.Error("entity without mesh should have empty bounds")
	}
}

func TestNewMaterial(t *testing.T) {
	m := NewMaterial("shiny", mgl64.Vec4{1, 0, 0, 1}, 1.7)

	if m.Roughness != 1 {
		t.Errorf("roughness should be clamped to 1, got %v", m.Roughness)
	}
	if m.UVScale != (mgl64.Vec2{1, 1}) {
		t.Errorf("UVScale = %v, expected {1, 1}", m.UVScale)
	}
	if m.VertexShader != DefaultVertexShader || m.PixelShader != DefaultPixelShader {
		t.Errorf("unexpected shaders %q %q", m.VertexShader, m.PixelShader)
	}
}
