package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidMesh = errors.New("invalid mesh")

// Vertex mirrors the vertex layout consumed by the vertex shader
type Vertex struct {
	Position mgl64.Vec3
	UV       mgl64.Vec2
	Normal   mgl64.Vec3
	Tangent  mgl64.Vec3
}

// Mesh is an indexed triangle list shared between entities
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32

	bounds AABB
}

// NewMesh validates the index buffer and computes the local bounds
func NewMesh(name string, vertices []Vertex, indices []uint32) (*Mesh, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %s has %d indices, not a triangle list", ErrInvalidMesh, name, len(indices))
	}
	for i, index := range indices {
		if int(index) >= len(vertices) {
			return nil, fmt.Errorf("%w: %s index %d references vertex %d of %d", ErrInvalidMesh, name, i, index, len(vertices))
		}
	}

	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	m.computeBounds()

	return m, nil
}

func (m *Mesh) computeBounds() {
	m.bounds = EmptyAABB()
	for _, v := range m.Vertices {
		m.bounds = m.bounds.Extend(v.Position)
	}
}

// Bounds returns the local-space bounding box
func (m *Mesh) Bounds() AABB {
	return m.bounds
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Edges returns every undirected triangle edge once, in first-seen order
func (m *Mesh) Edges() [][2]uint32 {
	seen := make(map[[2]uint32]struct{}, len(m.Indices))
	edges := make([][2]uint32, 0, len(m.Indices))

	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := [3]uint32{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if b < a {
				a, b = b, a
			}
			key := [2]uint32{a, b}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, key)
		}
	}

	return edges
}

// NewTriangle builds the single triangle of the first render
func NewTriangle() *Mesh {
	normal := mgl64.Vec3{0, 0, -1}
	tangent := mgl64.Vec3{1, 0, 0}
	vertices := []Vertex{
		{Position: mgl64.Vec3{0, 0.5, 0}, UV: mgl64.Vec2{0.5, 0}, Normal: normal, Tangent: tangent},
		{Position: mgl64.Vec3{0.5, -0.5, 0}, UV: mgl64.Vec2{1, 1}, Normal: normal, Tangent: tangent},
		{Position: mgl64.Vec3{-0.5, -0.5, 0}, UV: mgl64.Vec2{0, 1}, Normal: normal, Tangent: tangent},
	}

	m, _ := NewMesh("triangle", vertices, []uint32{0, 1, 2})
	return m
}

// NewQuad builds a square in the XY plane facing -Z
func NewQuad(size float64) *Mesh {
	h := size / 2
	normal := mgl64.Vec3{0, 0, -1}
	tangent := mgl64.Vec3{1, 0, 0}
	vertices := []Vertex{
		{Position: mgl64.Vec3{-h, h, 0}, UV: mgl64.Vec2{0, 0}, Normal: normal, Tangent: tangent},
		{Position: mgl64.Vec3{h, h, 0}, UV: mgl64.Vec2{1, 0}, Normal: normal, Tangent: tangent},
		{Position: mgl64.Vec3{h, -h, 0}, UV: mgl64.Vec2{1, 1}, Normal: normal, Tangent: tangent},
		{Position: mgl64.Vec3{-h, -h, 0}, UV: mgl64.Vec2{0, 1}, Normal: normal, Tangent: tangent},
	}

	m, _ := NewMesh("quad", vertices, []uint32{0, 1, 2, 2, 3, 0})
	return m
}

// NewCube builds an axis-aligned cube with one set of 4 vertices per face
func NewCube(size float64) *Mesh {
	h := size / 2
	faces := []struct {
		normal, tangent, bitangent mgl64.Vec3
	}{
		{mgl64.Vec3{0, 0, -1}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}},
		{mgl64.Vec3{0, 0, 1}, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, 1, 0}},
		{mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0}},
		{mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 1, 0}},
		{mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}},
		{mgl64.Vec3{0, -1, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, -1}},
	}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		center := f.normal.Mul(h)
		t := f.tangent.Mul(h)
		b := f.bitangent.Mul(h)
		base := uint32(len(vertices))

		vertices = append(vertices,
			Vertex{Position: center.Sub(t).Add(b), UV: mgl64.Vec2{0, 0}, Normal: f.normal, Tangent: f.tangent},
			Vertex{Position: center.Add(t).Add(b), UV: mgl64.Vec2{1, 0}, Normal: f.normal, Tangent: f.tangent},
			Vertex{Position: center.Add(t).Sub(b), UV: mgl64.Vec2{1, 1}, Normal: f.normal, Tangent: f.tangent},
			Vertex{Position: center.Sub(t).Sub(b), UV: mgl64.Vec2{0, 1}, Normal: f.normal, Tangent: f.tangent},
		)
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}

	m, _ := NewMesh("cube", vertices, indices)
	return m
}

// NewSphere builds a UV sphere; slices and stacks are clamped to sane minimums
func NewSphere(radius float64, slices, stacks int) *Mesh {
	slices = max(slices, 3)
	stacks = max(stacks, 2)

	vertices := make([]Vertex, 0, (slices+1)*(stacks+1))
	for stack := 0; stack <= stacks; stack++ {
		v := float64(stack) / float64(stacks)
		phi := v * math.Pi
		for slice := 0; slice <= slices; slice++ {
			u := float64(slice) / float64(slices)
			theta := u * 2 * math.Pi

			normal := mgl64.Vec3{
				math.Sin(phi) * math.Cos(theta),
				math.Cos(phi),
				math.Sin(phi) * math.Sin(theta),
			}
			tangent := mgl64.Vec3{-math.Sin(theta), 0, math.Cos(theta)}
			vertices = append(vertices, Vertex{
				Position: normal.Mul(radius),
				UV:       mgl64.Vec2{u, v},
				Normal:   normal,
				Tangent:  tangent,
			})
		}
	}

	indices := make([]uint32, 0, slices*stacks*6)
	ring := uint32(slices + 1)
	for stack := 0; stack < stacks; stack++ {
		for slice := 0; slice < slices; slice++ {
			a := uint32(stack)*ring + uint32(slice)
			b := a + ring
			indices = append(indices, a, a+1, b, b, a+1, b+1)
		}
	}

	m, _ := NewMesh("sphere", vertices, indices)
	return m
}
