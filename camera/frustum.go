package camera

import (
	"github.com/akmonengine/lumen/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Frustum is the clip volume of a camera expressed as 6 world-space planes.
// Each plane is (a, b, c, d) with a*x + b*y + c*z + d >= 0 on the inside.
type Frustum struct {
	Planes  [6]mgl64.Vec4
	Corners [8]mgl64.Vec3
}

const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// Frustum extracts the clip planes of Projection * View
func (c *Camera) Frustum() Frustum {
	return NewFrustum(c.ViewProjection())
}

// NewFrustum extracts the planes and corners of a view-projection matrix
// with a [0, 1] depth range
func NewFrustum(viewProjection mgl64.Mat4) Frustum {
	r0, r1, r2, r3 := viewProjection.Row(0), viewProjection.Row(1), viewProjection.Row(2), viewProjection.Row(3)

	f := Frustum{
		Planes: [6]mgl64.Vec4{
			PlaneLeft:   r3.Add(r0),
			PlaneRight:  r3.Sub(r0),
			PlaneBottom: r3.Add(r1),
			PlaneTop:    r3.Sub(r1),
			PlaneNear:   r2,
			PlaneFar:    r3.Sub(r2),
		},
	}
	for i, p := range f.Planes {
		length := p.Vec3().Len()
		if length > 0 {
			f.Planes[i] = p.Mul(1 / length)
		}
	}

	inverse := viewProjection.Inv()
	i := 0
	for _, z := range []float64{0, 1} {
		for _, y := range []float64{-1, 1} {
			for _, x := range []float64{-1, 1} {
				f.Corners[i] = mgl64.TransformCoordinate(mgl64.Vec3{x, y, z}, inverse)
				i++
			}
		}
	}

	return f
}

// Bounds returns the world-space box enclosing the frustum corners
func (f Frustum) Bounds() actor.AABB {
	box := actor.EmptyAABB()
	for _, corner := range f.Corners {
		box = box.Extend(corner)
	}
	return box
}

// ContainsPoint reports whether p lies inside every plane
func (f Frustum) ContainsPoint(p mgl64.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.Vec3().Dot(p)+plane.W() < 0 {
			return false
		}
	}
	return true
}

// IntersectsAABB is conservative: it may accept a box near a frustum edge
// that is actually outside, but never rejects a visible box.
func (f Frustum) IntersectsAABB(box actor.AABB) bool {
	if box.IsEmpty() {
		return false
	}

	for _, plane := range f.Planes {
		// the box corner furthest along the plane normal
		positive := box.Min
		for axis := 0; axis < 3; axis++ {
			if plane[axis] >= 0 {
				positive[axis] = box.Max[axis]
			}
		}
		if plane.Vec3().Dot(positive)+plane.W() < 0 {
			return false
		}
	}
	return true
}
