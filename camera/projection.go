package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// The builders below produce left-handed matrices with a [0, 1] depth range.
// mathgl stores matrices column-major and multiplies column vectors, so each
// result holds the same 16 floats, in the same order, as the row-vector
// matrix a D3D-style shader expects.

// PerspectiveFovLH builds a left-handed perspective projection from a
// vertical field of view
func PerspectiveFovLH(fov, aspectRatio, near, far float64) mgl64.Mat4 {
	h := 1 / math.Tan(fov/2)
	w := h / aspectRatio
	depth := far / (far - near)

	return mgl64.Mat4{
		w, 0, 0, 0,
		0, h, 0, 0,
		0, 0, depth, 1,
		0, 0, -depth * near, 0,
	}
}

// OrthographicLH builds a left-handed orthographic projection of a view
// volume centered on the view axis
func OrthographicLH(width, height, near, far float64) mgl64.Mat4 {
	depth := 1 / (far - near)

	return mgl64.Mat4{
		2 / width, 0, 0, 0,
		0, 2 / height, 0, 0,
		0, 0, depth, 0,
		0, 0, -depth * near, 1,
	}
}

// LookToLH builds a left-handed view matrix from an eye position, a view
// direction and an up hint
func LookToLH(eye, direction, up mgl64.Vec3) mgl64.Mat4 {
	forward := direction.Normalize()
	right := up.Cross(forward).Normalize()
	trueUp := forward.Cross(right)

	negEye := eye.Mul(-1)

	return mgl64.Mat4{
		right.X(), trueUp.X(), forward.X(), 0,
		right.Y(), trueUp.Y(), forward.Y(), 0,
		right.Z(), trueUp.Z(), forward.Z(), 0,
		right.Dot(negEye), trueUp.Dot(negEye), forward.Dot(negEye), 1,
	}
}

// WithoutTranslation keeps only the rotation part of a view matrix, for
// geometry that must stay centered on the viewer such as a sky box
func WithoutTranslation(view mgl64.Mat4) mgl64.Mat4 {
	view[12], view[13], view[14] = 0, 0, 0
	return view
}
