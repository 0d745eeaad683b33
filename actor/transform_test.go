package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func matApproxEqual(a, b mgl64.Mat4) bool {
	return a.ApproxEqualThreshold(b, epsilon)
}

// =============================================================================
// World matrix
// =============================================================================

func TestTransformIdentity(t *testing.T) {
	tr := NewTransform()

	if tr.WorldMatrix() != mgl64.Ident4() {
		t.Errorf("new transform world matrix should be identity, got %v", tr.WorldMatrix())
	}
	if tr.WorldInverseTransposeMatrix() != mgl64.Ident4() {
		t.Errorf("new transform inverse-transpose should be identity, got %v", tr.WorldInverseTransposeMatrix())
	}
	if tr.Scale() != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("default scale should be 1, got %v", tr.Scale())
	}
}

func TestTransformTranslationLayout(t *testing.T) {
	tr := NewTransform()
	tr.SetPositionXYZ(1, 2, 3)

	m := tr.WorldMatrix()
	if m[12] != 1 || m[13] != 2 || m[14] != 3 || m[15] != 1 {
		t.Errorf("translation should occupy elements 12..14, got %v", m)
	}

	// the upper 3x3 stays identity
	for _, i := range []int{0, 5, 10} {
		if m[i] != 1 {
			t.Errorf("m[%d] = %v, expected 1", i, m[i])
		}
	}
}

func TestTransformComposition(t *testing.T) {
	tests := []struct {
		name     string
		position mgl64.Vec3
		rotation mgl64.Vec3
		scale    mgl64.Vec3
	}{
		{"Scale only", mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{2, 3, 4}},
		{"Yaw and translation", mgl64.Vec3{5, 0, -1}, mgl64.Vec3{0, math.Pi / 3, 0}, mgl64.Vec3{1, 1, 1}},
		{"All components", mgl64.Vec3{-1, 2, 7}, mgl64.Vec3{0.3, -1.2, 0.7}, mgl64.Vec3{0.5, 2, 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransform()
			tr.SetPosition(tt.position)
			tr.SetRotation(tt.rotation)
			tr.SetScale(tt.scale)

			expected := mgl64.Translate3D(tt.position.X(), tt.position.Y(), tt.position.Z()).
				Mul4(mgl64.HomogRotate3DY(tt.rotation.Y())).
				Mul4(mgl64.HomogRotate3DX(tt.rotation.X())).
				Mul4(mgl64.HomogRotate3DZ(tt.rotation.Z())).
				Mul4(mgl64.Scale3D(tt.scale.X(), tt.scale.Y(), tt.scale.Z()))

			if !matApproxEqual(tr.WorldMatrix(), expected) {
				t.Errorf("WorldMatrix = %v, expected %v", tr.WorldMatrix(), expected)
			}

			// a local point lands where scale, then rotation, then translation put it
			local := mgl64.Vec3{1, -2, 0.5}
			scaled := mgl64.Vec3{local.X() * tt.scale.X(), local.Y() * tt.scale.Y(), local.Z() * tt.scale.Z()}
			want := tr.Orientation().Rotate(scaled).Add(tt.position)
			got := mgl64.TransformCoordinate(local, tr.WorldMatrix())
			if !got.ApproxEqualThreshold(want, epsilon) {
				t.Errorf("transformed point = %v, expected %v", got, want)
			}
		})
	}
}

func TestTransformInverseTranspose(t *testing.T) {
	tr := NewTransform()
	tr.SetPositionXYZ(3, -1, 2)
	tr.SetRotationXYZ(0.4, 1.1, -0.2)
	tr.SetScaleXYZ(1, 4, 0.5)

	expected := tr.WorldMatrix().Inv().Transpose()
	if !matApproxEqual(tr.WorldInverseTransposeMatrix(), expected) {
		t.Errorf("inverse-transpose mismatch:\n got %v\nwant %v", tr.WorldInverseTransposeMatrix(), expected)
	}

	// normal of the XZ plane stays perpendicular to a transformed tangent
	tangent := tr.WorldMatrix().Mul4x1(mgl64.Vec4{1, 0, 0, 0}).Vec3()
	normal := tr.WorldInverseTransposeMatrix().Mul4x1(mgl64.Vec4{0, 1, 0, 0}).Vec3()
	if d := tangent.Dot(normal); math.Abs(d) > epsilon {
		t.Errorf("normal should stay perpendicular to the surface, dot = %v", d)
	}
}

func TestTransformCachesAreIndependent(t *testing.T) {
	tr := NewTransform()
	tr.SetScaleXYZ(2, 2, 2)

	// only the inverse-transpose is read; the world cache stays dirty
	first := tr.WorldInverseTransposeMatrix()
	tr.SetPositionXYZ(1, 0, 0)

	if tr.WorldInverseTransposeMatrix() == first {
		t.Error("inverse-transpose should be rebuilt after a mutation")
	}

	// reading the world matrix first must not leave a stale inverse-transpose
	tr2 := NewTransform()
	_ = tr2.WorldMatrix()
	tr2.SetPositionXYZ(0, 5, 0)
	_ = tr2.WorldMatrix()
	expected := mgl64.Translate3D(0, 5, 0).Inv().Transpose()
	if !matApproxEqual(tr2.WorldInverseTransposeMatrix(), expected) {
		t.Errorf("inverse-transpose = %v, expected %v", tr2.WorldInverseTransposeMatrix(), expected)
	}
}

func TestTransformRepeatedReadsAreStable(t *testing.T) {
	tr := NewTransform()
	tr.SetRotationXYZ(0.1, 0.2, 0.3)

	a := tr.WorldMatrix()
	b := tr.WorldMatrix()
	if a != b {
		t.Error("world matrix should be identical across reads without mutation")
	}
}

// =============================================================================
// Movement and orientation
// =============================================================================

func TestTransformMoveAbsolute(t *testing.T) {
	tr := NewTransform()
	tr.SetRotationXYZ(0, math.Pi/2, 0)
	tr.MoveAbsolute(mgl64.Vec3{0, 0, 1})

	if !tr.Position().ApproxEqualThreshold(mgl64.Vec3{0, 0, 1}, epsilon) {
		t.Errorf("MoveAbsolute should ignore rotation, got %v", tr.Position())
	}
}

func TestTransformMoveRelative(t *testing.T) {
	tests := []struct {
		name     string
		rotation mgl64.Vec3
		offset   mgl64.Vec3
		expected mgl64.Vec3
	}{
		{"No rotation", mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}},
		{"Yaw 90 forward goes +X", mgl64.Vec3{0, math.Pi / 2, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}},
		{"Yaw 90 right goes -Z", mgl64.Vec3{0, math.Pi / 2, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, -1}},
		{"Pitch 90 forward goes -Y", mgl64.Vec3{math.Pi / 2, 0, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, -1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransform()
			tr.SetRotation(tt.rotation)
			tr.MoveRelative(tt.offset)

			if !tr.Position().ApproxEqualThreshold(tt.expected, epsilon) {
				t.Errorf("position = %v, expected %v", tr.Position(), tt.expected)
			}
		})
	}
}

func TestTransformBasisIsOrthonormal(t *testing.T) {
	rotations := []mgl64.Vec3{
		{},
		{0.5, 0, 0},
		{0, 2.1, 0},
		{-0.7, 0.3, 1.4},
		{math.Pi / 2, math.Pi, 0},
	}

	for _, r := range rotations {
		tr := NewTransform()
		tr.SetRotation(r)

		f, u, rt := tr.Forward(), tr.Up(), tr.Right()
		for name, v := range map[string]mgl64.Vec3{"forward": f, "up": u, "right": rt} {
			if math.Abs(v.Len()-1) > epsilon {
				t.Errorf("rotation %v: %s not unit length: %v", r, name, v.Len())
			}
		}
		if math.Abs(f.Dot(u)) > epsilon || math.Abs(f.Dot(rt)) > epsilon || math.Abs(u.Dot(rt)) > epsilon {
			t.Errorf("rotation %v: basis not orthogonal", r)
		}
		// left-handed: up x forward = right
		if !u.Cross(f).ApproxEqualThreshold(rt, epsilon) {
			t.Errorf("rotation %v: up x forward = %v, expected right %v", r, u.Cross(f), rt)
		}
	}
}

func TestTransformRotateAndScaleBy(t *testing.T) {
	tr := NewTransform()
	tr.Rotate(mgl64.Vec3{0.1, 0.2, 0.3})
	tr.Rotate(mgl64.Vec3{0.1, 0.2, 0.3})

	if !tr.PitchYawRoll().ApproxEqualThreshold(mgl64.Vec3{0.2, 0.4, 0.6}, epsilon) {
		t.Errorf("Rotate should accumulate, got %v", tr.PitchYawRoll())
	}

	tr.ScaleBy(mgl64.Vec3{2, 3, 4})
	tr.ScaleBy(mgl64.Vec3{0.5, 1, 2})
	if tr.Scale() != (mgl64.Vec3{1, 3, 8}) {
		t.Errorf("ScaleBy should multiply component-wise, got %v", tr.Scale())
	}
}

func TestTransformMatrixMatchesOrientation(t *testing.T) {
	r := mgl64.Vec3{0.3, -0.9, 0.45}
	q := eulerToQuat(r)

	if !matApproxEqual(RotationMatrix(r), q.Mat4()) {
		t.Errorf("RotationMatrix and quaternion disagree:\n%v\n%v", RotationMatrix(r), q.Mat4())
	}
}
