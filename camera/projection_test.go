package camera

import (
	"math"
	"testing"

	"github.com/akmonengine/lumen/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func TestPerspectiveFovLHLayout(t *testing.T) {
	m := PerspectiveFovLH(math.Pi/3, 2, 1, 101)

	h := 1 / math.Tan(math.Pi/6)
	// row-major XMMatrixPerspectiveFovLH, flattened
	expected := [16]float64{
		h / 2, 0, 0, 0,
		0, h, 0, 0,
		0, 0, 101.0 / 100, 1,
		0, 0, -101.0 / 100, 0,
	}
	for i := range expected {
		if math.Abs(m[i]-expected[i]) > 1e-12 {
			t.Errorf("m[%d] = %v, expected %v", i, m[i], expected[i])
		}
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	m := PerspectiveFovLH(math.Pi/4, 1, 0.5, 20)

	tests := []struct {
		name  string
		z     float64
		depth float64
	}{
		{"Near plane", 0.5, 0},
		{"Far plane", 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := m.Mul4x1(mgl64.Vec4{0, 0, tt.z, 1})
			if got := clip.Z() / clip.W(); math.Abs(got-tt.depth) > 1e-12 {
				t.Errorf("depth = %v, expected %v", got, tt.depth)
			}
		})
	}
}

func TestOrthographicLH(t *testing.T) {
	m := OrthographicLH(8, 4, 1, 11)

	corner := m.Mul4x1(mgl64.Vec4{4, 2, 11, 1})
	if !corner.ApproxEqualThreshold(mgl64.Vec4{1, 1, 1, 1}, 1e-12) {
		t.Errorf("far top-right corner = %v, expected {1 1 1 1}", corner)
	}
	near := m.Mul4x1(mgl64.Vec4{-4, -2, 1, 1})
	if !near.ApproxEqualThreshold(mgl64.Vec4{-1, -1, 0, 1}, 1e-12) {
		t.Errorf("near bottom-left corner = %v, expected {-1 -1 0 1}", near)
	}
}

func TestLookToLH(t *testing.T) {
	eye := mgl64.Vec3{1, 2, 3}
	view := LookToLH(eye, mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 1, 0})

	if got := mgl64.TransformCoordinate(eye, view); !got.ApproxEqualThreshold(mgl64.Vec3{}, epsilon) {
		t.Errorf("eye should map to the origin, got %v", got)
	}
	ahead := mgl64.TransformCoordinate(mgl64.Vec3{1, 2, 10}, view)
	if !ahead.ApproxEqualThreshold(mgl64.Vec3{0, 0, 7}, epsilon) {
		t.Errorf("point ahead should map to +Z, got %v", ahead)
	}
	right := mgl64.TransformCoordinate(mgl64.Vec3{2, 2, 3}, view)
	if !right.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, epsilon) {
		t.Errorf("point to the right should map to +X, got %v", right)
	}

	// looking along +X: world -Z is on the right
	side := LookToLH(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	if got := mgl64.TransformCoordinate(mgl64.Vec3{0, 0, -1}, side); !got.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, epsilon) {
		t.Errorf("got %v", got)
	}
}

func TestWithoutTranslation(t *testing.T) {
	view := LookToLH(mgl64.Vec3{10, -4, 7}, mgl64.Vec3{1, 0, 1}, mgl64.Vec3{0, 1, 0})
	sky := WithoutTranslation(view)

	if sky[12] != 0 || sky[13] != 0 || sky[14] != 0 || sky[15] != 1 {
		t.Errorf("translation not removed: %v", sky)
	}
	for i := 0; i < 12; i++ {
		if sky[i] != view[i] {
			t.Errorf("rotation element %d changed", i)
		}
	}
}

// =============================================================================
// Frustum
// =============================================================================

func TestFrustumContainsPoint(t *testing.T) {
	s := DefaultSettings(1)
	s.Position = mgl64.Vec3{}
	s.NearClip = 1
	s.FarClip = 100
	s.FieldOfView = math.Pi / 2
	c, err := New(s)
	if err != nil {
		t.Fatal(err)
	}
	f := c.Frustum()

	tests := []struct {
		name     string
		point    mgl64.Vec3
		expected bool
	}{
		{"Straight ahead", mgl64.Vec3{0, 0, 10}, true},
		{"Behind", mgl64.Vec3{0, 0, -10}, false},
		{"Before near plane", mgl64.Vec3{0, 0, 0.5}, false},
		{"Beyond far plane", mgl64.Vec3{0, 0, 101}, false},
		{"Inside the 45 degree edge", mgl64.Vec3{9, 0, 10}, true},
		{"Outside the 45 degree edge", mgl64.Vec3{11, 0, 10}, false},
		{"Above", mgl64.Vec3{0, 11, 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsPoint(tt.point); got != tt.expected {
				t.Errorf("ContainsPoint(%v) = %v, expected %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestFrustumIntersectsAABB(t *testing.T) {
	s := DefaultSettings(1)
	s.Position = mgl64.Vec3{}
	s.FieldOfView = math.Pi / 2
	s.FarClip = 100
	c, err := New(s)
	if err != nil {
		t.Fatal(err)
	}
	f := c.Frustum()

	box := func(center mgl64.Vec3, half float64) actor.AABB {
		h := mgl64.Vec3{half, half, half}
		return actor.AABB{Min: center.Sub(h), Max: center.Add(h)}
	}

	tests := []struct {
		name     string
		box      actor.AABB
		expected bool
	}{
		{"Inside", box(mgl64.Vec3{0, 0, 10}, 1), true},
		{"Behind", box(mgl64.Vec3{0, 0, -10}, 1), false},
		{"Straddles side plane", box(mgl64.Vec3{10, 0, 10}, 1), true},
		{"Far to the side", box(mgl64.Vec3{50, 0, 10}, 1), false},
		{"Beyond far plane", box(mgl64.Vec3{0, 0, 200}, 1), false},
		{"Encloses camera", box(mgl64.Vec3{}, 5), true},
		{"Empty", actor.EmptyAABB(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.IntersectsAABB(tt.box); got != tt.expected {
				t.Errorf("IntersectsAABB = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestFrustumCornersAndBounds(t *testing.T) {
	s := DefaultSettings(1)
	s.Position = mgl64.Vec3{}
	s.FieldOfView = math.Pi / 2
	s.NearClip = 1
	s.FarClip = 10
	c, err := New(s)
	if err != nil {
		t.Fatal(err)
	}
	f := c.Frustum()

	// the first corner is near bottom-left, the last far top-right
	if !f.Corners[0].ApproxEqualThreshold(mgl64.Vec3{-1, -1, 1}, 1e-9) {
		t.Errorf("Corners[0] = %v", f.Corners[0])
	}
	if !f.Corners[7].ApproxEqualThreshold(mgl64.Vec3{10, 10, 10}, 1e-9) {
		t.Errorf("Corners[7] = %v", f.Corners[7])
	}

	b := f.Bounds()
	if !b.Min.ApproxEqualThreshold(mgl64.Vec3{-10, -10, 1}, 1e-9) || !b.Max.ApproxEqualThreshold(mgl64.Vec3{10, 10, 10}, 1e-9) {
		t.Errorf("Bounds = %v", b)
	}

	for i, corner := range f.Corners {
		if !f.ContainsPoint(corner.Mul(0.999).Add(mgl64.Vec3{0, 0, 0.005})) {
			t.Errorf("corner %d pulled inward should be inside", i)
		}
	}
}
