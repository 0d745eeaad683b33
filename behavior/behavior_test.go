package behavior

import (
	"math"
	"testing"

	"github.com/akmonengine/lumen/actor"
	"github.com/d5/tengo/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileBuiltin(t *testing.T, name string) *Script {
	t.Helper()
	src, err := Builtin(name)
	require.NoError(t, err)
	script, err := Compile(name, src)
	require.NoError(t, err)
	return script
}

func TestBuiltins(t *testing.T) {
	assert.Equal(t, []string{"pulse", "spin", "sway", "sway_mirrored"}, Builtins())

	for _, name := range Builtins() {
		compileBuiltin(t, name)
	}

	_, err := Builtin("wobble")
	assert.ErrorIs(t, err, ErrUnknownBehavior)
}

func TestCompileError(t *testing.T) {
	_, err := Compile("broken", "position = [1, 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "behavior: compile broken")
}

func TestDeclareError(t *testing.T) {
	script := tengo.NewScript([]byte("x := 1"))

	require.NoError(t, declare(script, globals()))

	err := declare(script, []global{{"events", make(chan int)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "behavior: declare events")
}

func TestPulse(t *testing.T) {
	script := compileBuiltin(t, "pulse")
	tr := actor.NewTransform()

	require.NoError(t, script.Apply(&tr, 0.016, 0))
	assert.Equal(t, mgl64.Vec3{2, 2, 2}, tr.Scale())

	total := math.Pi / 8 // sin(4t) = 1
	require.NoError(t, script.Apply(&tr, 0.016, total))
	assert.InDelta(t, 2.5, tr.Scale().X(), 1e-12)
	assert.InDelta(t, 2.5, tr.Scale().Z(), 1e-12)
}

func TestSway(t *testing.T) {
	sway := compileBuiltin(t, "sway")
	mirrored := compileBuiltin(t, "sway_mirrored")

	a := actor.NewTransform()
	a.SetPositionXYZ(-1.5, 0.25, 3)
	b := actor.NewTransform()
	b.SetPositionXYZ(1.5, 0.25, 3)

	total := math.Pi / 8
	require.NoError(t, sway.Apply(&a, 0.016, total))
	require.NoError(t, mirrored.Apply(&b, 0.016, total))

	assert.InDelta(t, 0.5, a.Position().X(), 1e-12)
	assert.InDelta(t, -0.5, b.Position().X(), 1e-12)
	assert.Equal(t, 0.25, a.Position().Y(), "Y is kept")
	assert.Equal(t, 3.0, b.Position().Z(), "Z is kept")
}

func TestSpin(t *testing.T) {
	script := compileBuiltin(t, "spin")
	tr := actor.NewTransform()
	tr.SetRotationXYZ(0.1, 0.2, 0)

	for i := 0; i < 10; i++ {
		require.NoError(t, script.Apply(&tr, 0.1, float64(i)*0.1))
	}

	r := tr.PitchYawRoll()
	assert.InDelta(t, 3.5, r.Z(), 1e-9)
	assert.Equal(t, 0.1, r.X())
	assert.Equal(t, 0.2, r.Y())
}

func TestApplyLeavesUntouchedFields(t *testing.T) {
	script, err := Compile("noop", "x := time + dt")
	require.NoError(t, err)

	tr := actor.NewTransform()
	tr.SetPositionXYZ(1, 2, 3)
	tr.SetScaleXYZ(4, 5, 6)
	before := tr.WorldMatrix()

	require.NoError(t, script.Apply(&tr, 0.5, 10))
	assert.Equal(t, before, tr.WorldMatrix())
}

func TestApplyIntegerResults(t *testing.T) {
	script, err := Compile("ints", "position = [1, 2, 3]")
	require.NoError(t, err)

	tr := actor.NewTransform()
	require.NoError(t, script.Apply(&tr, 0, 0))
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, tr.Position())
}

func TestApplyInvalidResults(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"Not an array", `position = "up"`},
		{"Short array", `scale = [1, 2]`},
		{"Non-number element", `rotation = [0, "a", 0]`},
		{"Runtime error", `position = position[5] + 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := Compile(tt.name, tt.src)
			require.NoError(t, err)

			tr := actor.NewTransform()
			err = script.Apply(&tr, 0, 0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "behavior: "+tt.name)
		})
	}
}

func TestClone(t *testing.T) {
	original := compileBuiltin(t, "pulse")
	clone := original.Clone()
	assert.Equal(t, original.Name, clone.Name)

	a := actor.NewTransform()
	b := actor.NewTransform()
	require.NoError(t, original.Apply(&a, 0, 0))
	require.NoError(t, clone.Apply(&b, 0, math.Pi/8))

	assert.Equal(t, mgl64.Vec3{2, 2, 2}, a.Scale())
	assert.InDelta(t, 2.5, b.Scale().X(), 1e-12)
}
