package behavior

import (
	"errors"
	"fmt"
	"sort"

	"github.com/akmonengine/lumen/actor"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrUnknownBehavior = errors.New("unknown behavior")

// Pulse breathes the uniform scale between 1.5 and 2.5
const Pulse = `
math := import("math")
s := math.sin(time * 4) * 0.5 + 2.0
scale = [s, s, s]
`

// Sway slides the entity back and forth along X
const Sway = `
math := import("math")
position = [math.sin(time * 4) * 0.5, position[1], position[2]]
`

// SwayMirrored is Sway with the opposite phase
const SwayMirrored = `
math := import("math")
position = [-math.sin(time * 4) * 0.5, position[1], position[2]]
`

// Spin rolls the entity at a constant rate
const Spin = `
rotation = [rotation[0], rotation[1], rotation[2] + dt * 3.5]
`

var builtins = map[string]string{
	"pulse":         Pulse,
	"sway":          Sway,
	"sway_mirrored": SwayMirrored,
	"spin":          Spin,
}

// Builtin returns the source of a named built-in behavior
func Builtin(name string) (string, error) {
	src, ok := builtins[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBehavior, name)
	}
	return src, nil
}

// Builtins lists the built-in behavior names in sorted order
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Script animates an entity transform once per frame.
//
// The script sees the globals time (total seconds), dt (frame seconds) and
// position, rotation, scale as 3-element arrays. Whatever it leaves in
// position, rotation and scale is written back to the transform; arrays left
// untouched do not dirty the transform.
type Script struct {
	Name     string
	compiled *tengo.Compiled
}

// Compile parses src once; Apply re-runs the compiled program
func Compile(name, src string) (*Script, error) {
	script := tengo.NewScript([]byte(src))
	script.SetImports(stdlib.GetModuleMap("math"))

	if err := declare(script, globals()); err != nil {
		return nil, err
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("behavior: compile %s: %w", name, err)
	}

	return &Script{Name: name, compiled: compiled}, nil
}

type global struct {
	name  string
	value interface{}
}

// globals are the variables every behavior reads and writes, at their
// identity values
func globals() []global {
	return []global{
		{"time", 0.0},
		{"dt", 0.0},
		{"position", []interface{}{0.0, 0.0, 0.0}},
		{"rotation", []interface{}{0.0, 0.0, 0.0}},
		{"scale", []interface{}{1.0, 1.0, 1.0}},
	}
}

func declare(script *tengo.Script, vars []global) error {
	for _, v := range vars {
		if err := script.Add(v.name, v.value); err != nil {
			return fmt.Errorf("behavior: declare %s: %w", v.name, err)
		}
	}
	return nil
}

// Clone returns an independent copy sharing the compiled bytecode, for
// binding the same behavior to several entities
func (s *Script) Clone() *Script {
	return &Script{Name: s.Name, compiled: s.compiled.Clone()}
}

// Apply runs the script against transform
func (s *Script) Apply(transform *actor.Transform, dt, total float64) error {
	position := transform.Position()
	rotation := transform.PitchYawRoll()
	scale := transform.Scale()

	inputs := []struct {
		name  string
		value interface{}
	}{
		{"time", total},
		{"dt", dt},
		{"position", vecToArray(position)},
		{"rotation", vecToArray(rotation)},
		{"scale", vecToArray(scale)},
	}
	for _, in := range inputs {
		if err := s.compiled.Set(in.name, in.value); err != nil {
			return fmt.Errorf("behavior: %s: set %s: %w", s.Name, in.name, err)
		}
	}

	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("behavior: %s: run: %w", s.Name, err)
	}

	if v, err := s.readVec("position"); err != nil {
		return err
	} else if v != position {
		transform.SetPosition(v)
	}
	if v, err := s.readVec("rotation"); err != nil {
		return err
	} else if v != rotation {
		transform.SetRotation(v)
	}
	if v, err := s.readVec("scale"); err != nil {
		return err
	} else if v != scale {
		transform.SetScale(v)
	}

	return nil
}

func vecToArray(v mgl64.Vec3) []interface{} {
	return []interface{}{v[0], v[1], v[2]}
}

func (s *Script) readVec(name string) (mgl64.Vec3, error) {
	values := s.compiled.Get(name).Array()
	if len(values) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("behavior: %s: %s must be an array of 3 numbers", s.Name, name)
	}

	var out mgl64.Vec3
	for i, value := range values {
		switch n := value.(type) {
		case float64:
			out[i] = n
		case int64:
			out[i] = float64(n)
		default:
			return mgl64.Vec3{}, fmt.Errorf("behavior: %s: %s[%d] is %T, not a number", s.Name, name, i, value)
		}
	}
	return out, nil
}
