package light

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Type selects the lighting model the pixel shader applies
type Type int32

const (
	Directional Type = iota
	Point
	Spot
)

// MaxLights is the size of the light array in the pixel constant buffer
const MaxLights = 5

var ErrInvalidLight = errors.New("invalid light")

func (t Type) String() string {
	switch t {
	case Directional:
		return "directional"
	case Point:
		return "point"
	case Spot:
		return "spot"
	}
	return fmt.Sprintf("Type(%d)", int32(t))
}

// ParseType is the inverse of String
func ParseType(s string) (Type, error) {
	switch s {
	case "directional":
		return Directional, nil
	case "point":
		return Point, nil
	case "spot":
		return Spot, nil
	}
	return 0, fmt.Errorf("%w: unknown type %q", ErrInvalidLight, s)
}

type Light struct {
	Type      Type
	Direction mgl64.Vec3 // directional and spot
	Range     float64    // point and spot attenuation distance
	Position  mgl64.Vec3 // point and spot
	Intensity float64
	Color     mgl64.Vec3

	SpotInnerAngle float64 // full light inside this cone, radians
	SpotOuterAngle float64 // no light outside this cone, radians
}

func NewDirectional(direction, color mgl64.Vec3, intensity float64) Light {
	return Light{
		Type:      Directional,
		Direction: direction.Normalize(),
		Color:     color,
		Intensity: intensity,
	}
}

func NewPoint(position, color mgl64.Vec3, intensity, lightRange float64) Light {
	return Light{
		Type:      Point,
		Position:  position,
		Color:     color,
		Intensity: intensity,
		Range:     lightRange,
	}
}

func NewSpot(position, direction, color mgl64.Vec3, intensity, lightRange, inner, outer float64) Light {
	return Light{
		Type:           Spot,
		Position:       position,
		Direction:      direction.Normalize(),
		Color:          color,
		Intensity:      intensity,
		Range:          lightRange,
		SpotInnerAngle: inner,
		SpotOuterAngle: outer,
	}
}

// Validate checks the fields the shader relies on for the light's type
func (l Light) Validate() error {
	if l.Type < Directional || l.Type > Spot {
		return fmt.Errorf("%w: %v", ErrInvalidLight, l.Type)
	}
	if l.Intensity < 0 {
		return fmt.Errorf("%w: negative intensity %v", ErrInvalidLight, l.Intensity)
	}
	if l.Type != Point && !validDirection(l.Direction) {
		return fmt.Errorf("%w: %v light direction %v", ErrInvalidLight, l.Type, l.Direction)
	}
	if l.Type != Directional && l.Range <= 0 {
		return fmt.Errorf("%w: %v light range %v", ErrInvalidLight, l.Type, l.Range)
	}
	if l.Type == Spot {
		if l.SpotInnerAngle < 0 || l.SpotOuterAngle > math.Pi || l.SpotInnerAngle > l.SpotOuterAngle {
			return fmt.Errorf("%w: spot cone [%v, %v]", ErrInvalidLight, l.SpotInnerAngle, l.SpotOuterAngle)
		}
	}
	return nil
}

// validDirection rejects zero vectors and the NaN left by normalizing one
func validDirection(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return v.Len() > 0
}
