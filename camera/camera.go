package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/lumen/actor"
	"github.com/akmonengine/lumen/input"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidProjection is returned when projection parameters cannot produce
// a finite matrix: non-positive aspect ratio or near plane, far <= near, or a
// perspective field of view outside (0, π).
var ErrInvalidProjection = errors.New("invalid projection parameters")

const (
	// mouseScale converts raw pointer pixels before MouseLookSpeed applies
	mouseScale = 0.1
	// sprintFactor multiplies the movement speed while Shift is held
	sprintFactor = 2.0
)

// Settings gathers every construction parameter of a Camera
type Settings struct {
	AspectRatio float64
	Position    mgl64.Vec3
	Orientation mgl64.Vec3 // pitch, yaw, roll

	FieldOfView float64 // vertical, radians
	NearClip    float64
	FarClip     float64

	MovementSpeed  float64 // world units per second
	MouseLookSpeed float64

	Perspective bool
	// OrthographicHeight is the height of the orthographic view volume.
	// Its width is OrthographicHeight * AspectRatio.
	OrthographicHeight float64
}

// DefaultSettings returns the parameters of the main scene camera
func DefaultSettings(aspectRatio float64) Settings {
	return Settings{
		AspectRatio:        aspectRatio,
		Position:           mgl64.Vec3{0, 0, -2},
		FieldOfView:        math.Pi / 4,
		NearClip:           0.1,
		FarClip:            1000,
		MovementSpeed:      2,
		MouseLookSpeed:     0.02,
		Perspective:        true,
		OrthographicHeight: 2,
	}
}

// Camera is a viewpoint: a transform plus projection parameters.
// The view matrix is rebuilt explicitly by UpdateViewMatrix, which Update
// calls once per frame when input moved the camera. The projection matrix is
// rebuilt when the aspect ratio or a projection parameter changes.
type Camera struct {
	transform actor.Transform

	viewMatrix       mgl64.Mat4
	projectionMatrix mgl64.Mat4

	fov                float64
	nearClip           float64
	farClip            float64
	aspectRatio        float64
	orthographicHeight float64
	movementSpeed      float64
	mouseLookSpeed     float64
	isPerspective      bool
}

// New validates the settings and builds the initial view and projection
func New(settings Settings) (*Camera, error) {
	if settings.OrthographicHeight == 0 {
		settings.OrthographicHeight = 2
	}
	if err := validateProjection(settings.Perspective, settings.FieldOfView, settings.AspectRatio,
		settings.NearClip, settings.FarClip, settings.OrthographicHeight); err != nil {
		return nil, err
	}

	c := &Camera{
		transform:          actor.NewTransform(),
		fov:                settings.FieldOfView,
		nearClip:           settings.NearClip,
		farClip:            settings.FarClip,
		aspectRatio:        settings.AspectRatio,
		orthographicHeight: settings.OrthographicHeight,
		movementSpeed:      settings.MovementSpeed,
		mouseLookSpeed:     settings.MouseLookSpeed,
		isPerspective:      settings.Perspective,
	}
	c.transform.SetPosition(settings.Position)
	c.transform.SetRotation(settings.Orientation)

	c.UpdateViewMatrix()
	c.rebuildProjection()

	return c, nil
}

func validateProjection(perspective bool, fov, aspect, near, far, orthoHeight float64) error {
	for _, v := range []float64{fov, aspect, near, far, orthoHeight} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value %v", ErrInvalidProjection, v)
		}
	}

	switch {
	case aspect <= 0:
		return fmt.Errorf("%w: aspect ratio %v", ErrInvalidProjection, aspect)
	case near <= 0:
		return fmt.Errorf("%w: near clip %v", ErrInvalidProjection, near)
	case far <= near:
		return fmt.Errorf("%w: far clip %v <= near clip %v", ErrInvalidProjection, far, near)
	case perspective && (fov <= 0 || fov >= math.Pi):
		return fmt.Errorf("%w: field of view %v", ErrInvalidProjection, fov)
	case !perspective && orthoHeight <= 0:
		return fmt.Errorf("%w: orthographic height %v", ErrInvalidProjection, orthoHeight)
	}

	return nil
}

// UpdateProjectionMatrix stores the new aspect ratio and rebuilds the
// projection. It must be called whenever the output surface is resized.
// On error the camera keeps its previous aspect ratio and matrix.
func (c *Camera) UpdateProjectionMatrix(aspectRatio float64) error {
	if err := validateProjection(c.isPerspective, c.fov, aspectRatio, c.nearClip, c.farClip, c.orthographicHeight); err != nil {
		return err
	}

	c.aspectRatio = aspectRatio
	c.rebuildProjection()

	return nil
}

func (c *Camera) SetFieldOfView(fov float64) error {
	if err := validateProjection(c.isPerspective, fov, c.aspectRatio, c.nearClip, c.farClip, c.orthographicHeight); err != nil {
		return err
	}

	c.fov = fov
	c.rebuildProjection()

	return nil
}

func (c *Camera) SetClipPlanes(near, far float64) error {
	if err := validateProjection(c.isPerspective, c.fov, c.aspectRatio, near, far, c.orthographicHeight); err != nil {
		return err
	}

	c.nearClip = near
	c.farClip = far
	c.rebuildProjection()

	return nil
}

// SetPerspective switches between perspective and orthographic projection
func (c *Camera) SetPerspective(perspective bool) error {
	if err := validateProjection(perspective, c.fov, c.aspectRatio, c.nearClip, c.farClip, c.orthographicHeight); err != nil {
		return err
	}

	c.isPerspective = perspective
	c.rebuildProjection()

	return nil
}

func (c *Camera) rebuildProjection() {
	if c.isPerspective {
		c.projectionMatrix = PerspectiveFovLH(c.fov, c.aspectRatio, c.nearClip, c.farClip)
	} else {
		height := c.orthographicHeight
		c.projectionMatrix = OrthographicLH(height*c.aspectRatio, height, c.nearClip, c.farClip)
	}
}

// UpdateViewMatrix rebuilds the view from the transform's position, forward and up
func (c *Camera) UpdateViewMatrix() {
	c.viewMatrix = LookToLH(c.transform.Position(), c.transform.Forward(), c.transform.Up())
}

// Update applies one frame of polled input.
//
// W/S move along the forward axis and A/D along the right axis, relative to
// the camera's facing. Space/X move along the up axis. Holding the left mouse
// button turns the pointer delta into yaw (horizontal) and pitch (vertical);
// pitch is clamped to [-π/2, π/2] so the camera never flips over.
func (c *Camera) Update(dt float64, in input.State) {
	speed := dt * c.movementSpeed
	if in.KeyDown(input.KeyShift) {
		speed *= sprintFactor
	}

	changed := false

	if in.KeyDown(input.KeyW) {
		c.transform.MoveRelative(mgl64.Vec3{0, 0, speed})
		changed = true
	}
	if in.KeyDown(input.KeyS) {
		c.transform.MoveRelative(mgl64.Vec3{0, 0, -speed})
		changed = true
	}
	if in.KeyDown(input.KeyA) {
		c.transform.MoveRelative(mgl64.Vec3{-speed, 0, 0})
		changed = true
	}
	if in.KeyDown(input.KeyD) {
		c.transform.MoveRelative(mgl64.Vec3{speed, 0, 0})
		changed = true
	}
	if in.KeyDown(input.KeySpace) {
		c.transform.MoveAbsolute(c.transform.Up().Mul(speed))
		changed = true
	}
	if in.KeyDown(input.KeyX) {
		c.transform.MoveAbsolute(c.transform.Up().Mul(-speed))
		changed = true
	}

	if in.LeftButton {
		rotation := c.transform.PitchYawRoll()
		pitch := rotation.X() + in.MouseDY*mouseScale*c.mouseLookSpeed
		yaw := rotation.Y() + in.MouseDX*mouseScale*c.mouseLookSpeed

		c.transform.SetRotationXYZ(mgl64.Clamp(pitch, -math.Pi/2, math.Pi/2), yaw, 0)
		changed = true
	}

	if changed {
		c.UpdateViewMatrix()
	}
}

func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return c.viewMatrix
}

func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	return c.projectionMatrix
}

// ViewProjection returns Projection * View
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.projectionMatrix.Mul4(c.viewMatrix)
}

func (c *Camera) FieldOfView() float64 {
	return c.fov
}

func (c *Camera) IsPerspective() bool {
	return c.isPerspective
}

func (c *Camera) AspectRatio() float64 {
	return c.aspectRatio
}

func (c *Camera) NearClip() float64 {
	return c.nearClip
}

func (c *Camera) FarClip() float64 {
	return c.farClip
}

func (c *Camera) MovementSpeed() float64 {
	return c.movementSpeed
}

func (c *Camera) MouseLookSpeed() float64 {
	return c.mouseLookSpeed
}

// Transform returns the camera's transform. Callers that mutate it directly
// must call UpdateViewMatrix afterwards.
func (c *Camera) Transform() *actor.Transform {
	return &c.transform
}

func (c *Camera) Position() mgl64.Vec3 {
	return c.transform.Position()
}
