package actor

import "github.com/go-gl/mathgl/mgl64"

var (
	worldForward = mgl64.Vec3{0, 0, 1}
	worldUp      = mgl64.Vec3{0, 1, 0}
	worldRight   = mgl64.Vec3{1, 0, 0}
)

// Transform represents the local-to-world placement of an entity or a camera.
// Rotation is stored as Euler angles (pitch, yaw, roll) in radians.
//
// The world matrix and its inverse-transpose are cached and rebuilt lazily,
// each behind its own dirty flag. Every mutator raises both flags.
type Transform struct {
	position mgl64.Vec3
	rotation mgl64.Vec3
	scale    mgl64.Vec3

	worldMatrix      mgl64.Mat4
	inverseTranspose mgl64.Mat4
	worldDirty       bool
	inverseDirty     bool
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		scale:            mgl64.Vec3{1, 1, 1},
		worldMatrix:      mgl64.Ident4(),
		inverseTranspose: mgl64.Ident4(),
		worldDirty:       true,
		inverseDirty:     true,
	}
}

func (t *Transform) invalidate() {
	t.worldDirty = true
	t.inverseDirty = true
}

func (t *Transform) SetPosition(position mgl64.Vec3) {
	t.position = position
	t.invalidate()
}

func (t *Transform) SetPositionXYZ(x, y, z float64) {
	t.SetPosition(mgl64.Vec3{x, y, z})
}

// SetRotation overwrites the Euler angles (pitch, yaw, roll)
func (t *Transform) SetRotation(pitchYawRoll mgl64.Vec3) {
	t.rotation = pitchYawRoll
	t.invalidate()
}

func (t *Transform) SetRotationXYZ(pitch, yaw, roll float64) {
	t.SetRotation(mgl64.Vec3{pitch, yaw, roll})
}

func (t *Transform) SetScale(scale mgl64.Vec3) {
	t.scale = scale
	t.invalidate()
}

func (t *Transform) SetScaleXYZ(x, y, z float64) {
	t.SetScale(mgl64.Vec3{x, y, z})
}

func (t *Transform) Position() mgl64.Vec3 {
	return t.position
}

// PitchYawRoll returns the Euler angles in radians
func (t *Transform) PitchYawRoll() mgl64.Vec3 {
	return t.rotation
}

func (t *Transform) Scale() mgl64.Vec3 {
	return t.scale
}

// MoveAbsolute translates along the world axes, ignoring the current rotation
func (t *Transform) MoveAbsolute(offset mgl64.Vec3) {
	t.position = t.position.Add(offset)
	t.invalidate()
}

// MoveRelative translates along the transform's own axes: the offset is
// rotated by the current orientation before being added to the position.
func (t *Transform) MoveRelative(offset mgl64.Vec3) {
	t.position = t.position.Add(t.Orientation().Rotate(offset))
	t.invalidate()
}

// Rotate adds delta to the Euler angles
func (t *Transform) Rotate(delta mgl64.Vec3) {
	t.rotation = t.rotation.Add(delta)
	t.invalidate()
}

// ScaleBy multiplies the scale component-wise
func (t *Transform) ScaleBy(factor mgl64.Vec3) {
	t.scale = mgl64.Vec3{
		t.scale.X() * factor.X(),
		t.scale.Y() * factor.Y(),
		t.scale.Z() * factor.Z(),
	}
	t.invalidate()
}

// Orientation builds the quaternion for the current Euler angles.
// Roll is applied first, then pitch, then yaw.
func (t *Transform) Orientation() mgl64.Quat {
	return eulerToQuat(t.rotation)
}

func (t *Transform) Forward() mgl64.Vec3 {
	return t.Orientation().Rotate(worldForward)
}

func (t *Transform) Up() mgl64.Vec3 {
	return t.Orientation().Rotate(worldUp)
}

func (t *Transform) Right() mgl64.Vec3 {
	return t.Orientation().Rotate(worldRight)
}

// WorldMatrix returns T * R * S for the current fields, rebuilding the cache
// only when a mutator ran since the last call.
func (t *Transform) WorldMatrix() mgl64.Mat4 {
	if t.worldDirty {
		t.worldMatrix = composeWorld(t.position, t.rotation, t.scale)
		t.worldDirty = false
	}

	return t.worldMatrix
}

// WorldInverseTransposeMatrix returns the transpose of the inverse world
// matrix, used to carry normals under non-uniform scale. It is recomputed
// from the current fields, never from the cached world matrix, so the two
// caches cannot drift apart.
func (t *Transform) WorldInverseTransposeMatrix() mgl64.Mat4 {
	if t.inverseDirty {
		t.inverseTranspose = composeWorld(t.position, t.rotation, t.scale).Inv().Transpose()
		t.inverseDirty = false
	}

	return t.inverseTranspose
}

func composeWorld(position, rotation, scale mgl64.Vec3) mgl64.Mat4 {
	translation := mgl64.Translate3D(position.X(), position.Y(), position.Z())
	scaling := mgl64.Scale3D(scale.X(), scale.Y(), scale.Z())

	return translation.Mul4(RotationMatrix(rotation)).Mul4(scaling)
}

// RotationMatrix returns Ry(yaw) * Rx(pitch) * Rz(roll)
func RotationMatrix(pitchYawRoll mgl64.Vec3) mgl64.Mat4 {
	return mgl64.HomogRotate3DY(pitchYawRoll.Y()).
		Mul4(mgl64.HomogRotate3DX(pitchYawRoll.X())).
		Mul4(mgl64.HomogRotate3DZ(pitchYawRoll.Z()))
}

func eulerToQuat(pitchYawRoll mgl64.Vec3) mgl64.Quat {
	yaw := mgl64.QuatRotate(pitchYawRoll.Y(), worldUp)
	pitch := mgl64.QuatRotate(pitchYawRoll.X(), worldRight)
	roll := mgl64.QuatRotate(pitchYawRoll.Z(), worldForward)

	return yaw.Mul(pitch).Mul(roll)
}
