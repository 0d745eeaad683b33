// Package cbuffer marshals per-frame scene state into constant-buffer layouts
// and streams them through a ring heap owned by the GPU side.
//
// Layouts follow HLSL packing: every member that would straddle a 16-byte
// register starts a new one, and explicit padding keeps the Go encoding
// byte-identical to the shader declaration. All values are little endian.
package cbuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/lumen/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	mat4Size = 64

	VertexDataSize = 4 * mat4Size
	LightDataSize  = 64
	PixelDataSize  = 112 + light.MaxLights*LightDataSize + 16
	SkyDataSize    = 2 * mat4Size
)

var ErrShortBuffer = errors.New("buffer too short for layout")

// Layout is a constant-buffer struct that can encode itself
type Layout interface {
	Size() int
	// MarshalTo encodes into dst, growing it when needed, and returns the
	// encoded slice of length Size()
	MarshalTo(dst []byte) []byte
}

// Mat4 narrows a CPU matrix to the GPU's single precision
func Mat4(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

func vec3(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func vec4(v mgl64.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3])}
}

func grow(dst []byte, size int) []byte {
	if cap(dst) < size {
		return make([]byte, size)
	}
	dst = dst[:size]
	clear(dst)
	return dst
}

func putFloats(buf []byte, offset int, values ...float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[offset+4*i:], math.Float32bits(v))
	}
}

func putMat4(buf []byte, offset int, m mgl32.Mat4) {
	putFloats(buf, offset, m[:]...)
}

func getFloat(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

// ReadMat4 decodes a matrix written by one of the layouts
func ReadMat4(buf []byte, offset int) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = getFloat(buf, offset+4*i)
	}
	return m
}

// VertexData is bound to the vertex shader once per entity draw
type VertexData struct {
	World                 mgl32.Mat4
	View                  mgl32.Mat4
	Projection            mgl32.Mat4
	WorldInverseTranspose mgl32.Mat4
}

func (v *VertexData) Size() int {
	return VertexDataSize
}

func (v *VertexData) MarshalTo(dst []byte) []byte {
	dst = grow(dst, VertexDataSize)
	putMat4(dst, 0, v.World)
	putMat4(dst, 64, v.View)
	putMat4(dst, 128, v.Projection)
	putMat4(dst, 192, v.WorldInverseTranspose)
	return dst
}

func (v *VertexData) Marshal() []byte {
	return v.MarshalTo(nil)
}

// DecodeVertexData reads back a VertexData, as a shader would see it
func DecodeVertexData(buf []byte) (VertexData, error) {
	if len(buf) < VertexDataSize {
		return VertexData{}, fmt.Errorf("%w: vertex data needs %d bytes, got %d", ErrShortBuffer, VertexDataSize, len(buf))
	}
	return VertexData{
		World:                 ReadMat4(buf, 0),
		View:                  ReadMat4(buf, 64),
		Projection:            ReadMat4(buf, 128),
		WorldInverseTranspose: ReadMat4(buf, 192),
	}, nil
}

// LightData is the shader-side light record.
//
//	offset  0: type (int32), direction (float3)
//	offset 16: range, position (float3)
//	offset 32: intensity, color (float3)
//	offset 48: spot inner, spot outer, padding (float2)
type LightData struct {
	Type           int32
	Direction      mgl32.Vec3
	Range          float32
	Position       mgl32.Vec3
	Intensity      float32
	Color          mgl32.Vec3
	SpotInnerAngle float32
	SpotOuterAngle float32
}

func NewLightData(l light.Light) LightData {
	return LightData{
		Type:           int32(l.Type),
		Direction:      vec3(l.Direction),
		Range:          float32(l.Range),
		Position:       vec3(l.Position),
		Intensity:      float32(l.Intensity),
		Color:          vec3(l.Color),
		SpotInnerAngle: float32(l.SpotInnerAngle),
		SpotOuterAngle: float32(l.SpotOuterAngle),
	}
}

func (l *LightData) encode(buf []byte, offset int) {
	binary.LittleEndian.PutUint32(buf[offset:], uint32(l.Type))
	putFloats(buf, offset+4, l.Direction[:]...)
	putFloats(buf, offset+16, l.Range)
	putFloats(buf, offset+20, l.Position[:]...)
	putFloats(buf, offset+32, l.Intensity)
	putFloats(buf, offset+36, l.Color[:]...)
	putFloats(buf, offset+48, l.SpotInnerAngle, l.SpotOuterAngle)
}

// PixelData is bound to the pixel shader once per entity draw.
//
//	offset   0: color tint (float4)
//	offset  16: total time, delta time, padding
//	offset  32: uv scale (float2), padding
//	offset  48: uv offset (float2), padding
//	offset  64: camera position (float4, w = 1)
//	offset  80: roughness, padding
//	offset  96: ambient color (float4)
//	offset 112: lights [MaxLights]LightData
//	offset 432: light count (int32), padding
type PixelData struct {
	ColorTint      mgl32.Vec4
	TotalTime      float32
	DeltaTime      float32
	UVScale        mgl32.Vec2
	UVOffset       mgl32.Vec2
	CameraPosition mgl32.Vec3
	Roughness      float32
	AmbientColor   mgl32.Vec4
	Lights         [light.MaxLights]LightData
	LightCount     int32
}

// SetLights copies at most MaxLights lights and records how many were set
func (p *PixelData) SetLights(lights []light.Light) {
	p.Lights = [light.MaxLights]LightData{}
	n := min(len(lights), light.MaxLights)
	for i := 0; i < n; i++ {
		p.Lights[i] = NewLightData(lights[i])
	}
	p.LightCount = int32(n)
}

func (p *PixelData) Size() int {
	return PixelDataSize
}

func (p *PixelData) MarshalTo(dst []byte) []byte {
	dst = grow(dst, PixelDataSize)
	putFloats(dst, 0, p.ColorTint[:]...)
	putFloats(dst, 16, p.TotalTime, p.DeltaTime)
	putFloats(dst, 32, p.UVScale[:]...)
	putFloats(dst, 48, p.UVOffset[:]...)
	putFloats(dst, 64, p.CameraPosition[0], p.CameraPosition[1], p.CameraPosition[2], 1)
	putFloats(dst, 80, p.Roughness)
	putFloats(dst, 96, p.AmbientColor[:]...)
	for i := range p.Lights {
		p.Lights[i].encode(dst, 112+i*LightDataSize)
	}
	binary.LittleEndian.PutUint32(dst[112+light.MaxLights*LightDataSize:], uint32(p.LightCount))
	return dst
}

func (p *PixelData) Marshal() []byte {
	return p.MarshalTo(nil)
}

// DecodePixelData reads back the material and frame fields of a PixelData.
// Lights are not decoded; LightCount is.
func DecodePixelData(buf []byte) (PixelData, error) {
	if len(buf) < PixelDataSize {
		return PixelData{}, fmt.Errorf("%w: pixel data needs %d bytes, got %d", ErrShortBuffer, PixelDataSize, len(buf))
	}
	return PixelData{
		ColorTint:      mgl32.Vec4{getFloat(buf, 0), getFloat(buf, 4), getFloat(buf, 8), getFloat(buf, 12)},
		TotalTime:      getFloat(buf, 16),
		DeltaTime:      getFloat(buf, 20),
		UVScale:        mgl32.Vec2{getFloat(buf, 32), getFloat(buf, 36)},
		UVOffset:       mgl32.Vec2{getFloat(buf, 48), getFloat(buf, 52)},
		CameraPosition: mgl32.Vec3{getFloat(buf, 64), getFloat(buf, 68), getFloat(buf, 72)},
		Roughness:      getFloat(buf, 80),
		AmbientColor:   mgl32.Vec4{getFloat(buf, 96), getFloat(buf, 100), getFloat(buf, 104), getFloat(buf, 108)},
		LightCount:     int32(binary.LittleEndian.Uint32(buf[112+light.MaxLights*LightDataSize:])),
	}, nil
}

// SkyData feeds the sky box shader. View must have its translation removed
// so the box stays centered on the camera.
type SkyData struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

func (s *SkyData) Size() int {
	return SkyDataSize
}

func (s *SkyData) MarshalTo(dst []byte) []byte {
	dst = grow(dst, SkyDataSize)
	putMat4(dst, 0, s.View)
	putMat4(dst, 64, s.Projection)
	return dst
}

func (s *SkyData) Marshal() []byte {
	return s.MarshalTo(nil)
}

func DecodeSkyData(buf []byte) (SkyData, error) {
	if len(buf) < SkyDataSize {
		return SkyData{}, fmt.Errorf("%w: sky data needs %d bytes, got %d", ErrShortBuffer, SkyDataSize, len(buf))
	}
	return SkyData{
		View:       ReadMat4(buf, 0),
		Projection: ReadMat4(buf, 64),
	}, nil
}

// Vec4 narrows a CPU vector for a layout field
func Vec4(v mgl64.Vec4) mgl32.Vec4 {
	return vec4(v)
}

// Vec3 narrows a CPU vector for a layout field
func Vec3(v mgl64.Vec3) mgl32.Vec3 {
	return vec3(v)
}

// Vec2 narrows a CPU vector for a layout field
func Vec2(v mgl64.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{float32(v[0]), float32(v[1])}
}
