package actor

import "github.com/go-gl/mathgl/mgl64"

// Material holds the surface parameters fed to the pixel shader.
// Shaders are referenced by name; the renderer owns the compiled objects.
type Material struct {
	Name      string
	ColorTint mgl64.Vec4
	Roughness float64 // 0 = mirror, 1 = fully diffuse

	UVScale  mgl64.Vec2
	UVOffset mgl64.Vec2

	VertexShader string
	PixelShader  string
}

// NewMaterial creates a material with a unit UV scale and the default shaders
func NewMaterial(name string, colorTint mgl64.Vec4, roughness float64) *Material {
	return &Material{
		Name:         name,
		ColorTint:    colorTint,
		Roughness:    mgl64.Clamp(roughness, 0, 1),
		UVScale:      mgl64.Vec2{1, 1},
		VertexShader: DefaultVertexShader,
		PixelShader:  DefaultPixelShader,
	}
}

const (
	DefaultVertexShader = "VertexShader.cso"
	DefaultPixelShader  = "PixelShader.cso"
)
