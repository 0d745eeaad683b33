package lumen

import (
	"fmt"

	"github.com/akmonengine/lumen/actor"
	"github.com/akmonengine/lumen/camera"
	"github.com/akmonengine/lumen/cbuffer"
	"github.com/go-gl/mathgl/mgl64"
)

// Constant-buffer register slots shared with the shaders
const (
	VertexSlot = 0
	PixelSlot  = 0
)

// defaultMaterial is used for entities drawn without a material
var defaultMaterial = actor.NewMaterial("default", mgl64.Vec4{1, 1, 1, 1}, 0.5)

// Renderer submits work to the GPU. The scene fills and binds constant
// buffers through Heap before each DrawMesh/DrawSky call.
type Renderer interface {
	Heap() *cbuffer.Heap
	Clear(color mgl64.Vec4) error
	DrawMesh(entity *actor.Entity) error
	DrawSky(sky *Sky) error
	Present() error
}

type FrameStats struct {
	Visible int
	Culled  int
	Heap    cbuffer.Stats
}

// Draw renders one frame from the active camera: clear, cull, then for every
// visible entity stream its vertex and pixel constants and submit its mesh,
// then the sky, then present. Buffered events are dispatched at the end.
func (s *Scene) Draw(r Renderer) (FrameStats, error) {
	cam := s.ActiveCamera()
	if cam == nil {
		return FrameStats{}, ErrNoCamera
	}

	heap := r.Heap()
	heap.BeginFrame()

	if err := r.Clear(s.Background); err != nil {
		return FrameStats{}, fmt.Errorf("lumen: clear: %w", err)
	}

	visible := s.cull(cam.Frustum())
	stats := FrameStats{
		Visible: len(visible),
		Culled:  len(s.Entities) - len(visible),
	}

	view := cbuffer.Mat4(cam.ViewMatrix())
	projection := cbuffer.Mat4(cam.ProjectionMatrix())

	pixel := cbuffer.PixelData{
		TotalTime:      float32(s.totalTime),
		DeltaTime:      float32(s.deltaTime),
		CameraPosition: cbuffer.Vec3(cam.Position()),
		AmbientColor:   cbuffer.Vec4(s.AmbientColor),
	}
	pixel.SetLights(s.Lights)

	for _, idx := range visible {
		entity := s.Entities[idx]
		transform := entity.Transform()

		vertex := cbuffer.VertexData{
			World:                 cbuffer.Mat4(transform.WorldMatrix()),
			View:                  view,
			Projection:            projection,
			WorldInverseTranspose: cbuffer.Mat4(transform.WorldInverseTransposeMatrix()),
		}
		if _, err := heap.FillAndBindLayout(&vertex, cbuffer.StageVertex, VertexSlot); err != nil {
			return stats, fmt.Errorf("lumen: entity %q vertex constants: %w", entity.Name, err)
		}

		material := entity.Material()
		if material == nil {
			material = defaultMaterial
		}
		pixel.ColorTint = cbuffer.Vec4(material.ColorTint)
		pixel.UVScale = cbuffer.Vec2(material.UVScale)
		pixel.UVOffset = cbuffer.Vec2(material.UVOffset)
		pixel.Roughness = float32(material.Roughness)
		if _, err := heap.FillAndBindLayout(&pixel, cbuffer.StagePixel, PixelSlot); err != nil {
			return stats, fmt.Errorf("lumen: entity %q pixel constants: %w", entity.Name, err)
		}

		if err := r.DrawMesh(entity); err != nil {
			return stats, fmt.Errorf("lumen: draw %q: %w", entity.Name, err)
		}
		s.Events.recordVisible(entity)
	}

	if s.Sky != nil && s.Sky.Mesh != nil {
		sky := cbuffer.SkyData{
			View:       cbuffer.Mat4(camera.WithoutTranslation(cam.ViewMatrix())),
			Projection: projection,
		}
		if _, err := heap.FillAndBindLayout(&sky, cbuffer.StageVertex, VertexSlot); err != nil {
			return stats, fmt.Errorf("lumen: sky constants: %w", err)
		}
		if err := r.DrawSky(s.Sky); err != nil {
			return stats, fmt.Errorf("lumen: draw sky: %w", err)
		}
	}

	if err := r.Present(); err != nil {
		return stats, fmt.Errorf("lumen: present: %w", err)
	}

	stats.Heap = heap.Stats()

	s.Events.processVisibilityEvents()
	s.Events.flush()

	return stats, nil
}

// cull returns, in ascending order, the indices of the entities whose world
// bounds intersect the frustum
func (s *Scene) cull(frustum camera.Frustum) []int {
	bounds := make([]actor.AABB, len(s.Entities))
	task(max(DEFAULT_WORKERS, s.Workers), len(s.Entities), func(i int) {
		bounds[i] = s.Entities[i].WorldBounds()
	})

	var candidates []int
	if s.Grid != nil {
		s.Grid.Clear()
		for i, b := range bounds {
			s.Grid.Insert(i, b)
		}
		candidates = s.Grid.Query(frustum.Bounds())
	} else {
		candidates = make([]int, len(s.Entities))
		for i := range candidates {
			candidates[i] = i
		}
	}

	visible := candidates[:0]
	for _, idx := range candidates {
		if frustum.IntersectsAABB(bounds[idx]) {
			visible = append(visible, idx)
		}
	}

	return visible
}
