package main

import (
	"image/color"

	"github.com/akmonengine/lumen"
	"github.com/akmonengine/lumen/actor"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// Wireframe projects mesh edges in software with the matrices read back
// from the bound constant buffers and strokes them on an ebiten image.
type Wireframe struct {
	*lumen.Recorder
	screen *ebiten.Image
}

func NewWireframe(heapSize int) (*Wireframe, error) {
	recorder, err := lumen.NewRecorder(heapSize)
	if err != nil {
		return nil, err
	}
	return &Wireframe{Recorder: recorder}, nil
}

// Target sets the image the next frame is drawn on
func (w *Wireframe) Target(screen *ebiten.Image) {
	w.screen = screen
}

func (w *Wireframe) Clear(c mgl64.Vec4) error {
	if err := w.Recorder.Clear(c); err != nil {
		return err
	}
	w.screen.Fill(toColor(mgl32.Vec4{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}))
	return nil
}

func (w *Wireframe) DrawMesh(entity *actor.Entity) error {
	if err := w.Recorder.DrawMesh(entity); err != nil {
		return err
	}
	call := w.Calls[len(w.Calls)-1]

	wvp := call.Vertex.Projection.Mul4(call.Vertex.View).Mul4(call.Vertex.World)
	w.strokeMesh(entity.Mesh(), wvp, toColor(call.Pixel.ColorTint), 1.5)
	return nil
}

func (w *Wireframe) DrawSky(sky *lumen.Sky) error {
	if err := w.Recorder.DrawSky(sky); err != nil {
		return err
	}
	call := w.Calls[len(w.Calls)-1]

	// the sky box surrounds the camera; push it out so it is not clipped
	scale := mgl32.Scale3D(500, 500, 500)
	vp := call.Vertex.Projection.Mul4(call.Vertex.View).Mul4(scale)
	w.strokeMesh(sky.Mesh, vp, colornames.Lightsteelblue, 1)
	return nil
}

func (w *Wireframe) strokeMesh(mesh *actor.Mesh, wvp mgl32.Mat4, clr color.Color, width float32) {
	bounds := w.screen.Bounds()
	halfW := float32(bounds.Dx()) / 2
	halfH := float32(bounds.Dy()) / 2

	projected := make([]mgl32.Vec3, len(mesh.Vertices))
	visible := make([]bool, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		p := mgl32.Vec4{float32(v.Position[0]), float32(v.Position[1]), float32(v.Position[2]), 1}
		clip := wvp.Mul4x1(p)
		if clip[3] <= 1e-5 {
			continue
		}
		ndc := clip.Vec3().Mul(1 / clip[3])
		if ndc[2] < 0 || ndc[2] > 1 {
			continue
		}
		projected[i] = mgl32.Vec3{halfW + ndc[0]*halfW, halfH - ndc[1]*halfH, ndc[2]}
		visible[i] = true
	}

	for _, e := range mesh.Edges() {
		if !visible[e[0]] || !visible[e[1]] {
			continue
		}
		a, b := projected[e[0]], projected[e[1]]
		vector.StrokeLine(w.screen, a[0], a[1], b[0], b[1], width, clr, true)
	}
}

func toColor(c mgl32.Vec4) color.Color {
	clamp := func(f float32) uint8 {
		return uint8(mgl32.Clamp(f, 0, 1) * 255)
	}
	return color.NRGBA{R: clamp(c[0]), G: clamp(c[1]), B: clamp(c[2]), A: clamp(c[3])}
}
