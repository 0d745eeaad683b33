package lumen

import (
	"errors"
	"fmt"

	"github.com/akmonengine/lumen/actor"
	"github.com/akmonengine/lumen/cbuffer"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrNotBound = errors.New("no constant buffer bound")

// DrawCall is what a shader saw for one submission
type DrawCall struct {
	Entity *actor.Entity // nil for the sky
	Sky    *Sky

	Vertex cbuffer.VertexData // World and WorldInverseTranspose are zero for the sky
	Pixel  cbuffer.PixelData
}

// Recorder is a Renderer without a GPU. Constant buffers go to a
// cbuffer.MemoryDevice and every draw decodes what is bound at that moment,
// so a frame can be inspected exactly as the shaders would have read it.
type Recorder struct {
	device *cbuffer.MemoryDevice
	heap   *cbuffer.Heap

	ClearColor mgl64.Vec4
	Calls      []DrawCall
	Frames     int
}

func NewRecorder(heapSize int) (*Recorder, error) {
	device := cbuffer.NewMemoryDevice(heapSize)
	heap, err := cbuffer.NewHeap(device, heapSize)
	if err != nil {
		return nil, fmt.Errorf("lumen: recorder: %w", err)
	}
	return &Recorder{device: device, heap: heap}, nil
}

func (r *Recorder) Heap() *cbuffer.Heap {
	return r.heap
}

func (r *Recorder) Device() *cbuffer.MemoryDevice {
	return r.device
}

// Clear starts a new frame
func (r *Recorder) Clear(color mgl64.Vec4) error {
	r.ClearColor = color
	r.Calls = r.Calls[:0]
	r.device.Reset()
	return nil
}

func (r *Recorder) DrawMesh(entity *actor.Entity) error {
	vertexBytes, ok := r.device.Bound(cbuffer.StageVertex, VertexSlot)
	if !ok {
		return fmt.Errorf("%w: vertex slot %d", ErrNotBound, VertexSlot)
	}
	pixelBytes, ok := r.device.Bound(cbuffer.StagePixel, PixelSlot)
	if !ok {
		return fmt.Errorf("%w: pixel slot %d", ErrNotBound, PixelSlot)
	}

	vertex, err := cbuffer.DecodeVertexData(vertexBytes)
	if err != nil {
		return err
	}
	pixel, err := cbuffer.DecodePixelData(pixelBytes)
	if err != nil {
		return err
	}

	r.Calls = append(r.Calls, DrawCall{Entity: entity, Vertex: vertex, Pixel: pixel})
	return nil
}

func (r *Recorder) DrawSky(sky *Sky) error {
	buf, ok := r.device.Bound(cbuffer.StageVertex, VertexSlot)
	if !ok {
		return fmt.Errorf("%w: vertex slot %d", ErrNotBound, VertexSlot)
	}
	data, err := cbuffer.DecodeSkyData(buf)
	if err != nil {
		return err
	}

	r.Calls = append(r.Calls, DrawCall{
		Sky:    sky,
		Vertex: cbuffer.VertexData{View: data.View, Projection: data.Projection},
	})
	return nil
}

func (r *Recorder) Present() error {
	r.Frames++
	return nil
}
