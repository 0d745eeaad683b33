package cbuffer

import (
	"errors"
	"fmt"
)

// Alignment is the granularity of heap allocations. Constant-buffer views
// must start on a 256-byte boundary (16 registers of 16 bytes).
const Alignment = 256

var (
	ErrTooLarge      = errors.New("constant data larger than heap")
	ErrHeapExhausted = errors.New("frame constant data exceeds heap")
	ErrInvalidHeap   = errors.New("invalid heap size")
	ErrOutOfRange    = errors.New("write outside device memory")
	ErrInvalidStage  = errors.New("invalid shader stage")
)

// Stage is the shader stage a constant buffer is bound to
type Stage uint8

const (
	StageVertex Stage = iota
	StagePixel
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StagePixel:
		return "pixel"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// Device is the GPU side of the heap: one buffer the CPU writes into and
// whose sub-ranges are bound to shader slots.
type Device interface {
	// Write copies data into the buffer at offset
	Write(offset int, data []byte) error
	// Bind exposes [offset, offset+size) to the given stage and register slot
	Bind(stage Stage, slot, offset, size int) error
}

// Allocation describes one FillAndBind call
type Allocation struct {
	Offset int
	Size   int
	Stage  Stage
	Slot   int
}

type Stats struct {
	Allocations int
	Bytes       int
	Wraps       int
}

// Heap streams constant data through a single device buffer used as a ring.
// Each request takes the next 256-byte aligned range; when the remaining
// space is too short the cursor wraps to the start. Only ranges written
// before the last BeginFrame may be overwritten: a request that would reuse
// bytes of the current frame fails with ErrHeapExhausted.
type Heap struct {
	device Device
	size   int
	offset int
	used   int // bytes of the ring claimed since BeginFrame
	stats  Stats

	scratch []byte
}

// NewHeap creates a heap of sizeInBytes, rounded up to Alignment
func NewHeap(device Device, sizeInBytes int) (*Heap, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidHeap)
	}
	if sizeInBytes <= 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidHeap, sizeInBytes)
	}

	return &Heap{
		device: device,
		size:   alignUp(sizeInBytes),
	}, nil
}

func alignUp(n int) int {
	return (n + Alignment - 1) / Alignment * Alignment
}

func (h *Heap) Size() int {
	return h.size
}

// Offset returns where the next allocation would start without wrapping
func (h *Heap) Offset() int {
	return h.offset
}

// Stats returns the traffic since the last BeginFrame
func (h *Heap) Stats() Stats {
	return h.stats
}

// BeginFrame resets the per-frame statistics and releases the previous
// frame's ranges. The cursor is kept: the ring continues where the previous
// frame stopped.
func (h *Heap) BeginFrame() {
	h.stats = Stats{}
	h.used = 0
}

// FillAndBind copies data into the next free range and binds that range to
// stage/slot.
func (h *Heap) FillAndBind(data []byte, stage Stage, slot int) (Allocation, error) {
	if stage > StagePixel {
		return Allocation{}, fmt.Errorf("%w: %v", ErrInvalidStage, stage)
	}

	reserved := alignUp(max(len(data), 1))
	if reserved > h.size {
		return Allocation{}, fmt.Errorf("%w: %d bytes (aligned %d) in a %d byte heap", ErrTooLarge, len(data), reserved, h.size)
	}

	// a wrap also consumes the skipped tail of the ring
	need := reserved
	wrap := h.offset+reserved > h.size
	if wrap {
		need += h.size - h.offset
	}
	if h.used+need > h.size {
		return Allocation{}, fmt.Errorf("%w: %d of %d bytes used this frame, %d more requested",
			ErrHeapExhausted, h.used, h.size, need)
	}

	if wrap {
		h.offset = 0
		h.stats.Wraps++
	}

	alloc := Allocation{Offset: h.offset, Size: reserved, Stage: stage, Slot: slot}
	if err := h.device.Write(alloc.Offset, data); err != nil {
		return Allocation{}, fmt.Errorf("cbuffer: write %d bytes at %d: %w", len(data), alloc.Offset, err)
	}
	if err := h.device.Bind(stage, slot, alloc.Offset, alloc.Size); err != nil {
		return Allocation{}, fmt.Errorf("cbuffer: bind %v slot %d: %w", stage, slot, err)
	}

	h.offset += reserved
	h.used += need
	h.stats.Allocations++
	h.stats.Bytes += reserved

	return alloc, nil
}

// FillAndBindLayout marshals l into the heap's scratch buffer, then behaves
// like FillAndBind
func (h *Heap) FillAndBindLayout(l Layout, stage Stage, slot int) (Allocation, error) {
	h.scratch = l.MarshalTo(h.scratch)
	return h.FillAndBind(h.scratch, stage, slot)
}
