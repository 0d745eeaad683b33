package cbuffer

import "fmt"

// Binding is one Bind call recorded by MemoryDevice
type Binding struct {
	Stage  Stage
	Slot   int
	Offset int
	Size   int
}

type slotKey struct {
	stage Stage
	slot  int
}

// MemoryDevice is a Device backed by a byte slice. It stands in for the GPU
// in headless runs and lets a software renderer read back what is bound.
type MemoryDevice struct {
	memory   []byte
	bound    map[slotKey]Binding
	bindings []Binding
	writes   int
}

func NewMemoryDevice(sizeInBytes int) *MemoryDevice {
	return &MemoryDevice{
		memory: make([]byte, alignUp(sizeInBytes)),
		bound:  make(map[slotKey]Binding),
	}
}

func (d *MemoryDevice) Write(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > len(d.memory) {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrOutOfRange, offset, offset+len(data), len(d.memory))
	}
	copy(d.memory[offset:], data)
	d.writes++
	return nil
}

func (d *MemoryDevice) Bind(stage Stage, slot, offset, size int) error {
	if offset < 0 || offset+size > len(d.memory) {
		return fmt.Errorf("%w: bind [%d, %d) of %d", ErrOutOfRange, offset, offset+size, len(d.memory))
	}
	b := Binding{Stage: stage, Slot: slot, Offset: offset, Size: size}
	d.bound[slotKey{stage, slot}] = b
	d.bindings = append(d.bindings, b)
	return nil
}

// Bound returns the bytes currently bound to stage/slot
func (d *MemoryDevice) Bound(stage Stage, slot int) ([]byte, bool) {
	b, ok := d.bound[slotKey{stage, slot}]
	if !ok {
		return nil, false
	}
	return d.memory[b.Offset : b.Offset+b.Size], true
}

// Bindings returns every Bind call since the last Reset, in order
func (d *MemoryDevice) Bindings() []Binding {
	return d.bindings
}

func (d *MemoryDevice) Writes() int {
	return d.writes
}

// Reset forgets recorded calls but keeps memory contents and current bindings
func (d *MemoryDevice) Reset() {
	d.bindings = d.bindings[:0]
	d.writes = 0
}

func (d *MemoryDevice) Len() int {
	return len(d.memory)
}
