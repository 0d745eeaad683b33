// Package input describes the polled input state a frame is updated with.
//
// A State is a snapshot: which keys are held right now, how far the pointer
// moved since the previous frame, and which pointer buttons are down. It is
// built by whatever owns the window and passed by value into the update step,
// so scene logic never talks to a device directly.
package input

// Key names the keys the scene logic reacts to
type Key uint8

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyX
	KeyShift
	KeyEscape
	KeyTab
	KeyQ
	KeyE

	keyCount
)

var keyNames = [keyCount]string{
	KeyW:      "W",
	KeyA:      "A",
	KeyS:      "S",
	KeyD:      "D",
	KeySpace:  "Space",
	KeyX:      "X",
	KeyShift:  "Shift",
	KeyEscape: "Escape",
	KeyTab:    "Tab",
	KeyQ:      "Q",
	KeyE:      "E",
}

func (k Key) String() string {
	if k >= keyCount {
		return "Unknown"
	}
	return keyNames[k]
}

// Keys lists every key a State can report
func Keys() []Key {
	keys := make([]Key, 0, keyCount)
	for k := Key(0); k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}

// State is one frame of polled input
type State struct {
	keys uint32

	// Pointer movement since the previous poll, in pixels
	MouseDX float64
	MouseDY float64

	LeftButton  bool
	RightButton bool
}

// Press returns a copy of s with the given keys held
func (s State) Press(keys ...Key) State {
	for _, k := range keys {
		if k < keyCount {
			s.keys |= 1 << k
		}
	}
	return s
}

// Release returns a copy of s with the given keys released
func (s State) Release(keys ...Key) State {
	for _, k := range keys {
		if k < keyCount {
			s.keys &^= 1 << k
		}
	}
	return s
}

// WithMouse returns a copy of s with the pointer delta and left button set
func (s State) WithMouse(dx, dy float64, leftButton bool) State {
	s.MouseDX = dx
	s.MouseDY = dy
	s.LeftButton = leftButton
	return s
}

// KeyDown reports whether k is held in this snapshot
func (s State) KeyDown(k Key) bool {
	return k < keyCount && s.keys&(1<<k) != 0
}

// Idle reports whether nothing is held and the pointer did not move
func (s State) Idle() bool {
	return s.keys == 0 && s.MouseDX == 0 && s.MouseDY == 0 && !s.LeftButton && !s.RightButton
}

// Source produces one snapshot per frame
type Source interface {
	Poll() State
}

// SourceFunc adapts a function to Source
type SourceFunc func() State

func (f SourceFunc) Poll() State {
	return f()
}

// Script replays a fixed sequence of snapshots, then reports idle input.
// Headless drivers and tests use it in place of a device.
type Script struct {
	frames []State
	next   int
}

func NewScript(frames ...State) *Script {
	return &Script{frames: frames}
}

func (s *Script) Poll() State {
	if s.next >= len(s.frames) {
		return State{}
	}
	state := s.frames[s.next]
	s.next++
	return state
}

// Remaining returns how many scripted frames have not been polled yet
func (s *Script) Remaining() int {
	return len(s.frames) - s.next
}
