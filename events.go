package lumen

import (
	"github.com/akmonengine/lumen/actor"
	"github.com/akmonengine/lumen/camera"
)

const (
	CAMERA_SWITCHED EventType = iota
	SURFACE_RESIZED
	VISIBLE_ENTER
	VISIBLE_EXIT
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// CameraSwitchedEvent is sent when the active camera index changes
type CameraSwitchedEvent struct {
	Previous int
	Current  int
	Camera   *camera.Camera
}

func (e CameraSwitchedEvent) Type() EventType { return CAMERA_SWITCHED }

// ResizedEvent is sent after every camera projection was rebuilt for a new
// output size
type ResizedEvent struct {
	Width       int
	Height      int
	AspectRatio float64
}

func (e ResizedEvent) Type() EventType { return SURFACE_RESIZED }

// VisibleEnterEvent is sent the first frame an entity passes culling
type VisibleEnterEvent struct {
	Entity *actor.Entity
}

func (e VisibleEnterEvent) Type() EventType { return VISIBLE_ENTER }

// VisibleExitEvent is sent the first frame a previously drawn entity is culled
type VisibleExitEvent struct {
	Entity *actor.Entity
}

func (e VisibleExitEvent) Type() EventType { return VISIBLE_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events buffers scene events during a frame and dispatches them when the
// frame is presented, so listeners never observe a half-drawn frame.
type Events struct {
	listeners map[EventType][]EventListener

	buffer []Event

	// Visibility tracking for Enter/Exit detection
	previousVisible map[*actor.Entity]bool
	currentVisible  map[*actor.Entity]bool
}

func NewEvents() Events {
	return Events{
		listeners:       make(map[EventType][]EventListener),
		buffer:          make([]Event, 0, 64),
		previousVisible: make(map[*actor.Entity]bool),
		currentVisible:  make(map[*actor.Entity]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// recordVisible is called for each entity drawn this frame
func (e *Events) recordVisible(entity *actor.Entity) {
	e.currentVisible[entity] = true
}

func (e *Events) forget(entity *actor.Entity) {
	delete(e.previousVisible, entity)
	delete(e.currentVisible, entity)
}

// processVisibilityEvents compares this frame's drawn set with the previous one
func (e *Events) processVisibilityEvents() {
	for entity := range e.currentVisible {
		if !e.previousVisible[entity] {
			e.buffer = append(e.buffer, VisibleEnterEvent{Entity: entity})
		}
	}

	for entity := range e.previousVisible {
		if !e.currentVisible[entity] {
			e.buffer = append(e.buffer, VisibleExitEvent{Entity: entity})
		}
	}

	// Swap for next frame and clear current
	e.previousVisible, e.currentVisible = e.currentVisible, e.previousVisible
	clear(e.currentVisible)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}

// Pending returns how many events wait for the next flush
func (e *Events) Pending() int {
	return len(e.buffer)
}
