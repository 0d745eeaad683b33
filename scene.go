package lumen

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/akmonengine/lumen/actor"
	"github.com/akmonengine/lumen/behavior"
	"github.com/akmonengine/lumen/camera"
	"github.com/akmonengine/lumen/input"
	"github.com/akmonengine/lumen/light"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_CELL_SIZE = 8.0
	DEFAULT_NUM_CELLS = 1024
	DEFAULT_WORKERS   = 1
)

var (
	ErrNoCamera       = errors.New("scene has no camera")
	ErrCameraIndex    = errors.New("camera index out of range")
	ErrTooManyLights  = errors.New("too many lights")
	ErrInvalidSurface = errors.New("invalid surface size")
)

// Sky is drawn after every entity, centered on the active camera
type Sky struct {
	Name         string
	Mesh         *actor.Mesh
	VertexShader string
	PixelShader  string
}

// Scene owns the entities, cameras and lights of a frame loop.
//
// A frame is Update then Draw, driven from one goroutine: every transform
// mutation of the frame happens in Update, and Draw only reads transforms
// while streaming them to the constant-buffer heap right before each draw
// submission. Culling spreads the world bounds over Workers goroutines.
type Scene struct {
	Entities []*actor.Entity
	Cameras  []*camera.Camera
	Lights   []light.Light

	Background   mgl64.Vec4
	AmbientColor mgl64.Vec4
	Sky          *Sky

	Events  Events
	Grid    *CullGrid
	Workers int

	behaviors map[*actor.Entity]*behavior.Script
	active    int

	deltaTime float64
	totalTime float64

	logger *slog.Logger
}

type Option func(*Scene)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scene) {
		s.logger = logger
	}
}

// WithCullGrid replaces the default culling grid; a nil grid disables the
// broad phase and every entity is tested against the frustum
func WithCullGrid(grid *CullGrid) Option {
	return func(s *Scene) {
		s.Grid = grid
	}
}

func WithWorkers(workers int) Option {
	return func(s *Scene) {
		s.Workers = workers
	}
}

func WithBackground(color mgl64.Vec4) Option {
	return func(s *Scene) {
		s.Background = color
	}
}

func WithAmbient(color mgl64.Vec4) Option {
	return func(s *Scene) {
		s.AmbientColor = color
	}
}

func NewScene(opts ...Option) *Scene {
	s := &Scene{
		Background:   mgl64.Vec4{0.91, 0.74, 0.74, 1},
		AmbientColor: mgl64.Vec4{0.1, 0.1, 0.15, 1},
		Events:       NewEvents(),
		Grid:         NewCullGrid(DEFAULT_CELL_SIZE, DEFAULT_NUM_CELLS),
		behaviors:    make(map[*actor.Entity]*behavior.Script),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scene) Logger() *slog.Logger {
	return s.logger
}

// AddEntity adds an entity to the scene
func (s *Scene) AddEntity(entity *actor.Entity) {
	s.Entities = append(s.Entities, entity)
}

// RemoveEntity removes an entity and its behavior from the scene
func (s *Scene) RemoveEntity(entity *actor.Entity) {
	k := -1
	for i, e := range s.Entities {
		if e == entity {
			k = i
			break
		}
	}

	if k != -1 {
		s.Entities = append(s.Entities[:k], s.Entities[k+1:]...)
	}

	delete(s.behaviors, entity)
	s.Events.forget(entity)
}

// SetBehavior binds a script to an entity; a nil script unbinds it
func (s *Scene) SetBehavior(entity *actor.Entity, script *behavior.Script) {
	if script == nil {
		delete(s.behaviors, entity)
		return
	}
	s.behaviors[entity] = script
}

func (s *Scene) Behavior(entity *actor.Entity) *behavior.Script {
	return s.behaviors[entity]
}

// AddCamera appends a camera and returns its index. The first camera added
// becomes the active one.
func (s *Scene) AddCamera(cam *camera.Camera) int {
	s.Cameras = append(s.Cameras, cam)
	return len(s.Cameras) - 1
}

// AddLight validates and appends a light; the pixel constant buffer holds at
// most light.MaxLights
func (s *Scene) AddLight(l light.Light) error {
	if len(s.Lights) >= light.MaxLights {
		return fmt.Errorf("%w: limit is %d", ErrTooManyLights, light.MaxLights)
	}
	if err := l.Validate(); err != nil {
		return err
	}
	s.Lights = append(s.Lights, l)
	return nil
}

// ActiveCamera returns the camera whose matrices are drawn, or nil
func (s *Scene) ActiveCamera() *camera.Camera {
	if len(s.Cameras) == 0 {
		return nil
	}
	return s.Cameras[s.active]
}

func (s *Scene) ActiveCameraIndex() int {
	return s.active
}

// SetActiveCamera selects the camera at index i
func (s *Scene) SetActiveCamera(i int) error {
	if len(s.Cameras) == 0 {
		return ErrNoCamera
	}
	if i < 0 || i >= len(s.Cameras) {
		return fmt.Errorf("%w: %d of %d", ErrCameraIndex, i, len(s.Cameras))
	}
	if i == s.active {
		return nil
	}

	previous := s.active
	s.active = i
	s.Events.emit(CameraSwitchedEvent{Previous: previous, Current: i, Camera: s.Cameras[i]})
	s.logger.Debug("active camera switched", "previous", previous, "current", i)

	return nil
}

// NextCamera activates the following camera, wrapping around
func (s *Scene) NextCamera() error {
	if len(s.Cameras) == 0 {
		return ErrNoCamera
	}
	return s.SetActiveCamera((s.active + 1) % len(s.Cameras))
}

// PreviousCamera activates the preceding camera, wrapping around
func (s *Scene) PreviousCamera() error {
	if len(s.Cameras) == 0 {
		return ErrNoCamera
	}
	return s.SetActiveCamera((s.active - 1 + len(s.Cameras)) % len(s.Cameras))
}

// Resize rebuilds the projection of every camera for a new output size, so
// switching cameras after a resize never shows a stale aspect ratio.
func (s *Scene) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSurface, width, height)
	}

	aspect := float64(width) / float64(height)
	for i, cam := range s.Cameras {
		if err := cam.UpdateProjectionMatrix(aspect); err != nil {
			return fmt.Errorf("lumen: resize camera %d: %w", i, err)
		}
	}

	s.Events.emit(ResizedEvent{Width: width, Height: height, AspectRatio: aspect})
	s.logger.Debug("surface resized", "width", width, "height", height, "aspect", aspect)

	return nil
}

// Update runs the entity behaviors, then feeds the input snapshot to the
// active camera
func (s *Scene) Update(dt, total float64, in input.State) error {
	s.deltaTime = dt
	s.totalTime = total

	for _, entity := range s.Entities {
		script, ok := s.behaviors[entity]
		if !ok {
			continue
		}
		if err := script.Apply(entity.Transform(), dt, total); err != nil {
			return fmt.Errorf("lumen: entity %q: %w", entity.Name, err)
		}
	}

	cam := s.ActiveCamera()
	if cam == nil {
		return ErrNoCamera
	}
	cam.Update(dt, in)

	return nil
}

// Time returns the delta and total time of the last Update
func (s *Scene) Time() (dt, total float64) {
	return s.deltaTime, s.totalTime
}
