// Package scenefile describes a scene in YAML and builds it.
//
// Angles are radians, colors are linear RGB(A) in [0, 1]. Meshes are
// procedural; an entity may reference a declared mesh by name or one of the
// kinds cube, quad, sphere and triangle with default parameters.
package scenefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akmonengine/lumen"
	"github.com/akmonengine/lumen/actor"
	"github.com/akmonengine/lumen/behavior"
	"github.com/akmonengine/lumen/camera"
	"github.com/akmonengine/lumen/light"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScene = errors.New("invalid scene file")

const (
	KindCube     = "cube"
	KindQuad     = "quad"
	KindSphere   = "sphere"
	KindTriangle = "triangle"
)

type File struct {
	Background   *mgl64.Vec4 `yaml:"background"`
	Ambient      *mgl64.Vec4 `yaml:"ambient"`
	ActiveCamera int         `yaml:"active_camera"`
	Grid         *GridSpec   `yaml:"grid"`
	Workers      int         `yaml:"workers"`

	Cameras   []CameraSpec   `yaml:"cameras"`
	Materials []MaterialSpec `yaml:"materials"`
	Meshes    []MeshSpec     `yaml:"meshes"`
	Entities  []EntitySpec   `yaml:"entities"`
	Lights    []LightSpec    `yaml:"lights"`
	Sky       *SkySpec       `yaml:"sky"`

	// Dir resolves relative script_file paths; Load sets it to the file's directory
	Dir string `yaml:"-"`
}

// GridSpec sizes the culling grid; disabled turns the broad phase off
type GridSpec struct {
	CellSize float64 `yaml:"cell_size"`
	NumCells int     `yaml:"num_cells"`
	Disabled bool    `yaml:"disabled"`
}

type CameraSpec struct {
	Name        string     `yaml:"name"`
	Position    mgl64.Vec3 `yaml:"position"`
	Orientation mgl64.Vec3 `yaml:"orientation"`

	// Projection is perspective (default) or orthographic
	Projection  string  `yaml:"projection"`
	FieldOfView float64 `yaml:"fov"`
	Near        float64 `yaml:"near"`
	Far         float64 `yaml:"far"`
	OrthoHeight float64 `yaml:"ortho_height"`
	Speed       float64 `yaml:"speed"`
	LookSpeed   float64 `yaml:"look_speed"`
}

type MaterialSpec struct {
	Name         string      `yaml:"name"`
	Tint         *mgl64.Vec4 `yaml:"tint"`
	Roughness    float64     `yaml:"roughness"`
	UVScale      *mgl64.Vec2 `yaml:"uv_scale"`
	UVOffset     mgl64.Vec2  `yaml:"uv_offset"`
	VertexShader string      `yaml:"vertex_shader"`
	PixelShader  string      `yaml:"pixel_shader"`
}

type MeshSpec struct {
	Name   string  `yaml:"name"`
	Kind   string  `yaml:"kind"`
	Size   float64 `yaml:"size"`
	Radius float64 `yaml:"radius"`
	Slices int     `yaml:"slices"`
	Stacks int     `yaml:"stacks"`
}

type TransformSpec struct {
	Position mgl64.Vec3  `yaml:"position"`
	Rotation mgl64.Vec3  `yaml:"rotation"`
	Scale    *mgl64.Vec3 `yaml:"scale"`
}

type EntitySpec struct {
	Name      string        `yaml:"name"`
	Mesh      string        `yaml:"mesh"`
	Material  string        `yaml:"material"`
	Transform TransformSpec `yaml:"transform"`

	// At most one of Behavior (a built-in name), Script (inline tengo source)
	// and ScriptFile
	Behavior   string `yaml:"behavior"`
	Script     string `yaml:"script"`
	ScriptFile string `yaml:"script_file"`
}

type LightSpec struct {
	Type      string     `yaml:"type"`
	Direction mgl64.Vec3 `yaml:"direction"`
	Position  mgl64.Vec3 `yaml:"position"`
	Color     mgl64.Vec3 `yaml:"color"`
	Intensity float64    `yaml:"intensity"`
	Range     float64    `yaml:"range"`
	Inner     float64    `yaml:"inner"`
	Outer     float64    `yaml:"outer"`
}

type SkySpec struct {
	Mesh         string `yaml:"mesh"`
	VertexShader string `yaml:"vertex_shader"`
	PixelShader  string `yaml:"pixel_shader"`
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenefile: load %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %s: %w", path, err)
	}
	f.Dir = filepath.Dir(path)

	return f, nil
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("scenefile: unmarshal: %w", err)
	}
	return &f, nil
}

// Validate checks references and ranges without building anything
func (f *File) Validate() error {
	if len(f.Cameras) == 0 {
		return fmt.Errorf("%w: no camera", ErrInvalidScene)
	}
	if f.ActiveCamera < 0 || f.ActiveCamera >= len(f.Cameras) {
		return fmt.Errorf("%w: active_camera %d of %d", ErrInvalidScene, f.ActiveCamera, len(f.Cameras))
	}
	for i, c := range f.Cameras {
		if c.Projection != "" && c.Projection != "perspective" && c.Projection != "orthographic" {
			return fmt.Errorf("%w: camera %d: projection %q", ErrInvalidScene, i, c.Projection)
		}
	}

	materials := make(map[string]bool, len(f.Materials))
	for _, m := range f.Materials {
		if m.Name == "" {
			return fmt.Errorf("%w: material without name", ErrInvalidScene)
		}
		if materials[m.Name] {
			return fmt.Errorf("%w: duplicate material %q", ErrInvalidScene, m.Name)
		}
		materials[m.Name] = true
	}

	meshes := make(map[string]bool, len(f.Meshes))
	for _, m := range f.Meshes {
		if m.Name == "" {
			return fmt.Errorf("%w: mesh without name", ErrInvalidScene)
		}
		if meshes[m.Name] {
			return fmt.Errorf("%w: duplicate mesh %q", ErrInvalidScene, m.Name)
		}
		if !isKind(m.Kind) {
			return fmt.Errorf("%w: mesh %q: unknown kind %q", ErrInvalidScene, m.Name, m.Kind)
		}
		meshes[m.Name] = true
	}

	for i, e := range f.Entities {
		if e.Mesh == "" {
			return fmt.Errorf("%w: entity %d (%s): no mesh", ErrInvalidScene, i, e.Name)
		}
		if !meshes[e.Mesh] && !isKind(e.Mesh) {
			return fmt.Errorf("%w: entity %d (%s): unknown mesh %q", ErrInvalidScene, i, e.Name, e.Mesh)
		}
		if e.Material != "" && !materials[e.Material] {
			return fmt.Errorf("%w: entity %d (%s): unknown material %q", ErrInvalidScene, i, e.Name, e.Material)
		}

		sources := 0
		for _, s := range []string{e.Behavior, e.Script, e.ScriptFile} {
			if s != "" {
				sources++
			}
		}
		if sources > 1 {
			return fmt.Errorf("%w: entity %d (%s): behavior, script and script_file are exclusive", ErrInvalidScene, i, e.Name)
		}
		if e.Behavior != "" {
			if _, err := behavior.Builtin(e.Behavior); err != nil {
				return fmt.Errorf("%w: entity %d (%s): %w", ErrInvalidScene, i, e.Name, err)
			}
		}
	}

	if len(f.Lights) > light.MaxLights {
		return fmt.Errorf("%w: %d lights, limit is %d", ErrInvalidScene, len(f.Lights), light.MaxLights)
	}
	for i, l := range f.Lights {
		if _, err := l.light(); err != nil {
			return fmt.Errorf("%w: light %d: %w", ErrInvalidScene, i, err)
		}
	}

	if f.Sky != nil && !meshes[f.Sky.Mesh] && !isKind(f.Sky.Mesh) {
		return fmt.Errorf("%w: sky: unknown mesh %q", ErrInvalidScene, f.Sky.Mesh)
	}

	return nil
}

// Build validates the file and creates the scene, with every camera built
// for aspectRatio
func (f *File) Build(aspectRatio float64, opts ...lumen.Option) (*lumen.Scene, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if f.Background != nil {
		opts = append(opts, lumen.WithBackground(*f.Background))
	}
	if f.Ambient != nil {
		opts = append(opts, lumen.WithAmbient(*f.Ambient))
	}
	if f.Grid != nil {
		if f.Grid.Disabled {
			opts = append(opts, lumen.WithCullGrid(nil))
		} else {
			cellSize, numCells := f.Grid.CellSize, f.Grid.NumCells
			if cellSize == 0 {
				cellSize = lumen.DEFAULT_CELL_SIZE
			}
			if numCells == 0 {
				numCells = lumen.DEFAULT_NUM_CELLS
			}
			opts = append(opts, lumen.WithCullGrid(lumen.NewCullGrid(cellSize, numCells)))
		}
	}

	if f.Workers > 0 {
		opts = append(opts, lumen.WithWorkers(f.Workers))
	}

	scene := lumen.NewScene(opts...)

	for i, spec := range f.Cameras {
		cam, err := camera.New(spec.settings(aspectRatio))
		if err != nil {
			return nil, fmt.Errorf("scenefile: camera %d (%s): %w", i, spec.Name, err)
		}
		scene.AddCamera(cam)
	}
	if err := scene.SetActiveCamera(f.ActiveCamera); err != nil {
		return nil, fmt.Errorf("scenefile: %w", err)
	}

	materials := make(map[string]*actor.Material, len(f.Materials))
	for _, spec := range f.Materials {
		materials[spec.Name] = spec.material()
	}

	meshes := make(map[string]*actor.Mesh, len(f.Meshes))
	for _, spec := range f.Meshes {
		meshes[spec.Name] = spec.mesh()
	}
	meshByName := func(name string) *actor.Mesh {
		if m, ok := meshes[name]; ok {
			return m
		}
		m := MeshSpec{Name: name, Kind: name}.mesh()
		meshes[name] = m
		return m
	}

	for i, spec := range f.Entities {
		entity := actor.NewEntity(spec.Name, meshByName(spec.Mesh), materials[spec.Material])

		t := entity.Transform()
		t.SetPosition(spec.Transform.Position)
		t.SetRotation(spec.Transform.Rotation)
		if spec.Transform.Scale != nil {
			t.SetScale(*spec.Transform.Scale)
		}
		scene.AddEntity(entity)

		script, err := f.script(spec)
		if err != nil {
			return nil, fmt.Errorf("scenefile: entity %d (%s): %w", i, spec.Name, err)
		}
		scene.SetBehavior(entity, script)
	}

	for i, spec := range f.Lights {
		l, err := spec.light()
		if err != nil {
			return nil, fmt.Errorf("scenefile: light %d: %w", i, err)
		}
		if err := scene.AddLight(l); err != nil {
			return nil, fmt.Errorf("scenefile: light %d: %w", i, err)
		}
	}

	if f.Sky != nil {
		scene.Sky = &lumen.Sky{
			Name:         f.Sky.Mesh,
			Mesh:         meshByName(f.Sky.Mesh),
			VertexShader: f.Sky.VertexShader,
			PixelShader:  f.Sky.PixelShader,
		}
	}

	scene.Logger().Info("scene built",
		"entities", len(scene.Entities),
		"cameras", len(scene.Cameras),
		"lights", len(scene.Lights))

	return scene, nil
}

func (f *File) script(spec EntitySpec) (*behavior.Script, error) {
	switch {
	case spec.Behavior != "":
		src, err := behavior.Builtin(spec.Behavior)
		if err != nil {
			return nil, err
		}
		return behavior.Compile(spec.Behavior, src)
	case spec.Script != "":
		return behavior.Compile(spec.Name, spec.Script)
	case spec.ScriptFile != "":
		path := spec.ScriptFile
		if !filepath.IsAbs(path) && f.Dir != "" {
			path = filepath.Join(f.Dir, path)
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		return behavior.Compile(filepath.Base(path), string(src))
	}
	return nil, nil
}

func isKind(kind string) bool {
	switch kind {
	case KindCube, KindQuad, KindSphere, KindTriangle:
		return true
	}
	return false
}

func (c CameraSpec) settings(aspectRatio float64) camera.Settings {
	s := camera.DefaultSettings(aspectRatio)
	s.Position = c.Position
	s.Orientation = c.Orientation
	s.Perspective = c.Projection != "orthographic"
	if c.FieldOfView != 0 {
		s.FieldOfView = c.FieldOfView
	}
	if c.Near != 0 {
		s.NearClip = c.Near
	}
	if c.Far != 0 {
		s.FarClip = c.Far
	}
	if c.OrthoHeight != 0 {
		s.OrthographicHeight = c.OrthoHeight
	}
	if c.Speed != 0 {
		s.MovementSpeed = c.Speed
	}
	if c.LookSpeed != 0 {
		s.MouseLookSpeed = c.LookSpeed
	}
	return s
}

func (m MaterialSpec) material() *actor.Material {
	tint := mgl64.Vec4{1, 1, 1, 1}
	if m.Tint != nil {
		tint = *m.Tint
	}

	material := actor.NewMaterial(m.Name, tint, m.Roughness)
	if m.UVScale != nil {
		material.UVScale = *m.UVScale
	}
	material.UVOffset = m.UVOffset
	if m.VertexShader != "" {
		material.VertexShader = m.VertexShader
	}
	if m.PixelShader != "" {
		material.PixelShader = m.PixelShader
	}
	return material
}

func (m MeshSpec) mesh() *actor.Mesh {
	var mesh *actor.Mesh
	switch m.Kind {
	case KindCube:
		size := m.Size
		if size == 0 {
			size = 1
		}
		mesh = actor.NewCube(size)
	case KindQuad:
		size := m.Size
		if size == 0 {
			size = 1
		}
		mesh = actor.NewQuad(size)
	case KindSphere:
		radius, slices, stacks := m.Radius, m.Slices, m.Stacks
		if radius == 0 {
			radius = 0.5
		}
		if slices == 0 {
			slices = 16
		}
		if stacks == 0 {
			stacks = 8
		}
		mesh = actor.NewSphere(radius, slices, stacks)
	default:
		mesh = actor.NewTriangle()
	}
	mesh.Name = m.Name
	return mesh
}

func (l LightSpec) light() (light.Light, error) {
	typ, err := light.ParseType(l.Type)
	if err != nil {
		return light.Light{}, err
	}

	color := l.Color
	if color == (mgl64.Vec3{}) {
		color = mgl64.Vec3{1, 1, 1}
	}

	var out light.Light
	switch typ {
	case light.Directional:
		if l.Direction.Len() == 0 {
			return light.Light{}, fmt.Errorf("%w: directional light without direction", light.ErrInvalidLight)
		}
		out = light.NewDirectional(l.Direction, color, l.Intensity)
	case light.Point:
		out = light.NewPoint(l.Position, color, l.Intensity, l.Range)
	case light.Spot:
		if l.Direction.Len() == 0 {
			return light.Light{}, fmt.Errorf("%w: spot light without direction", light.ErrInvalidLight)
		}
		out = light.NewSpot(l.Position, l.Direction, color, l.Intensity, l.Range, l.Inner, l.Outer)
	}

	return out, out.Validate()
}
