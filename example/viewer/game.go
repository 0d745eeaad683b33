package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/akmonengine/lumen"
	"github.com/akmonengine/lumen/scenefile"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	heapSize   = 256 * 1024
)

//go:embed scene.yaml
var defaultScene []byte

type Game struct {
	logger *slog.Logger

	scenePath string
	watcher   *scenefile.Watcher

	scene    *lumen.Scene
	renderer *Wireframe
	input    *Input

	width, height int
	start         time.Time
	last          time.Time
	stats         lumen.FrameStats
}

func NewGame(scenePath string, watch bool, logger *slog.Logger) (*Game, error) {
	renderer, err := NewWireframe(heapSize)
	if err != nil {
		return nil, err
	}

	g := &Game{
		logger:    logger,
		scenePath: scenePath,
		renderer:  renderer,
		input:     NewInput(),
		width:     baseWidth,
		height:    baseHeight,
		start:     time.Now(),
	}
	g.last = g.start

	if err := g.load(); err != nil {
		return nil, err
	}

	if watch && scenePath != "" {
		w, err := scenefile.NewWatcher(filepath.Dir(scenePath))
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", scenePath, err)
		}
		g.watcher = w
	}

	return g, nil
}

func (g *Game) load() error {
	var (
		file *scenefile.File
		err  error
	)
	if g.scenePath == "" {
		file, err = scenefile.Parse(defaultScene)
	} else {
		file, err = scenefile.Load(g.scenePath)
	}
	if err != nil {
		return err
	}

	scene, err := file.Build(float64(g.width)/float64(g.height), lumen.WithLogger(g.logger))
	if err != nil {
		return err
	}
	scene.Events.Subscribe(lumen.CAMERA_SWITCHED, func(event lumen.Event) {
		e := event.(lumen.CameraSwitchedEvent)
		g.logger.Info("camera switched", "from", e.Previous, "to", e.Current)
	})

	g.scene = scene
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) reload() {
	if g.watcher == nil {
		return
	}

	changed := false
drain:
	for {
		select {
		case path := <-g.watcher.Events:
			g.logger.Debug("file changed", "path", path)
			changed = true
		case err := <-g.watcher.Errors:
			g.logger.Warn("watch", "err", err)
		default:
			break drain
		}
	}

	if !changed {
		return
	}
	if err := g.load(); err != nil {
		g.logger.Error("reload scene, keeping the previous one", "err", err)
		return
	}
	g.logger.Info("scene reloaded", "path", g.scenePath)
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.reload()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab), inpututil.IsKeyJustPressed(ebiten.KeyE):
		if err := g.scene.NextCamera(); err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		if err := g.scene.PreviousCamera(); err != nil {
			return err
		}
	}

	now := time.Now()
	dt := now.Sub(g.last).Seconds()
	g.last = now

	return g.scene.Update(dt, now.Sub(g.start).Seconds(), g.input.Poll())
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Target(screen)

	stats, err := g.scene.Draw(g.renderer)
	if err != nil {
		g.logger.Error("draw", "err", err)
		return
	}
	g.stats = stats

	cam := g.scene.ActiveCamera()
	projection := "perspective"
	if !cam.IsPerspective() {
		projection = "orthographic"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %.1f  camera %d/%d (%s)  visible %d culled %d  cbuffer %d B in %d allocs\nWASD move, Space/X up/down, Shift sprint, drag to look, Tab/Q/E cameras, Esc quit",
		ebiten.ActualFPS(), g.scene.ActiveCameraIndex()+1, len(g.scene.Cameras), projection,
		stats.Visible, stats.Culled, stats.Heap.Bytes, stats.Heap.Allocations))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.width || outsideHeight != g.height) {
		if err := g.scene.Resize(outsideWidth, outsideHeight); err != nil {
			g.logger.Error("resize", "err", err)
		} else {
			g.width, g.height = outsideWidth, outsideHeight
		}
	}
	return g.width, g.height
}
