package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/akmonengine/lumen"
	"github.com/akmonengine/lumen/input"
	"github.com/akmonengine/lumen/scenefile"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed scene.yaml
var sceneYAML []byte

// SetupScene builds the scene and a headless renderer
func SetupScene() (*lumen.Scene, *lumen.Recorder) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	file, err := scenefile.Parse(sceneYAML)
	if err != nil {
		logger.Error("parse scene", "err", err)
		os.Exit(1)
	}

	scene, err := file.Build(1280.0/720.0, lumen.WithLogger(logger))
	if err != nil {
		logger.Error("build scene", "err", err)
		os.Exit(1)
	}

	recorder, err := lumen.NewRecorder(64 * 1024)
	if err != nil {
		logger.Error("create recorder", "err", err)
		os.Exit(1)
	}

	scene.Events.Subscribe(lumen.VISIBLE_ENTER, func(event lumen.Event) {
		fmt.Printf("  + %s enters the view\n", event.(lumen.VisibleEnterEvent).Entity.Name)
	})
	scene.Events.Subscribe(lumen.VISIBLE_EXIT, func(event lumen.Event) {
		fmt.Printf("  - %s leaves the view\n", event.(lumen.VisibleExitEvent).Entity.Name)
	})
	scene.Events.Subscribe(lumen.CAMERA_SWITCHED, func(event lumen.Event) {
		e := event.(lumen.CameraSwitchedEvent)
		fmt.Printf("  camera %d -> %d\n", e.Previous, e.Current)
	})

	return scene, recorder
}

// frames replays a short walk: forward, strafe, look around, switch camera
func frames() *input.Script {
	var none input.State

	states := make([]input.State, 0, 40)
	for i := 0; i < 10; i++ {
		states = append(states, none.Press(input.KeyW))
	}
	for i := 0; i < 5; i++ {
		states = append(states, none.Press(input.KeyD, input.KeyShift))
	}
	for i := 0; i < 10; i++ {
		states = append(states, none.WithMouse(40, 0, true))
	}
	for i := 0; i < 10; i++ {
		states = append(states, none.Press(input.KeyTab))
	}
	return input.NewScript(states...)
}

func printMatrix(name string, m mgl32.Mat4) {
	fmt.Printf("  %s:\n", name)
	for row := 0; row < 4; row++ {
		fmt.Printf("    % .3f % .3f % .3f % .3f\n", m.At(row, 0), m.At(row, 1), m.At(row, 2), m.At(row, 3))
	}
}

func main() {
	scene, recorder := SetupScene()
	script := frames()

	const dt float64 = 1.0 / 60.0
	total := 0.0
	tabHeld := false

	for step := 0; script.Remaining() > 0; step++ {
		in := script.Poll()
		total += dt

		if in.KeyDown(input.KeyTab) && !tabHeld {
			if err := scene.NextCamera(); err != nil {
				scene.Logger().Error("switch camera", "err", err)
			}
		}
		tabHeld = in.KeyDown(input.KeyTab)

		if err := scene.Update(dt, total, in); err != nil {
			scene.Logger().Error("update", "err", err)
			os.Exit(1)
		}

		fmt.Printf("--- frame %d ---\n", step+1)
		stats, err := scene.Draw(recorder)
		if err != nil {
			scene.Logger().Error("draw", "err", err)
			os.Exit(1)
		}

		fmt.Printf("  camera %d at %v\n", scene.ActiveCameraIndex(), scene.ActiveCamera().Position())
		fmt.Printf("  visible %d, culled %d, heap %d allocations / %d bytes / %d wraps\n",
			stats.Visible, stats.Culled, stats.Heap.Allocations, stats.Heap.Bytes, stats.Heap.Wraps)

		if step%10 == 0 && len(recorder.Calls) > 0 {
			call := recorder.Calls[0]
			if call.Entity != nil {
				fmt.Printf("  first draw: %s\n", call.Entity.Name)
				printMatrix("world", call.Vertex.World)
			}
			printMatrix("view", call.Vertex.View)
			printMatrix("projection", call.Vertex.Projection)
		}
	}

	fmt.Printf("done after %d frames\n", recorder.Frames)
}
