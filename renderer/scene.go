package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/strata/camera"
	"github.com/pthm-cable/strata/components"
	"github.com/pthm-cable/strata/config"
	"github.com/pthm-cable/strata/game"
	"github.com/pthm-cable/strata/systems"
	"github.com/pthm-cable/strata/telemetry"
	"github.com/pthm-cable/strata/ui"
)

// Sky clear color.
var skyColor = rl.NewColor(148, 189, 255, 255)

const controlsLegend = "WASD/arrows: move | Space: jump | Mouse: look | Click: capture | Tab: release | F3: timing"

// Mesh is a CPU-side triangle list drawn in immediate mode. The model
// matrix is applied once when set, not per frame.
type Mesh struct {
	local  []rl.Vector3
	world  []rl.Vector3
	colors []rl.Color
}

// NewMesh builds a mesh from x,y,z vertex triples and triangle indices.
func NewMesh(vertices []float32, indices []uint32) *Mesh {
	m := &Mesh{
		local:  make([]rl.Vector3, len(indices)),
		colors: make([]rl.Color, len(indices)/3),
	}
	for i, idx := range indices {
		m.local[i] = rl.NewVector3(vertices[idx*3], vertices[idx*3+1], vertices[idx*3+2])
	}
	for i := range m.colors {
		m.colors[i] = rl.White
	}
	m.world = m.local
	return m
}

// SetModelMatrix implements game.Mesh.
func (m *Mesh) SetModelMatrix(model camera.Mat4) {
	if model == camera.Identity() {
		m.world = m.local
		return
	}
	m.world = make([]rl.Vector3, len(m.local))
	for i, v := range m.local {
		x, y, z := model.TransformPoint(float64(v.X), float64(v.Y), float64(v.Z))
		m.world[i] = rl.NewVector3(float32(x), float32(y), float32(z))
	}
}

// SetTriangleColor implements game.Mesh.
func (m *Mesh) SetTriangleColor(i int, c systems.Color) {
	if i < 0 || i >= len(m.colors) {
		return
	}
	m.colors[i] = rl.NewColor(uint8(c.R*255), uint8(c.G*255), uint8(c.B*255), 255)
}

// Draw implements game.Mesh. Must be called inside a 3D mode block.
func (m *Mesh) Draw() {
	for t, c := range m.colors {
		rl.DrawTriangle3D(m.world[t*3], m.world[t*3+1], m.world[t*3+2], c)
	}
}

// Scene implements game.Renderer on top of raylib.
type Scene struct {
	cam      rl.Camera3D
	input    *Input
	hud      *ui.HUD
	perf     *ui.PerfPanel
	perfFn   func() telemetry.PerfStats
	showPerf bool
}

// NewScene creates a renderer. input reports the cursor state for the HUD;
// perf supplies the timing panel and may be nil.
func NewScene(input *Input, perf func() telemetry.PerfStats) *Scene {
	return &Scene{
		cam: rl.Camera3D{
			Up:         rl.NewVector3(0, 1, 0),
			Projection: rl.CameraPerspective,
		},
		input:  input,
		hud:    ui.NewHUD(),
		perf:   ui.NewPerfPanel(10, 200),
		perfFn: perf,
	}
}

// CreateMesh implements game.Renderer.
func (s *Scene) CreateMesh(vertices []float32, indices []uint32) game.Mesh {
	return NewMesh(vertices, indices)
}

// SetCamera implements game.Renderer.
func (s *Scene) SetCamera(cam *camera.FirstPerson, eye components.Position) {
	tx, ty, tz := cam.Target(eye.X, eye.Y, eye.Z)
	s.cam.Position = rl.NewVector3(float32(eye.X), float32(eye.Y), float32(eye.Z))
	s.cam.Target = rl.NewVector3(float32(tx), float32(ty), float32(tz))
	s.cam.Fovy = float32(cam.FOV)
}

// Draw implements game.Renderer.
func (s *Scene) Draw(meshes []game.Mesh, hud game.HUD) {
	if rl.IsKeyPressed(rl.KeyF3) {
		s.showPerf = !s.showPerf
	}

	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())

	rl.BeginDrawing()
	rl.ClearBackground(skyColor)

	rl.BeginMode3D(s.cam)
	for _, m := range meshes {
		m.Draw()
	}
	rl.EndMode3D()

	s.hud.Draw(ui.HUDData{
		Title:        "strata",
		Mode:         hud.Mode,
		Tick:         hud.Tick,
		FPS:          rl.GetFPS(),
		X:            hud.Eye.X,
		Y:            hud.Eye.Y,
		Z:            hud.Eye.Z,
		Speed:        hud.Speed,
		Grounded:     hud.Grounded,
		Class:        hud.Class,
		CursorLocked: s.input == nil || s.input.Locked(),
		ScreenWidth:  w,
		ScreenHeight: h,
	})
	if hud.Mode == config.ModeHeightfield {
		s.hud.DrawLegend(w-110, 10)
	}
	if s.showPerf && s.perfFn != nil {
		s.perf.Draw(s.perfFn())
	}
	s.hud.DrawControls(h, controlsLegend)

	rl.EndDrawing()
}
