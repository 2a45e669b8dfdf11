package game

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/strata/camera"
	"github.com/pthm-cable/strata/components"
	"github.com/pthm-cable/strata/config"
	"github.com/pthm-cable/strata/systems"
	"github.com/pthm-cable/strata/telemetry"
)

// ---------- Test doubles ----------

type fakeInput struct {
	keys   map[Key]bool
	mx, my float64
}

func (f *fakeInput) IsKeyDown(k Key) bool              { return f.keys[k] }
func (f *fakeInput) MousePosition() (float64, float64) { return f.mx, f.my }

type fakeMesh struct {
	model  camera.Mat4
	colors map[int]systems.Color
	draws  int
}

func (m *fakeMesh) SetModelMatrix(mm camera.Mat4)            { m.model = mm }
func (m *fakeMesh) SetTriangleColor(i int, c systems.Color) { m.colors[i] = c }
func (m *fakeMesh) Draw()                                   { m.draws++ }

type fakeRenderer struct {
	meshes []*fakeMesh
	eye    components.Position
	hud    HUD
	frames int
}

func (r *fakeRenderer) CreateMesh(vertices []float32, indices []uint32) Mesh {
	m := &fakeMesh{colors: make(map[int]systems.Color)}
	r.meshes = append(r.meshes, m)
	return m
}

func (r *fakeRenderer) SetCamera(_ *camera.FirstPerson, eye components.Position) { r.eye = eye }

func (r *fakeRenderer) Draw(meshes []Mesh, hud HUD) {
	for _, m := range meshes {
		m.Draw()
	}
	r.hud = hud
	r.frames++
}

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.World.Width = 16
	cfg.World.Depth = 16
	cfg.Voxel.Radius = 8
	cfg.Voxel.MaxHeight = 4
	cfg.Voxel.Falloff = 0.1
	return cfg
}

func voxelConfig() *config.Config {
	cfg := smallConfig()
	cfg.World.Mode = config.ModeVoxel
	cfg.Player.SpawnX = 0.5
	cfg.Player.SpawnZ = 0.5
	return cfg
}

// ---------- Construction ----------

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.World.Mode = "lava"
	if _, err := New(cfg, Options{}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("New with bad mode: err = %v, want ErrInvalid", err)
	}

	cfg = smallConfig()
	cfg.Player.SpawnX = 1000
	if _, err := New(cfg, Options{}); !errors.Is(err, ErrSpawnOffMap) {
		t.Errorf("New with off-map spawn: err = %v, want ErrSpawnOffMap", err)
	}
}

func TestNewWorld_SelectsStrategy(t *testing.T) {
	for _, mode := range []string{config.ModeHeightfield, config.ModeVoxel} {
		t.Run(mode, func(t *testing.T) {
			cfg := smallConfig()
			cfg.World.Mode = mode
			w, err := NewWorld(cfg)
			if err != nil {
				t.Fatalf("NewWorld: %v", err)
			}
			if w.Mode() != mode {
				t.Errorf("Mode() = %q, want %q", w.Mode(), mode)
			}
			switch w.(type) {
			case *HeightfieldWorld:
				if mode != config.ModeHeightfield {
					t.Errorf("got height field for %q", mode)
				}
			case *VoxelWorld:
				if mode != config.ModeVoxel {
					t.Errorf("got voxel world for %q", mode)
				}
			}
		})
	}
}

// ---------- Stepping ----------

func TestGame_HeightfieldSettles(t *testing.T) {
	cfg := smallConfig()
	g, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Unload()

	idle := &fakeInput{}
	for i := 0; i < 300; i++ {
		g.Step(idle, cfg.Physics.DT)
	}

	p := g.Player()
	if !p.Body.Grounded {
		t.Fatalf("player not grounded after 5s: %+v", p)
	}
	hw := g.World().(*HeightfieldWorld)
	ground, ok := systems.NewHeightSampler(hw.Field(), cfg.World.HeightScale).Sample(0, 0)
	if !ok {
		t.Fatal("spawn column off the map")
	}
	if p.Position.Y != ground+cfg.Player.EyeHeight {
		t.Errorf("eye y = %v, want %v", p.Position.Y, ground+cfg.Player.EyeHeight)
	}
	if p.Eye != p.Position {
		t.Errorf("height-field eye %v should equal position %v", p.Eye, p.Position)
	}
	if g.Tick() != 300 {
		t.Errorf("tick = %d, want 300", g.Tick())
	}
}

func TestGame_VoxelSettles(t *testing.T) {
	cfg := voxelConfig()
	g, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Unload()

	start := g.Player()
	if start.Position.Y != 24 {
		t.Fatalf("spawn feet y = %v, want column top 4 + spawn height 20", start.Position.Y)
	}

	idle := &fakeInput{}
	for i := 0; i < 300; i++ {
		g.Step(idle, cfg.Physics.DT)
	}

	p := g.Player()
	if !p.Body.Grounded {
		t.Fatal("player not grounded after 5s")
	}
	if p.Position.Y < 4 || p.Position.Y >= 4.01 {
		t.Errorf("feet y = %v, want resting on the column top at 4", p.Position.Y)
	}
	if p.Eye.Y != p.Position.Y+cfg.Player.EyeHeight {
		t.Errorf("eye y = %v, want feet + eye height", p.Eye.Y)
	}
}

func TestGame_MouseTurnsPlayer(t *testing.T) {
	cfg := smallConfig()
	g, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Unload()

	in := &fakeInput{mx: 100}
	g.Step(in, cfg.Physics.DT) // first reading only primes the tracker
	if g.Player().Orientation.Yaw != 0 {
		t.Fatalf("yaw moved on the first tick: %v", g.Player().Orientation.Yaw)
	}

	in.mx = 200
	g.Step(in, cfg.Physics.DT)
	want := 100 * cfg.Camera.Sensitivity
	if got := g.Player().Orientation.Yaw; math.Abs(got-want) > 1e-12 {
		t.Errorf("yaw = %v, want %v", got, want)
	}
}

func TestGame_HeadlessDeterministic(t *testing.T) {
	run := func() Player {
		g, err := New(smallConfig(), Options{Headless: true})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		defer g.Unload()
		for i := 0; i < 600; i++ {
			g.UpdateHeadless()
		}
		return g.Player()
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("headless runs diverged:\n%+v\n%+v", a, b)
	}
	// The map edge is a wall, so the pilot never leaves the 16x16 field.
	if a.Position.X < -8 || a.Position.X > 8 || a.Position.Z < -8 || a.Position.Z > 8 {
		t.Errorf("player left the map: %+v", a.Position)
	}
}

func TestGame_UpdateClampsFrameDelta(t *testing.T) {
	cfg := smallConfig()
	g, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Unload()

	y0 := g.Player().Position.Y
	g.Update(&fakeInput{}, 10) // a ten second hitch
	fall := y0 - g.Player().Position.Y
	maxFall := cfg.Movement.Gravity * cfg.Physics.MaxDT * cfg.Physics.MaxDT
	if fall <= 0 || fall > maxFall+1e-9 {
		t.Errorf("fell %v in one frame, want (0, %v]", fall, maxFall)
	}

	g.Update(&fakeInput{}, 0)
	if g.Tick() != 1 {
		t.Errorf("zero-length frame should not tick, tick = %d", g.Tick())
	}
}

// ---------- Telemetry ----------

func TestGame_StatsCallback(t *testing.T) {
	var windows []telemetry.WindowStats
	cfg := smallConfig()
	g, err := New(cfg, Options{
		StatsWindowSec: 1,
		StatsCallback:  func(s telemetry.WindowStats) { windows = append(windows, s) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Unload()

	for i := 0; i < 300; i++ {
		g.Step(&fakeInput{}, cfg.Physics.DT)
	}
	if len(windows) != 5 {
		t.Fatalf("got %d windows, want 5", len(windows))
	}
	last := windows[len(windows)-1]
	if last.GroundedFrac != 1 {
		t.Errorf("last window grounded frac = %v, want 1", last.GroundedFrac)
	}
	if windows[0].MaxY <= last.MaxY {
		t.Errorf("first window should be higher than the last: %v vs %v", windows[0].MaxY, last.MaxY)
	}
}

func TestGame_OutputFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig()
	g, err := New(cfg, Options{OutputDir: dir, Headless: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 120; i++ {
		g.UpdateHeadless()
	}
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "trace.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 121 {
		t.Errorf("trace has %d lines, want header + 120", len(lines))
	}

	for _, name := range []string{"config.yaml", "terrain.csv", "telemetry.csv", "perf.csv"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

// ---------- Drawing ----------

func TestGame_DrawHeightfield(t *testing.T) {
	cfg := smallConfig()
	g, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Unload()

	r := &fakeRenderer{}
	g.Draw(r)
	g.Draw(r)

	if len(r.meshes) != 1 {
		t.Fatalf("created %d meshes, want 1 (uploaded once)", len(r.meshes))
	}
	m := r.meshes[0]
	if len(m.colors) != 16*16*2 {
		t.Errorf("colored %d triangles, want %d", len(m.colors), 16*16*2)
	}
	if m.model != camera.Identity() {
		t.Errorf("height-field model matrix should be identity")
	}
	if m.draws != 2 || r.frames != 2 {
		t.Errorf("draws=%d frames=%d, want 2", m.draws, r.frames)
	}
	if r.eye != g.Player().Eye {
		t.Errorf("camera eye = %v, want %v", r.eye, g.Player().Eye)
	}
	if r.hud.Mode != config.ModeHeightfield || r.hud.Class == "" {
		t.Errorf("hud = %+v", r.hud)
	}
}

func TestGame_DrawVoxel(t *testing.T) {
	cfg := voxelConfig()
	g, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer g.Unload()

	r := &fakeRenderer{}
	g.Draw(r)

	// Radius 8 gives a 16x16 square of columns.
	if len(r.meshes) != 256 {
		t.Fatalf("created %d meshes, want 256", len(r.meshes))
	}
	for i, m := range r.meshes {
		if len(m.colors) != 10 {
			t.Fatalf("mesh %d colored %d triangles, want 10", i, len(m.colors))
		}
	}
	// Columns are ordered by x then z, starting at the corner.
	x, _, z := r.meshes[0].model.TransformPoint(0, 0, 0)
	if x != -8 || z != -8 {
		t.Errorf("first column at (%v, %v), want (-8, -8)", x, z)
	}
	if r.hud.Mode != config.ModeVoxel || r.hud.Class != "" {
		t.Errorf("hud = %+v", r.hud)
	}
}

// ---------- Input ----------

func TestIntentFromInput(t *testing.T) {
	in := &fakeInput{keys: map[Key]bool{KeyW: true, KeyLeft: true, KeySpace: true}}
	got := IntentFromInput(in)
	want := components.Intent{Forward: true, Left: true, Jump: true}
	if got != want {
		t.Errorf("IntentFromInput = %+v, want %+v", got, want)
	}
}

func TestScriptedInput(t *testing.T) {
	s := &ScriptedInput{TurnEvery: 4, TurnPixels: 10, JumpEvery: 3}
	var jumps, strafes int
	for i := 0; i < 12; i++ {
		s.Advance()
		if !s.IsKeyDown(KeyW) {
			t.Fatal("pilot should always walk forward")
		}
		if s.IsKeyDown(KeySpace) {
			jumps++
		}
		if s.IsKeyDown(KeyD) {
			strafes++
		}
	}
	if jumps != 4 {
		t.Errorf("jumps = %d, want 4", jumps)
	}
	// Ticks 4..7 and 12 fall in odd turn legs.
	if strafes != 5 {
		t.Errorf("strafe ticks = %d, want 5", strafes)
	}
	if x, _ := s.MousePosition(); x != 30 {
		t.Errorf("mouse x = %v, want 30 after three turns", x)
	}
}
