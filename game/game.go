package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/strata/camera"
	"github.com/pthm-cable/strata/components"
	"github.com/pthm-cable/strata/config"
	"github.com/pthm-cable/strata/systems"
	"github.com/pthm-cable/strata/telemetry"
)

// Options configures a game instance.
type Options struct {
	Headless bool
	LogStats bool // log window and perf stats via slog

	// Telemetry window in seconds (0 = one second)
	StatsWindowSec float64
	// CSV output directory (empty = disabled)
	OutputDir string
	// Optional, called on every window flush
	StatsCallback func(telemetry.WindowStats)
}

// Player is a read-only snapshot of the player entity.
type Player struct {
	Position    components.Position
	Velocity    components.Velocity
	Orientation components.Orientation
	Body        components.Body
	Eye         components.Position
}

// Game holds the complete game state.
type Game struct {
	cfg      *config.Config
	world    World
	ecsWorld *ecs.World

	playerMapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Orientation,
		components.Body,
	]
	playerFilter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Orientation,
		components.Body,
	]

	// Individual component mappers for lookups
	posMap    *ecs.Map1[components.Position]
	velMap    *ecs.Map1[components.Velocity]
	orientMap *ecs.Map1[components.Orientation]
	bodyMap   *ecs.Map1[components.Body]

	player ecs.Entity
	camera *camera.FirstPerson
	mouse  mouseTracker
	script *ScriptedInput // headless pilot
	meshes []Mesh

	// State
	tick    int64
	simTime float64
	last    systems.StepResult

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	trace         []telemetry.TraceRecord
	statsCallback func(telemetry.WindowStats)
	logStats      bool
}

// New validates cfg, generates the selected world and spawns the player.
func New(cfg *config.Config, opts Options) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	world, err := NewWorld(cfg)
	if err != nil {
		return nil, err
	}
	spawn, err := world.Spawn()
	if err != nil {
		return nil, err
	}

	ew := ecs.NewWorld()
	g := &Game{
		cfg:      cfg,
		world:    world,
		ecsWorld: ew,
		playerMapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Orientation,
			components.Body,
		](ew),
		playerFilter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Orientation,
			components.Body,
		](ew),
		posMap:    ecs.NewMap1[components.Position](ew),
		velMap:    ecs.NewMap1[components.Velocity](ew),
		orientMap: ecs.NewMap1[components.Orientation](ew),
		bodyMap:   ecs.NewMap1[components.Body](ew),
		camera: camera.New(
			float64(cfg.Screen.Width), float64(cfg.Screen.Height),
			cfg.Camera.FOV, cfg.Camera.Sensitivity, cfg.Camera.PitchLimit,
		),
		statsCallback: opts.StatsCallback,
		logStats:      opts.LogStats,
	}
	if opts.Headless {
		g.script = NewScriptedInput()
	}

	vel := components.Velocity{}
	orient := components.Orientation{}
	body := components.BodyFromConfig(cfg)
	g.player = g.playerMapper.NewEntity(&spawn, &vel, &orient, &body)

	windowSec := opts.StatsWindowSec
	if windowSec <= 0 {
		windowSec = 1
	}
	g.collector = telemetry.NewCollector(windowSec, cfg.Physics.DT)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("setting up output: %w", err)
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		g.outputManager.Close()
		return nil, fmt.Errorf("writing config: %w", err)
	}

	terrain := world.Stats()
	slog.Info("terrain generated", "terrain", terrain)
	if err := g.outputManager.WriteTerrain(terrain); err != nil {
		slog.Error("failed to write terrain stats", "error", err)
	}

	return g, nil
}

// Step advances the simulation by one tick of dt seconds.
func (g *Game) Step(input InputState, dt float64) {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	intent := IntentFromInput(input)
	dx, dy := g.mouse.Delta(input)

	g.perfCollector.StartPhase(telemetry.PhaseLook)
	g.camera.Look(dx, dy)

	g.perfCollector.StartPhase(telemetry.PhaseController)
	query := g.playerFilter.Query()
	for query.Next() {
		pos, vel, orient, body := query.Get()
		orient.Pitch, orient.Yaw = g.camera.Pitch, g.camera.Yaw
		g.last = g.world.Step(pos, vel, body, *orient, intent, dt)
	}
	g.tick++
	g.simTime += dt

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recordTelemetry()
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// Update runs one graphical frame: the frame delta is clamped to
// physics.max_dt and applied as a single tick.
func (g *Game) Update(input InputState, frameDT float64) {
	g.perfCollector.RecordFrame()
	dt := min(frameDT, g.cfg.Physics.MaxDT)
	if dt <= 0 {
		return
	}
	g.Step(input, dt)
}

// UpdateHeadless runs one fixed tick driven by the scripted pilot.
func (g *Game) UpdateHeadless() {
	if g.script == nil {
		g.script = NewScriptedInput()
	}
	g.script.Advance()
	g.Step(g.script, g.cfg.Physics.DT)

	if every := g.cfg.Telemetry.LogEvery; every > 0 && g.tick%int64(every) == 0 {
		p := g.Player()
		slog.Info("player",
			"tick", g.tick,
			"x", p.Position.X,
			"y", p.Position.Y,
			"z", p.Position.Z,
			"speed", p.Velocity.HorizontalSpeed(),
			"grounded", p.Body.Grounded,
		)
	}
}

// Draw renders the world and the HUD. Meshes are uploaded on first use.
func (g *Game) Draw(r Renderer) {
	if g.meshes == nil {
		g.meshes = g.world.BuildMeshes(r)
	}
	p := g.Player()
	r.SetCamera(g.camera, p.Eye)
	r.Draw(g.meshes, g.HUD())
}

// HUD returns the overlay state for the current tick.
func (g *Game) HUD() HUD {
	p := g.Player()
	hud := HUD{
		Mode:     g.world.Mode(),
		Tick:     g.tick,
		Eye:      p.Eye,
		Speed:    p.Velocity.HorizontalSpeed(),
		Grounded: p.Body.Grounded,
	}
	if class, ok := g.world.ClassAt(p.Position.X, p.Position.Z); ok {
		hud.Class = class.String()
	}
	return hud
}

// Player returns a snapshot of the player entity.
func (g *Game) Player() Player {
	p := Player{
		Position:    *g.posMap.Get(g.player),
		Velocity:    *g.velMap.Get(g.player),
		Orientation: *g.orientMap.Get(g.player),
		Body:        *g.bodyMap.Get(g.player),
	}
	p.Eye = g.world.Eye(p.Position, p.Body)
	return p
}

// Camera returns the first-person camera.
func (g *Game) Camera() *camera.FirstPerson {
	return g.camera
}

// ResetMouse drops the stored mouse position so the next tick has no look delta.
func (g *Game) ResetMouse() {
	g.mouse.Reset()
}

// World returns the terrain strategy in use.
func (g *Game) World() World {
	return g.world
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.tick
}

// PerfStats returns the rolling performance statistics.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// Unload flushes pending output and closes files.
func (g *Game) Unload() {
	g.writeTrace()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
