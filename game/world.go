package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/strata/camera"
	"github.com/pthm-cable/strata/components"
	"github.com/pthm-cable/strata/config"
	"github.com/pthm-cable/strata/systems"
	"github.com/pthm-cable/strata/telemetry"
)

// ErrSpawnOffMap is returned when the configured spawn point has no ground.
var ErrSpawnOffMap = errors.New("spawn point is outside the terrain")

// World is a terrain strategy: it owns the generated terrain and the
// controller that moves the player over it.
type World interface {
	Mode() string
	// Spawn returns the player's starting position in the world's anchoring.
	Spawn() (components.Position, error)
	Step(pos *components.Position, vel *components.Velocity, body *components.Body, look components.Orientation, intent components.Intent, dt float64) systems.StepResult
	// Eye converts a player position to the camera position.
	Eye(pos components.Position, body components.Body) components.Position
	// ClassAt reports the terrain class at a world (x, z), if the world has one.
	ClassAt(x, z float64) (systems.TerrainClass, bool)
	Stats() telemetry.TerrainStats
	BuildMeshes(r Renderer) []Mesh
}

// NewWorld generates the terrain selected by cfg.World.Mode.
func NewWorld(cfg *config.Config) (World, error) {
	switch cfg.World.Mode {
	case config.ModeHeightfield:
		return NewHeightfieldWorld(cfg)
	case config.ModeVoxel:
		return NewVoxelWorld(cfg)
	}
	return nil, fmt.Errorf("%w: world.mode %q", config.ErrInvalid, cfg.World.Mode)
}

// ---------- Height field ----------

// HeightfieldWorld is a noise height field with an eye-anchored controller.
type HeightfieldWorld struct {
	cfg        *config.Config
	field      *systems.HeightField
	sampler    *systems.HeightSampler
	controller *systems.HeightfieldController
}

// NewHeightfieldWorld generates the height field described by cfg.
func NewHeightfieldWorld(cfg *config.Config) (*HeightfieldWorld, error) {
	field, err := systems.GenerateHeightField(systems.HeightFieldParams{
		Width:      cfg.World.Width,
		Depth:      cfg.World.Depth,
		NoiseScale: cfg.World.NoiseScale,
		Seed:       cfg.World.Seed,
		FBM: systems.FBMParams{
			Octaves:    cfg.Noise.Octaves,
			Lacunarity: cfg.Noise.Lacunarity,
			Gain:       cfg.Noise.Gain,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("generating height field: %w", err)
	}

	sampler := systems.NewHeightSampler(field, cfg.World.HeightScale)
	return &HeightfieldWorld{
		cfg:        cfg,
		field:      field,
		sampler:    sampler,
		controller: systems.NewHeightfieldController(sampler, systems.MovementFromConfig(cfg.Movement)),
	}, nil
}

// Field returns the generated height field.
func (w *HeightfieldWorld) Field() *systems.HeightField {
	return w.field
}

func (w *HeightfieldWorld) Mode() string { return config.ModeHeightfield }

func (w *HeightfieldWorld) Spawn() (components.Position, error) {
	p := w.cfg.Player
	ground, ok := w.sampler.Sample(p.SpawnX, p.SpawnZ)
	if !ok {
		return components.Position{}, fmt.Errorf("%w: (%v, %v)", ErrSpawnOffMap, p.SpawnX, p.SpawnZ)
	}
	return components.Position{X: p.SpawnX, Y: ground + p.EyeHeight + p.SpawnHeight, Z: p.SpawnZ}, nil
}

func (w *HeightfieldWorld) Step(pos *components.Position, vel *components.Velocity, body *components.Body, look components.Orientation, intent components.Intent, dt float64) systems.StepResult {
	return w.controller.Step(pos, vel, body, look, intent, dt)
}

// Eye is the position itself: the height-field player is eye-anchored.
func (w *HeightfieldWorld) Eye(pos components.Position, _ components.Body) components.Position {
	return pos
}

func (w *HeightfieldWorld) ClassAt(x, z float64) (systems.TerrainClass, bool) {
	h, ok := w.sampler.SampleNormalized(x, z)
	if !ok {
		return 0, false
	}
	return systems.ClassifyHeight(h), true
}

func (w *HeightfieldWorld) Stats() telemetry.TerrainStats {
	return telemetry.ComputeTerrainStats(w.field)
}

func (w *HeightfieldWorld) BuildMeshes(r Renderer) []Mesh {
	gm := systems.BuildGridMesh(w.field, w.cfg.World.HeightScale)
	return []Mesh{uploadMesh(r, gm, camera.Identity())}
}

// ---------- Voxel ----------

// VoxelWorld is a block world with a feet-anchored controller.
type VoxelWorld struct {
	cfg        *config.Config
	blocks     systems.BlockSet
	maxY       int
	controller *systems.VoxelController
}

// NewVoxelWorld generates the block world described by cfg.
func NewVoxelWorld(cfg *config.Config) (*VoxelWorld, error) {
	v := cfg.Voxel
	blocks, err := systems.GenerateVoxelTerrain(systems.VoxelParams{
		Radius:    v.Radius,
		MaxHeight: v.MaxHeight,
		Falloff:   v.Falloff,
		CenterX:   v.CenterX,
		CenterZ:   v.CenterZ,
	})
	if err != nil {
		return nil, fmt.Errorf("generating voxel terrain: %w", err)
	}

	body := components.BodyFromConfig(cfg)
	return &VoxelWorld{
		cfg:        cfg,
		blocks:     blocks,
		maxY:       int(math.Ceil(v.MaxHeight)),
		controller: systems.NewVoxelController(blocks, body, systems.MovementFromConfig(cfg.Movement)),
	}, nil
}

// Blocks returns the generated block set.
func (w *VoxelWorld) Blocks() systems.BlockSet {
	return w.blocks
}

func (w *VoxelWorld) Mode() string { return config.ModeVoxel }

func (w *VoxelWorld) Spawn() (components.Position, error) {
	p := w.cfg.Player
	top, ok := w.blocks.ColumnTop(int(math.Floor(p.SpawnX)), int(math.Floor(p.SpawnZ)), w.maxY)
	if !ok {
		return components.Position{}, fmt.Errorf("%w: (%v, %v)", ErrSpawnOffMap, p.SpawnX, p.SpawnZ)
	}
	return components.Position{X: p.SpawnX, Y: float64(top) + p.SpawnHeight, Z: p.SpawnZ}, nil
}

func (w *VoxelWorld) Step(pos *components.Position, vel *components.Velocity, body *components.Body, look components.Orientation, intent components.Intent, dt float64) systems.StepResult {
	return w.controller.Step(pos, vel, body, look, intent, dt)
}

// Eye lifts the feet position by the eye height.
func (w *VoxelWorld) Eye(pos components.Position, body components.Body) components.Position {
	pos.Y += body.EyeHeight
	return pos
}

// ClassAt is always false: block worlds carry no terrain classes.
func (w *VoxelWorld) ClassAt(float64, float64) (systems.TerrainClass, bool) {
	return 0, false
}

func (w *VoxelWorld) Stats() telemetry.TerrainStats {
	return telemetry.ComputeBlockStats(w.blocks)
}

// BuildMeshes uploads one box per column. Boxes of equal height share
// geometry.
func (w *VoxelWorld) BuildMeshes(r Renderer) []Mesh {
	columns := w.blocks.Columns()
	geometry := make(map[int]*systems.GridMesh)
	meshes := make([]Mesh, 0, len(columns))
	for _, c := range columns {
		gm, ok := geometry[c.Top]
		if !ok {
			gm = systems.BuildColumnMesh(c.Top)
			geometry[c.Top] = gm
		}
		meshes = append(meshes, uploadMesh(r, gm, camera.Translate(float64(c.X), 0, float64(c.Z))))
	}
	return meshes
}
