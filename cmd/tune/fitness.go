package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/pthm-cable/strata/components"
	"github.com/pthm-cable/strata/config"
	"github.com/pthm-cable/strata/game"
	"github.com/pthm-cable/strata/systems"
	"github.com/pthm-cable/strata/telemetry"
)

// Targets is the movement feel the tuner aims for.
type Targets struct {
	AccelTime    float64 // seconds from rest to 90% of move speed
	StopDist     float64 // distance covered after releasing the keys at full speed
	Apex         float64 // jump height on flat ground
	TerrainSpeed float64 // mean speed of the scripted pilot over generated terrain
}

// Fitness component weights.
const (
	weightAccel   = 1.0
	weightStop    = 1.0
	weightApex    = 2.0
	weightTerrain = 0.5

	trialMaxSec = 10.0 // flat trials give up after this much simulated time
	stopSpeed   = 0.01 // speed below which the player counts as stopped
)

// Feel holds the measured flat-ground behavior of one parameter set.
type Feel struct {
	AccelTime float64
	StopDist  float64
	Apex      float64
}

// flatGround is a boundless plane at height zero.
type flatGround struct{}

func (flatGround) Sample(float64, float64) (float64, bool) { return 0, true }

// MeasureFeel runs the flat-ground trials for a movement config.
func MeasureFeel(cfg *config.Config) Feel {
	m := systems.MovementFromConfig(cfg.Movement)
	ctrl := systems.NewHeightfieldController(flatGround{}, m)
	body := components.BodyFromConfig(cfg)
	dt := cfg.Physics.DT
	maxTicks := int(trialMaxSec / dt)

	settle := func() (components.Position, components.Velocity, components.Body) {
		pos := components.Position{Y: body.EyeHeight}
		vel := components.Velocity{}
		b := body
		ctrl.Step(&pos, &vel, &b, components.Orientation{}, components.Intent{}, dt)
		return pos, vel, b
	}

	var feel Feel

	// Acceleration: hold forward from rest.
	pos, vel, b := settle()
	feel.AccelTime = trialMaxSec
	for i := 1; i <= maxTicks; i++ {
		ctrl.Step(&pos, &vel, &b, components.Orientation{}, components.Intent{Forward: true}, dt)
		if vel.HorizontalSpeed() >= 0.9*m.MoveSpeed {
			feel.AccelTime = float64(i) * dt
			break
		}
	}

	// Stopping: release the keys at full speed.
	pos, vel, b = settle()
	vel.Z = -m.MoveSpeed
	startZ := pos.Z
	for i := 0; i < maxTicks && vel.HorizontalSpeed() >= stopSpeed; i++ {
		ctrl.Step(&pos, &vel, &b, components.Orientation{}, components.Intent{}, dt)
	}
	feel.StopDist = math.Abs(pos.Z - startZ)

	// Jump: one press, then track the peak until landing.
	pos, vel, b = settle()
	ground := pos.Y
	ctrl.Step(&pos, &vel, &b, components.Orientation{}, components.Intent{Jump: true}, dt)
	for i := 0; i < maxTicks; i++ {
		ctrl.Step(&pos, &vel, &b, components.Orientation{}, components.Intent{}, dt)
		feel.Apex = max(feel.Apex, pos.Y-ground)
		if b.Grounded {
			break
		}
	}

	return feel
}

// FitnessEvaluator scores movement parameter sets (lower = better).
type FitnessEvaluator struct {
	params      *ParamVector
	targets     Targets
	maxTicks    int64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu       sync.Mutex
	lastFeel Feel // from the most recent Evaluate call
	lastRun  float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, targets Targets, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		targets:     targets,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 1.0,
	}
}

// LastFeel returns the flat-ground measurements and the mean terrain speed
// from the most recent evaluation.
func (fe *FitnessEvaluator) LastFeel() (Feel, float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastFeel, fe.lastRun
}

// Evaluate computes fitness for a raw parameter vector.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	feel := MeasureFeel(cfg)

	// Terrain runs are independent; one goroutine per seed.
	speeds := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			speeds[idx] = fe.runTerrain(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var terrainSpeed float64
	for _, s := range speeds {
		terrainSpeed += s
	}
	if len(speeds) > 0 {
		terrainSpeed /= float64(len(speeds))
	}

	fe.mu.Lock()
	fe.lastFeel = feel
	fe.lastRun = terrainSpeed
	fe.mu.Unlock()

	return fe.computeFitness(feel, terrainSpeed)
}

// computeFitness is the weighted sum of squared relative errors.
func (fe *FitnessEvaluator) computeFitness(feel Feel, terrainSpeed float64) float64 {
	t := fe.targets
	f := weightAccel*relErr2(feel.AccelTime, t.AccelTime) +
		weightStop*relErr2(feel.StopDist, t.StopDist) +
		weightApex*relErr2(feel.Apex, t.Apex)
	if len(fe.seeds) > 0 {
		f += weightTerrain * relErr2(terrainSpeed, t.TerrainSpeed)
	}
	return f
}

// runTerrain drives the scripted pilot over the world generated from seed
// and returns its mean horizontal speed. A world that fails to build scores
// zero speed.
func (fe *FitnessEvaluator) runTerrain(base *config.Config, seed int64) float64 {
	cfg := *base
	cfg.World.Seed = seed
	cfg.Telemetry.LogEvery = 0

	var windows []telemetry.WindowStats
	g, err := game.New(&cfg, game.Options{
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		fmt.Printf("seed %d: %v\n", seed, err)
		return 0
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}

	// Skip the first window: the player spawns in the air.
	if len(windows) > 1 {
		windows = windows[1:]
	}
	var sum float64
	for _, w := range windows {
		sum += w.SpeedMean
	}
	if len(windows) == 0 {
		return 0
	}
	return sum / float64(len(windows))
}

// copyConfig returns an independent copy of the base config. All sections
// are plain values.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// relErr2 is the squared relative error of got against a positive target.
func relErr2(got, want float64) float64 {
	if want <= 0 {
		return 0
	}
	d := (got - want) / want
	return d * d
}
