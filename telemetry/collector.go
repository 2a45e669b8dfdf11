package telemetry

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// PlayerSample is the player state after one tick.
type PlayerSample struct {
	Tick     int64
	X, Y, Z  float64
	Speed    float64 // horizontal
	Grounded bool
	Jumped   bool
	EdgeStop bool
}

// Collector accumulates player samples within windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	// Current window tracking
	windowStartTick int64

	speeds      []float64
	distance    float64
	minY, maxY  float64
	groundTicks int
	jumps       int
	landings    int
	edgeStops   int
	last        PlayerSample
	haveLast    bool
	wasGrounded bool
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	c := &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
	c.resetWindow()
	return c
}

// Record adds one tick's sample to the current window.
func (c *Collector) Record(s PlayerSample) {
	if c.haveLast {
		c.distance += math.Hypot(s.X-c.last.X, s.Z-c.last.Z)
		if s.Grounded && !c.wasGrounded {
			c.landings++
		}
	}
	c.speeds = append(c.speeds, s.Speed)
	c.minY = min(c.minY, s.Y)
	c.maxY = max(c.maxY, s.Y)
	if s.Grounded {
		c.groundTicks++
	}
	if s.Jumped {
		c.jumps++
	}
	if s.EdgeStop {
		c.edgeStops++
	}
	c.last = s
	c.haveLast = true
	c.wasGrounded = s.Grounded
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// Continuity (last position, grounded state) carries across windows.
func (c *Collector) Flush(currentTick int64) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		Distance:        c.distance,
		Jumps:           c.jumps,
		Landings:        c.landings,
		EdgeStops:       c.edgeStops,
	}

	if n := len(c.speeds); n > 0 {
		sorted := slices.Clone(c.speeds)
		slices.Sort(sorted)
		stats.SpeedMean = stat.Mean(sorted, nil)
		stats.SpeedP50 = Percentile(sorted, 0.50)
		stats.SpeedP90 = Percentile(sorted, 0.90)
		stats.MinY = c.minY
		stats.MaxY = c.maxY
		stats.GroundedFrac = float64(c.groundTicks) / float64(n)
	}

	c.windowStartTick = currentTick
	c.resetWindow()
	return stats
}

func (c *Collector) resetWindow() {
	c.speeds = c.speeds[:0]
	c.distance = 0
	c.minY = math.Inf(1)
	c.maxY = math.Inf(-1)
	c.groundTicks = 0
	c.jumps = 0
	c.landings = 0
	c.edgeStops = 0
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
