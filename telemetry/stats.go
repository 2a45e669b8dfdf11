package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/strata/systems"
)

// WindowStats summarizes the player's movement over one window of ticks.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Travel
	Distance  float64 `csv:"distance"` // horizontal path length
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Vertical
	MinY float64 `csv:"min_y"`
	MaxY float64 `csv:"max_y"`

	// Contact
	GroundedFrac float64 `csv:"grounded_frac"`
	Jumps        int     `csv:"jumps"`
	Landings     int     `csv:"landings"`
	EdgeStops    int     `csv:"edge_stops"`
}

// Percentile calculates the p-th percentile of a sorted slice with linear
// interpolation. p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("distance", s.Distance),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("min_y", s.MinY),
		slog.Float64("max_y", s.MaxY),
		slog.Float64("grounded_frac", s.GroundedFrac),
		slog.Int("jumps", s.Jumps),
		slog.Int("landings", s.Landings),
		slog.Int("edge_stops", s.EdgeStops),
	)
}

// TerrainStats describes a generated world.
type TerrainStats struct {
	Mode string `csv:"mode"`

	// Height field: normalized vertex heights
	Vertices int     `csv:"vertices"`
	MinH     float64 `csv:"min_h"`
	MaxH     float64 `csv:"max_h"`
	MeanH    float64 `csv:"mean_h"`
	StdH     float64 `csv:"std_h"`
	P10H     float64 `csv:"p10_h"`
	P50H     float64 `csv:"p50_h"`
	P90H     float64 `csv:"p90_h"`

	// Quad classification counts
	Water int `csv:"water"`
	Beach int `csv:"beach"`
	Grass int `csv:"grass"`
	Rock  int `csv:"rock"`
	Snow  int `csv:"snow"`

	// Voxel world
	Blocks    int `csv:"blocks"`
	Columns   int `csv:"columns"`
	MaxColumn int `csv:"max_column"`
}

// ComputeTerrainStats summarizes a height field.
func ComputeTerrainStats(f *systems.HeightField) TerrainStats {
	values := make([]float64, 0, (f.Width+1)*(f.Depth+1))
	for _, row := range f.Heights {
		values = append(values, row...)
	}
	slices.Sort(values)

	s := TerrainStats{
		Mode:     "heightfield",
		Vertices: len(values),
	}
	if len(values) == 0 {
		return s
	}

	s.MinH = floats.Min(values)
	s.MaxH = floats.Max(values)
	s.MeanH = stat.Mean(values, nil)
	if len(values) > 1 {
		s.StdH = stat.StdDev(values, nil)
	}
	s.P10H = stat.Quantile(0.10, stat.Empirical, values, nil)
	s.P50H = stat.Quantile(0.50, stat.Empirical, values, nil)
	s.P90H = stat.Quantile(0.90, stat.Empirical, values, nil)

	var counts [systems.NumClasses]int
	for z := 0; z < f.Depth; z++ {
		for x := 0; x < f.Width; x++ {
			counts[f.QuadClass(x, z)]++
		}
	}
	s.Water = counts[systems.ClassWater]
	s.Beach = counts[systems.ClassBeach]
	s.Grass = counts[systems.ClassGrass]
	s.Rock = counts[systems.ClassRock]
	s.Snow = counts[systems.ClassSnow]

	return s
}

// ComputeBlockStats summarizes a voxel world.
func ComputeBlockStats(blocks systems.BlockSet) TerrainStats {
	columns := blocks.Columns()
	s := TerrainStats{
		Mode:    "voxel",
		Blocks:  blocks.Len(),
		Columns: len(columns),
	}
	for _, c := range columns {
		s.MaxColumn = max(s.MaxColumn, c.Top)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s TerrainStats) LogValue() slog.Value {
	if s.Mode == "voxel" {
		return slog.GroupValue(
			slog.String("mode", s.Mode),
			slog.Int("blocks", s.Blocks),
			slog.Int("columns", s.Columns),
			slog.Int("max_column", s.MaxColumn),
		)
	}
	return slog.GroupValue(
		slog.String("mode", s.Mode),
		slog.Int("vertices", s.Vertices),
		slog.Float64("min_h", s.MinH),
		slog.Float64("max_h", s.MaxH),
		slog.Float64("mean_h", s.MeanH),
		slog.Float64("std_h", s.StdH),
		slog.Float64("p50_h", s.P50H),
		slog.Int("water", s.Water),
		slog.Int("beach", s.Beach),
		slog.Int("grass", s.Grass),
		slog.Int("rock", s.Rock),
		slog.Int("snow", s.Snow),
	)
}
