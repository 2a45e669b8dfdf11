package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/strata/systems"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

// ---------- Terrain ----------

func tinyField() *systems.HeightField {
	return &systems.HeightField{
		Width: 2,
		Depth: 1,
		Heights: [][]float64{
			{0.3, 0.5, 1.0},
			{0.3, 0.5, 1.0},
		},
	}
}

func TestComputeTerrainStats(t *testing.T) {
	s := ComputeTerrainStats(tinyField())

	if s.Mode != "heightfield" || s.Vertices != 6 {
		t.Fatalf("mode=%q vertices=%d", s.Mode, s.Vertices)
	}
	if s.MinH != 0.3 || s.MaxH != 1.0 {
		t.Errorf("range = [%v, %v], want [0.3, 1]", s.MinH, s.MaxH)
	}
	if math.Abs(s.MeanH-0.6) > 1e-12 {
		t.Errorf("mean = %v, want 0.6", s.MeanH)
	}
	if math.Abs(s.StdH-math.Sqrt(0.104)) > 1e-9 {
		t.Errorf("std = %v, want %v", s.StdH, math.Sqrt(0.104))
	}
	if s.P10H != 0.3 || s.P50H != 0.5 || s.P90H != 1.0 {
		t.Errorf("quantiles = %v %v %v", s.P10H, s.P50H, s.P90H)
	}

	// Quad 0 averages 0.4 (beach), quad 1 averages 0.75 (grass).
	if s.Beach != 1 || s.Grass != 1 || s.Water+s.Rock+s.Snow != 0 {
		t.Errorf("class counts = %+v", s)
	}
}

func TestComputeTerrainStatsEmpty(t *testing.T) {
	s := ComputeTerrainStats(&systems.HeightField{})
	if s.Vertices != 0 || s.MeanH != 0 {
		t.Errorf("empty field stats = %+v", s)
	}
}

func TestComputeBlockStats(t *testing.T) {
	blocks := systems.BlockSet{
		{X: 0, Y: 0, Z: 0}: {},
		{X: 0, Y: 1, Z: 0}: {},
		{X: 0, Y: 2, Z: 0}: {},
		{X: 1, Y: 0, Z: 0}: {},
	}
	s := ComputeBlockStats(blocks)

	if s.Mode != "voxel" {
		t.Errorf("mode = %q", s.Mode)
	}
	if s.Blocks != 4 || s.Columns != 2 || s.MaxColumn != 3 {
		t.Errorf("blocks=%d columns=%d max=%d, want 4 2 3", s.Blocks, s.Columns, s.MaxColumn)
	}
}

// ---------- Collector ----------

func TestCollector_Window(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("window ticks = %d, want 10", c.WindowDurationTicks())
	}

	c.Record(PlayerSample{Tick: 1, X: 0, Y: 5, Z: 0, Speed: 1})
	c.Record(PlayerSample{Tick: 2, X: 3, Y: 4, Z: 4, Speed: 2, Grounded: true})
	c.Record(PlayerSample{Tick: 3, X: 3, Y: 4, Z: 4, Speed: 3, Grounded: true, Jumped: true})
	c.Record(PlayerSample{Tick: 4, X: 3, Y: 6, Z: 4, Speed: 4, EdgeStop: true})

	if c.ShouldFlush(9) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(10) {
		t.Fatal("should flush at the window end")
	}

	s := c.Flush(10)
	if s.WindowStartTick != 0 || s.WindowEndTick != 10 {
		t.Errorf("window = [%d, %d]", s.WindowStartTick, s.WindowEndTick)
	}
	if math.Abs(s.SimTimeSec-1.0) > 1e-9 {
		t.Errorf("sim time = %v", s.SimTimeSec)
	}
	if math.Abs(s.Distance-5) > 1e-12 {
		t.Errorf("distance = %v, want 5", s.Distance)
	}
	if math.Abs(s.SpeedMean-2.5) > 1e-12 || math.Abs(s.SpeedP50-2.5) > 1e-12 || math.Abs(s.SpeedP90-3.7) > 1e-9 {
		t.Errorf("speed mean/p50/p90 = %v %v %v", s.SpeedMean, s.SpeedP50, s.SpeedP90)
	}
	if s.MinY != 4 || s.MaxY != 6 {
		t.Errorf("y range = [%v, %v]", s.MinY, s.MaxY)
	}
	if s.GroundedFrac != 0.5 {
		t.Errorf("grounded frac = %v", s.GroundedFrac)
	}
	if s.Jumps != 1 || s.Landings != 1 || s.EdgeStops != 1 {
		t.Errorf("jumps=%d landings=%d edge=%d", s.Jumps, s.Landings, s.EdgeStops)
	}
}

func TestCollector_CarriesAcrossWindows(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	c.Record(PlayerSample{Tick: 1, X: 3, Y: 6, Z: 4})
	c.Flush(10)

	if c.ShouldFlush(15) {
		t.Error("new window should start at the flush tick")
	}

	// Distance and landings are measured against the previous window's last sample.
	c.Record(PlayerSample{Tick: 11, X: 3, Y: 5, Z: 7, Grounded: true})
	s := c.Flush(20)
	if s.WindowStartTick != 10 {
		t.Errorf("start = %d, want 10", s.WindowStartTick)
	}
	if math.Abs(s.Distance-3) > 1e-12 {
		t.Errorf("distance = %v, want 3", s.Distance)
	}
	if s.Landings != 1 || s.Jumps != 0 {
		t.Errorf("landings=%d jumps=%d", s.Landings, s.Jumps)
	}
}

func TestCollector_EmptyWindow(t *testing.T) {
	c := NewCollector(0.5, 0.1)
	s := c.Flush(5)
	if s.SpeedMean != 0 || s.MinY != 0 || s.MaxY != 0 || s.GroundedFrac != 0 {
		t.Errorf("empty window = %+v", s)
	}
}
