package game

import (
	"log/slog"

	"github.com/pthm-cable/strata/telemetry"
)

// traceBatch is the number of trace rows buffered before a CSV write.
const traceBatch = 600

// recordTelemetry feeds the current player state to the collector and, when
// output is enabled, to the trace buffer.
func (g *Game) recordTelemetry() {
	p := g.Player()
	g.collector.Record(telemetry.PlayerSample{
		Tick:     g.tick,
		X:        p.Position.X,
		Y:        p.Position.Y,
		Z:        p.Position.Z,
		Speed:    p.Velocity.HorizontalSpeed(),
		Grounded: p.Body.Grounded,
		Jumped:   g.last.Jumped,
		EdgeStop: g.last.EdgeStop,
	})

	if g.outputManager == nil {
		return
	}
	rec := telemetry.TraceRecord{
		Tick:     g.tick,
		Time:     g.simTime,
		X:        p.Position.X,
		Y:        p.Position.Y,
		Z:        p.Position.Z,
		VX:       p.Velocity.X,
		VY:       p.Velocity.Y,
		VZ:       p.Velocity.Z,
		Pitch:    p.Orientation.Pitch,
		Yaw:      p.Orientation.Yaw,
		Grounded: p.Body.Grounded,
	}
	if class, ok := g.world.ClassAt(p.Position.X, p.Position.Z); ok {
		rec.Class = class.String()
	}
	g.trace = append(g.trace, rec)
	if len(g.trace) >= traceBatch {
		g.writeTrace()
	}
}

// writeTrace flushes buffered trace rows.
func (g *Game) writeTrace() {
	if len(g.trace) == 0 {
		return
	}
	if err := g.outputManager.WriteTrace(g.trace); err != nil {
		slog.Error("failed to write trace", "error", err)
	}
	g.trace = g.trace[:0]
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		slog.Info("stats", "window", stats)
		slog.Info("perf", "stats", perfStats)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
