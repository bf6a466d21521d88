package game

import (
	"log/slog"

	"github.com/pthm-cable/towerblocks/sensor"
	"github.com/pthm-cable/towerblocks/session"
)

// recordTelemetry feeds one tick's events into the collector and writes
// finished lives.
func (g *Game) recordTelemetry(events []session.Event, drained int) {
	for _, e := range events {
		slog.Debug("game_event", "event", e)
	}

	for _, rec := range g.collector.RecordEvents(events) {
		slog.Info("life_ended", "life", rec)
		if err := g.outputManager.WriteLife(rec); err != nil {
			slog.Error("failed to write life", "error", err)
		}
	}

	if f, ok := g.loop.Frame(); ok {
		g.collector.RecordFrame(f)
	}
	g.collector.RecordBlinksDrained(drained)

	g.flushTelemetry()
}

// flushTelemetry closes the stats window when it is due.
func (g *Game) flushTelemetry() {
	s := g.loop.Session()
	if !g.collector.ShouldFlush(s.Tick) {
		return
	}

	var worker sensor.WorkerStats
	if g.worker != nil {
		worker = g.worker.Stats()
	}
	window := g.collector.Flush(s.Tick, worker, s.Mode.String())
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		slog.Info("sensor_window", "window", window)
		slog.Info("perf", "stats", perfStats)
	}

	if err := g.outputManager.WriteSensor(window); err != nil {
		slog.Error("failed to write sensor window", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, window.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
