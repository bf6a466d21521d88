package telemetry

import (
	"github.com/pthm-cable/towerblocks/sensor"
	"github.com/pthm-cable/towerblocks/session"
)

// Collector accumulates game events and sensor samples into windows and
// per-life records.
type Collector struct {
	run            string
	ticksPerSecond float64
	windowTicks    uint64

	// Current window
	windowStart   uint64
	prevWorker    sensor.WorkerStats
	ears          []float64
	blinksDrained int
	drops         int
	builds        int
	golden        int

	lastFrameSeq uint64

	// Current life
	life       int
	lifeStart  uint64
	lifeDrops  int
	lifeGolden int
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(run string, windowTicks int, ticksPerSecond float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		run:            run,
		ticksPerSecond: ticksPerSecond,
		windowTicks:    uint64(windowTicks),
		life:           1,
	}
}

// RecordEvents tallies one tick's events and returns a record for every
// life that ended.
func (c *Collector) RecordEvents(events []session.Event) []LifeRecord {
	var ended []LifeRecord
	for _, e := range events {
		switch e.Kind {
		case session.EventDropped:
			c.drops++
			c.lifeDrops++
		case session.EventBuilt:
			c.builds++
		case session.EventGolden:
			c.builds++
			c.golden++
			c.lifeGolden++
		case session.EventGameOver:
			ticks := e.Tick - c.lifeStart
			ended = append(ended, LifeRecord{
				Run:         c.run,
				Life:        c.life,
				Mode:        e.Mode.String(),
				Reason:      e.Reason.String(),
				Score:       e.Score,
				Blocks:      e.Blocks,
				Golden:      c.lifeGolden,
				Drops:       c.lifeDrops,
				Ticks:       ticks,
				DurationSec: c.seconds(ticks),
			})
		case session.EventRestarted:
			c.life++
			c.lifeStart = e.Tick
			c.lifeDrops = 0
			c.lifeGolden = 0
		}
	}
	return ended
}

// RecordFrame samples the EAR of a frame the first time it is seen.
func (c *Collector) RecordFrame(f sensor.Frame) {
	if f.Seq == 0 || f.Seq == c.lastFrameSeq {
		return
	}
	c.lastFrameSeq = f.Seq
	if f.Faces > 0 {
		c.ears = append(c.ears, f.EAR)
	}
}

// RecordBlinksDrained counts blinks the game loop took from the feed.
func (c *Collector) RecordBlinksDrained(n int) {
	c.blinksDrained += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(tick uint64) bool {
	return tick-c.windowStart >= c.windowTicks
}

// Flush produces a SensorWindow and resets counters for the next window.
// worker is the cumulative worker snapshot at tick.
func (c *Collector) Flush(tick uint64, worker sensor.WorkerStats, mode string) SensorWindow {
	prev := c.prevWorker
	span := c.seconds(tick - c.windowStart)

	w := SensorWindow{
		WindowStartTick: c.windowStart,
		WindowEndTick:   tick,
		ElapsedSec:      c.seconds(tick),
		Mode:            mode,

		Frames:          worker.Frames - prev.Frames,
		CaptureFailures: worker.CaptureFailures - prev.CaptureFailures,
		NoFace:          worker.NoFace - prev.NoFace,
		VisionErrors:    worker.VisionErrors - prev.VisionErrors,
		Blinks:          worker.Blinks - prev.Blinks,
		BlinksDropped:   worker.BlinksDropped - prev.BlinksDropped,

		BlinksDrained: c.blinksDrained,
		Drops:         c.drops,
		Builds:        c.builds,
		Golden:        c.golden,
		EARSamples:    len(c.ears),
	}
	if span > 0 {
		w.CameraFPS = float64(w.Frames) / span
	}
	w.EARMean, w.EARP10, w.EARP50, w.EARP90 = ComputeEARStats(c.ears)

	// Reset for next window
	c.windowStart = tick
	c.prevWorker = worker
	c.ears = c.ears[:0]
	c.blinksDrained = 0
	c.drops = 0
	c.builds = 0
	c.golden = 0

	return w
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() uint64 {
	return c.windowTicks
}

func (c *Collector) seconds(ticks uint64) float64 {
	if c.ticksPerSecond <= 0 {
		return 0
	}
	return float64(ticks) / c.ticksPerSecond
}
