package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/towerblocks/config"
	"github.com/pthm-cable/towerblocks/sensor"
	"github.com/pthm-cable/towerblocks/session"
)

func init() {
	config.MustInit("")
}

func TestCollectorLifeRecords(t *testing.T) {
	c := NewCollector("run-1", 600, 120)

	ended := c.RecordEvents([]session.Event{
		{Kind: session.EventDropped, Tick: 10},
		{Kind: session.EventBuilt, Tick: 50, Score: 1, Blocks: 1},
		{Kind: session.EventDropped, Tick: 200},
		{Kind: session.EventGolden, Tick: 240, Score: 3, Blocks: 2},
	})
	if len(ended) != 0 {
		t.Fatalf("no life should end yet, got %v", ended)
	}

	ended = c.RecordEvents([]session.Event{
		{Kind: session.EventMissed, Tick: 360},
		{Kind: session.EventGameOver, Tick: 360, Score: 3, Blocks: 2, Reason: session.EndMissed, Mode: session.ModeBlink},
	})
	if len(ended) != 1 {
		t.Fatalf("expected one life record, got %d", len(ended))
	}
	r := ended[0]
	if r.Life != 1 || r.Score != 3 || r.Blocks != 2 || r.Golden != 1 || r.Drops != 2 {
		t.Errorf("unexpected record %+v", r)
	}
	if r.Reason != "missed" || r.Mode != "blink" || r.Ticks != 360 || r.DurationSec != 3 {
		t.Errorf("unexpected record %+v", r)
	}

	c.RecordEvents([]session.Event{{Kind: session.EventRestarted, Tick: 400}})
	ended = c.RecordEvents([]session.Event{
		{Kind: session.EventGameOver, Tick: 520, Reason: session.EndTowerFell},
	})
	if len(ended) != 1 || ended[0].Life != 2 || ended[0].Ticks != 120 || ended[0].Drops != 0 {
		t.Errorf("expected second life of 120 ticks, got %+v", ended)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector("run-1", 120, 120)

	c.RecordFrame(sensor.Frame{Seq: 1, Faces: 1, EAR: 0.3})
	c.RecordFrame(sensor.Frame{Seq: 1, Faces: 1, EAR: 0.3}) // cached frame seen again
	c.RecordFrame(sensor.Frame{Seq: 2, Faces: 0})
	c.RecordFrame(sensor.Frame{Seq: 3, Faces: 2, EAR: 0.1})
	c.RecordBlinksDrained(2)
	c.RecordEvents([]session.Event{{Kind: session.EventDropped}, {Kind: session.EventBuilt}})

	if c.ShouldFlush(119) {
		t.Error("window should not flush early")
	}
	if !c.ShouldFlush(120) {
		t.Fatal("window should flush at 120 ticks")
	}

	w := c.Flush(120, sensor.WorkerStats{Frames: 30, Blinks: 2, BlinksDropped: 1}, "blink")
	if w.Frames != 30 || w.CameraFPS != 30 || w.Blinks != 2 || w.BlinksDropped != 1 {
		t.Errorf("unexpected worker deltas %+v", w)
	}
	if w.EARSamples != 2 || math.Abs(w.EARMean-0.2) > 1e-9 {
		t.Errorf("expected two EAR samples averaging 0.2, got %d / %f", w.EARSamples, w.EARMean)
	}
	if w.BlinksDrained != 2 || w.Drops != 1 || w.Builds != 1 || w.Mode != "blink" {
		t.Errorf("unexpected game counters %+v", w)
	}

	// Second window reports deltas only
	w = c.Flush(240, sensor.WorkerStats{Frames: 90, Blinks: 2, BlinksDropped: 1}, "blink")
	if w.Frames != 60 || w.Blinks != 0 || w.EARSamples != 0 || w.Drops != 0 {
		t.Errorf("expected deltas for second window, got %+v", w)
	}
	if w.WindowStartTick != 120 || w.ElapsedSec != 2 {
		t.Errorf("unexpected window bounds %+v", w)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	for i := 1; i <= 2; i++ {
		if err := om.WriteLife(LifeRecord{Run: "r", Life: i, Score: i * 3, Reason: "missed"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteSensor(SensorWindow{WindowEndTick: 600, Mode: "keyboard"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WritePerf(PerfStats{}, 600); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "lives.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "run,life,mode,reason,score") {
		t.Errorf("unexpected header %q", lines[0])
	}

	for _, name := range []string{"sensor.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v, %v", om, err)
	}
	// Nil manager methods are no-ops
	if err := om.WriteLife(LifeRecord{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}
