package session

import (
	"testing"

	"github.com/pthm-cable/towerblocks/config"
	"github.com/pthm-cable/towerblocks/sensor"
)

func TestLoopBlinkModeDrops(t *testing.T) {
	cfg := config.Cfg()
	feed := sensor.NewFeed(4)
	l := NewLoop(cfg, New(cfg, 1, ModeBlink), feed)

	feed.Blinks.Offer(sensor.Blink{Seq: 1})
	feed.Blinks.Offer(sensor.Blink{Seq: 2})
	events := l.Tick(Keys{})

	if !hasKind(events, EventDropped) {
		t.Error("expected blink to drop the block")
	}
	if l.BlinksReceived() != 2 || feed.Blinks.Len() != 0 {
		t.Errorf("expected both blinks drained, got %d (%d pending)", l.BlinksReceived(), feed.Blinks.Len())
	}
}

func TestLoopKeyboardModeIgnoresBlinks(t *testing.T) {
	cfg := config.Cfg()
	feed := sensor.NewFeed(4)
	l := NewLoop(cfg, New(cfg, 1, ModeKeyboard), feed)

	feed.Blinks.Offer(sensor.Blink{Seq: 1})
	if hasKind(l.Tick(Keys{}), EventDropped) {
		t.Error("blink should not drop in keyboard mode")
	}
	if !hasKind(l.Tick(Keys{Drop: true}), EventDropped) {
		t.Error("keyboard drop should always work")
	}
}

func TestLoopClearBlinks(t *testing.T) {
	cfg := config.Cfg()
	feed := sensor.NewFeed(4)
	l := NewLoop(cfg, New(cfg, 1, ModeBlink), feed)

	feed.Blinks.Offer(sensor.Blink{Seq: 1})
	events := l.Tick(Keys{ClearBlinks: true})

	if hasKind(events, EventDropped) {
		t.Error("cleared blink should not drop")
	}
	if len(events) == 0 || events[0].Kind != EventBlinksCleared || events[0].Count != 1 {
		t.Errorf("expected blinks_cleared with count 1, got %v", events)
	}
	if l.BlinksCleared() != 1 {
		t.Errorf("expected 1 cleared, got %d", l.BlinksCleared())
	}
}

func TestLoopNoseTrigger(t *testing.T) {
	cfg := config.Cfg()
	l := NewLoop(cfg, New(cfg, 1, ModeNose), nil)

	steps := []struct {
		x    float64
		want bool
	}{
		{0.5, false},
		{0.9, true},
		{0.95, false}, // still out, not re-armed
		{0.65, false}, // inside trigger band but outside rearm band
		{0.2, false},
		{0.52, false}, // re-armed
		{0.1, true},
	}
	for i, st := range steps {
		if got := l.noseTriggered(st.x); got != st.want {
			t.Errorf("step %d x %f: expected %v, got %v", i, st.x, st.want, got)
		}
	}
}

func TestLoopNoseModeDrops(t *testing.T) {
	cfg := config.Cfg()
	feed := sensor.NewFeed(4)
	l := NewLoop(cfg, New(cfg, 1, ModeNose), feed)

	feed.Nose.Publish(sensor.NoseSample{Seq: 1, X: 0.9})
	if !hasKind(l.Tick(Keys{}), EventDropped) {
		t.Error("expected nose swing to drop")
	}
	if n, ok := l.Nose(); !ok || n.X != 0.9 {
		t.Errorf("expected cached nose 0.9, got %+v", n)
	}
}

func TestLoopCachesFrame(t *testing.T) {
	cfg := config.Cfg()
	feed := sensor.NewFeed(4)
	l := NewLoop(cfg, New(cfg, 1, ModeKeyboard), feed)

	if _, ok := l.Frame(); ok {
		t.Fatal("no frame expected before publish")
	}
	feed.Frames.Publish(sensor.Frame{Seq: 1})
	feed.Frames.Publish(sensor.Frame{Seq: 2})
	l.Tick(Keys{})
	l.Tick(Keys{})

	f, ok := l.Frame()
	if !ok || f.Seq != 2 {
		t.Errorf("expected cached frame 2, got %d (%v)", f.Seq, ok)
	}
}

func TestLoopWithoutFeed(t *testing.T) {
	cfg := config.Cfg()
	l := NewLoop(cfg, New(cfg, 1, ModeBlink), nil)
	for i := 0; i < 100; i++ {
		l.Tick(Keys{ClearBlinks: true})
	}
	if l.Session().Tick != 100 {
		t.Errorf("expected 100 ticks, got %d", l.Session().Tick)
	}
}
