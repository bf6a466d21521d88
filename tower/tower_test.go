package tower

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/towerblocks/config"
)

func init() {
	config.MustInit("")
}

func TestWidthAtBase(t *testing.T) {
	cfg := config.Cfg()
	tw := New(cfg)

	if w := tw.Width(); w != 64 {
		t.Errorf("empty tower: expected width 64, got %f", w)
	}

	for i := 1; i <= 12; i++ {
		tw.Build(300, false)
		if w := tw.Width(); w != 64 {
			t.Errorf("size %d at base: expected width 64, got %f", i, w)
		}
	}
}

func TestWidthSign(t *testing.T) {
	cfg := config.Cfg()
	tests := []struct {
		name string
		top  float64
		want float64
	}{
		{"right", 330, 94},
		{"left", 270, -94},
		{"centered", 300, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := New(cfg)
			tw.Build(300, false)
			tw.Build(tt.top, false)
			if w := tw.Width(); w != tt.want {
				t.Errorf("expected width %f, got %f", tt.want, w)
			}
		})
	}
}

func TestBuildHeight(t *testing.T) {
	cfg := config.Cfg()
	tw := New(cfg)

	for i := 1; i <= 5; i++ {
		tw.Build(300, false)
		if tw.Height != float64(i)*64 || tw.Y != 600-float64(i)*64 {
			t.Fatalf("size %d: expected height %d y %d, got %f %f", i, i*64, 600-i*64, tw.Height, tw.Y)
		}
	}

	// Past the window cutoff each block shifts the top by one block size
	tw.Height = 160
	tw.Y = 445
	tw.Build(300, false)
	if tw.Height != 224 || tw.Y != 381 {
		t.Errorf("windowed build: expected height 224 y 381, got %f %f", tw.Height, tw.Y)
	}
	if tw.Onscreen != 6 {
		t.Errorf("expected 6 onscreen, got %d", tw.Onscreen)
	}
	if tw.Size() != len(tw.Offsets()) {
		t.Errorf("size %d disagrees with offsets %d", tw.Size(), len(tw.Offsets()))
	}
}

func TestShakeBands(t *testing.T) {
	bands := config.Cfg().Shake.Bands
	tests := []struct {
		width float64
		want  int
	}{
		{0, 0},
		{70, 0},
		{80, 0},
		{90, 1},
		{130, 2},
		{170, 3},
		{210, 4},
		{1000, 4},
	}

	prev := 0
	for _, tt := range tests {
		got := ShakeBand(bands, tt.width)
		if got != tt.want {
			t.Errorf("width %f: expected band %d, got %d", tt.width, tt.want, got)
		}
		if got < prev {
			t.Errorf("band decreased at width %f", tt.width)
		}
		prev = got
	}
}

func TestShakeJitterBounded(t *testing.T) {
	cfg := config.Cfg()
	tw := New(cfg)
	rng := rand.New(rand.NewSource(1))

	tw.Build(300, false)
	tw.Build(300+170-64, false) // width 170, band 3
	for i := 0; i < 200; i++ {
		tw.UpdateShake(rng)
		if tw.Shake.Level != 3 {
			t.Fatalf("expected level 3, got %d", tw.Shake.Level)
		}
		limit := cfg.Shake.Jitter[3]
		if math.Abs(tw.Shake.X) > limit || math.Abs(tw.Shake.Y) > limit {
			t.Fatalf("jitter (%f, %f) exceeds %f", tw.Shake.X, tw.Shake.Y, limit)
		}
	}

	calm := New(cfg)
	calm.Build(300, false)
	calm.UpdateShake(rng)
	if calm.Shake.X != 0 || calm.Shake.Y != 0 || calm.Shake.Level != 0 {
		t.Errorf("aligned tower should not shake, got %+v", calm.Shake)
	}
}

func TestShakeMultiplier(t *testing.T) {
	tests := []struct {
		size int
		want float64
	}{
		{0, 1},
		{4, 1},
		{5, 1.25},
		{12, 1.5},
	}
	for _, tt := range tests {
		if got := ShakeMultiplier(tt.size, 5, 0.25); got != tt.want {
			t.Errorf("size %d: expected %f, got %f", tt.size, tt.want, got)
		}
	}
}

func TestWobbleTriangle(t *testing.T) {
	cfg := config.Cfg()
	tw := New(cfg)
	for i := 0; i < cfg.Wobble.MaxBlocks; i++ {
		tw.Build(300, false)
	}

	maxAbs := 0.0
	sawNegative := false
	for i := 0; i < 1000; i++ {
		tw.UpdateWobble()
		maxAbs = math.Max(maxAbs, math.Abs(tw.Wobble))
		if tw.Wobble < 0 {
			sawNegative = true
		}
	}
	if !tw.Wobbling {
		t.Fatal("tall tower should wobble")
	}
	if !sawNegative {
		t.Error("wobble never reversed")
	}
	if maxAbs > cfg.Wobble.Bound+cfg.Wobble.Speed+1e-9 {
		t.Errorf("wobble %f exceeds bound", maxAbs)
	}
}

func TestWobbleNeedsInstability(t *testing.T) {
	cfg := config.Cfg()
	tw := New(cfg)
	for i := 0; i < 6; i++ {
		tw.Build(300, false)
	}
	tw.UpdateWobble()
	if tw.Wobbling || tw.Wobble != 0 {
		t.Error("aligned short tower should not wobble")
	}

	tw.Build(300+50, false) // width 114
	tw.UpdateWobble()
	if !tw.Wobbling {
		t.Error("expected wobble past width threshold")
	}
}

func TestScrollSettles(t *testing.T) {
	cfg := config.Cfg()
	tw := New(cfg)
	for i := 0; i < 5; i++ {
		tw.Build(300, false)
	}
	if !tw.ShouldScroll() {
		t.Fatal("expected scroll at five blocks")
	}

	ticks := 0
	for tw.ShouldScroll() && ticks < 1000 {
		tw.Scroll()
		ticks++
	}
	if tw.Scrolling {
		t.Error("scroll did not settle")
	}
	if tw.Height != cfg.Scroll.SettledHeight || tw.Onscreen != cfg.Tower.OnscreenWindow {
		t.Errorf("expected settled height %f window %d, got %f %d",
			cfg.Scroll.SettledHeight, cfg.Tower.OnscreenWindow, tw.Height, tw.Onscreen)
	}
	if tw.Y <= cfg.Scroll.TargetY {
		t.Errorf("expected y past target, got %f", tw.Y)
	}
}

func TestWindow(t *testing.T) {
	cfg := config.Cfg()
	tw := New(cfg)
	for i := 0; i < 8; i++ {
		tw.Build(float64(300+i), false)
	}
	if got := len(tw.Window()); got != 8 {
		t.Errorf("unwindowed: expected 8 drawn, got %d", got)
	}

	tw.SettleWindow()
	if tw.Onscreen != cfg.Tower.OnscreenWindow || tw.Y != cfg.Scroll.TargetY {
		t.Errorf("expected window reset to %d at y %f, got %d at %f",
			cfg.Tower.OnscreenWindow, cfg.Scroll.TargetY, tw.Onscreen, tw.Y)
	}
	win := tw.Window()
	if len(win) != 3 || win[2] != 307 {
		t.Errorf("expected newest three blocks, got %v", win)
	}
	if tw.Size() != 8 {
		t.Errorf("history should be retained, got size %d", tw.Size())
	}
}

func TestUnbuildOnce(t *testing.T) {
	cfg := config.Cfg()
	tw := New(cfg)
	p := NewPendulum(cfg)
	tw.Build(300, false)
	tw.Build(350, false)
	p.Y = tw.Y - 10

	if !tw.Unbuild(p) {
		t.Fatal("expected first unbuild to succeed")
	}
	if tw.Unbuild(p) {
		t.Error("second unbuild should be a no-op")
	}
	if tw.Size() != 1 {
		t.Errorf("expected one block left, got %d", tw.Size())
	}
	if p.Y != 600-128 {
		t.Errorf("expected block to take vacated top 472, got %f", p.Y)
	}
}

func TestCollapse(t *testing.T) {
	cfg := config.Cfg()
	tw := New(cfg)
	tw.Build(300, false)
	tw.Build(200, false) // width -164

	if !tw.Collapse() {
		t.Fatal("expected collapse to start")
	}
	if tw.Collapse() {
		t.Error("collapse should report start only once")
	}
	if tw.Lean != LeanLeft || tw.X != -2*cfg.Collapse.Drift {
		t.Errorf("expected left drift, got lean %v x %f", tw.Lean, tw.X)
	}

	for i := 0; i < 200 && !tw.Fallen(); i++ {
		tw.Collapse()
	}
	if !tw.Fallen() {
		t.Error("tower never fell off screen")
	}
}

func TestResetRoundtrip(t *testing.T) {
	cfg := config.Cfg()
	fresh := New(cfg)
	tw := New(cfg)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 9; i++ {
		tw.Build(float64(300+i*30), i%2 == 0)
		tw.UpdateWobble()
		tw.UpdateShake(rng)
		if tw.ShouldScroll() {
			tw.Scroll()
		}
	}
	tw.SettleWindow()
	tw.Collapse()
	tw.Reset()

	if tw.Size() != 0 || tw.Height != fresh.Height || tw.Y != fresh.Y {
		t.Errorf("height/y not restored: size %d height %f y %f", tw.Size(), tw.Height, tw.Y)
	}
	if tw.Width() != fresh.Width() {
		t.Errorf("width not restored: %f", tw.Width())
	}
	if tw.Shake != (Shake{}) || tw.Wobble != 0 || tw.Wobbling {
		t.Errorf("instability not restored: shake %+v wobble %f", tw.Shake, tw.Wobble)
	}
	if tw.Scrolling || tw.Windowed || tw.Onscreen != 0 || tw.Collapsing || tw.X != 0 {
		t.Error("scroll/collapse state not restored")
	}
}
