package tower

import (
	"math"

	"github.com/pthm-cable/towerblocks/config"
)

// Tower is the stack of landed blocks. The full offset history is kept for
// alignment checks even when only a window of it is drawn.
type Tower struct {
	cfg *config.Config

	offsets []float64 // Block x positions, oldest first

	Base     float64 // X of the first block
	X        float64 // Horizontal drift while collapsing
	Y        float64 // Top edge of the newest block
	Height   float64
	Onscreen int
	Golden   bool

	Wobbling  bool
	Wobble    float64
	wobbleVel float64

	Shake Shake

	Scrolling bool
	Windowed  bool // Only the newest Onscreen blocks are drawn

	Collapsing bool
	Lean       Lean

	unbuilt bool
}

// New creates an empty tower sitting on the bottom of the screen.
func New(cfg *config.Config) *Tower {
	return &Tower{
		cfg:       cfg,
		Y:         cfg.Derived.ScreenHeight,
		wobbleVel: cfg.Wobble.Speed,
	}
}

// Reset returns the tower to its empty state.
func (t *Tower) Reset() {
	*t = *New(t.cfg)
}

// Size is the number of blocks in the tower.
func (t *Tower) Size() int {
	return len(t.offsets)
}

// Offsets returns a copy of every block x, oldest first.
func (t *Tower) Offsets() []float64 {
	out := make([]float64, len(t.offsets))
	copy(out, t.offsets)
	return out
}

// Top returns the newest block x.
func (t *Tower) Top() (float64, bool) {
	if len(t.offsets) == 0 {
		return 0, false
	}
	return t.offsets[len(t.offsets)-1], true
}

// Below returns the x of the block under the newest one.
func (t *Tower) Below() (float64, bool) {
	if len(t.offsets) < 2 {
		return 0, false
	}
	return t.offsets[len(t.offsets)-2], true
}

// Build stacks a block at x.
func (t *Tower) Build(x float64, golden bool) {
	if len(t.offsets) == 0 {
		t.Base = x
	}
	t.offsets = append(t.offsets, x)
	t.Golden = golden

	bs := t.cfg.Tower.BlockSize
	if n := len(t.offsets); n <= t.cfg.Tower.WindowAfterBlocks {
		t.Height = float64(n) * bs
		t.Y = t.cfg.Derived.ScreenHeight - t.Height
	} else {
		t.Height += bs
		t.Y -= bs
	}
	t.Onscreen++
}

// Width is the signed extent from the base block to the newest one,
// including one block size. Negative when the tower leans left.
func (t *Tower) Width() float64 {
	bs := t.cfg.Tower.BlockSize
	top, ok := t.Top()
	switch {
	case !ok:
		return bs
	case top > t.Base:
		return (top - t.Base) + bs
	case top < t.Base:
		return -((t.Base - top) + bs)
	default:
		return bs
	}
}

// UpdateWobble advances the lateral oscillation. Once started it never stops.
func (t *Tower) UpdateWobble() {
	w := t.cfg.Wobble
	n := t.Size()
	if (math.Abs(t.Width()) > w.Width && n >= w.MinBlocks) || n >= w.MaxBlocks {
		t.Wobbling = true
	}
	if t.Wobbling {
		t.Wobble += t.wobbleVel
	}
	if t.Wobble > w.Bound {
		t.wobbleVel = -w.Speed
	} else if t.Wobble < -w.Bound {
		t.wobbleVel = w.Speed
	}
}

// ShouldScroll reports whether the tower is tall enough to scroll down.
func (t *Tower) ShouldScroll() bool {
	return t.Height >= t.cfg.Derived.ScrollTriggerHeight && t.Size() >= t.cfg.Scroll.TriggerBlocks
}

// Scroll moves the tower one step toward the scroll target. Once there it
// settles to a fixed height and window.
func (t *Tower) Scroll() {
	s := t.cfg.Scroll
	if t.Y <= s.TargetY {
		t.Y += s.Speed
		t.Scrolling = true
		return
	}
	t.Height = s.SettledHeight
	t.Scrolling = false
	t.Onscreen = t.cfg.Tower.OnscreenWindow
}

// SettleWindow switches to windowed drawing and snaps an overgrown window
// back to its fixed size.
func (t *Tower) SettleWindow() {
	t.Windowed = true
	if t.Onscreen >= t.cfg.Tower.WindowResetBlocks {
		t.Onscreen = t.cfg.Tower.OnscreenWindow
		t.Y = t.cfg.Scroll.TargetY
	}
}

// Window returns the block offsets to draw, oldest first.
func (t *Tower) Window() []float64 {
	if !t.Windowed || t.Onscreen >= len(t.offsets) {
		return t.offsets
	}
	if t.Onscreen <= 0 {
		return nil
	}
	return t.offsets[len(t.offsets)-t.Onscreen:]
}

// Unbuild removes the newest block once per collapse. The falling block
// takes over the vacated top if it sits above it. Returns false if the
// tower was already unbuilt or is empty.
func (t *Tower) Unbuild(p *Pendulum) bool {
	if t.unbuilt || len(t.offsets) == 0 {
		return false
	}
	t.unbuilt = true
	if t.Y > p.Y {
		p.Y = t.Y
	}
	t.pop()
	return true
}

// Penalize drops the newest block when a life ends in a fall.
func (t *Tower) Penalize() {
	t.pop()
}

func (t *Tower) pop() {
	if len(t.offsets) == 0 {
		return
	}
	t.offsets = t.offsets[:len(t.offsets)-1]
	bs := t.cfg.Tower.BlockSize
	t.Y += bs
	t.Height = math.Max(0, t.Height-bs)
	if t.Onscreen > 0 {
		t.Onscreen--
	}
}

// Collapse moves a tower that leans past the collapse width one step down
// and sideways. Returns true on the tick the collapse starts.
func (t *Tower) Collapse() (started bool) {
	w := t.Width()
	c := t.cfg.Collapse
	if math.Abs(w) <= c.Width {
		return false
	}
	if !t.Collapsing {
		t.Collapsing = true
		t.Lean = leanOf(w)
		started = true
	}
	t.Y += c.FallSpeed
	t.X += t.Lean.Sign() * c.Drift
	return started
}

// Fallen reports whether the tower has dropped off the bottom of the screen.
func (t *Tower) Fallen() bool {
	return t.Y > t.cfg.Derived.ScreenHeight
}
