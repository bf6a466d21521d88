package tower

import (
	"math"

	"github.com/pthm-cable/towerblocks/config"
)

// Pendulum is the block swinging on the rope. Exactly one is live per session.
type Pendulum struct {
	cfg *config.Config

	X, Y         float64
	Angle        float64 // Radians from vertical
	AngularSpeed float64
	AngularAccel float64
	FallSpeed    float64
	Rotation     float64 // Degrees, visual only
	State        State
	LastX        float64 // X at release
	Force        float64 // Restoring force, grows on every respawn
	Lean         Lean    // Topple direction once Over
}

// Landing describes the outcome of Settle.
type Landing struct {
	Built   bool
	Golden  bool
	Toppled bool
}

// NewPendulum creates a ready pendulum at the first swing position.
func NewPendulum(cfg *config.Config) *Pendulum {
	return &Pendulum{
		cfg:   cfg,
		X:     cfg.Swing.RespawnX,
		Y:     cfg.Swing.RespawnY,
		Angle: cfg.Swing.InitialAngle,
		Force: cfg.Swing.Force,
		State: Ready,
	}
}

// Swing advances the rope recurrence by one tick.
func (p *Pendulum) Swing() {
	if p.State != Ready {
		return
	}
	s := p.cfg.Swing
	p.X = s.PivotX + s.RopeLength*math.Sin(p.Angle)
	p.Y = s.PivotY + s.RopeLength*math.Cos(p.Angle)
	p.Angle += p.AngularSpeed
	p.AngularAccel = -math.Sin(p.Angle) * p.Force
	p.AngularSpeed += p.AngularAccel
}

// Release lets go of the rope. Returns false unless the pendulum was Ready.
func (p *Pendulum) Release() bool {
	if p.State != Ready {
		return false
	}
	p.State = Dropped
	p.LastX = p.X
	p.FallSpeed = 0
	return true
}

// Fits reports whether the released block sits on the tower's top block.
func (p *Pendulum) Fits(t *Tower) (fit, golden bool) {
	top, ok := t.Top()
	if !ok {
		return false, false
	}
	c := p.cfg.Collision
	d := math.Abs(p.LastX - top)
	if d >= c.FitTolerance || t.Y-p.Y > c.VerticalTolerance {
		return false, false
	}
	return true, d < c.GoldenTolerance
}

// Fall advances a dropped block by one tick. A block reaching the floor
// lands on an empty tower and misses a non-empty one. A missed block keeps
// falling for display.
func (p *Pendulum) Fall(t *Tower) {
	switch p.State {
	case Dropped:
		if fit, _ := p.Fits(t); fit {
			p.State = Landed
			return
		}
		if p.Y >= p.cfg.Physics.FloorY {
			if t.Size() == 0 {
				p.State = Landed
			} else {
				p.State = Miss
			}
			return
		}
	case Miss:
	default:
		return
	}
	p.FallSpeed += p.cfg.Physics.Gravity
	p.Y += p.FallSpeed
}

// Settle evaluates the landing once and moves the pendulum to Scroll, or to
// Over when the new block overhangs the one beneath it.
func (p *Pendulum) Settle(t *Tower) Landing {
	var l Landing
	if p.State != Landed {
		return l
	}
	p.State = Scroll

	fit, golden := p.Fits(t)
	if t.Size() == 0 || fit {
		t.Build(p.LastX, golden)
		l.Built = true
		l.Golden = golden
	}

	below, ok := t.Below()
	if !ok || math.Abs(p.LastX-below) <= p.cfg.Collision.CollapseTolerance {
		return l
	}
	if fit, _ := p.Fits(t); fit {
		p.State = Over
		if p.LastX < below {
			p.Lean = LeanLeft
		} else {
			p.Lean = LeanRight
		}
		l.Toppled = true
	}
	return l
}

// Respawn puts the block back on the rope once the tower is still.
// The swing side alternates with the tower's parity.
func (p *Pendulum) Respawn(t *Tower) bool {
	if p.State != Scroll || t.Scrolling {
		return false
	}
	s := p.cfg.Swing
	p.Angle = s.InitialAngle
	if t.Size()%2 == 0 {
		p.Angle = -s.InitialAngle
	}
	p.X = s.RespawnX
	p.Y = s.RespawnY
	p.AngularSpeed = 0
	p.AngularAccel = 0
	p.FallSpeed = 0
	p.Rotation = 0
	p.Lean = LeanNone
	p.State = Ready
	p.Force *= s.ForceGrowth
	return true
}

// Visible reports whether the block is drawn. A respawned block stays
// hidden until the tower stops scrolling.
func (p *Pendulum) Visible(t *Tower) bool {
	return p.State != Ready || !t.Scrolling
}

// ShowRope reports whether the rope is drawn.
func (p *Pendulum) ShowRope(t *Tower) bool {
	return p.State == Ready && !t.Scrolling
}

// Topple animates a block sliding off the tower.
func (p *Pendulum) Topple() {
	if p.State != Over {
		return
	}
	c := p.cfg.Collapse
	p.Y += c.ToppleSpeed
	p.X += p.Lean.Sign() * c.ToppleDrift
	p.Rotation = math.Mod(p.Rotation+p.Lean.Sign()*c.ToppleSpin, 360)
}
