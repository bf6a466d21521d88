package game

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/towerblocks/config"
	"github.com/pthm-cable/towerblocks/session"
	"github.com/pthm-cable/towerblocks/tower"
)

// Autoplay is a bot that drops the block when it swings across its aim
// point. The aim is the top block plus a random error picked per block, so
// towers drift and eventually collapse.
type Autoplay struct {
	rng    *rand.Rand
	spread float64
	centre float64
	reach  float64 // Furthest aim from centre the swing is sure to cross

	aim     float64
	prevX   float64
	tracing bool
	life    int
}

// NewAutoplay creates a bot. Aim errors stay within three quarters of the
// fit tolerance so every drop lands on the tower.
func NewAutoplay(cfg *config.Config, seed int64) *Autoplay {
	return &Autoplay{
		rng:    rand.New(rand.NewSource(seed ^ 0x5eed)),
		spread: cfg.Collision.FitTolerance * 0.75,
		centre: cfg.Swing.PivotX,
		reach:  0.7 * cfg.Swing.RopeLength * math.Sin(math.Abs(cfg.Swing.InitialAngle)),
	}
}

// Keys returns the bot's input for this tick.
func (a *Autoplay) Keys(s *session.Session) session.Keys {
	if s.Phase == session.GameOver {
		return session.Keys{Restart: true}
	}

	p := s.Pendulum
	if p.State != tower.Ready || s.Life != a.life {
		a.tracing = false
		a.life = s.Life
		return session.Keys{}
	}

	if !a.tracing {
		a.aim = (a.rng.Float64()*2 - 1) * a.spread
		a.prevX = p.X
		a.tracing = true
		return session.Keys{}
	}

	target := a.centre
	if top, ok := s.Tower.Top(); ok {
		target = top
	}
	target = math.Max(a.centre-a.reach, math.Min(a.centre+a.reach, target+a.aim))

	crossed := (a.prevX-target)*(p.X-target) <= 0 && a.prevX != p.X
	a.prevX = p.X
	if crossed {
		a.tracing = false
		return session.Keys{Drop: true}
	}
	return session.Keys{}
}
