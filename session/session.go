// Package session holds one game's state and advances it tick by tick.
package session

import (
	"math/rand"

	"github.com/pthm-cable/towerblocks/config"
	"github.com/pthm-cable/towerblocks/tower"
)

// Phase is whether a life is in progress.
type Phase uint8

const (
	Playing Phase = iota
	GameOver
)

func (p Phase) String() string {
	if p == GameOver {
		return "game_over"
	}
	return "playing"
}

// Session owns the live pendulum and tower plus scoring.
type Session struct {
	cfg *config.Config
	rng *rand.Rand

	Pendulum *tower.Pendulum
	Tower    *tower.Tower

	Score       int
	GoldenCount int
	Mode        Mode
	Phase       Phase
	Life        int
	Tick        uint64
	LifeTicks   uint64
	BackgroundY float64

	// Set when a life ends
	EndReason   EndReason
	FinalScore  int
	FinalBlocks int

	overTicks int
}

// New creates a session with the first life ready to play.
func New(cfg *config.Config, seed int64, mode Mode) *Session {
	s := &Session{
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(seed)),
		Mode: mode,
	}
	s.Restart()
	return s
}

// Restart replaces the pendulum, empties the tower and starts a new life.
func (s *Session) Restart() {
	s.Pendulum = tower.NewPendulum(s.cfg)
	if s.Tower == nil {
		s.Tower = tower.New(s.cfg)
	} else {
		s.Tower.Reset()
	}
	s.Score = 0
	s.GoldenCount = 0
	s.Phase = Playing
	s.Life++
	s.LifeTicks = 0
	s.BackgroundY = 0
	s.EndReason = EndNone
	s.FinalScore = 0
	s.FinalBlocks = 0
	s.overTicks = 0
}

// PromptVisible reports whether the game-over restart prompt is shown this tick.
func (s *Session) PromptVisible() bool {
	if s.Phase != GameOver {
		return false
	}
	return (s.overTicks/s.cfg.Derived.PromptBlinkTicks)%2 == 0
}

// Step advances the game by one tick.
func (s *Session) Step(in Input) []Event {
	s.Tick++
	var events []Event

	if in.ToggleMode {
		s.Mode = s.Mode.Next()
		events = append(events, s.event(EventModeChanged))
	}

	if s.Phase == GameOver {
		return s.stepGameOver(in, events)
	}
	s.LifeTicks++

	p, t := s.Pendulum, s.Tower

	if in.Drop && p.Release() {
		events = append(events, s.event(EventDropped))
	}

	switch p.State {
	case tower.Ready:
		p.Swing()
	case tower.Dropped:
		p.Fall(t)
	}

	if p.State == tower.Landed {
		l := p.Settle(t)
		if l.Built {
			if l.Golden {
				s.Score += 2
				s.GoldenCount++
				events = append(events, s.event(EventGolden))
			} else {
				s.Score++
				events = append(events, s.event(EventBuilt))
			}
		}
		if l.Toppled {
			events = append(events, s.event(EventToppled))
		}
	}

	if p.State == tower.Over {
		t.Unbuild(p)
		p.Topple()
	}

	if p.Respawn(t) && t.Size() >= s.cfg.Scroll.TriggerBlocks {
		t.SettleWindow()
	}

	if t.ShouldScroll() {
		t.Scroll()
		s.BackgroundY += s.cfg.Scroll.Speed
	}

	t.UpdateWobble()
	t.UpdateShake(s.rng)

	if t.Collapse() {
		events = append(events, s.event(EventCollapsed))
	}

	switch {
	case t.Fallen():
		t.Penalize()
		events = append(events, s.end(EndTowerFell))
	case !p.State.Terminal():
	case p.State == tower.Miss:
		events = append(events,
			s.event(EventMissed),
			s.end(EndMissed),
		)
	case p.Y > s.cfg.Derived.ScreenHeight:
		t.Penalize()
		events = append(events, s.end(EndToppled))
	}

	return events
}

// stepGameOver keeps the losing block moving and waits for a restart.
// A drop only restarts once the first prompt period has passed, so a blink
// or key already in flight when the life ended does not skip the screen.
func (s *Session) stepGameOver(in Input, events []Event) []Event {
	s.overTicks++
	switch s.Pendulum.State {
	case tower.Over:
		s.Pendulum.Topple()
	case tower.Miss:
		s.Pendulum.Fall(s.Tower)
	}

	restart := in.Restart || (in.Drop && s.overTicks > s.cfg.Derived.PromptBlinkTicks)
	if restart {
		s.Restart()
		events = append(events, s.event(EventRestarted))
	}
	return events
}

func (s *Session) end(reason EndReason) Event {
	s.Phase = GameOver
	s.EndReason = reason
	s.FinalScore = s.Score
	s.FinalBlocks = s.Tower.Size()
	s.overTicks = 0
	e := s.event(EventGameOver)
	e.Reason = reason
	return e
}

func (s *Session) event(kind EventKind) Event {
	return Event{
		Kind:   kind,
		Tick:   s.Tick,
		Score:  s.Score,
		Blocks: s.Tower.Size(),
		Mode:   s.Mode,
	}
}
