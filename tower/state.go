// Package tower implements the swinging block and the stack it builds.
package tower

// State is the pendulum's position in its life cycle.
type State uint8

const (
	Ready   State = iota // Swinging on the rope
	Dropped              // Released and falling
	Landed               // Touched the tower or the floor, build pending
	Scroll               // Built, waiting for the tower to finish scrolling
	Over                 // Toppled off a misaligned tower
	Miss                 // Reached the floor beside a non-empty tower
)

var stateNames = [...]string{"ready", "dropped", "landed", "scroll", "over", "miss"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether the state ends the current life.
func (s State) Terminal() bool {
	return s == Over || s == Miss
}

// Lean is the direction a tower or a toppling block falls.
type Lean int8

const (
	LeanNone  Lean = 0
	LeanLeft  Lean = -1
	LeanRight Lean = 1
)

// Sign returns -1, 0 or 1.
func (l Lean) Sign() float64 {
	return float64(l)
}

func (l Lean) String() string {
	switch l {
	case LeanLeft:
		return "left"
	case LeanRight:
		return "right"
	default:
		return "none"
	}
}

func leanOf(v float64) Lean {
	switch {
	case v < 0:
		return LeanLeft
	case v > 0:
		return LeanRight
	default:
		return LeanNone
	}
}
