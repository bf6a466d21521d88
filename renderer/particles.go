package renderer

import (
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// dust is one puff particle.
type dust struct {
	X, Y    float32
	VX, VY  float32
	Size    float32
	Life    int
	MaxLife int
	Color   rl.Color
}

// ParticleRenderer owns short-lived dust puffs thrown off by landings and
// collapses.
type ParticleRenderer struct {
	rng       *rand.Rand
	particles []dust
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(seed int64) *ParticleRenderer {
	return &ParticleRenderer{rng: rand.New(rand.NewSource(seed))}
}

// Emit spawns n particles along a horizontal edge starting at x.
func (r *ParticleRenderer) Emit(x, y, width float32, n int, color rl.Color) {
	for i := 0; i < n; i++ {
		life := 20 + r.rng.Intn(25)
		r.particles = append(r.particles, dust{
			X:       x + r.rng.Float32()*width,
			Y:       y,
			VX:      (r.rng.Float32() - 0.5) * 3,
			VY:      -r.rng.Float32() * 1.5,
			Size:    2 + r.rng.Float32()*3,
			Life:    life,
			MaxLife: life,
			Color:   color,
		})
	}
}

// Update advances every particle and drops the expired ones.
func (r *ParticleRenderer) Update() {
	live := r.particles[:0]
	for _, p := range r.particles {
		p.Life--
		if p.Life <= 0 {
			continue
		}
		p.X += p.VX
		p.Y += p.VY
		p.VY += 0.08
		live = append(live, p)
	}
	r.particles = live
}

// Draw renders all particles.
func (r *ParticleRenderer) Draw() {
	for i := range r.particles {
		p := &r.particles[i]

		// Fade and shrink with age
		lifeRatio := float32(p.Life) / float32(p.MaxLife)
		color := p.Color
		color.A = uint8(float32(color.A) * lifeRatio)

		size := p.Size * lifeRatio
		if size < 0.5 {
			size = 0.5
		}
		rl.DrawCircle(int32(p.X), int32(p.Y), size, color)
	}
}

// Clear removes every particle.
func (r *ParticleRenderer) Clear() {
	r.particles = r.particles[:0]
}
