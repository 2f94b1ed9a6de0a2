// SPDX-License-Identifier: MIT
package sim

import (
	"math"
	"math/rand"

	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/palette"
)

// Particle is one slot in the fixed-size population. Positions live in a
// centered coordinate space bounded by Config.Bound; Life counts down from 1
// to 0, at which point the slot is recycled in place.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64 // Always in (0,1] for a live particle.
	Hue    float64 // Accumulated identity channel, degrees.
}

// Config holds the simulation tuning. All values are read-only per tick.
type Config struct {
	ParticleCount int
	FlowSpeed     float64 // Global speed multiplier.
	CurlInfluence float64 // How strongly the curl field steers velocity.
	NoiseScale    float64 // Spatial frequency applied to positions before sampling noise.
	TimeStep      float64 // Base temporal advance of the noise field per tick.
	Damping       float64 // Velocity retained per tick, (0,1].
	LifeDecay     float64 // Base life lost per tick.
	ParticleSize  float64 // Base render size.
	Bound         float64 // Radius of the live region; leaving it respawns the particle.
	Palette       palette.Palette
	Seed          int64
}

// DefaultConfig returns the tuning used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{
		ParticleCount: 20000,
		FlowSpeed:     1.0,
		CurlInfluence: 0.08,
		NoiseScale:    1.4,
		TimeStep:      0.05,
		Damping:       0.92,
		LifeDecay:     0.004,
		ParticleSize:  1.6,
		Bound:         1.2,
		Palette:       palette.Aurora,
		Seed:          1,
	}
}

// goldenAngle in radians; successive respawns land on a spiral that covers
// the disc evenly instead of clustering.
const goldenAngle = 2.399963229728653

// respawn recycles slot i in place: a fresh position on the golden-angle
// spiral (keyed to index and current field time so respawns stay spatially
// distributed), zero velocity, full life. Deterministic, no RNG in the tick.
func (s *Simulator) respawn(p *Particle, i int) {
	a := float64(i)*goldenAngle + s.time*0.15
	// frac(i*phi) is a low-discrepancy sequence; sqrt makes density uniform
	// over the disc area.
	u := math.Mod(float64(i)*0.6180339887498949+s.time*0.1, 1)
	if u < 0 {
		u += 1
	}
	r := s.cfg.Bound * 0.85 * math.Sqrt(u)

	p.X = r * math.Cos(a)
	p.Y = r * math.Sin(a)
	p.VX = 0
	p.VY = 0
	p.Life = 1
}

// seedPopulation scatters the initial population. Positions are uniform over
// the bound disc and life is randomized so the field does not die in
// lockstep waves.
func (s *Simulator) seedPopulation() {
	rng := rand.New(rand.NewSource(s.cfg.Seed))
	for i := range s.particles {
		a := rng.Float64() * 2 * math.Pi
		r := s.cfg.Bound * math.Sqrt(rng.Float64())
		s.particles[i] = Particle{
			X:    r * math.Cos(a),
			Y:    r * math.Sin(a),
			Life: 0.05 + 0.95*rng.Float64(),
			Hue:  math.Mod(float64(i)*goldenAngle*57.29577951308232, 360),
		}
		// Per-particle base speed from the index keeps motion out of
		// uniform lockstep.
		s.baseSpeed[i] = 0.5 + 0.5*math.Mod(float64(i)*0.6180339887498949, 1)
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
