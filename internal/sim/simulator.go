// SPDX-License-Identifier: MIT

// Package sim advances a fixed-size particle population through a curl-noise
// flow field modulated by the smoothed audio signals. Particles are mutually
// independent, so the per-tick update is data-parallel across worker
// goroutines. Coloring happens inside the same pass and lands in a
// double-buffered render slice, so a reader never sees a half-updated frame.
package sim

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/analysis"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/noise"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/palette"
)

// RenderStride is the number of float32 values per particle in a render
// frame: x, y, size, r, g, b, a.
const RenderStride = 7

// Audio modulation constants: how strongly each signal channel bends the
// base tuning.
const (
	trebleScaleGain = 0.8  // Treble raises the noise spatial frequency.
	bassWarpGain    = 2.0  // Bass accelerates field time ("time warp").
	levelSpeedGain  = 1.5  // Level raises particle speed.
	levelDampDrop   = 0.04 // Level reduces damping (more energetic motion).
	speedScale      = 0.004

	hueSpeedGain     = 2.0
	hueLevelGain     = 1.5
	hueTransientGain = 4.0
)

// Simulator owns the particle array exclusively. Readers receive snapshots
// of the completed tick's render buffer, never the live array.
type Simulator struct {
	cfg       Config
	field     *noise.Field
	particles []Particle
	baseSpeed []float64
	time      float64
	workers   int

	mu     sync.RWMutex // Guards render (the published front buffer).
	render []float32
	back   []float32
}

// NewSimulator creates and seeds a simulation. The particle count is fixed
// for the lifetime of the instance; use Resize to change it.
func NewSimulator(cfg Config) (*Simulator, error) {
	if cfg.ParticleCount <= 0 {
		return nil, fmt.Errorf("particle count must be positive, got %d", cfg.ParticleCount)
	}
	if cfg.Bound <= 0 {
		cfg.Bound = 1.2
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}

	s := &Simulator{
		cfg:       cfg,
		field:     noise.New(cfg.Seed),
		particles: make([]Particle, cfg.ParticleCount),
		baseSpeed: make([]float64, cfg.ParticleCount),
		workers:   runtime.GOMAXPROCS(0),
		render:    make([]float32, cfg.ParticleCount*RenderStride),
		back:      make([]float32, cfg.ParticleCount*RenderStride),
	}
	s.seedPopulation()
	return s, nil
}

// stepParams carries the per-tick derived values into the worker chunks so
// every particle sees identical modulation regardless of update order.
type stepParams struct {
	scale    float64
	time     float64
	damping  float64
	decay    float64
	speedMul float64
	size     float64
	bound2   float64
	sig      analysis.SmoothedSignal
}

// Step advances every particle by one tick under the given control signals
// and publishes a new render frame. Particle update order is irrelevant (no
// particle reads another's state), so the work is split across workers.
func (s *Simulator) Step(sig analysis.SmoothedSignal) {
	// Treble raises spatial jitter, bass accelerates field evolution. A zero
	// NoiseScale or TimeStep config degrades to a static field; nothing here
	// divides by configuration.
	s.time += s.cfg.TimeStep * (1 + sig.Bass*bassWarpGain)

	params := stepParams{
		scale:    s.cfg.NoiseScale * (1 + sig.Treble*trebleScaleGain),
		time:     s.time,
		damping:  s.cfg.Damping - levelDampDrop*sig.Level,
		decay:    s.cfg.LifeDecay * (1 + sig.Level),
		speedMul: s.cfg.FlowSpeed * (1 + sig.Level*levelSpeedGain) * speedScale,
		size:     s.cfg.ParticleSize * (1 + 0.5*sig.Transient),
		bound2:   s.cfg.Bound * s.cfg.Bound,
		sig:      sig,
	}

	n := len(s.particles)
	chunk := (n + s.workers - 1) / s.workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			s.stepRange(lo, hi, params)
		}(lo, hi)
	}
	wg.Wait()

	// Publish: swap back and front under the lock. Readers holding Frame()
	// copies are unaffected.
	s.mu.Lock()
	s.render, s.back = s.back, s.render
	s.mu.Unlock()
}

// stepRange updates particles [lo,hi) and writes their render data into the
// back buffer. Each worker touches only its own index range.
func (s *Simulator) stepRange(lo, hi int, params stepParams) {
	for i := lo; i < hi; i++ {
		p := &s.particles[i]

		fvx, fvy := s.field.Curl(p.X*params.scale, p.Y*params.scale, params.time)
		p.VX = p.VX*params.damping + fvx*s.cfg.CurlInfluence
		p.VY = p.VY*params.damping + fvy*s.cfg.CurlInfluence

		speed := s.baseSpeed[i] * params.speedMul
		p.X += p.VX * speed
		p.Y += p.VY * speed
		p.Life -= params.decay

		// Death, boundary, and numeric-instability checks share one respawn
		// path: a NaN or Inf must never reach the color mapper.
		if p.Life <= 0 ||
			p.X*p.X+p.Y*p.Y > params.bound2 ||
			!isFinite(p.X) || !isFinite(p.Y) || !isFinite(p.VX) || !isFinite(p.VY) {
			s.respawn(p, i)
		}

		velMag := math.Hypot(p.VX, p.VY)
		p.Hue = math.Mod(p.Hue+velMag*speed*60*hueSpeedGain+params.sig.Level*hueLevelGain+params.sig.Transient*hueTransientGain, 360)

		c := palette.Map(s.cfg.Palette, p.Hue, velMag*0.25, p.Life, params.sig)

		base := i * RenderStride
		s.back[base+0] = float32(p.X)
		s.back[base+1] = float32(p.Y)
		s.back[base+2] = float32(params.size)
		s.back[base+3] = float32(c.R)
		s.back[base+4] = float32(c.G)
		s.back[base+5] = float32(c.B)
		s.back[base+6] = float32(c.A)
	}
}

// FrameSize returns the length of a render frame in float32 values.
func (s *Simulator) FrameSize() int {
	return len(s.particles) * RenderStride
}

// FrameInto copies the most recently published render frame into dest
// without allocating. dest must have length FrameSize.
func (s *Simulator) FrameInto(dest []float32) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(dest) != len(s.render) {
		return fmt.Errorf("destination slice length %d does not match frame size %d", len(dest), len(s.render))
	}
	copy(dest, s.render)
	return nil
}

// Frame returns a copy of the most recently published render frame.
// NOTE: allocates; hot-path readers should use FrameInto.
func (s *Simulator) Frame() []float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]float32, len(s.render))
	copy(out, s.render)
	return out
}

// ParticleCount returns the fixed population size.
func (s *Simulator) ParticleCount() int {
	return len(s.particles)
}

// Resize reinitializes the simulation with a new population size. The array
// is rebuilt whole; it is never left partially sized.
func (s *Simulator) Resize(count int) error {
	if count <= 0 {
		return fmt.Errorf("particle count must be positive, got %d", count)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.ParticleCount = count
	s.particles = make([]Particle, count)
	s.baseSpeed = make([]float64, count)
	s.render = make([]float32, count*RenderStride)
	s.back = make([]float32, count*RenderStride)
	s.seedPopulation()
	return nil
}

// SetPalette switches the color scheme for subsequent ticks.
func (s *Simulator) SetPalette(p palette.Palette) {
	s.cfg.Palette = p
}

// Time returns the accumulated noise-field time.
func (s *Simulator) Time() float64 {
	return s.time
}
