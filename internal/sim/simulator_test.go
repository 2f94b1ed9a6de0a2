// SPDX-License-Identifier: MIT
package sim

import (
	"math"
	"testing"

	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/analysis"
)

func testConfig(count int) Config {
	cfg := DefaultConfig()
	cfg.ParticleCount = count
	return cfg
}

func TestNewSimulator_Validation(t *testing.T) {
	if _, err := NewSimulator(testConfig(0)); err == nil {
		t.Error("expected error for zero particle count")
	}
	if _, err := NewSimulator(testConfig(-10)); err == nil {
		t.Error("expected error for negative particle count")
	}
}

func TestStep_LifeInvariant(t *testing.T) {
	s, err := NewSimulator(testConfig(500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	signals := []analysis.SmoothedSignal{
		{},
		{Level: 1, Bass: 1, Mid: 1, Treble: 1, Transient: 1},
		{Level: 0.4, Bass: 0.9, Treble: 0.2},
	}
	for tick := 0; tick < 400; tick++ {
		s.Step(signals[tick%len(signals)])
		for i := range s.particles {
			life := s.particles[i].Life
			if life <= 0 || life > 1 {
				t.Fatalf("tick %d: particle %d life = %f, want (0,1]", tick, i, life)
			}
		}
	}
}

func TestStep_OutOfBoundsRespawnsSameTick(t *testing.T) {
	s, err := NewSimulator(testConfig(16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.particles[3].X = s.cfg.Bound * 10
	s.particles[3].Y = 0
	s.Step(analysis.SmoothedSignal{})

	p := s.particles[3]
	if p.X*p.X+p.Y*p.Y > s.cfg.Bound*s.cfg.Bound {
		t.Errorf("particle still out of bounds after tick: (%f,%f)", p.X, p.Y)
	}
	if p.Life != 1 {
		t.Errorf("respawned life = %f, want 1", p.Life)
	}
	if p.VX != 0 || p.VY != 0 {
		t.Errorf("respawned velocity = (%f,%f), want zero", p.VX, p.VY)
	}
}

func TestStep_NaNForceRespawn(t *testing.T) {
	s, err := NewSimulator(testConfig(16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.particles[0].X = math.NaN()
	s.particles[1].VY = math.Inf(1)
	s.Step(analysis.SmoothedSignal{Level: 0.5})

	for i := 0; i < 2; i++ {
		p := s.particles[i]
		if !isFinite(p.X) || !isFinite(p.Y) || !isFinite(p.VX) || !isFinite(p.VY) {
			t.Errorf("particle %d still non-finite after tick: %+v", i, p)
		}
	}
	// A NaN must never propagate into the render frame either.
	for i, v := range s.Frame() {
		if math.IsNaN(float64(v)) {
			t.Fatalf("render value %d is NaN", i)
		}
	}
}

func TestStep_FrameValuesValid(t *testing.T) {
	s, err := NewSimulator(testConfig(64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		s.Step(analysis.SmoothedSignal{Level: 0.6, Transient: 0.3})
	}

	frame := s.Frame()
	if len(frame) != 64*RenderStride {
		t.Fatalf("frame length = %d, want %d", len(frame), 64*RenderStride)
	}
	for i := 0; i < len(frame); i += RenderStride {
		size := frame[i+2]
		if size <= 0 {
			t.Errorf("particle %d: size %f not positive", i/RenderStride, size)
		}
		for c := 3; c < 7; c++ {
			v := frame[i+c]
			if v < 0 || v > 1 {
				t.Errorf("particle %d: color component %f out of [0,1]", i/RenderStride, v)
			}
		}
	}
}

func TestStep_SilenceConvergesToLowDrift(t *testing.T) {
	s, err := NewSimulator(testConfig(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 99; i++ {
		s.Step(analysis.SmoothedSignal{})
	}

	before := make([]Particle, len(s.particles))
	copy(before, s.particles)
	s.Step(analysis.SmoothedSignal{})

	var meanStep float64
	counted := 0
	for i := range s.particles {
		// Skip slots that respawned during the measured tick.
		if s.particles[i].Life == 1 {
			continue
		}
		dx := s.particles[i].X - before[i].X
		dy := s.particles[i].Y - before[i].Y
		meanStep += math.Hypot(dx, dy)
		counted++
	}
	if counted == 0 {
		t.Fatal("no surviving particles to measure")
	}
	meanStep /= float64(counted)

	const epsilon = 0.02
	if meanStep >= epsilon {
		t.Errorf("mean per-tick drift under silence = %f, want < %f", meanStep, epsilon)
	}
}

func TestStep_Deterministic(t *testing.T) {
	a, _ := NewSimulator(testConfig(200))
	b, _ := NewSimulator(testConfig(200))

	sig := analysis.SmoothedSignal{Level: 0.5, Bass: 0.3, Treble: 0.7, Transient: 0.2}
	for i := 0; i < 50; i++ {
		a.Step(sig)
		b.Step(sig)
	}

	fa, fb := a.Frame(), b.Frame()
	for i := range fa {
		if fa[i] != fb[i] {
			t.Fatalf("frames diverge at %d: %f vs %f", i, fa[i], fb[i])
		}
	}
}

func TestStep_ZeroScaleConfigStillRuns(t *testing.T) {
	cfg := testConfig(100)
	cfg.NoiseScale = 0
	cfg.TimeStep = 0
	s, err := NewSimulator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 50; i++ {
		s.Step(analysis.SmoothedSignal{Level: 1, Bass: 1, Treble: 1})
	}
	for i := range s.particles {
		p := s.particles[i]
		if !isFinite(p.X) || !isFinite(p.Y) {
			t.Fatalf("particle %d non-finite with zero-scale config: %+v", i, p)
		}
	}
}

func TestResize(t *testing.T) {
	s, err := NewSimulator(testConfig(100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Resize(0); err == nil {
		t.Error("expected error for zero count")
	}
	if err := s.Resize(250); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ParticleCount() != 250 {
		t.Errorf("count = %d, want 250", s.ParticleCount())
	}
	if s.FrameSize() != 250*RenderStride {
		t.Errorf("frame size = %d, want %d", s.FrameSize(), 250*RenderStride)
	}
	s.Step(analysis.SmoothedSignal{})
	for i := range s.particles {
		if l := s.particles[i].Life; l <= 0 || l > 1 {
			t.Fatalf("particle %d life = %f after resize+step", i, l)
		}
	}
}

func TestFrameInto(t *testing.T) {
	s, err := NewSimulator(testConfig(32))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Step(analysis.SmoothedSignal{})

	dest := make([]float32, s.FrameSize())
	if err := s.FrameInto(dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.FrameInto(make([]float32, 5)); err == nil {
		t.Error("expected error for mismatched destination length")
	}
}

func BenchmarkStep(b *testing.B) {
	s, err := NewSimulator(testConfig(20000))
	if err != nil {
		b.Fatalf("unexpected error: %v", err)
	}
	sig := analysis.SmoothedSignal{Level: 0.5, Bass: 0.4, Treble: 0.6, Transient: 0.1}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Step(sig)
	}
}
