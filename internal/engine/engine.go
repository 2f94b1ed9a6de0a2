// SPDX-License-Identifier: MIT

/*
Package engine runs the per-tick pipeline that turns audio into render
frames:

	source -> band energies -> transient -> smoothed signals ->
	particle simulation -> color mapping -> frame packet -> transports

One analysis tick produces one SmoothedSignal; one simulation tick consumes
it. Both run on the same ticker here, and the simulation always reads the
most recently published signal, never blocking on analysis. Stopping audio
resets all analysis state to zero on the next tick; no work is ever in
flight across tick boundaries.
*/
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/analysis"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/config"
	applog "github.com/TGALLOWAY1/ParticleFlowAnimation/internal/log"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/palette"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/sim"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/source"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/transport"
)

// Engine owns the analysis pipeline, the simulation, and the frame
// transports, and drives them from a single ticker goroutine.
type Engine struct {
	cfg        *config.Config
	src        source.SpectrumSource
	signal     *analysis.SignalProcessor
	simulator  *sim.Simulator
	encoder    *transport.FrameEncoder
	transports []transport.Transport

	interval time.Duration
	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // Protects ticker and doneChan during Start/Stop.

	// Pre-allocated per-tick buffers.
	magBuffer   []float64
	frameBuffer []float32
}

// NewEngine wires a source, the analysis pipeline, a simulation, and the
// given frame transports into a runnable engine.
func NewEngine(cfg *config.Config, src source.SpectrumSource, transports []transport.Transport) (*Engine, error) {
	if src == nil {
		return nil, fmt.Errorf("engine requires a spectrum source")
	}
	if len(transports) == 0 {
		transports = []transport.Transport{transport.NewLoggingTransport()}
	}

	pal, err := palette.Parse(cfg.Simulation.Palette)
	if err != nil {
		return nil, err
	}

	simulator, err := sim.NewSimulator(sim.Config{
		ParticleCount: cfg.Simulation.ParticleCount,
		FlowSpeed:     cfg.Simulation.FlowSpeed,
		CurlInfluence: cfg.Simulation.CurlInfluence,
		NoiseScale:    cfg.Simulation.NoiseScale,
		TimeStep:      cfg.Simulation.TimeStep,
		Damping:       cfg.Simulation.Damping,
		LifeDecay:     cfg.Simulation.LifeDecay,
		ParticleSize:  cfg.Simulation.ParticleSize,
		Bound:         1.2,
		Palette:       pal,
		Seed:          cfg.Simulation.Seed,
	})
	if err != nil {
		return nil, err
	}

	signal := analysis.NewSignalProcessor(analysis.SignalConfig{
		LerpFactor:          cfg.Analysis.LerpFactor,
		TransientLerpFactor: cfg.Analysis.TransientLerpFactor,
		TransientThreshold:  cfg.Analysis.TransientThreshold,
		TransientGain:       cfg.Analysis.TransientGain,
		TransientDecay:      cfg.Analysis.TransientDecay,
		NoiseFloor:          cfg.Analysis.NoiseFloor,
	})

	interval := time.Second / time.Duration(cfg.Transport.TickRate)
	applog.Infof("Engine: Initialized (%d particles, palette %s, tick %s)",
		simulator.ParticleCount(), pal, interval)

	return &Engine{
		cfg:         cfg,
		src:         src,
		signal:      signal,
		simulator:   simulator,
		encoder:     transport.NewFrameEncoder(sim.RenderStride),
		transports:  transports,
		interval:    interval,
		magBuffer:   make([]float64, src.GetFFTSize()/2+1),
		frameBuffer: make([]float32, simulator.FrameSize()),
	}, nil
}

// Start launches the tick goroutine. Safe to call multiple times; subsequent
// calls are no-ops while running.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.ticker != nil {
		e.mu.Unlock()
		applog.Warnf("Engine: Start called but already running.")
		return nil
	}

	if err := e.src.Start(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("failed to start audio source: %w", err)
	}

	e.ticker = time.NewTicker(e.interval)
	e.doneChan = make(chan struct{})
	e.stopOnce = sync.Once{}

	// Capture locals so the goroutine never races Start/Stop on the fields.
	ticker := e.ticker
	doneChan := e.doneChan

	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		applog.Infof("Engine: Tick loop started (interval %s)", e.interval)
		for {
			select {
			case <-ticker.C:
				e.tick()
			case <-doneChan:
				applog.Infof("Engine: Tick loop received stop signal.")
				return
			}
		}
	}()
	return nil
}

// tick runs one full analysis + simulation + publish cycle.
func (e *Engine) tick() {
	// --- 1. Acquire Spectrum ---
	if advancer, ok := e.src.(source.TickAdvancer); ok {
		advancer.Advance()
	}
	playing := e.src.Active()
	if err := e.src.GetMagnitudesInto(e.magBuffer); err != nil {
		applog.Errorf("Engine: Error reading spectrum: %v", err)
		playing = false
	}

	// --- 2. Derive Control Signals ---
	sig := e.signal.Process(e.magBuffer, e.src.GetSampleRate(), playing)

	// --- 3. Advance Particles ---
	e.simulator.Step(sig)

	// --- 4. Publish Frame ---
	if err := e.simulator.FrameInto(e.frameBuffer); err != nil {
		applog.Errorf("Engine: Error snapshotting frame: %v", err)
		return
	}
	packet, err := e.encoder.Encode(e.frameBuffer)
	if err != nil {
		applog.Errorf("Engine: Error encoding frame: %v", err)
		return
	}
	for _, t := range e.transports {
		if err := t.Send(packet); err != nil {
			applog.Debugf("Engine: Transport send failed: %v", err)
		}
	}
}

// Stop gracefully terminates the tick goroutine and waits for it to exit.
// Safe to call multiple times.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.ticker == nil {
		e.mu.Unlock()
		applog.Debugf("Engine: Stop called but not running.")
		return nil
	}

	e.stopOnce.Do(func() {
		applog.Infof("Engine: Initiating stop sequence...")
		close(e.doneChan)
		e.ticker.Stop()
		e.ticker = nil
	})
	e.mu.Unlock()

	e.wg.Wait()
	applog.Infof("Engine: Tick loop finished.")
	return nil
}

// Close stops the engine and closes the source and all transports.
func (e *Engine) Close() error {
	if err := e.Stop(); err != nil {
		return err
	}

	var firstErr error
	if err := e.src.Close(); err != nil {
		firstErr = err
	}
	for _, t := range e.transports {
		if err := t.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Signal returns the most recent smoothed control signals.
func (e *Engine) Signal() analysis.SmoothedSignal {
	return e.signal.Signal()
}

// Simulator exposes the particle simulation, primarily for inspection.
func (e *Engine) Simulator() *sim.Simulator {
	return e.simulator
}
