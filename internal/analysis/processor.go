// SPDX-License-Identifier: MIT
package analysis

// AudioProcessor is the standard interface for components that consume raw
// audio buffers. Implementations should be efficient as this is called from
// within the capture callback hot path.
type AudioProcessor interface {
	// Process analyzes the given audio input buffer.
	Process(inputBuffer []int32)
}

// ClosableProcessor combines AudioProcessor with a Close method for resource cleanup.
type ClosableProcessor interface {
	AudioProcessor
	Close() error // Close releases any resources held by the processor.
}

// SpectrumProvider is an interface for components that can provide normalized
// magnitude spectra. It decouples the analysis pipeline from the concrete FFT
// implementation and from whichever audio source is feeding it.
type SpectrumProvider interface {
	GetMagnitudes() []float64                // GetMagnitudes returns a thread-safe copy of the latest magnitude spectrum.
	GetMagnitudesInto(dest []float64) error  // GetMagnitudesInto copies the spectrum without allocating.
	GetFrequencyForBin(binIndex int) float64 // GetFrequencyForBin returns the center frequency (Hz) for a bin index.
	GetFFTSize() int                         // GetFFTSize returns the FFT size (number of points).
	GetSampleRate() float64                  // GetSampleRate returns the sample rate used for analysis.
}

// SignalConfig holds the tuning constants for the control-signal pipeline.
type SignalConfig struct {
	LerpFactor          float64 // Smoothing for level/bass/mid/treble.
	TransientLerpFactor float64 // Faster smoothing for the transient channel.
	TransientThreshold  float64 // Minimum per-tick level rise that counts as an onset.
	TransientGain       float64 // Multiplier applied to the rise on trigger.
	TransientDecay      float64 // Per-tick decay of the transient pulse.
	NoiseFloor          float64 // Overall level below which onsets are ignored.
}

// DefaultSignalConfig returns the tuning used when no configuration is supplied.
func DefaultSignalConfig() SignalConfig {
	return SignalConfig{
		LerpFactor:          0.15,
		TransientLerpFactor: 0.3,
		TransientThreshold:  0.3,
		TransientGain:       2.0,
		TransientDecay:      0.92,
		NoiseFloor:          0.1,
	}
}

// SignalProcessor converts one magnitude spectrum per tick into the smoothed
// control signals consumed by the particle simulation. It owns all persisted
// analysis state (smoother channels, transient detector scalars); resetting it
// is an explicit operation, not a side effect of a branch.
type SignalProcessor struct {
	analyzer  *BandAnalyzer
	detector  *TransientDetector
	smoother  *SignalSmoother
	lastBands BandEnergies
}

// NewSignalProcessor creates a signal processor with the given tuning.
func NewSignalProcessor(cfg SignalConfig) *SignalProcessor {
	return &SignalProcessor{
		analyzer: NewBandAnalyzer(),
		detector: NewTransientDetector(cfg.TransientThreshold, cfg.NoiseFloor, cfg.TransientGain, cfg.TransientDecay),
		smoother: NewSignalSmoother(cfg.LerpFactor, cfg.TransientLerpFactor),
	}
}

// Process runs one analysis tick: band energies, transient detection, and
// smoothing. When playing is false all state is reset and the zero signal is
// returned, per the stop contract.
func (p *SignalProcessor) Process(magnitudes []float64, sampleRate float64, playing bool) SmoothedSignal {
	if !playing || len(magnitudes) == 0 {
		p.Reset()
		return SmoothedSignal{}
	}

	p.lastBands = p.analyzer.Analyze(magnitudes, sampleRate)
	transient := p.detector.Process(p.lastBands.Overall)

	p.smoother.Update(SmoothedSignal{
		Level:     p.lastBands.Overall,
		Bass:      p.lastBands.Bass,
		Mid:       p.lastBands.Mid,
		Treble:    p.lastBands.Treble,
		Transient: transient,
	})
	return p.smoother.Signal()
}

// Signal returns the most recent smoothed signal without advancing the pipeline.
func (p *SignalProcessor) Signal() SmoothedSignal {
	return p.smoother.Signal()
}

// Bands returns the band energies computed by the last Process call.
func (p *SignalProcessor) Bands() BandEnergies {
	return p.lastBands
}

// Reset zeroes the smoother channels and the transient detector state.
func (p *SignalProcessor) Reset() {
	p.smoother.Reset()
	p.detector.Reset()
	p.lastBands = BandEnergies{}
}
