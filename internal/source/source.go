// SPDX-License-Identifier: MIT

// Package source provides the audio acquisition layer: implementations that
// capture or decode audio, run it through a SpectrumProcessor, and expose
// the normalized magnitude spectrum to the engine once per tick.
package source

// SpectrumSource supplies one magnitude spectrum per analysis tick. When no
// audio is active the source reports Active() == false and the engine treats
// all bands and levels as zero.
type SpectrumSource interface {
	// GetMagnitudesInto copies the latest normalized spectrum into dest.
	GetMagnitudesInto(dest []float64) error
	// GetSampleRate returns the source sample rate in Hz.
	GetSampleRate() float64
	// GetFFTSize returns the FFT size backing the spectrum.
	GetFFTSize() int
	// Active reports whether audio is currently playing/capturing.
	Active() bool
	// Start begins capture or playback.
	Start() error
	// Close stops the source and releases its resources.
	Close() error
}

// TickAdvancer is implemented by sources that are paced by the engine tick
// rather than by a hardware callback (file playback). The engine calls
// Advance once per tick before reading the spectrum.
type TickAdvancer interface {
	Advance()
}

// Silent is a SpectrumSource with no audio behind it: the spectrum is always
// zero and Active is always false. Used when no device or file is configured
// and as a test double.
type Silent struct {
	fftSize    int
	sampleRate float64
}

// NewSilent creates a silent source with the given spectrum geometry.
func NewSilent(fftSize int, sampleRate float64) *Silent {
	return &Silent{fftSize: fftSize, sampleRate: sampleRate}
}

func (s *Silent) GetMagnitudesInto(dest []float64) error {
	for i := range dest {
		dest[i] = 0
	}
	return nil
}

func (s *Silent) GetSampleRate() float64 { return s.sampleRate }
func (s *Silent) GetFFTSize() int        { return s.fftSize }
func (s *Silent) Active() bool           { return false }
func (s *Silent) Start() error           { return nil }
func (s *Silent) Close() error           { return nil }

var _ SpectrumSource = (*Silent)(nil)
