// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math/cmplx"
	"strings"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	applog "github.com/TGALLOWAY1/ParticleFlowAnimation/internal/log"
	"github.com/TGALLOWAY1/ParticleFlowAnimation/pkg/bitint"
)

// WindowFunc defines the type for selecting an FFT window function.
type WindowFunc int

// Enum for available window functions.
const (
	BartlettHann WindowFunc = iota
	Blackman
	BlackmanNuttall
	Hann
	Hamming
	Lanczos
	Nuttall
)

// Pre-allocated buffers for FFT calculations.
type spectrumWorkspace struct {
	input     []float64    // Buffer for windowed input signal.
	fftOutput []complex128 // Buffer for FFT complex results.
	magnitude []float64    // Buffer for normalized magnitudes.
	window    []float64    // Pre-calculated window coefficients.
	mu        sync.RWMutex // Protects concurrent access to the magnitude buffer.
}

// SpectrumProcessor performs FFT analysis on raw capture buffers and exposes
// the result as a magnitude spectrum normalized to [0,1]. It implements
// AudioProcessor on the write side and SpectrumProvider on the read side, so
// the capture callback and the engine tick can run on independent schedules.
type SpectrumProcessor struct {
	fftCalculator *fourier.FFT // Reusable FFT calculator instance.
	fftSize       int          // Number of points for the FFT (power of 2).
	sampleRate    float64      // Sample rate of the input audio (Hz).
	normFactor    float64      // Scales raw bin magnitudes into [0,1].
	workspace     spectrumWorkspace
}

// Compile-time checks for interface implementations.
var _ AudioProcessor = (*SpectrumProcessor)(nil)
var _ SpectrumProvider = (*SpectrumProcessor)(nil)
var _ ClosableProcessor = (*SpectrumProcessor)(nil)

// NewSpectrumProcessor creates a processor for the given FFT size, sample
// rate, and window function. The FFT size must be a power of 2.
func NewSpectrumProcessor(fftSize int, sampleRate float64, windowType WindowFunc) (*SpectrumProcessor, error) {
	if !bitint.IsPowerOfTwo(fftSize) {
		return nil, fmt.Errorf("fft size must be a power of 2, got %d", fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %f", sampleRate)
	}

	fftCalculator := fourier.NewFFT(fftSize)
	windowCoeffs := make([]float64, fftSize)
	applyWindow(windowCoeffs, windowType)

	// FFT output size for real input is N/2 + 1 complex values.
	magnitudeSize := fftSize/2 + 1

	applog.Infof("Analysis: Initializing SpectrumProcessor (Size: %d, SampleRate: %.1f Hz, Window: %v)", fftSize, sampleRate, windowType)

	return &SpectrumProcessor{
		fftCalculator: fftCalculator,
		fftSize:       fftSize,
		sampleRate:    sampleRate,
		// A full-scale sine under a Hann window peaks near N/4 in its bin, so
		// 4/N brings magnitudes into [0,1] territory before the final clamp.
		normFactor: 4.0 / float64(fftSize),
		workspace: spectrumWorkspace{
			input:     make([]float64, fftSize),
			fftOutput: make([]complex128, magnitudeSize),
			magnitude: make([]float64, magnitudeSize),
			window:    windowCoeffs,
			// mu is zero-value ready.
		},
	}, nil
}

// Process applies windowing, performs the FFT, and stores normalized
// magnitudes. This is the core real-time processing method; it performs no
// allocations.
func (p *SpectrumProcessor) Process(inputBuffer []int32) {
	p.workspace.mu.Lock()

	// Apply window and scale input. Zero-pad if input is shorter than fftSize.
	const sampleNorm = 1.0 / float64(0x80000000) // int32 to [-1.0, 1.0).
	inputLen := len(inputBuffer)
	for i := 0; i < p.fftSize; i++ {
		if i < inputLen {
			p.workspace.input[i] = float64(inputBuffer[i]) * sampleNorm * p.workspace.window[i]
		} else {
			p.workspace.input[i] = 0 // Zero-padding.
		}
	}

	p.fftCalculator.Coefficients(p.workspace.fftOutput, p.workspace.input)

	for i, c := range p.workspace.fftOutput {
		m := cmplx.Abs(c) * p.normFactor
		if m > 1 {
			m = 1
		}
		p.workspace.magnitude[i] = m
	}

	p.workspace.mu.Unlock()
}

// GetMagnitudes returns a thread-safe copy of the latest normalized spectrum.
// NOTE: allocates a new slice on each call; hot-path readers should use
// GetMagnitudesInto.
func (p *SpectrumProcessor) GetMagnitudes() []float64 {
	p.workspace.mu.RLock()
	defer p.workspace.mu.RUnlock()

	magCopy := make([]float64, len(p.workspace.magnitude))
	copy(magCopy, p.workspace.magnitude)
	return magCopy
}

// GetMagnitudesInto copies the latest normalized spectrum into dest without
// allocating. dest must have length fftSize/2 + 1.
func (p *SpectrumProcessor) GetMagnitudesInto(dest []float64) error {
	p.workspace.mu.RLock()
	defer p.workspace.mu.RUnlock()

	if len(dest) != len(p.workspace.magnitude) {
		return fmt.Errorf("destination slice length %d does not match required length %d", len(dest), len(p.workspace.magnitude))
	}

	copy(dest, p.workspace.magnitude)
	return nil
}

// GetFrequencyForBin returns the center frequency (Hz) for a given FFT bin index.
func (p *SpectrumProcessor) GetFrequencyForBin(binIndex int) float64 {
	if binIndex < 0 || binIndex >= len(p.workspace.fftOutput) {
		return 0.0
	}
	return float64(binIndex) * (p.sampleRate / float64(p.fftSize))
}

// GetFFTSize returns the configured FFT size (number of points).
func (p *SpectrumProcessor) GetFFTSize() int {
	return p.fftSize // Immutable after creation, no lock needed.
}

// GetSampleRate returns the configured sample rate (Hz).
func (p *SpectrumProcessor) GetSampleRate() float64 {
	return p.sampleRate // Immutable after creation, no lock needed.
}

// Close handles any necessary cleanup for the SpectrumProcessor.
// Currently this processor doesn't hold resources requiring explicit closing.
func (p *SpectrumProcessor) Close() error {
	applog.Debugf("Analysis: Closing SpectrumProcessor (no specific resources to release)")
	return nil
}

// ParseWindowFunc converts a string name (case-insensitive) to a WindowFunc
// enum, returns a known default (Hann) and an error if the name is unknown.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(name) {
	case "bartletthann":
		return BartlettHann, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	default:
		return Hann, fmt.Errorf("unknown FFT window function name: '%s'", name)
	}
}

// applyWindow fills coeffs with the selected window's coefficients.
// Falls back to Hann if the type is unknown.
func applyWindow(coeffs []float64, windowType WindowFunc) {
	// Window funcs multiply in place, so seed with 1.0 first.
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	switch windowType {
	case BartlettHann:
		window.BartlettHann(coeffs)
	case Blackman:
		window.Blackman(coeffs)
	case BlackmanNuttall:
		window.BlackmanNuttall(coeffs)
	case Hann:
		window.Hann(coeffs)
	case Hamming:
		window.Hamming(coeffs)
	case Lanczos:
		window.Lanczos(coeffs)
	case Nuttall:
		window.Nuttall(coeffs)
	default:
		applog.Warnf("Analysis: Unknown window function type %d, defaulting to Hann", windowType)
		window.Hann(coeffs)
	}
}
