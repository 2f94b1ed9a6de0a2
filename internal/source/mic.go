// SPDX-License-Identifier: MIT
package source

import (
	"fmt"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"

	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/analysis"
	applog "github.com/TGALLOWAY1/ParticleFlowAnimation/internal/log"
)

// MicSource captures live audio from a PortAudio input device and runs it
// through a SpectrumProcessor. The capture callback is the hot path: it uses
// only pre-allocated buffers and a branchless noise gate that skips FFT work
// on silent buffers.
type MicSource struct {
	*analysis.SpectrumProcessor

	device       *portaudio.DeviceInfo
	stream       *portaudio.Stream
	inputBuffer  []int32
	gateThresh   int32 // Absolute amplitude threshold; buffers under it skip the FFT.
	started      atomic.Bool
	sampleRate   float64
	framesPerBuf int
}

var _ SpectrumSource = (*MicSource)(nil)

// NewMicSource creates a microphone source. PortAudio must be initialized
// first (see Initialize). deviceID -1 selects the default input device;
// gateThreshold is a peak amplitude in [0,1].
func NewMicSource(deviceID int, sampleRate float64, fftSize int, windowType analysis.WindowFunc, gateThreshold float64) (*MicSource, error) {
	device, err := InputDevice(deviceID)
	if err != nil {
		return nil, err
	}

	proc, err := analysis.NewSpectrumProcessor(fftSize, sampleRate, windowType)
	if err != nil {
		return nil, err
	}

	if gateThreshold < 0 {
		gateThreshold = 0
	}
	if gateThreshold > 1 {
		gateThreshold = 1
	}

	applog.Infof("Source: Using input device '%s' (%.0f Hz, %d-point FFT)", device.Name, sampleRate, fftSize)

	return &MicSource{
		SpectrumProcessor: proc,
		device:            device,
		inputBuffer:       make([]int32, fftSize),
		gateThresh:        int32(gateThreshold * float64(0x7FFFFFFF)),
		sampleRate:        sampleRate,
		framesPerBuf:      fftSize,
	}, nil
}

// Start opens the input stream and begins capture.
func (m *MicSource) Start() error {
	if m.started.Load() {
		return nil
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: 1, // Mono capture feeds the FFT directly.
			Device:   m.device,
			Latency:  m.device.DefaultHighInputLatency,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: 0,
			Device:   nil,
		},
		FramesPerBuffer: m.framesPerBuf,
		SampleRate:      m.sampleRate,
	}

	stream, err := portaudio.OpenStream(params, m.processInput)
	if err != nil {
		return fmt.Errorf("failed to open input stream: %w", err)
	}
	m.stream = stream

	if err := m.stream.Start(); err != nil {
		m.stream.Close()
		m.stream = nil
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	m.started.Store(true)
	return nil
}

// processInput is the capture callback.
// Performance Critical:
// - Runs on the PortAudio callback thread
// - Uses pre-allocated buffers only
// - No dynamic allocations
func (m *MicSource) processInput(in []int32) {
	copy(m.inputBuffer, in)

	// Branchless peak scan; below the gate the buffer is silence and the
	// FFT result would be noise-floor junk anyway.
	var maxAmplitude int32
	for i := range m.inputBuffer {
		sample := m.inputBuffer[i]
		mask := sample >> 31
		amplitude := (sample ^ mask) - mask
		diff := amplitude - maxAmplitude
		maxAmplitude += (diff & (diff >> 31)) ^ diff
	}
	if maxAmplitude <= m.gateThresh {
		return
	}

	m.Process(m.inputBuffer)
}

// Active reports whether the capture stream is running.
func (m *MicSource) Active() bool {
	return m.started.Load()
}

// Close stops capture and releases the stream.
func (m *MicSource) Close() error {
	m.started.Store(false)
	if m.stream != nil {
		if err := m.stream.Stop(); err != nil {
			return err
		}
		if err := m.stream.Close(); err != nil {
			return err
		}
		m.stream = nil
	}
	return m.SpectrumProcessor.Close()
}
