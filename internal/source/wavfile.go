// SPDX-License-Identifier: MIT
package source

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/analysis"
	applog "github.com/TGALLOWAY1/ParticleFlowAnimation/internal/log"
)

// WavSource plays a WAV file through the analysis pipeline. Playback is
// paced by the engine tick: each Advance call consumes one hop of samples
// (sampleRate/tickRate frames) into a sliding FFT window, so file time moves
// at real-time speed regardless of the FFT size. At end of file the source
// goes inactive, which makes the engine reset the analysis state.
type WavSource struct {
	*analysis.SpectrumProcessor

	file    *os.File
	decoder *wav.Decoder

	window   []int32          // Sliding FFT window of mono samples.
	hop      int              // Frames consumed per tick.
	readBuf  *audio.IntBuffer // Reusable decode buffer (hop frames x channels).
	channels int
	shift    uint // Left shift to bring decoded samples to int32 full scale.

	playing atomic.Bool
}

var _ SpectrumSource = (*WavSource)(nil)
var _ TickAdvancer = (*WavSource)(nil)

// NewWavSource opens a WAV file for tick-paced playback analysis.
func NewWavSource(path string, fftSize int, windowType analysis.WindowFunc, tickRate int) (*WavSource, error) {
	if tickRate <= 0 {
		return nil, fmt.Errorf("tick rate must be positive, got %d", tickRate)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wav file: %w", err)
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		file.Close()
		return nil, fmt.Errorf("'%s' is not a valid wav file", path)
	}

	sampleRate := float64(decoder.SampleRate)
	proc, err := analysis.NewSpectrumProcessor(fftSize, sampleRate, windowType)
	if err != nil {
		file.Close()
		return nil, err
	}

	channels := int(decoder.NumChans)
	if channels < 1 {
		channels = 1
	}
	hop := int(sampleRate) / tickRate
	if hop < 1 {
		hop = 1
	}
	bitDepth := uint(decoder.BitDepth)
	if bitDepth == 0 || bitDepth > 32 {
		bitDepth = 16
	}

	applog.Infof("Source: Playing '%s' (%.0f Hz, %d ch, %d-bit, hop %d)", path, sampleRate, channels, decoder.BitDepth, hop)

	return &WavSource{
		SpectrumProcessor: proc,
		file:              file,
		decoder:           decoder,
		window:            make([]int32, fftSize),
		hop:               hop,
		readBuf: &audio.IntBuffer{
			Format: &audio.Format{NumChannels: channels, SampleRate: int(sampleRate)},
			Data:   make([]int, hop*channels),
		},
		channels: channels,
		shift:    32 - bitDepth,
	}, nil
}

// Start begins playback from the current file position.
func (w *WavSource) Start() error {
	w.playing.Store(true)
	return nil
}

// Advance consumes one hop of samples into the sliding window and reruns the
// FFT. Called by the engine once per tick.
func (w *WavSource) Advance() {
	if !w.playing.Load() {
		return
	}

	n, err := w.decoder.PCMBuffer(w.readBuf)
	if err != nil || n == 0 {
		// End of file (or decode failure): playback stops and the engine
		// zeroes the control signals on its next tick.
		applog.Infof("Source: Playback finished")
		w.playing.Store(false)
		return
	}

	frames := n / w.channels
	// Slide the window left by one hop and append the new mono frames.
	copy(w.window, w.window[min(w.hop, len(w.window)):])
	base := len(w.window) - w.hop
	if base < 0 {
		base = 0
	}
	for i := 0; i < w.hop; i++ {
		var sample int32
		if i < frames {
			// First channel only; a dedicated mono mix is not worth the
			// extra pass for analysis purposes.
			sample = int32(w.readBuf.Data[i*w.channels]) << w.shift
		}
		if base+i < len(w.window) {
			w.window[base+i] = sample
		}
	}

	w.Process(w.window)
}

// Active reports whether the file is still playing.
func (w *WavSource) Active() bool {
	return w.playing.Load()
}

// Close stops playback and closes the file.
func (w *WavSource) Close() error {
	w.playing.Store(false)
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return err
		}
		w.file = nil
	}
	return w.SpectrumProcessor.Close()
}
