// Package utils holds shared helpers for tests: a capturing transport and
// synthetic signal generators.
package utils

import "math"

// MockTransport implements the transport.Transport interface for testing.
// It records every frame passed to Send instead of transmitting.
type MockTransport struct {
	Frames    [][]byte
	LastFrame []byte
}

// Send stores a copy of the frame for later inspection.
func (m *MockTransport) Send(data []byte) error {
	frame := make([]byte, len(data))
	copy(frame, data)
	m.Frames = append(m.Frames, frame)
	m.LastFrame = frame
	return nil
}

// Close is a no-op.
func (m *MockTransport) Close() error {
	return nil
}

// GenerateSineWave fills a buffer with a single sine at the given frequency,
// scaled to 90% of int32 full scale.
func GenerateSineWave(size int, sampleRate, frequency float64) []int32 {
	buffer := make([]int32, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = int32(math.Sin(2*math.Pi*frequency*t) * math.MaxInt32 * 0.9)
	}
	return buffer
}

// GenerateComplexWave fills a buffer with a 440Hz fundamental plus harmonics.
func GenerateComplexWave(size int, sampleRate float64) []int32 {
	buffer := make([]int32, size)
	for i := range buffer {
		tm := float64(i) / sampleRate
		signal := math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2
		buffer[i] = int32(signal * math.MaxInt32 * 0.9)
	}
	return buffer
}

// FindPeakBin returns the index of the largest magnitude in [startBin, endBin].
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}
	if startBin < 0 {
		startBin = 0
	}
	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]
	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}
	return peakBin
}
