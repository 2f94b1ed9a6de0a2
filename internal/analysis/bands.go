// SPDX-License-Identifier: MIT
package analysis

// BandEnergies holds the per-band normalized energies for one analysis tick,
// plus the weighted overall level. All fields are in [0,1]. Values are
// recomputed fully from scratch every tick; there is no incremental state.
type BandEnergies struct {
	Bass    float64 // 20-250 Hz
	LowMid  float64 // 250-500 Hz
	Mid     float64 // 500-2000 Hz
	HighMid float64 // 2000-4000 Hz
	Treble  float64 // 4000 Hz - Nyquist
	Overall float64 // Weighted sum of the five bands.
}

// frequencyBand defines the Hz range and overall-level weight of one band.
type frequencyBand struct {
	name   string
	lowHz  float64
	highHz float64
	weight float64
}

// Band weights sum to 1 so Overall stays in [0,1].
var defaultBands = [5]frequencyBand{
	{name: "bass", lowHz: 20, highHz: 250, weight: 0.30},
	{name: "lowMid", lowHz: 250, highHz: 500, weight: 0.20},
	{name: "mid", lowHz: 500, highHz: 2000, weight: 0.25},
	{name: "highMid", lowHz: 2000, highHz: 4000, weight: 0.15},
	{name: "treble", lowHz: 4000, highHz: 0, weight: 0.10}, // highHz 0 means Nyquist.
}

// BandAnalyzer partitions a magnitude spectrum into five fixed Hz bands and
// computes per-band mean energy. The bin ranges are derived from the sample
// rate on every call, so one analyzer serves sources with different rates.
type BandAnalyzer struct {
	bands [5]frequencyBand
}

// NewBandAnalyzer creates an analyzer with the default five-band split.
func NewBandAnalyzer() *BandAnalyzer {
	return &BandAnalyzer{bands: defaultBands}
}

// Analyze computes the band energies for one spectrum. Magnitudes are assumed
// normalized to [0,1]; outputs are clamped there regardless. sampleRate maps
// Hz boundaries to bin indices; the magnitude slice is taken to span DC to
// Nyquist (fftSize/2 + 1 bins).
func (a *BandAnalyzer) Analyze(magnitudes []float64, sampleRate float64) BandEnergies {
	n := len(magnitudes)
	if n == 0 || sampleRate <= 0 {
		return BandEnergies{}
	}

	nyquist := sampleRate / 2
	// binHz guards the denominator: a 1-bin spectrum still maps cleanly.
	binHz := nyquist / float64(max(n-1, 1))

	var out BandEnergies
	energies := [5]float64{}
	for i, band := range a.bands {
		highHz := band.highHz
		if highHz <= 0 || highHz > nyquist {
			highHz = nyquist
		}
		lo := int(band.lowHz / binHz)
		hi := int(highHz / binHz)
		if lo >= n {
			lo = n - 1
		}
		if lo < 0 {
			lo = 0
		}
		// A degenerate range is widened to at least one bin rather than
		// reported as an error.
		if hi <= lo {
			hi = lo + 1
		}
		if hi > n {
			hi = n
		}

		var sum float64
		for b := lo; b < hi; b++ {
			sum += magnitudes[b]
		}
		energies[i] = clamp01(sum / float64(hi-lo))
		out.Overall += energies[i] * band.weight
	}

	out.Bass = energies[0]
	out.LowMid = energies[1]
	out.Mid = energies[2]
	out.HighMid = energies[3]
	out.Treble = energies[4]
	out.Overall = clamp01(out.Overall)
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
