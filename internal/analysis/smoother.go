// SPDX-License-Identifier: MIT
package analysis

// SmoothedSignal is the set of control signals published to the particle
// simulation once per analysis tick. All fields are in [0,1].
type SmoothedSignal struct {
	Level     float64 // Weighted overall energy.
	Bass      float64
	Mid       float64
	Treble    float64
	Transient float64 // Beat pulse, smoothed with its own faster factor.
}

// SignalSmoother applies exponential (lerp) smoothing to each channel so the
// visuals do not jitter with the raw spectrum. The transient channel uses a
// separate, faster factor so beat pulses stay visually sharp.
type SignalSmoother struct {
	factor          float64
	transientFactor float64
	sig             SmoothedSignal
}

// NewSignalSmoother creates a smoother with the given lerp factors.
func NewSignalSmoother(factor, transientFactor float64) *SignalSmoother {
	return &SignalSmoother{
		factor:          factor,
		transientFactor: transientFactor,
	}
}

// Update moves every channel toward the raw values by its lerp factor.
// Outputs are clamped to [0,1] after every update.
func (s *SignalSmoother) Update(raw SmoothedSignal) {
	s.sig.Level = clamp01(lerp(s.sig.Level, raw.Level, s.factor))
	s.sig.Bass = clamp01(lerp(s.sig.Bass, raw.Bass, s.factor))
	s.sig.Mid = clamp01(lerp(s.sig.Mid, raw.Mid, s.factor))
	s.sig.Treble = clamp01(lerp(s.sig.Treble, raw.Treble, s.factor))
	s.sig.Transient = clamp01(lerp(s.sig.Transient, raw.Transient, s.transientFactor))
}

// Signal returns the current smoothed channels.
func (s *SignalSmoother) Signal() SmoothedSignal {
	return s.sig
}

// Reset zeroes all channels. Called when playback stops; the stop contract is
// an explicit state reset, not merely "stop updating".
func (s *SignalSmoother) Reset() {
	s.sig = SmoothedSignal{}
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}
