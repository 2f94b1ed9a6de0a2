// SPDX-License-Identifier: MIT
package analysis

// TransientDetector derives a beat/onset pulse from the rate of rise of the
// overall level. It persists two scalars across ticks: the previous level and
// the current pulse value. A trigger overwrites the pulse (it does not
// accumulate), and decay is applied strictly after any trigger in the same
// tick, so a fresh pulse decays once before it is consumed.
type TransientDetector struct {
	threshold float64 // Minimum level rise per tick that counts as an onset.
	floor     float64 // Overall level below which onsets are ignored.
	gain      float64 // Multiplier applied to the rise on trigger.
	decay     float64 // Per-tick multiplicative decay of the pulse.

	prevLevel float64
	value     float64
}

// NewTransientDetector creates a detector with the given tuning.
func NewTransientDetector(threshold, floor, gain, decay float64) *TransientDetector {
	return &TransientDetector{
		threshold: threshold,
		floor:     floor,
		gain:      gain,
		decay:     decay,
	}
}

// Process advances the detector by one tick with the current overall level
// and returns the pulse value for this tick.
func (d *TransientDetector) Process(level float64) float64 {
	rise := level - d.prevLevel
	if rise < 0 {
		rise = 0
	}
	if rise > d.threshold && level > d.floor {
		d.value = rise * d.gain
		if d.value > 1 {
			d.value = 1
		}
	}

	// Decay after the trigger, never before.
	d.value *= d.decay
	d.prevLevel = level
	return d.value
}

// Value returns the current pulse without advancing the detector.
func (d *TransientDetector) Value() float64 {
	return d.value
}

// Reset clears the persisted level and pulse, per the playback-stop contract.
func (d *TransientDetector) Reset() {
	d.prevLevel = 0
	d.value = 0
}
