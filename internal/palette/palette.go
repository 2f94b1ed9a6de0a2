// SPDX-License-Identifier: MIT

// Package palette maps particle state and audio signals to render colors.
// Mapping is a pure function; the simulation owns all mutable state.
package palette

import (
	"fmt"
	"math"
	"strings"

	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/analysis"
)

// Palette is the closed set of color schemes. Keeping it an enum (rather
// than string-keyed branching) lets the mapper switch exhaustively.
type Palette uint8

const (
	Aurora Palette = iota
	Fire
	Ocean
	Rainbow
)

// String returns the scheme name as used in configuration.
func (p Palette) String() string {
	switch p {
	case Aurora:
		return "aurora"
	case Fire:
		return "fire"
	case Ocean:
		return "ocean"
	case Rainbow:
		return "rainbow"
	default:
		return "unknown"
	}
}

// Names lists all selectable scheme names.
func Names() []string {
	return []string{Aurora.String(), Fire.String(), Ocean.String(), Rainbow.String()}
}

// Parse converts a scheme name (case-insensitive) to a Palette.
// Returns Aurora and an error if the name is unknown.
func Parse(name string) (Palette, error) {
	switch strings.ToLower(name) {
	case "aurora":
		return Aurora, nil
	case "fire":
		return Fire, nil
	case "ocean":
		return Ocean, nil
	case "rainbow":
		return Rainbow, nil
	default:
		return Aurora, fmt.Errorf("unknown palette name: '%s'", name)
	}
}

// RGBA is a color with all components in [0,1].
type RGBA struct {
	R, G, B, A float64
}

// Baseline saturation/lightness at level 0, shared by every scheme so silence
// reads as a dim but visible field.
const (
	baseSaturation = 0.55
	baseLightness  = 0.30
)

// Map converts one particle's hue/speed/life plus the current audio signal
// into an RGBA color. hue is in degrees (any range; wrapped to [0,360)),
// speed is the particle's velocity magnitude, life is in (0,1].
//
// Every scheme raises saturation and lightness with the overall level, so
// louder audio reads as more vivid. Alpha follows the life envelope (fade in
// over the first 20% of life, fade out over the last 20%) boosted slightly
// by level and transient.
func Map(p Palette, hue, speed, life float64, sig analysis.SmoothedSignal) RGBA {
	var h float64
	s := baseSaturation + 0.35*sig.Level
	l := baseLightness + 0.30*sig.Level + clamp01(speed)*0.15

	switch p {
	case Aurora:
		// Greens through violets, drifting with the mid band.
		h = 110 + math.Mod(hue, 180)*0.8 + sig.Mid*40
	case Fire:
		// Reds into yellows; treble pushes toward white heat.
		h = math.Mod(hue, 60) * 0.9
		s = baseSaturation + 0.35*sig.Level - 0.15*sig.Treble
		l += 0.10 * sig.Transient
	case Ocean:
		// Cyans and deep blues, bass pulls toward indigo.
		h = 175 + math.Mod(hue, 90)*0.7 + sig.Bass*25
	case Rainbow:
		h = hue
	}

	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	alpha := lifeEnvelope(life) * (0.75 + 0.15*sig.Level + 0.10*sig.Transient)

	r, g, b := hslToRGB(h, clamp01(s), clamp01(l))
	return RGBA{R: r, G: g, B: b, A: clamp01(alpha)}
}

// lifeEnvelope ramps alpha up over the first 20% of life and down over the
// last 20%. life counts down from 1 to 0.
func lifeEnvelope(life float64) float64 {
	life = clamp01(life)
	switch {
	case life > 0.8:
		return (1 - life) / 0.2
	case life < 0.2:
		return life / 0.2
	default:
		return 1
	}
}

// hslToRGB converts hue [0,360), saturation [0,1], lightness [0,1] to RGB.
func hslToRGB(h, s, l float64) (r, g, b float64) {
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	m := l - c/2
	return clamp01(r + m), clamp01(g + m), clamp01(b + m)
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
