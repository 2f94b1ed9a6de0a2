// SPDX-License-Identifier: MIT
package palette

import (
	"math"
	"testing"

	"github.com/TGALLOWAY1/ParticleFlowAnimation/internal/analysis"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Palette
		wantErr bool
	}{
		{"aurora", Aurora, false},
		{"FIRE", Fire, false},
		{"Ocean", Ocean, false},
		{"rainbow", Rainbow, false},
		{"neon", Aurora, true},
		{"", Aurora, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParse_RoundTripsNames(t *testing.T) {
	for _, name := range Names() {
		p, err := Parse(name)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", name, err)
		}
		if p.String() != name {
			t.Errorf("Parse(%q).String() = %q", name, p.String())
		}
	}
}

func TestMap_ComponentsInRange(t *testing.T) {
	palettes := []Palette{Aurora, Fire, Ocean, Rainbow}
	signals := []analysis.SmoothedSignal{
		{},
		{Level: 1, Bass: 1, Mid: 1, Treble: 1, Transient: 1},
		{Level: 0.5, Bass: 0.2, Mid: 0.9, Treble: 0.1, Transient: 0.7},
	}

	for _, p := range palettes {
		for _, sig := range signals {
			for hue := -720.0; hue <= 720; hue += 37.5 {
				for _, life := range []float64{0.01, 0.1, 0.5, 0.9, 1.0} {
					for _, speed := range []float64{0, 0.3, 2.5} {
						c := Map(p, hue, speed, life, sig)
						for _, v := range []float64{c.R, c.G, c.B, c.A} {
							if v < 0 || v > 1 || math.IsNaN(v) {
								t.Fatalf("%v hue=%f life=%f: component %f out of [0,1]", p, hue, life, v)
							}
						}
					}
				}
			}
		}
	}
}

// rgbToHSL recovers lightness and saturation for baseline checks.
func rgbToHSL(r, g, b float64) (s, l float64) {
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l = (maxC + minC) / 2
	if maxC == minC {
		return 0, l
	}
	d := maxC - minC
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}
	return s, l
}

func TestMap_SilenceBaseline(t *testing.T) {
	// At level 0, speed 0, mid-life, every scheme sits at the documented
	// minimum saturation/lightness baseline.
	for _, p := range []Palette{Aurora, Ocean, Rainbow} {
		c := Map(p, 42, 0, 0.5, analysis.SmoothedSignal{})
		s, l := rgbToHSL(c.R, c.G, c.B)
		if math.Abs(l-baseLightness) > 1e-6 {
			t.Errorf("%v: lightness at silence = %f, want %f", p, l, baseLightness)
		}
		if math.Abs(s-baseSaturation) > 1e-6 {
			t.Errorf("%v: saturation at silence = %f, want %f", p, s, baseSaturation)
		}
	}
}

func TestMap_LevelBrightens(t *testing.T) {
	quiet := Map(Rainbow, 200, 0, 0.5, analysis.SmoothedSignal{})
	loud := Map(Rainbow, 200, 0, 0.5, analysis.SmoothedSignal{Level: 1})

	_, lq := rgbToHSL(quiet.R, quiet.G, quiet.B)
	_, ll := rgbToHSL(loud.R, loud.G, loud.B)
	if ll <= lq {
		t.Errorf("loud lightness %f should exceed quiet %f", ll, lq)
	}
	if loud.A <= quiet.A {
		t.Errorf("loud alpha %f should exceed quiet %f", loud.A, quiet.A)
	}
}

func TestLifeEnvelope(t *testing.T) {
	tests := []struct {
		desc string
		life float64
		want float64
	}{
		{"fresh spawn is transparent", 1.0, 0},
		{"fading in", 0.9, 0.5},
		{"fully faded in", 0.8, 1},
		{"mid life", 0.5, 1},
		{"fading out", 0.1, 0.5},
		{"dead is transparent", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := lifeEnvelope(tt.life); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("lifeEnvelope(%f) = %f, want %f", tt.life, got, tt.want)
			}
		})
	}
}
