// SPDX-License-Identifier: MIT

// Package noise implements a seeded 3-D gradient noise field and its curl,
// used as the divergence-free velocity generator for particle motion. The
// field is a pure function of (x, y, t); there is no per-sample state and
// no cache, so evaluation is safe from any number of goroutines.
package noise

import (
	"math"
	"math/rand"
)

// Eps is the finite-difference step used by Curl. It is small relative to
// the field's unit-cell spatial frequency so the difference quotient
// approximates the true derivative without aliasing.
const Eps = 0.1

// Field is a classic permutation-table gradient noise ("improved Perlin")
// over three dimensions, with time as the third axis.
type Field struct {
	perm [512]uint8
}

// New creates a field with a permutation table shuffled by seed. The same
// seed always produces the same field.
func New(seed int64) *Field {
	f := &Field{}
	p := make([]uint8, 256)
	for i := range p {
		p[i] = uint8(i)
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(256, func(i, j int) {
		p[i], p[j] = p[j], p[i]
	})
	// Doubled table avoids index wrapping in the lookup chain.
	for i := 0; i < 256; i++ {
		f.perm[i] = p[i]
		f.perm[i+256] = p[i]
	}
	return f
}

// Eval returns the noise value at (x, y, t), in approximately [-1, 1].
// The function is C2-smooth (quintic fade) and continuous across unit-cell
// boundaries.
func (f *Field) Eval(x, y, t float64) float64 {
	xi := int(math.Floor(x)) & 255
	yi := int(math.Floor(y)) & 255
	ti := int(math.Floor(t)) & 255

	xf := x - math.Floor(x)
	yf := y - math.Floor(y)
	tf := t - math.Floor(t)

	u := fade(xf)
	v := fade(yf)
	w := fade(tf)

	aaa := f.perm[int(f.perm[int(f.perm[xi])+yi])+ti]
	aba := f.perm[int(f.perm[int(f.perm[xi])+yi+1])+ti]
	aab := f.perm[int(f.perm[int(f.perm[xi])+yi])+ti+1]
	abb := f.perm[int(f.perm[int(f.perm[xi])+yi+1])+ti+1]
	baa := f.perm[int(f.perm[int(f.perm[xi+1])+yi])+ti]
	bba := f.perm[int(f.perm[int(f.perm[xi+1])+yi+1])+ti]
	bab := f.perm[int(f.perm[int(f.perm[xi+1])+yi])+ti+1]
	bbb := f.perm[int(f.perm[int(f.perm[xi+1])+yi+1])+ti+1]

	x1 := lerp(grad(aaa, xf, yf, tf), grad(baa, xf-1, yf, tf), u)
	x2 := lerp(grad(aba, xf, yf-1, tf), grad(bba, xf-1, yf-1, tf), u)
	y1 := lerp(x1, x2, v)

	x1 = lerp(grad(aab, xf, yf, tf-1), grad(bab, xf-1, yf, tf-1), u)
	x2 = lerp(grad(abb, xf, yf-1, tf-1), grad(bbb, xf-1, yf-1, tf-1), u)
	y2 := lerp(x1, x2, v)

	// Raw 3-D gradient noise spans about +-0.87; rescale toward [-1,1].
	n := lerp(y1, y2, w) * 1.1547
	if n > 1 {
		n = 1
	}
	if n < -1 {
		n = -1
	}
	return n
}

// Curl returns the divergence-free velocity at (x, y, t), derived from the
// scalar field by finite differencing:
//
//	vx =  (N(x, y+e, t) - N(x, y, t)) / e
//	vy = -(N(x+e, y, t) - N(x, y, t)) / e
//
// Rotating the forward-difference gradient by 90 degrees guarantees zero
// discrete divergence, so the flow swirls instead of clumping at sinks.
func (f *Field) Curl(x, y, t float64) (vx, vy float64) {
	n0 := f.Eval(x, y, t)
	vx = (f.Eval(x, y+Eps, t) - n0) / Eps
	vy = -(f.Eval(x+Eps, y, t) - n0) / Eps
	return vx, vy
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// grad projects the cell offset onto one of twelve edge-gradient directions.
func grad(hash uint8, x, y, z float64) float64 {
	switch hash & 15 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x + z
	case 5:
		return -x + z
	case 6:
		return x - z
	case 7:
		return -x - z
	case 8:
		return y + z
	case 9:
		return -y + z
	case 10:
		return y - z
	case 11:
		return -y - z
	case 12:
		return y + x
	case 13:
		return -y + z
	case 14:
		return y - x
	default:
		return -y - z
	}
}
