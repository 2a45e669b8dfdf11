package systems

import (
	"math"
)

// Noise2D returns single-octave gradient noise in roughly [-1, 1].
func (p *Permutation) Noise2D(x, y float64) float64 {
	// Find unit square
	fx := math.Floor(x)
	fy := math.Floor(y)
	X := int(fx) & 255
	Y := int(fy) & 255

	// Find relative position in square
	x -= fx
	y -= fy

	// Compute fade curves
	u := fade(x)
	v := fade(y)

	// Hash square corners
	aa := p.perm[p.perm[X]+Y]
	ab := p.perm[p.perm[X]+Y+1]
	ba := p.perm[p.perm[X+1]+Y]
	bb := p.perm[p.perm[X+1]+Y+1]

	x1 := lerp(grad2D(aa, x, y), grad2D(ba, x-1, y), u)
	x2 := lerp(grad2D(ab, x, y-1), grad2D(bb, x-1, y-1), u)
	return lerp(x1, x2, v)
}

// FBMParams controls fractal summation.
type FBMParams struct {
	Octaves    int
	Lacunarity float64
	Gain       float64
}

// DefaultFBMParams returns 5 octaves, lacunarity 2 and gain 0.5.
func DefaultFBMParams() FBMParams {
	return FBMParams{Octaves: 5, Lacunarity: 2.0, Gain: 0.5}
}

// FBM sums octaves of Noise2D at rising frequency and falling amplitude,
// normalized by the total amplitude. Zero octaves or a zero amplitude sum
// yield 0.
func (p *Permutation) FBM(x, y float64, params FBMParams) float64 {
	amplitude := 1.0
	frequency := 1.0
	total := 0.0
	norm := 0.0
	for o := 0; o < params.Octaves; o++ {
		total += float64(p.Noise2D(x*frequency, y*frequency) * amplitude)
		norm += amplitude
		amplitude *= params.Gain
		frequency *= params.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return total / norm
}

// The explicit float64 conversions below stop the compiler fusing
// multiply-adds, which would change results on FMA architectures.

func fade(t float64) float64 {
	a := float64(t*6) - 15
	b := float64(t*a) + 10
	return t * t * t * b
}

func lerp(a, b, t float64) float64 {
	return a + float64(t*(b-a))
}

// grad2D picks one of four axis/sign combinations from the low two hash bits.
func grad2D(hash int, x, y float64) float64 {
	h := hash & 3
	u, v := x, y
	if h >= 2 {
		u, v = y, x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
