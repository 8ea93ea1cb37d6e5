// Package noise provides the procedural noise the terrain generator is
// built on: seeded 3D simplex noise and fractal Brownian motion over it.
package noise

import (
	"math"
)

// Simplex implements 3D simplex noise after Perlin and Gustavson, with a
// seeded permutation table so worlds are reproducible.
type Simplex struct {
	perm      [512]uint8
	permMod12 [512]uint8
}

const (
	skew3   = 1.0 / 3.0
	unskew3 = 1.0 / 6.0
)

var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// NewSimplex creates a generator whose permutation table is shuffled
// deterministically from the seed.
func NewSimplex(seed int64) *Simplex {
	s := &Simplex{}

	p := make([]uint8, 256)
	for i := range p {
		p[i] = uint8(i)
	}

	// Fisher-Yates with a Lehmer LCG keyed on the seed.
	state := seed
	if state <= 0 {
		state = -state + 1
	}
	for i := 255; i > 0; i-- {
		state = (state * 16807) % 2147483647
		j := int(state) % (i + 1)
		p[i], p[j] = p[j], p[i]
	}

	for i := 0; i < 512; i++ {
		s.perm[i] = p[i&255]
		s.permMod12[i] = s.perm[i] % 12
	}
	return s
}

// Noise3 samples 3D simplex noise. The result lies in [-1, 1].
func (s *Simplex) Noise3(xin, yin, zin float64) float64 {
	var n0, n1, n2, n3 float64

	// Skew into simplex cell space.
	t := (xin + yin + zin) * skew3
	i := int(math.Floor(xin + t))
	j := int(math.Floor(yin + t))
	k := int(math.Floor(zin + t))

	t2 := float64(i+j+k) * unskew3
	x0 := xin - (float64(i) - t2)
	y0 := yin - (float64(j) - t2)
	z0 := zin - (float64(k) - t2)

	// Rank the magnitudes to pick the simplex traversal order.
	var i1, j1, k1, i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1 = 1, 0, 0
			i2, j2, k2 = 1, 1, 0
		case x0 >= z0:
			i1, j1, k1 = 1, 0, 0
			i2, j2, k2 = 1, 0, 1
		default:
			i1, j1, k1 = 0, 0, 1
			i2, j2, k2 = 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1 = 0, 0, 1
			i2, j2, k2 = 0, 1, 1
		case x0 < z0:
			i1, j1, k1 = 0, 1, 0
			i2, j2, k2 = 0, 1, 1
		default:
			i1, j1, k1 = 0, 1, 0
			i2, j2, k2 = 1, 1, 0
		}
	}

	x1 := x0 - float64(i1) + unskew3
	y1 := y0 - float64(j1) + unskew3
	z1 := z0 - float64(k1) + unskew3
	x2 := x0 - float64(i2) + 2.0*unskew3
	y2 := y0 - float64(j2) + 2.0*unskew3
	z2 := z0 - float64(k2) + 2.0*unskew3
	x3 := x0 - 1.0 + 3.0*unskew3
	y3 := y0 - 1.0 + 3.0*unskew3
	z3 := z0 - 1.0 + 3.0*unskew3

	ii := i & 255
	jj := j & 255
	kk := k & 255
	gi0 := int(s.permMod12[ii+int(s.perm[jj+int(s.perm[kk])])])
	gi1 := int(s.permMod12[ii+i1+int(s.perm[jj+j1+int(s.perm[kk+k1])])])
	gi2 := int(s.permMod12[ii+i2+int(s.perm[jj+j2+int(s.perm[kk+k2])])])
	gi3 := int(s.permMod12[ii+1+int(s.perm[jj+1+int(s.perm[kk+1])])])

	if c := 0.6 - x0*x0 - y0*y0 - z0*z0; c > 0 {
		c *= c
		n0 = c * c * dot3(grad3[gi0], x0, y0, z0)
	}
	if c := 0.6 - x1*x1 - y1*y1 - z1*z1; c > 0 {
		c *= c
		n1 = c * c * dot3(grad3[gi1], x1, y1, z1)
	}
	if c := 0.6 - x2*x2 - y2*y2 - z2*z2; c > 0 {
		c *= c
		n2 = c * c * dot3(grad3[gi2], x2, y2, z2)
	}
	if c := 0.6 - x3*x3 - y3*y3 - z3*z3; c > 0 {
		c *= c
		n3 = c * c * dot3(grad3[gi3], x3, y3, z3)
	}

	return 32.0 * (n0 + n1 + n2 + n3)
}

func dot3(g [3]float64, x, y, z float64) float64 {
	return g[0]*x + g[1]*y + g[2]*z
}
