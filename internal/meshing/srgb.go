package meshing

import "math"

// srgbToLinear is a 256-entry lookup table mapping 8-bit sRGB channel
// values to linear floats. Voxel colors are stored sRGB; the
// marching-cubes interpolator converts both endpoints through this
// table before blending so color gradients don't band.
var srgbToLinear [256]float32

func init() {
	for i := range srgbToLinear {
		n := float64(i) / 255.0
		if n < 0.04045 {
			srgbToLinear[i] = float32(n * 0.0773993808)
		} else {
			srgbToLinear[i] = float32(math.Pow(n*0.9478672986+0.0521327014, 2.4))
		}
	}
}
