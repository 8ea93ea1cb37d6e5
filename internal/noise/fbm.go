package noise

// FBM layers several octaves of simplex noise into fractal Brownian
// motion. The output is normalized back into roughly [-1, 1].
type FBM struct {
	Octaves    int
	Lacunarity float64
	Gain       float64
	Scale      float64
}

// Sample3 evaluates the fractal sum at the given point.
func (f *FBM) Sample3(s *Simplex, x, y, z float64) float64 {
	value := 0.0
	amplitude := 1.0
	frequency := f.Scale
	maxValue := 0.0

	for i := 0; i < f.Octaves; i++ {
		value += amplitude * s.Noise3(x*frequency, y*frequency, z*frequency)
		maxValue += amplitude
		amplitude *= f.Gain
		frequency *= f.Lacunarity
	}

	return value / maxValue
}
