package meshing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSRGBLUTEndpoints(t *testing.T) {
	assert.Equal(t, float32(0), srgbToLinear[0])
	assert.InDelta(t, 1.0, float64(srgbToLinear[255]), 1e-6)
}

func TestSRGBLUTMonotonic(t *testing.T) {
	for i := 1; i < 256; i++ {
		assert.Greater(t, srgbToLinear[i], srgbToLinear[i-1], "LUT not monotonic at %d", i)
	}
}

func TestSRGBLUTBreakpoint(t *testing.T) {
	// Below n = 0.04045 the curve is linear: lut = n / 12.92.
	n := 5.0 / 255.0
	assert.InDelta(t, n/12.92, float64(srgbToLinear[5]), 1e-6)
}
