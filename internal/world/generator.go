package world

import (
	"math"

	"voxelcraft/internal/noise"
	"voxelcraft/internal/profiling"
)

// Terrain shaping constants. The density field is fbm simplex noise
// pushed through a smoothstep window so chunk surfaces come out soft
// instead of binary.
const (
	terrainScale     = 0.0125
	terrainThreshold = 0.05
	terrainWindow    = 0.4

	colorScale      = 0.004
	colorSaturation = 0.8
	colorValue      = 1.0
)

// Generator fills chunks with fbm terrain: a 5-octave simplex density
// field and an HSV color ramp keyed on a second, lower-frequency fbm.
type Generator struct {
	seed    int64
	density *noise.Simplex
	tint    *noise.Simplex

	densityFBM noise.FBM
	tintFBM    noise.FBM
}

// NewGenerator creates a generator for the given seed. The same seed
// always produces the same world.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		seed:    seed,
		density: noise.NewSimplex(seed),
		tint:    noise.NewSimplex(seed + 1),
		densityFBM: noise.FBM{
			Octaves:    5,
			Lacunarity: 2.0,
			Gain:       0.5,
			Scale:      1.0,
		},
		tintFBM: noise.FBM{
			Octaves:    3,
			Lacunarity: 2.0,
			Gain:       0.5,
			Scale:      1.0,
		},
	}
}

// PopulateChunk fills every voxel of the chunk from the noise fields and
// leaves the chunk marked dirty.
func (g *Generator) PopulateChunk(c *Chunk) {
	defer profiling.Track("world.PopulateChunk")()

	baseX := c.Coord.X * ChunkSize
	baseY := c.Coord.Y * ChunkSize
	baseZ := c.Coord.Z * ChunkSize

	// Window centered below the raw threshold so terrain reads as
	// slightly over-filled caves rather than floating shells.
	center := terrainThreshold - 0.2
	lo := center - terrainWindow/2
	hi := center + terrainWindow/2

	for y := 0; y < ChunkSize; y++ {
		wy := float64(baseY + y)
		for z := 0; z < ChunkSize; z++ {
			wz := float64(baseZ + z)
			for x := 0; x < ChunkSize; x++ {
				wx := float64(baseX + x)

				n := g.densityFBM.Sample3(g.density, wx*terrainScale, wy*terrainScale, wz*terrainScale)
				density := uint8(255 * smoothstep(lo, hi, n))
				if density == 0 {
					c.SetVoxel(x, y, z, 0, 0, 0, 0)
					continue
				}

				hueN := g.tintFBM.Sample3(g.tint, wx*colorScale, wy*colorScale, wz*colorScale)
				r, gg, b := hsvToRGB(hueN*0.5+0.5, colorSaturation, colorValue)
				c.SetVoxel(x, y, z, density, r, gg, b)
			}
		}
	}
	c.MarkDirty()
}

// GenerateChunk materializes (if needed) and populates the chunk at the
// given coordinate, then records it as dirty for the scheduler.
func (w *World) GenerateChunk(g *Generator, coord ChunkCoord) *Chunk {
	chunk := w.store.GetChunk(coord, true)
	if chunk == nil {
		return nil
	}
	g.PopulateChunk(chunk)
	w.dirty.MarkChunk(w.store, coord)
	return chunk
}

// smoothstep is the usual cubic hermite ramp between two edges.
func smoothstep(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// hsvToRGB converts hue in [0,1) (wrapped), saturation and value in
// [0,1] to 8-bit sRGB.
func hsvToRGB(h, s, v float64) (uint8, uint8, uint8) {
	h = h - math.Floor(h)
	h *= 6

	i := int(h)
	f := h - float64(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}

	return uint8(r*255 + 0.5), uint8(g*255 + 0.5), uint8(b*255 + 0.5)
}
