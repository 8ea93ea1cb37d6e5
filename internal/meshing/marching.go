package meshing

import (
	"math"

	"voxelcraft/internal/profiling"
	"voxelcraft/internal/world"
)

// The marching-cubes pre-sample grid covers the chunk plus one voxel on
// each +axis side, so cubes on the chunk boundary see their neighbors.
const (
	sampleEdge   = world.ChunkSize + 1
	sampleVolume = sampleEdge * sampleEdge * sampleEdge
)

func sampleIndex(x, y, z int) int {
	return x + z*sampleEdge + y*sampleEdge*sampleEdge
}

// MarchingCubes meshes a chunk into a smooth isosurface at IsoLevel.
// Output is a non-indexed triangle soup with flat (per-triangle) normals
// and linear-space vertex colors; Indices stays empty.
//
// Each instance owns its pre-sample scratch, so every worker gets its
// own and no global mutable state exists.
type MarchingCubes struct {
	density [sampleVolume]uint8
	color   [sampleVolume * 3]uint8

	// Per-cube edge intersections, reused across cubes.
	edgePos [12][3]float32
	edgeCol [12][3]float32
}

// NewMarchingCubes creates a mesher with its own scratch grid.
func NewMarchingCubes() *MarchingCubes {
	return &MarchingCubes{}
}

// Build meshes one chunk into out. Samples that fall outside the chunk
// are read through the world API and resolve to the face/edge/corner
// neighbors; out-of-store samples read as empty.
func (m *MarchingCubes) Build(w *world.World, c *world.Chunk, out *MeshBuffers) {
	defer profiling.Track("meshing.MarchingCubes.Build")()

	out.Reset()
	if c.Empty() && !m.anyNeighborSample(w, c) {
		return
	}

	m.presample(w, c)

	baseX := float32(c.Coord.X * world.ChunkSize)
	baseY := float32(c.Coord.Y * world.ChunkSize)
	baseZ := float32(c.Coord.Z * world.ChunkSize)

	for y := 0; y < world.ChunkSize; y++ {
		for z := 0; z < world.ChunkSize; z++ {
			for x := 0; x < world.ChunkSize; x++ {
				m.marchCube(x, y, z, baseX, baseY, baseZ, out)
			}
		}
	}

	// The record shape matches the culled mesher: unoccluded AO
	// everywhere.
	for i := out.VertexCount() - len(out.AmbientOcclusion); i > 0; i-- {
		out.AmbientOcclusion = append(out.AmbientOcclusion, 1.0)
	}
}

// anyNeighborSample reports whether any +side out-of-chunk sample is
// nonzero; an empty chunk can still need triangles if a neighbor's
// surface crosses into its boundary cubes.
func (m *MarchingCubes) anyNeighborSample(w *world.World, c *world.Chunk) bool {
	baseX := c.Coord.X * world.ChunkSize
	baseY := c.Coord.Y * world.ChunkSize
	baseZ := c.Coord.Z * world.ChunkSize
	for y := 0; y < sampleEdge; y++ {
		for z := 0; z < sampleEdge; z++ {
			for x := 0; x < sampleEdge; x++ {
				if x < world.ChunkSize && y < world.ChunkSize && z < world.ChunkSize {
					continue
				}
				if w.Density(baseX+x, baseY+y, baseZ+z) > 0 {
					return true
				}
			}
		}
	}
	return false
}

// presample copies the chunk plus its one-voxel halo into the scratch
// grid. Interior samples come straight off the shared chunk buffers;
// halo samples go through the world API.
func (m *MarchingCubes) presample(w *world.World, c *world.Chunk) {
	density := c.DensityBuffer()
	color := c.ColorBuffer()

	baseX := c.Coord.X * world.ChunkSize
	baseY := c.Coord.Y * world.ChunkSize
	baseZ := c.Coord.Z * world.ChunkSize

	for y := 0; y < sampleEdge; y++ {
		for z := 0; z < sampleEdge; z++ {
			for x := 0; x < sampleEdge; x++ {
				si := sampleIndex(x, y, z)
				if x < world.ChunkSize && y < world.ChunkSize && z < world.ChunkSize {
					vi := world.VoxelIndex(x, y, z)
					m.density[si] = density[vi]
					m.color[si*3] = color[vi*3]
					m.color[si*3+1] = color[vi*3+1]
					m.color[si*3+2] = color[vi*3+2]
					continue
				}
				d, r, g, b := w.GetBlock(baseX+x, baseY+y, baseZ+z)
				m.density[si] = d
				m.color[si*3] = r
				m.color[si*3+1] = g
				m.color[si*3+2] = b
			}
		}
	}
}

func (m *MarchingCubes) marchCube(x, y, z int, baseX, baseY, baseZ float32, out *MeshBuffers) {
	cubeIndex := 0
	for i, off := range cornerOffsets {
		if m.density[sampleIndex(x+off[0], y+off[1], z+off[2])] >= world.IsoLevel {
			cubeIndex |= 1 << i
		}
	}

	edges := edgeTable[cubeIndex]
	if edges == 0 {
		return
	}

	// Intersect the surface with each crossed edge.
	for e := 0; e < 12; e++ {
		if edges&(1<<e) == 0 {
			continue
		}
		a := cornerOffsets[edgeCorners[e][0]]
		b := cornerOffsets[edgeCorners[e][1]]
		ai := sampleIndex(x+a[0], y+a[1], z+a[2])
		bi := sampleIndex(x+b[0], y+b[1], z+b[2])

		da := float32(m.density[ai])
		db := float32(m.density[bi])
		var t float32
		if da == db {
			t = 0.5
		} else {
			t = (world.IsoLevel - da) / (db - da)
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
		}

		m.edgePos[e][0] = baseX + float32(x+a[0]) + t*float32(b[0]-a[0])
		m.edgePos[e][1] = baseY + float32(y+a[1]) + t*float32(b[1]-a[1])
		m.edgePos[e][2] = baseZ + float32(z+a[2]) + t*float32(b[2]-a[2])

		// Blend colors in linear space.
		for ch := 0; ch < 3; ch++ {
			la := srgbToLinear[m.color[ai*3+ch]]
			lb := srgbToLinear[m.color[bi*3+ch]]
			m.edgeCol[e][ch] = la + t*(lb-la)
		}
	}

	row := &triTable[cubeIndex]
	for i := 0; row[i] >= 0; i += 3 {
		e0 := row[i]
		e1 := row[i+1]
		e2 := row[i+2]
		m.emitTriangle(m.edgePos[e0], m.edgePos[e1], m.edgePos[e2],
			m.edgeCol[e0], m.edgeCol[e1], m.edgeCol[e2], out)
	}
}

func (m *MarchingCubes) emitTriangle(p0, p1, p2, c0, c1, c2 [3]float32, out *MeshBuffers) {
	// Flat normal from the emitted winding: (p2-p1) x (p0-p1).
	ux := p2[0] - p1[0]
	uy := p2[1] - p1[1]
	uz := p2[2] - p1[2]
	vx := p0[0] - p1[0]
	vy := p0[1] - p1[1]
	vz := p0[2] - p1[2]

	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx

	lenSq := nx*nx + ny*ny + nz*nz
	if lenSq < 1e-8 {
		nx, ny, nz = 0, 1, 0
	} else {
		inv := float32(1.0 / math.Sqrt(float64(lenSq)))
		nx *= inv
		ny *= inv
		nz *= inv
	}

	out.Positions = append(out.Positions,
		p0[0], p0[1], p0[2],
		p1[0], p1[1], p1[2],
		p2[0], p2[1], p2[2])
	out.Normals = append(out.Normals,
		nx, ny, nz,
		nx, ny, nz,
		nx, ny, nz)
	out.Colors = append(out.Colors,
		c0[0], c0[1], c0[2],
		c1[0], c1[1], c1[2],
		c2[0], c2[1], c2[2])
}
