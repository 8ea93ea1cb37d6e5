package meshing

import (
	"voxelcraft/internal/profiling"
	"voxelcraft/internal/world"
)

// faceDir describes one of the six axis-aligned cube faces: the
// neighbor/normal direction, the anchor corner of the quad, and the two
// in-plane edge vectors. U x V equals the outward normal, so walking
// anchor, anchor+U, anchor+U+V, anchor+V winds counter-clockwise seen
// from outside.
type faceDir struct {
	Dir    [3]int // neighbor offset == outward normal
	Anchor [3]int
	U      [3]int
	V      [3]int
}

var faceDirs = [6]faceDir{
	{Dir: [3]int{1, 0, 0}, Anchor: [3]int{1, 0, 0}, U: [3]int{0, 1, 0}, V: [3]int{0, 0, 1}},  // +X
	{Dir: [3]int{-1, 0, 0}, Anchor: [3]int{0, 0, 0}, U: [3]int{0, 0, 1}, V: [3]int{0, 1, 0}}, // -X
	{Dir: [3]int{0, 1, 0}, Anchor: [3]int{0, 1, 0}, U: [3]int{0, 0, 1}, V: [3]int{1, 0, 0}},  // +Y
	{Dir: [3]int{0, -1, 0}, Anchor: [3]int{0, 0, 0}, U: [3]int{1, 0, 0}, V: [3]int{0, 0, 1}}, // -Y
	{Dir: [3]int{0, 0, 1}, Anchor: [3]int{0, 0, 1}, U: [3]int{1, 0, 0}, V: [3]int{0, 1, 0}},  // +Z
	{Dir: [3]int{0, 0, -1}, Anchor: [3]int{0, 0, 0}, U: [3]int{0, 1, 0}, V: [3]int{1, 0, 0}}, // -Z
}

// CulledFaces is the blocky mesher: it emits one quad for every solid
// voxel face whose neighbor is not solid, with per-vertex ambient
// occlusion from the 3x3 solidity footprint one step along the normal.
// Output is indexed: four vertices and six indices per face. Voxel
// (x,y,z) is drawn as the unit cube spanning [x,x+1]x[y,y+1]x[z,z+1].
type CulledFaces struct{}

// NewCulledFaces creates the mesher. It keeps no scratch; face AO reads
// go straight to the chunk or the world API.
func NewCulledFaces() *CulledFaces {
	return &CulledFaces{}
}

// Build meshes one chunk into out.
func (m *CulledFaces) Build(w *world.World, c *world.Chunk, out *MeshBuffers) {
	defer profiling.Track("meshing.CulledFaces.Build")()

	out.Reset()
	if c.Empty() {
		return
	}

	baseX := c.Coord.X * world.ChunkSize
	baseY := c.Coord.Y * world.ChunkSize
	baseZ := c.Coord.Z * world.ChunkSize

	solid := func(lx, ly, lz int) bool {
		if lx >= 0 && lx < world.ChunkSize &&
			ly >= 0 && ly < world.ChunkSize &&
			lz >= 0 && lz < world.ChunkSize {
			return c.Solid(lx, ly, lz)
		}
		return w.Solid(baseX+lx, baseY+ly, baseZ+lz)
	}

	for y := 0; y < world.ChunkSize; y++ {
		for z := 0; z < world.ChunkSize; z++ {
			for x := 0; x < world.ChunkSize; x++ {
				if !c.Solid(x, y, z) {
					continue
				}
				r, g, b := c.Color(x, y, z)
				lr := srgbToLinear[r]
				lg := srgbToLinear[g]
				lb := srgbToLinear[b]

				for f := range faceDirs {
					fd := &faceDirs[f]
					if solid(x+fd.Dir[0], y+fd.Dir[1], z+fd.Dir[2]) {
						continue
					}
					m.emitFace(x, y, z, baseX, baseY, baseZ, fd, lr, lg, lb, solid, out)
				}
			}
		}
	}
}

// emitFace appends one quad with AO and flip-aware triangulation.
func (m *CulledFaces) emitFace(x, y, z, baseX, baseY, baseZ int, fd *faceDir, r, g, b float32, solid func(int, int, int) bool, out *MeshBuffers) {
	// AO plane: the voxel layer one step along the outward normal.
	px := x + fd.Dir[0]
	py := y + fd.Dir[1]
	pz := z + fd.Dir[2]

	aoAt := func(su, sv int) float32 {
		s1 := solid(px+su*fd.U[0], py+su*fd.U[1], pz+su*fd.U[2])
		s2 := solid(px+sv*fd.V[0], py+sv*fd.V[1], pz+sv*fd.V[2])
		corner := solid(px+su*fd.U[0]+sv*fd.V[0], py+su*fd.U[1]+sv*fd.V[1], pz+su*fd.U[2]+sv*fd.V[2])
		if s1 && s2 {
			return 0
		}
		occ := 0
		if s1 {
			occ++
		}
		if s2 {
			occ++
		}
		if corner {
			occ++
		}
		return float32(3-occ) / 3
	}

	// Corner order a, b, c, d walks anchor, +U, +U+V, +V.
	aoA := aoAt(-1, -1)
	aoB := aoAt(1, -1)
	aoC := aoAt(1, 1)
	aoD := aoAt(-1, 1)

	base := uint32(out.VertexCount())

	ax := float32(baseX + x + fd.Anchor[0])
	ay := float32(baseY + y + fd.Anchor[1])
	az := float32(baseZ + z + fd.Anchor[2])

	corners := [4][3]float32{
		{ax, ay, az},
		{ax + float32(fd.U[0]), ay + float32(fd.U[1]), az + float32(fd.U[2])},
		{ax + float32(fd.U[0]+fd.V[0]), ay + float32(fd.U[1]+fd.V[1]), az + float32(fd.U[2]+fd.V[2])},
		{ax + float32(fd.V[0]), ay + float32(fd.V[1]), az + float32(fd.V[2])},
	}
	aos := [4]float32{aoA, aoB, aoC, aoD}

	nx := float32(fd.Dir[0])
	ny := float32(fd.Dir[1])
	nz := float32(fd.Dir[2])

	for i := 0; i < 4; i++ {
		out.Positions = append(out.Positions, corners[i][0], corners[i][1], corners[i][2])
		out.Normals = append(out.Normals, nx, ny, nz)
		out.Colors = append(out.Colors, r, g, b)
		out.AmbientOcclusion = append(out.AmbientOcclusion, aos[i])
	}

	// Anisotropic flip: split along the diagonal that isolates the
	// darker corner so the AO gradient follows the occluder.
	if aoA+aoC > aoB+aoD {
		out.Indices = append(out.Indices,
			base, base+1, base+2,
			base, base+2, base+3)
	} else {
		out.Indices = append(out.Indices,
			base+1, base+2, base+3,
			base+1, base+3, base)
	}
}
