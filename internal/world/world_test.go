package world

import "testing"

func TestSetGetRoundTrip(t *testing.T) {
	w := New()

	w.SetBlock(3, 4, 5, 200, 10, 20, 30)
	d, r, g, b := w.GetBlock(3, 4, 5)
	if d != 200 || r != 10 || g != 20 || b != 30 {
		t.Fatalf("got (%d, %d, %d, %d), want (200, 10, 20, 30)", d, r, g, b)
	}
	if !w.Solid(3, 4, 5) {
		t.Errorf("density 200 should be solid")
	}

	w.SetBlock(3, 4, 5, 127, 1, 2, 3)
	if w.Solid(3, 4, 5) {
		t.Errorf("density 127 should not be solid")
	}
}

func TestNegativeCoordinates(t *testing.T) {
	w := New()

	w.SetBlock(-1, -17, -33, 255, 9, 9, 9)
	d, _, _, _ := w.GetBlock(-1, -17, -33)
	if d != 255 {
		t.Fatalf("got density %d, want 255", d)
	}

	ch := w.ChunkAtBlock(-1, -17, -33)
	if ch == nil {
		t.Fatal("chunk not created")
	}
	want := ChunkCoord{X: -1, Y: -2, Z: -3}
	if ch.Coord != want {
		t.Errorf("chunk coord %v, want %v", ch.Coord, want)
	}
}

func TestOutOfStoreReads(t *testing.T) {
	w := New()

	d, r, g, b := w.GetBlock(1000, 1000, 1000)
	if d != 0 || r != 0 || g != 0 || b != 0 {
		t.Errorf("out-of-store read should be empty, got (%d, %d, %d, %d)", d, r, g, b)
	}
	if w.Solid(1000, 1000, 1000) {
		t.Errorf("out-of-store voxel should not be solid")
	}
}

func TestSumInvariant(t *testing.T) {
	w := New()

	edits := [][3]int{{0, 0, 0}, {1, 0, 0}, {0, 0, 0}, {15, 15, 15}, {5, 9, 2}}
	densities := []uint8{255, 100, 50, 200, 0}
	for i, e := range edits {
		w.SetBlock(e[0], e[1], e[2], densities[i], 0, 0, 0)
	}

	ch := w.ChunkAt(ChunkCoord{})
	var total int32
	for y := 0; y < ChunkSize; y++ {
		for z := 0; z < ChunkSize; z++ {
			for x := 0; x < ChunkSize; x++ {
				total += int32(ch.Density(x, y, z))
			}
		}
	}
	if ch.Sum() != total {
		t.Errorf("chunk sum %d, want %d", ch.Sum(), total)
	}
}

func TestBoundedStoreIgnoresOutsideWrites(t *testing.T) {
	w := NewBounded(Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1, MinZ: 0, MaxZ: 1})

	if got := w.Store().Len(); got != 8 {
		t.Fatalf("bounded store materialized %d chunks, want 8", got)
	}

	// Outside the box: silently ignored.
	w.SetBlock(100, 0, 0, 255, 0, 0, 0)
	if w.Store().Len() != 8 {
		t.Errorf("outside write materialized a chunk")
	}
	if d, _, _, _ := w.GetBlock(100, 0, 0); d != 0 {
		t.Errorf("outside write took effect")
	}

	// Inside: normal behavior.
	w.SetBlock(17, 17, 17, 255, 0, 0, 0)
	if !w.Solid(17, 17, 17) {
		t.Errorf("inside write ignored")
	}
}

func TestDirtyPropagationInterior(t *testing.T) {
	w := New()
	// Materialize the home chunk and all 26 neighbors.
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				w.Store().GetChunk(ChunkCoord{X: dx, Y: dy, Z: dz}, true)
			}
		}
	}
	drainDirty(w)

	w.SetBlock(8, 8, 8, 255, 0, 0, 0)
	got := w.Dirty().AppendAll(nil)
	if len(got) != 1 || got[0] != (ChunkCoord{}) {
		t.Errorf("interior edit dirtied %v, want only the home chunk", got)
	}
}

func TestDirtyPropagationFaceEdgeCorner(t *testing.T) {
	cases := []struct {
		name  string
		block [3]int
		want  int // dirty chunk count including self
	}{
		{"face", [3]int{0, 8, 8}, 2},
		{"edge", [3]int{0, 0, 8}, 4},
		{"corner", [3]int{0, 0, 0}, 8},
		{"high corner", [3]int{15, 15, 15}, 8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := New()
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					for dz := -1; dz <= 1; dz++ {
						w.Store().GetChunk(ChunkCoord{X: dx, Y: dy, Z: dz}, true)
					}
				}
			}
			drainDirty(w)

			w.SetBlock(tc.block[0], tc.block[1], tc.block[2], 255, 0, 0, 0)
			if got := w.Dirty().Len(); got != tc.want {
				t.Errorf("edit at %v dirtied %d chunks, want %d", tc.block, got, tc.want)
			}
			if !w.Dirty().Contains(ChunkCoord{}) {
				t.Errorf("home chunk not dirty")
			}
		})
	}
}

func TestDirtySkipsMissingNeighbors(t *testing.T) {
	// Cross-chunk edits in an empty world: only existing chunks dirty.
	w := New()

	w.SetBlock(-1, 0, 0, 255, 0, 0, 0)
	w.SetBlock(0, 0, 0, 255, 0, 0, 0)

	got := w.Dirty().AppendAll(nil)
	if len(got) != 2 {
		t.Fatalf("dirtied %d chunks, want exactly 2: %v", len(got), got)
	}
	if !w.Dirty().Contains(ChunkCoord{X: -1}) || !w.Dirty().Contains(ChunkCoord{}) {
		t.Errorf("wrong dirty set: %v", got)
	}
}

func drainDirty(w *World) {
	for _, coord := range w.Dirty().AppendAll(nil) {
		w.Dirty().Remove(coord)
	}
}

func BenchmarkSetBlock(b *testing.B) {
	w := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.SetBlock(i&63, (i>>6)&63, (i>>12)&63, uint8(i), 1, 2, 3)
	}
}
