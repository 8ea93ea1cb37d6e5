package world

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRaycastAxisHit(t *testing.T) {
	w := New()
	w.SetBlock(5, 0, 0, 255, 40, 50, 60)

	result := w.Raycast(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, 10)
	if !result.Hit {
		t.Fatal("expected hit, got miss")
	}
	if result.Voxel != [3]int{5, 0, 0} {
		t.Errorf("hit voxel %v, want {5,0,0}", result.Voxel)
	}
	// Voxel 5 spans [4.5, 5.5): entry from x=0 is at t=4.5.
	if result.Distance < 4.49 || result.Distance > 4.52 {
		t.Errorf("distance %f, want ~4.5", result.Distance)
	}
	if result.Normal != (mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("normal %v, want {-1,0,0}", result.Normal)
	}
	if result.Value != 255 || result.Color != [3]uint8{40, 50, 60} {
		t.Errorf("value/color %d %v", result.Value, result.Color)
	}
}

func TestRaycastMaxDistance(t *testing.T) {
	w := New()
	w.SetBlock(5, 0, 0, 255, 0, 0, 0)

	if r := w.Raycast(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, 4); r.Hit {
		t.Errorf("expected miss at maxDist 4, hit %v", r.Voxel)
	}
}

func TestRaycastDegenerateDirection(t *testing.T) {
	w := New()
	w.SetBlock(0, 0, 0, 255, 0, 0, 0)

	if r := w.Raycast(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{}, 100); r.Hit {
		t.Error("zero direction should miss")
	}
}

func TestRaycastInsideSolid(t *testing.T) {
	w := New()
	w.SetBlock(0, 0, 0, 255, 0, 0, 0)

	r := w.Raycast(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, 100)
	if !r.Hit {
		t.Fatal("expected immediate hit inside solid voxel")
	}
	if r.Distance != 0 {
		t.Errorf("distance %f, want 0", r.Distance)
	}
	if r.Normal != (mgl32.Vec3{0, 0, 0}) {
		t.Errorf("normal %v, want zero", r.Normal)
	}
	if r.Voxel != [3]int{0, 0, 0} {
		t.Errorf("voxel %v, want origin", r.Voxel)
	}
}

func TestRaycastEmptyWorldMiss(t *testing.T) {
	w := New()
	if r := w.Raycast(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0.1, -0.3}.Normalize(), 10000); r.Hit {
		t.Error("expected miss in empty world")
	}
}

func TestRaycastSlabSkip(t *testing.T) {
	// A 16x1x16 slab at y=0 and nothing else; the 99 voxels of empty
	// space above cross six empty chunks in O(1) each.
	w := New()
	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			w.SetBlock(x, 0, z, 255, 128, 128, 128)
		}
	}

	r := w.Raycast(mgl32.Vec3{8, 100, 8}, mgl32.Vec3{0, -1, 0}, 1000)
	if !r.Hit {
		t.Fatal("expected hit on slab")
	}
	if r.Voxel != [3]int{8, 0, 8} {
		t.Errorf("voxel %v, want {8,0,8}", r.Voxel)
	}
	if r.Normal != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("normal %v, want {0,1,0}", r.Normal)
	}
	if math.Abs(float64(r.Distance)-99.5) > 0.01 {
		t.Errorf("distance %f, want ~99.5", r.Distance)
	}
}

func TestRaycastDiagonal(t *testing.T) {
	w := New()
	w.SetBlock(2, 2, 2, 255, 0, 0, 0)

	dir := mgl32.Vec3{1, 1, 1}.Normalize()
	r := w.Raycast(mgl32.Vec3{0, 0, 0}, dir, 10)
	if !r.Hit {
		t.Fatal("expected diagonal hit")
	}
	if r.Voxel != [3]int{2, 2, 2} {
		t.Errorf("voxel %v, want {2,2,2}", r.Voxel)
	}
	// Voxel 2 starts at 1.5 on each axis: t = 1.5 * sqrt(3).
	want := 1.5 * float32(math.Sqrt(3))
	if math.Abs(float64(r.Distance-want)) > 0.01 {
		t.Errorf("distance %f, want %f", r.Distance, want)
	}
}

func TestRaycastBackShiftedPosition(t *testing.T) {
	w := New()
	w.SetBlock(5, 0, 0, 255, 0, 0, 0)

	r := w.Raycast(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, 10)
	if !r.Hit {
		t.Fatal("expected hit")
	}
	// Hit position lies on the voxel's -X face at x = 4.5.
	if math.Abs(float64(r.Position.X())-4.5) > 1e-3 {
		t.Errorf("position %v, want x ~4.5", r.Position)
	}
}

func BenchmarkRaycastSlabSkip(b *testing.B) {
	w := New()
	for z := 0; z < ChunkSize; z++ {
		for x := 0; x < ChunkSize; x++ {
			w.SetBlock(x, 0, z, 255, 0, 0, 0)
		}
	}
	origin := mgl32.Vec3{8, 1000, 8}
	dir := mgl32.Vec3{0, -1, 0}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = w.Raycast(origin, dir, 2000)
	}
}
