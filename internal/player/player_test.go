package player

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcraft/internal/world"
)

func floorWorld() *world.World {
	w := world.New()
	for z := -16; z <= 16; z++ {
		for x := -16; x <= 16; x++ {
			w.SetBlock(x, 0, z, 255, 90, 90, 90)
		}
	}
	return w
}

// simulate steps the controller at a fixed 60 Hz.
func simulate(p *Player, frames int, in MoveInput) {
	for i := 0; i < frames; i++ {
		p.Update(1.0/60.0, in)
	}
}

func TestBoxControllerFallsToGround(t *testing.T) {
	w := floorWorld()
	p := New(w, mgl32.Vec3{0, 5, 0})
	p.Mode = ModeWalk

	simulate(p, 120, MoveInput{})

	if math.Abs(float64(p.Position.Y())-1.0) > 1e-3 {
		t.Errorf("feet at %f, want 1.0", p.Position.Y())
	}
	if !p.OnGround {
		t.Error("controller should report grounded")
	}
	if p.Velocity.Y() != 0 {
		t.Errorf("vertical velocity %f, want 0", p.Velocity.Y())
	}
}

func TestBoxControllerJump(t *testing.T) {
	w := floorWorld()
	p := New(w, mgl32.Vec3{0, 5, 0})
	p.Mode = ModeWalk

	simulate(p, 120, MoveInput{})
	startY := p.Position.Y()

	// Rising edge of jump.
	p.Update(1.0/60.0, MoveInput{Jump: true})
	if p.Velocity.Y() <= 0 {
		t.Fatal("jump should set positive vertical velocity")
	}

	// Holding jump must not re-trigger mid-air.
	peak := startY
	for i := 0; i < 120; i++ {
		p.Update(1.0/60.0, MoveInput{Jump: true})
		if p.Position.Y() > peak {
			peak = p.Position.Y()
		}
	}
	if peak <= startY+1 {
		t.Errorf("jump peak %f too low", peak)
	}
	if math.Abs(float64(p.Position.Y())-1.0) > 1e-3 {
		t.Errorf("should land back at 1.0, got %f", p.Position.Y())
	}
}

func TestBoxControllerCeiling(t *testing.T) {
	w := floorWorld()
	// Low ceiling at y=3: blocks span [3,4).
	for z := -2; z <= 2; z++ {
		for x := -2; x <= 2; x++ {
			w.SetBlock(x, 3, z, 255, 0, 0, 0)
		}
	}

	p := New(w, mgl32.Vec3{0, 1, 0})
	p.Mode = ModeWalk
	p.OnGround = true

	p.Update(1.0/60.0, MoveInput{Jump: true})
	for i := 0; i < 60; i++ {
		p.Update(1.0/60.0, MoveInput{})
		if p.Position.Y()+BodyHeight > 3.001 {
			t.Fatalf("controller clipped into the ceiling at %f", p.Position.Y())
		}
	}
	if math.Abs(float64(p.Position.Y())-1.0) > 1e-3 {
		t.Errorf("should settle back on the floor, got %f", p.Position.Y())
	}
}

func TestBoxControllerWallBlocksMotion(t *testing.T) {
	w := floorWorld()
	// Wall across x=2 (two blocks high).
	for z := -4; z <= 4; z++ {
		w.SetBlock(2, 1, z, 255, 0, 0, 0)
		w.SetBlock(2, 2, z, 255, 0, 0, 0)
	}

	p := New(w, mgl32.Vec3{0, 1, 0})
	p.Mode = ModeWalk
	p.Yaw = 0 // facing +X

	simulate(p, 180, MoveInput{Forward: true})

	// The wall face is at x=2; the box half-width keeps the center at
	// most at 2 - 0.4.
	if p.Position.X() > 2-float32(BodyWidth)/2+1e-3 {
		t.Errorf("controller pushed into the wall: x=%f", p.Position.X())
	}
	if p.Position.X() < 1.0 {
		t.Errorf("controller never approached the wall: x=%f", p.Position.X())
	}
}

func TestFlyControllerIgnoresCollision(t *testing.T) {
	w := floorWorld()
	p := New(w, mgl32.Vec3{0, 5, 0})

	simulate(p, 300, MoveInput{Sneak: true}) // descend

	if p.Position.Y() > 0 {
		t.Errorf("fly mode should pass through the floor, y=%f", p.Position.Y())
	}
}

func TestBreakAndPlace(t *testing.T) {
	w := floorWorld()
	p := New(w, mgl32.Vec3{0, 3, 0})
	p.Pitch = -89 // look straight down

	hit, ok := p.HoveredBlock()
	if !ok {
		t.Fatal("expected to hover the floor")
	}
	if hit.Voxel[1] != 0 {
		t.Fatalf("hovered voxel %v, want floor level", hit.Voxel)
	}

	// Place on top of the floor along the hit normal.
	if !p.PlaceBlock() {
		t.Fatal("place failed")
	}
	placed := [3]int{hit.Voxel[0], hit.Voxel[1] + 1, hit.Voxel[2]}
	if !w.Solid(placed[0], placed[1], placed[2]) {
		t.Errorf("no block at %v after place", placed)
	}

	// Break removes the placed block again.
	if !p.BreakBlock() {
		t.Fatal("break failed")
	}
	if w.Solid(placed[0], placed[1], placed[2]) {
		t.Errorf("block at %v survived break", placed)
	}
}

func TestFrontVector(t *testing.T) {
	p := New(world.New(), mgl32.Vec3{})
	p.Yaw = 0
	p.Pitch = 0

	front := p.FrontVector()
	if math.Abs(float64(front.X())-1) > 1e-5 || math.Abs(float64(front.Y())) > 1e-5 {
		t.Errorf("front at yaw 0 should be +X, got %v", front)
	}

	p.Pitch = 90 - 1 // clamped range
	front = p.FrontVector()
	if front.Y() < 0.9 {
		t.Errorf("front at high pitch should point up, got %v", front)
	}
}
