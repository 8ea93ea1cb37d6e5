// Package player implements the two characters that consume the voxel
// API: a free-flying camera and a gravity-bound box controller. Both
// treat world reads as pure queries and never block on meshing.
package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcraft/internal/world"
)

// Mode selects which controller drives the player.
type Mode int

const (
	ModeFly Mode = iota
	ModeWalk
)

const (
	EyeHeight = 1.62

	// Box controller dimensions.
	BodyWidth  = 0.8
	BodyHeight = 2.0
)

// MoveInput is one frame of movement intent, already decoupled from
// physical keys.
type MoveInput struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool
	Sneak    bool
}

// Player carries position, velocity and camera state shared by both
// controllers.
type Player struct {
	World *world.World
	Mode  Mode

	Position mgl32.Vec3
	Velocity mgl32.Vec3
	OnGround bool

	Yaw   float64
	Pitch float64

	LastMouseX float64
	LastMouseY float64
	FirstMouse bool

	// wasJump detects the rising edge of the jump input for the box
	// controller.
	wasJump bool

	// PlaceColor is the sRGB color new blocks are placed with.
	PlaceColor [3]uint8
}

// New creates a player at the given position, flying by default.
func New(w *world.World, position mgl32.Vec3) *Player {
	return &Player{
		World:      w,
		Mode:       ModeFly,
		Position:   position,
		FirstMouse: true,
		PlaceColor: [3]uint8{200, 200, 200},
	}
}

// Update advances whichever controller is active.
func (p *Player) Update(dt float64, in MoveInput) {
	switch p.Mode {
	case ModeWalk:
		p.updateWalk(dt, in)
	default:
		p.updateFly(dt, in)
	}
	p.wasJump = in.Jump
}

// ToggleMode switches between flying and walking. Entering walk mode
// clears velocity so the fall starts clean.
func (p *Player) ToggleMode() {
	if p.Mode == ModeFly {
		p.Mode = ModeWalk
		p.Velocity = mgl32.Vec3{}
	} else {
		p.Mode = ModeFly
	}
}

// HandleMouseMovement applies cursor deltas to yaw and pitch.
func (p *Player) HandleMouseMovement(xpos, ypos float64) {
	if p.FirstMouse {
		p.LastMouseX = xpos
		p.LastMouseY = ypos
		p.FirstMouse = false
		return
	}

	const sensitivity = 0.1
	p.Yaw += (xpos - p.LastMouseX) * sensitivity
	p.Pitch += (p.LastMouseY - ypos) * sensitivity
	p.LastMouseX = xpos
	p.LastMouseY = ypos

	if p.Pitch > 89 {
		p.Pitch = 89
	}
	if p.Pitch < -89 {
		p.Pitch = -89
	}
}

// FrontVector returns the camera look direction.
func (p *Player) FrontVector() mgl32.Vec3 {
	yaw := mgl32.DegToRad(float32(p.Yaw))
	pitch := mgl32.DegToRad(float32(p.Pitch))
	fx := float32(math.Cos(float64(yaw)) * math.Cos(float64(pitch)))
	fy := float32(math.Sin(float64(pitch)))
	fz := float32(math.Sin(float64(yaw)) * math.Cos(float64(pitch)))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

// RightVector returns the camera right direction in the ground plane.
func (p *Player) RightVector() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(float32(p.Yaw)))
	return mgl32.Vec3{
		float32(math.Cos(yaw + math.Pi/2)),
		0,
		float32(math.Sin(yaw + math.Pi/2)),
	}
}

// EyePosition returns the camera origin. The fly camera sits at the
// position itself; the box controller's eye is near the top of the box.
func (p *Player) EyePosition() mgl32.Vec3 {
	if p.Mode == ModeWalk {
		return p.Position.Add(mgl32.Vec3{0, EyeHeight, 0})
	}
	return p.Position
}

// ViewMatrix returns the camera view matrix.
func (p *Player) ViewMatrix() mgl32.Mat4 {
	eye := p.EyePosition()
	return mgl32.LookAtV(eye, eye.Add(p.FrontVector()), mgl32.Vec3{0, 1, 0})
}

// wishDirection converts movement intent into a ground-plane direction
// from the camera basis. Not normalized when idle.
func (p *Player) wishDirection(in MoveInput) mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(float32(p.Yaw)))
	front := mgl32.Vec3{float32(math.Cos(yaw)), 0, float32(math.Sin(yaw))}
	right := p.RightVector()

	var dir mgl32.Vec3
	if in.Forward {
		dir = dir.Add(front)
	}
	if in.Backward {
		dir = dir.Sub(front)
	}
	if in.Right {
		dir = dir.Add(right)
	}
	if in.Left {
		dir = dir.Sub(right)
	}
	if dir.LenSqr() > 0 {
		dir = dir.Normalize()
	}
	return dir
}
