package main

import (
	"flag"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
	"golang.org/x/image/colornames"

	"voxelcraft/internal/config"
	"voxelcraft/internal/input"
	"voxelcraft/internal/meshing"
	"voxelcraft/internal/player"
	"voxelcraft/internal/profiling"
	"voxelcraft/internal/render"
	"voxelcraft/internal/world"
)

func init() { runtime.LockOSThread() }

const (
	winW = 1280
	winH = 720

	// Initial terrain region in chunks around the spawn column.
	genRadius = 5
	genMinY   = -2
	genMaxY   = 2
)

func main() {
	seed := flag.Int64("seed", 1337, "terrain seed")
	mesher := flag.String("mesher", "marching", "mesher: marching or culled")
	workers := flag.Int("workers", config.GetMeshWorkers(), "mesh worker count")
	radius := flag.Int("radius", config.GetLoadRadius(), "chunk load radius")
	flag.Parse()

	config.SetMeshWorkers(*workers)
	config.SetLoadRadius(*radius)
	if *mesher == "culled" {
		config.SetMesher(config.MesherCulledFaces)
	}

	window, err := render.NewWindow(winW, winH, "voxelcraft")
	if err != nil {
		log.Fatal(err)
	}
	closer.Bind(window.Terminate)

	renderer, err := render.NewRenderer()
	if err != nil {
		log.Fatal(err)
	}
	closer.Bind(renderer.Dispose)

	// World and terrain: a small spawn area synchronously, the rest
	// streamed in around the player.
	gameWorld := world.New()
	gen := world.NewGenerator(*seed)
	for cy := genMinY; cy <= genMaxY; cy++ {
		for cz := -genRadius; cz <= genRadius; cz++ {
			for cx := -genRadius; cx <= genRadius; cx++ {
				gameWorld.GenerateChunk(gen, world.ChunkCoord{X: cx, Y: cy, Z: cz})
			}
		}
	}
	streamer := world.NewStreamer(gameWorld, gen, 2)
	closer.Bind(streamer.Close)

	pool := meshing.NewWorkerPool(config.GetMeshWorkers(), 64)
	closer.Bind(pool.Shutdown)
	scheduler := meshing.NewScheduler(gameWorld, pool, renderer)

	gamePlayer := player.New(gameWorld, mgl32.Vec3{0, 40, 0})

	im := input.NewManager()
	setupInputHandlers(window, im, gamePlayer)
	window.CaptureCursor(true)

	runLoop(window, renderer, scheduler, streamer, gamePlayer, im)
	closer.Close()
}

func setupInputHandlers(window *render.Window, im *input.Manager, p *player.Player) {
	h := window.Handle()

	h.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		im.HandleKey(key, action)
	})
	h.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		im.HandleMouseButton(button, action)
	})
	h.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		p.HandleMouseMovement(xpos, ypos)
	})
}

func runLoop(window *render.Window, renderer *render.Renderer, scheduler *meshing.Scheduler, streamer *world.Streamer, p *player.Player, im *input.Manager) {
	sky := mgl32.Vec3{
		float32(colornames.Skyblue.R) / 255,
		float32(colornames.Skyblue.G) / 255,
		float32(colornames.Skyblue.B) / 255,
	}

	var limiter fpsLimiter
	lastTime := time.Now()

	for !window.ShouldClose() {
		profiling.ResetFrame()
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now
		if dt > 0.25 {
			dt = 0.25
		}

		glfw.PollEvents()

		if im.JustPressed(input.ActionPause) {
			window.Handle().SetShouldClose(true)
		}
		if im.JustPressed(input.ActionToggleMode) {
			p.ToggleMode()
		}
		if im.JustPressed(input.ActionToggleMesher) {
			config.ToggleMesher()
			scheduler.RemeshAll()
		}
		if im.JustPressed(input.ActionBreakBlock) {
			p.BreakBlock()
		}
		if im.JustPressed(input.ActionPlaceBlock) {
			p.PlaceBlock()
		}

		move := player.MoveInput{
			Forward:  im.IsActive(input.ActionMoveForward),
			Backward: im.IsActive(input.ActionMoveBackward),
			Left:     im.IsActive(input.ActionMoveLeft),
			Right:    im.IsActive(input.ActionMoveRight),
			Jump:     im.IsActive(input.ActionJump),
			Sneak:    im.IsActive(input.ActionSneak),
		}
		p.Update(dt, move)

		streamer.RequestAround(p.Position, config.GetLoadRadius())
		streamer.Drain()
		scheduler.Tick(p.Position)

		window.Clear(sky)
		projection := mgl32.Perspective(mgl32.DegToRad(70), window.Aspect(), 0.1, 1000)
		renderer.Render(p.ViewMatrix(), projection)
		window.SwapBuffers()

		im.PostUpdate()

		if frame := time.Since(now); frame > 32*time.Millisecond {
			log.Printf("slow frame: %v, top tasks: %s", frame, profiling.TopN(5))
		}
		limiter.Wait()
	}
}
