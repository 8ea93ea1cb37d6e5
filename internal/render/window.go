// Package render is the GL viewer: a GLFW window, one lambert shader
// and per-chunk mesh slots fed by the scheduler. It consumes the mesh
// record shape and nothing else from the core.
package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Window wraps GLFW window creation and the GL context.
type Window struct {
	glfwWindow *glfw.Window
	width      int
	height     int
}

// NewWindow creates a window with an OpenGL 4.1 core context. The
// caller must have locked the OS thread.
func NewWindow(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	glfwWindow, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	glfwWindow.MakeContextCurrent()

	// The frame loop runs its own limiter.
	glfw.SwapInterval(0)

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// No face culling: the marching-cubes soup is drawn double-sided.
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	w := &Window{glfwWindow: glfwWindow, width: width, height: height}
	glfwWindow.SetFramebufferSizeCallback(func(_ *glfw.Window, fw, fh int) {
		w.width = fw
		w.height = fh
		gl.Viewport(0, 0, int32(fw), int32(fh))
	})

	return w, nil
}

// Handle exposes the underlying GLFW window for input callbacks.
func (w *Window) Handle() *glfw.Window {
	return w.glfwWindow
}

// Size returns the framebuffer dimensions.
func (w *Window) Size() (int, int) {
	return w.width, w.height
}

// Aspect returns the framebuffer aspect ratio.
func (w *Window) Aspect() float32 {
	if w.height == 0 {
		return 1
	}
	return float32(w.width) / float32(w.height)
}

// Clear clears color and depth.
func (w *Window) Clear(color mgl32.Vec3) {
	gl.ClearColor(color.X(), color.Y(), color.Z(), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ShouldClose reports whether the window has been asked to close.
func (w *Window) ShouldClose() bool {
	return w.glfwWindow.ShouldClose()
}

// SwapBuffers presents the frame.
func (w *Window) SwapBuffers() {
	w.glfwWindow.SwapBuffers()
}

// CaptureCursor toggles between captured (gameplay) and normal cursor.
func (w *Window) CaptureCursor(captured bool) {
	if captured {
		w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

// Terminate tears down GLFW.
func (w *Window) Terminate() {
	glfw.Terminate()
}
