// Package input maps physical keys and mouse buttons to logical engine
// actions so the controllers never see GLFW key codes.
package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical action, not a physical key.
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionJump
	ActionSneak
	ActionBreakBlock
	ActionPlaceBlock
	ActionToggleMode
	ActionToggleMesher
	ActionPause
	ActionCount // sentinel for array sizing
)

// Manager tracks per-frame action state with edge detection.
type Manager struct {
	mu sync.RWMutex

	keyToActions         map[glfw.Key][]Action
	mouseButtonToActions map[glfw.MouseButton][]Action

	currentState [ActionCount]bool
	justPressed  [ActionCount]bool
}

// NewManager creates a manager with the default bindings.
func NewManager() *Manager {
	m := &Manager{
		keyToActions:         make(map[glfw.Key][]Action),
		mouseButtonToActions: make(map[glfw.MouseButton][]Action),
	}

	m.BindKey(glfw.KeyW, ActionMoveForward)
	m.BindKey(glfw.KeyS, ActionMoveBackward)
	m.BindKey(glfw.KeyA, ActionMoveLeft)
	m.BindKey(glfw.KeyD, ActionMoveRight)
	m.BindKey(glfw.KeySpace, ActionJump)
	m.BindKey(glfw.KeyLeftShift, ActionSneak)
	m.BindKey(glfw.KeyF, ActionToggleMode)
	m.BindKey(glfw.KeyM, ActionToggleMesher)
	m.BindKey(glfw.KeyEscape, ActionPause)
	m.BindMouseButton(glfw.MouseButtonLeft, ActionBreakBlock)
	m.BindMouseButton(glfw.MouseButtonRight, ActionPlaceBlock)

	return m
}

// BindKey maps a key to an action. One key can map to multiple actions.
func (m *Manager) BindKey(key glfw.Key, action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// BindMouseButton maps a mouse button to an action.
func (m *Manager) BindMouseButton(button glfw.MouseButton, action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mouseButtonToActions[button] = append(m.mouseButtonToActions[button], action)
}

// HandleKey is wired into the GLFW key callback.
func (m *Manager) HandleKey(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.keyToActions[key] {
		switch action {
		case glfw.Press:
			if !m.currentState[a] {
				m.justPressed[a] = true
			}
			m.currentState[a] = true
		case glfw.Release:
			m.currentState[a] = false
		}
	}
}

// HandleMouseButton is wired into the GLFW mouse button callback.
func (m *Manager) HandleMouseButton(button glfw.MouseButton, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.mouseButtonToActions[button] {
		switch action {
		case glfw.Press:
			if !m.currentState[a] {
				m.justPressed[a] = true
			}
			m.currentState[a] = true
		case glfw.Release:
			m.currentState[a] = false
		}
	}
}

// IsActive reports whether an action is currently held.
func (m *Manager) IsActive(a Action) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState[a]
}

// JustPressed reports whether an action went down this frame.
func (m *Manager) JustPressed(a Action) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[a]
}

// PostUpdate clears the edge-detection flags. Call at the end of each
// frame after input has been consumed.
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.justPressed {
		m.justPressed[i] = false
	}
}
