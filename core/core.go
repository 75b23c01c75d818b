// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core runs the render session: it owns the window collaborator,
// builds the GPU resource set on load and drives every frame.
package core

import (
	"github.com/devblok/glhost/gfx"
)

// Window is the windowing collaborator. It owns the OS window and the
// GL context and dispatches lifecycle signals to a Handler.
type Window interface {

	// Run shows the window and blocks until it is closed. Load is
	// delivered once before the first frame; an error from Load
	// stops the loop and is returned.
	Run(Handler) error

	// Close asks the loop to stop after the current frame.
	Close()

	// CreateGL makes the context current and returns its driver.
	CreateGL() (gfx.GL, error)

	// Keyboards returns every connected keyboard.
	Keyboards() []Keyboard

	// Dispose destroys the context and the window.
	Dispose()
}

// Keyboard delivers key presses.
type Keyboard interface {

	// OnKeyDown registers fn to be called on every key press,
	// with the raw platform key code.
	OnKeyDown(fn func(kb Keyboard, key Key, code int))
}

// Handler receives the window lifecycle signals.
type Handler interface {
	Load() error
	Update(dt float64)
	Render(dt float64)
	Resize(width, height int)
}

// Key identifies a keyboard key independent of the window backend.
type Key int

// Keys the host reacts to
const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyEnter
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "escape"
	case KeySpace:
		return "space"
	case KeyEnter:
		return "enter"
	}
	return "unknown"
}

// State is the lifecycle state of a Host.
type State int

// Host lifecycle
const (
	StateCreated State = iota
	StateLoaded
	StateRunning
	StateClosing
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateLoaded:
		return "loaded"
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateDisposed:
		return "disposed"
	}
	return "invalid"
}

// ShaderType represents the type of shader thats loaded
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	WGSLShaderType
	UnknownShaderType
)
