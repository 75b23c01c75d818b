// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device provides the windows a Host runs in. Every window owns
// one OpenGL 4.1 core context; all methods must be called from the
// locked main thread.
package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devblok/glhost/core"
)

// Window backends
const (
	DriverSDL  = "sdl"
	DriverGLFW = "glfw"
)

// Requested context version
const (
	ContextMajor = 4
	ContextMinor = 1
)

// ErrUnknownDriver is returned by New for an unsupported backend name.
var ErrUnknownDriver = errors.New("unknown window driver")

// New creates the window of the configured backend.
func New(cfg core.Configuration) (core.Window, error) {
	switch strings.ToLower(cfg.Window.Driver) {
	case "", DriverSDL:
		return NewSDLWindow(cfg)
	case DriverGLFW:
		return NewGLFWWindow(cfg)
	}
	return nil, fmt.Errorf("%q: %w", cfg.Window.Driver, ErrUnknownDriver)
}

// keyboard fans key presses out to the registered handlers. Both
// backends expose a single system keyboard.
type keyboard struct {
	handlers []func(core.Keyboard, core.Key, int)
}

func (kb *keyboard) OnKeyDown(fn func(core.Keyboard, core.Key, int)) {
	kb.handlers = append(kb.handlers, fn)
}

func (kb *keyboard) keyDown(key core.Key, code int) {
	for _, fn := range kb.handlers {
		fn(kb, key, code)
	}
}
