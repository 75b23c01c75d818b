// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/glhost/core"
	"github.com/devblok/glhost/gfx"
	"github.com/devblok/glhost/gfx/glcore"
)

// GLFWWindow is a window and GL context created through GLFW.
type GLFWWindow struct {
	cfg      core.Configuration
	window   *glfw.Window
	keyboard *keyboard
}

// NewGLFWWindow initialises GLFW and opens the configured window.
func NewGLFWWindow(cfg core.Configuration) (*GLFWWindow, error) {
	if err := glfw.Init(); err != nil {
		return nil, err
	}

	glfw.WindowHint(glfw.ContextVersionMajor, ContextMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, ContextMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}

	w := &GLFWWindow{
		cfg:      cfg,
		window:   window,
		keyboard: &keyboard{},
	}
	window.SetKeyCallback(w.onKey)
	return w, nil
}

func (w *GLFWWindow) onKey(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
	if action == glfw.Press {
		w.keyboard.keyDown(glfwKey(key), scancode)
	}
}

// Run implements core.Window
func (w *GLFWWindow) Run(h core.Handler) error {
	if err := h.Load(); err != nil {
		return err
	}
	h.Resize(w.window.GetFramebufferSize())
	w.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		h.Resize(width, height)
	})
	defer w.window.SetFramebufferSizeCallback(nil)

	time := core.NewTime(w.cfg.Time)
	defer time.Stop()

	for !w.window.ShouldClose() {
		<-time.FpsTicker().C
		glfw.PollEvents()
		if w.window.ShouldClose() {
			break
		}

		dt := time.Delta()
		h.Update(dt)
		h.Render(dt)
		w.window.SwapBuffers()
	}
	return nil
}

// Close implements core.Window
func (w *GLFWWindow) Close() {
	w.window.SetShouldClose(true)
}

// CreateGL implements core.Window
func (w *GLFWWindow) CreateGL() (gfx.GL, error) {
	w.window.MakeContextCurrent()
	glfw.SwapInterval(1)

	ctx, err := glcore.New()
	if err != nil {
		return nil, err
	}
	log.WithFields(ctx.Info().Fields()).Info("glfw: context created")
	return ctx, nil
}

// Keyboards implements core.Window
func (w *GLFWWindow) Keyboards() []core.Keyboard {
	return []core.Keyboard{w.keyboard}
}

// Dispose implements core.Window
func (w *GLFWWindow) Dispose() {
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	glfw.Terminate()
}

func glfwKey(key glfw.Key) core.Key {
	switch key {
	case glfw.KeyEscape:
		return core.KeyEscape
	case glfw.KeySpace:
		return core.KeySpace
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return core.KeyEnter
	}
	return core.KeyUnknown
}
