// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/glhost/core"
	"github.com/devblok/glhost/gfx"
	"github.com/devblok/glhost/gfx/glcore"
)

// SDLWindow is a window and GL context created through SDL2.
type SDLWindow struct {
	cfg      core.Configuration
	window   *sdl.Window
	context  sdl.GLContext
	keyboard *keyboard
	running  bool
}

// NewSDLWindow initialises SDL video and opens the configured window.
func NewSDLWindow(cfg core.Configuration) (*SDLWindow, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, err
	}

	for attr, value := range map[sdl.GLattr]int{
		sdl.GL_CONTEXT_MAJOR_VERSION: ContextMajor,
		sdl.GL_CONTEXT_MINOR_VERSION: ContextMinor,
		sdl.GL_CONTEXT_PROFILE_MASK:  sdl.GL_CONTEXT_PROFILE_CORE,
		sdl.GL_CONTEXT_FLAGS:         sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG,
		sdl.GL_DOUBLEBUFFER:          1,
	} {
		if err := sdl.GLSetAttribute(attr, value); err != nil {
			sdl.Quit()
			return nil, err
		}
	}

	window, err := sdl.CreateWindow(cfg.Window.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Window.Width),
		int32(cfg.Window.Height),
		sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI)
	if err != nil {
		sdl.Quit()
		return nil, err
	}

	return &SDLWindow{
		cfg:      cfg,
		window:   window,
		keyboard: &keyboard{},
	}, nil
}

// Run implements core.Window
func (w *SDLWindow) Run(h core.Handler) error {
	if err := h.Load(); err != nil {
		return err
	}
	h.Resize(w.drawableSize())

	time := core.NewTime(w.cfg.Time)
	defer time.Stop()
	w.running = true

EventLoop:
	for w.running {
		<-time.FpsTicker().C
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch et := event.(type) {
			case *sdl.KeyboardEvent:
				if keyPressed(et) {
					w.keyboard.keyDown(sdlKey(et.Keysym.Sym), int(et.Keysym.Sym))
				}
			case *sdl.WindowEvent:
				if et.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
					h.Resize(w.drawableSize())
				}
			case *sdl.QuitEvent:
				log.Debug("sdl: quit requested")
				break EventLoop
			}
		}
		if !w.running {
			break
		}

		dt := time.Delta()
		h.Update(dt)
		h.Render(dt)
		w.window.GLSwap()
	}
	w.running = false
	return nil
}

func (w *SDLWindow) drawableSize() (int, int) {
	width, height := w.window.GLGetDrawableSize()
	return int(width), int(height)
}

// Close implements core.Window
func (w *SDLWindow) Close() {
	w.running = false
}

// CreateGL implements core.Window
func (w *SDLWindow) CreateGL() (gfx.GL, error) {
	if w.context == nil {
		context, err := w.window.GLCreateContext()
		if err != nil {
			return nil, err
		}
		w.context = context
	}
	if err := w.window.GLMakeCurrent(w.context); err != nil {
		return nil, err
	}
	if err := sdl.GLSetSwapInterval(1); err != nil {
		log.WithError(err).Warn("sdl: vsync unavailable")
	}

	ctx, err := glcore.New()
	if err != nil {
		return nil, err
	}
	log.WithFields(ctx.Info().Fields()).Info("sdl: context created")
	return ctx, nil
}

// Keyboards implements core.Window
func (w *SDLWindow) Keyboards() []core.Keyboard {
	return []core.Keyboard{w.keyboard}
}

// Dispose implements core.Window
func (w *SDLWindow) Dispose() {
	if w.context != nil {
		sdl.GLDeleteContext(w.context)
		w.context = nil
	}
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
}

// keyPressed reports a fresh key press. Auto-repeat is dropped so SDL
// delivers the same signal as GLFW.
func keyPressed(et *sdl.KeyboardEvent) bool {
	return et.Type == sdl.KEYDOWN && et.Repeat == 0
}

func sdlKey(code sdl.Keycode) core.Key {
	switch code {
	case sdl.K_ESCAPE:
		return core.KeyEscape
	case sdl.K_SPACE:
		return core.KeySpace
	case sdl.K_RETURN, sdl.K_KP_ENTER:
		return core.KeyEnter
	}
	return core.KeyUnknown
}
