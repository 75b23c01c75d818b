// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/glhost/assets"
	"github.com/devblok/glhost/core"
	"github.com/devblok/glhost/gfx"
	"github.com/devblok/glhost/gfx/gltest"
	"github.com/devblok/glhost/model"
)

type fakeKeyboard struct {
	handlers []func(core.Keyboard, core.Key, int)
}

func (kb *fakeKeyboard) OnKeyDown(fn func(core.Keyboard, core.Key, int)) {
	kb.handlers = append(kb.handlers, fn)
}

func (kb *fakeKeyboard) press(key core.Key, code int) {
	for _, fn := range kb.handlers {
		fn(kb, key, code)
	}
}

// fakeWindow runs a fixed number of frames, stopping early once closed.
type fakeWindow struct {
	gl        *gltest.Recorder
	glErr     error
	keyboards []*fakeKeyboard
	frames    int
	onFrame   func(frame int)

	closed   int
	disposed int
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{
		gl:        gltest.New(),
		keyboards: []*fakeKeyboard{{}, {}},
	}
}

func (w *fakeWindow) Run(h core.Handler) error {
	if err := h.Load(); err != nil {
		return err
	}
	h.Resize(1280, 720)
	for frame := 0; frame < w.frames && w.closed == 0; frame++ {
		if w.onFrame != nil {
			w.onFrame(frame)
		}
		h.Update(1.0 / 60)
		h.Render(1.0 / 60)
	}
	return nil
}

func (w *fakeWindow) Close() { w.closed++ }

func (w *fakeWindow) CreateGL() (gfx.GL, error) {
	if w.glErr != nil {
		return nil, w.glErr
	}
	return w.gl, nil
}

func (w *fakeWindow) Keyboards() []core.Keyboard {
	kbs := make([]core.Keyboard, len(w.keyboards))
	for i, kb := range w.keyboards {
		kbs[i] = kb
	}
	return kbs
}

func (w *fakeWindow) Dispose() { w.disposed++ }

const (
	vertexSource   = "#version 410 core\nlayout (location = 0) in vec3 aPos;\nvoid main() { gl_Position = vec4(aPos, 1.0); }"
	fragmentSource = "#version 410 core\nuniform sampler2D uTexture;\nout vec4 color;\nvoid main() { color = vec4(1.0); }"
)

func pngBytes(c *qt.C) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 1, color.NRGBA{B: 255, A: 128})
	var buf bytes.Buffer
	c.Assert(png.Encode(&buf, img), qt.IsNil)
	return buf.Bytes()
}

func testAssets(c *qt.C) assets.Memory {
	return assets.Memory{
		"shader.vert": []byte(vertexSource),
		"shader.frag": []byte(fragmentSource),
		"silk.png":    pngBytes(c),
		"broken.png":  []byte("definitely not a png"),
	}
}

func quadScene() core.Scene {
	return core.Scene{
		Mesh:           model.Quad(),
		VertexShader:   "shader.vert",
		FragmentShader: "shader.frag",
		Texture:        "silk.png",
		Sampler:        "uTexture",
		ClearColor:     glm.Vec4{1, 1, 1, 1},
	}
}

func triangleScene() core.Scene {
	scene := quadScene()
	scene.Mesh = model.Triangle()
	scene.Texture = ""
	return scene
}

func newHost(c *qt.C, scene core.Scene) (*core.Host, *fakeWindow) {
	w := newFakeWindow()
	h := core.Create(w, testAssets(c), scene)
	c.Cleanup(h.Dispose)
	return h, w
}

func loaded(c *qt.C, scene core.Scene) (*core.Host, *fakeWindow) {
	h, w := newHost(c, scene)
	c.Assert(h.Load(), qt.IsNil)
	c.Assert(h.State(), qt.Equals, core.StateLoaded)
	return h, w
}

func TestCreateIsSingleInstance(t *testing.T) {
	c := qt.New(t)
	first, _ := newHost(c, quadScene())
	second := core.Create(newFakeWindow(), assets.Memory{}, triangleScene())
	c.Assert(second, qt.Equals, first)

	first.Dispose()
	third := core.Create(newFakeWindow(), assets.Memory{}, triangleScene())
	defer third.Dispose()
	c.Assert(third, qt.Not(qt.Equals), first)
	c.Assert(third.State(), qt.Equals, core.StateCreated)
}

func TestLoadBuildsTexturedQuad(t *testing.T) {
	c := qt.New(t)
	w := newFakeWindow()
	sampler := w.gl.DeclareUniform("uTexture")
	h := core.Create(w, testAssets(c), quadScene())
	defer h.Dispose()

	c.Assert(h.Load(), qt.IsNil)
	rec := w.gl

	c.Assert(rec.ClearRGBA, qt.Equals, [4]float32{1, 1, 1, 1})
	c.Assert(rec.Enabled[gfx.Blend], qt.IsTrue)
	c.Assert(rec.Named("BlendFunc")[0].Args, qt.DeepEquals, []interface{}{gfx.SrcAlpha, gfx.OneMinusSrcAlpha})

	kinds := map[string]int{}
	for _, handle := range rec.Live() {
		kinds[rec.Kind(handle)]++
	}
	c.Assert(kinds, qt.DeepEquals, map[string]int{
		"vertex array": 1,
		"buffer":       2,
		"program":      1,
		"texture":      1,
	})

	var offsets []int
	for _, p := range rec.AttribPointers {
		c.Assert(p.Stride, qt.Equals, int32(32))
		offsets = append(offsets, p.Offset)
	}
	c.Assert(offsets, qt.DeepEquals, []int{0, 12, 24})
	c.Assert(rec.UniformValues[sampler], qt.Equals, int32(0))

	for _, kb := range w.keyboards {
		c.Assert(kb.handlers, qt.HasLen, 1)
	}
}

func TestLoadUploadsStraightAlphaTexels(t *testing.T) {
	c := qt.New(t)
	_, w := loaded(c, quadScene())

	rows := w.gl.Named("TexSubImage2D")
	c.Assert(rows, qt.HasLen, 2)
	c.Assert(rows[0].Args[8], qt.DeepEquals, []byte{255, 0, 0, 255, 0, 0, 0, 0})
	c.Assert(rows[1].Args[8], qt.DeepEquals, []byte{0, 0, 0, 0, 0, 0, 255, 128})
}

func TestRenderIndexedQuad(t *testing.T) {
	c := qt.New(t)
	h, w := loaded(c, quadScene())
	w.gl.Reset()

	h.Render(0)
	c.Assert(h.State(), qt.Equals, core.StateRunning)
	c.Assert(w.gl.Names(), qt.DeepEquals, []string{
		"Clear", "BindVertexArray", "UseProgram", "ActiveTexture", "BindTexture", "DrawElements",
	})
	c.Assert(w.gl.Calls[0].Args, qt.DeepEquals, []interface{}{gfx.ColorBufferBit})
	c.Assert(w.gl.Calls[5].Args, qt.DeepEquals, []interface{}{gfx.Triangles, int32(6), gfx.UnsignedInt, 0})
	c.Assert(w.gl.UnitTextures[gfx.Texture0], qt.Not(qt.Equals), uint32(0))
}

func TestRenderTriangle(t *testing.T) {
	c := qt.New(t)
	h, w := loaded(c, triangleScene())
	c.Assert(w.gl.Count("GenTexture"), qt.Equals, 0)
	c.Assert(w.gl.AttribPointers, qt.HasLen, 2)
	w.gl.Reset()

	h.Update(0)
	h.Render(0)
	c.Assert(w.gl.Names(), qt.DeepEquals, []string{"Clear", "BindVertexArray", "UseProgram", "DrawArrays"})
	c.Assert(w.gl.Calls[3].Args, qt.DeepEquals, []interface{}{gfx.Triangles, int32(0), int32(3)})
}

func TestResizeBeforeRender(t *testing.T) {
	c := qt.New(t)
	h, w := loaded(c, quadScene())
	w.gl.Reset()

	h.Resize(800, 600)
	h.Render(0)

	c.Assert(w.gl.ViewportRect, qt.Equals, [4]int32{0, 0, 800, 600})
	viewport := w.gl.Index("Viewport", 0)
	c.Assert(viewport, qt.Not(qt.Equals), -1)
	c.Assert(w.gl.Index("DrawElements", viewport), qt.Not(qt.Equals), -1)

	width, height := h.Viewport()
	c.Assert([]int{width, height}, qt.DeepEquals, []int{800, 600})
}

func TestResizeBeforeLoadAppliesOnLoad(t *testing.T) {
	c := qt.New(t)
	h, w := newHost(c, quadScene())
	h.Resize(640, 480)
	c.Assert(w.gl.Count("Viewport"), qt.Equals, 0)

	c.Assert(h.Load(), qt.IsNil)
	c.Assert(w.gl.ViewportRect, qt.Equals, [4]int32{0, 0, 640, 480})
}

func TestEscapeClosesWindow(t *testing.T) {
	c := qt.New(t)
	h, w := loaded(c, quadScene())
	h.Render(0)

	w.keyboards[1].press(core.KeySpace, 32)
	c.Assert(h.State(), qt.Equals, core.StateRunning)
	c.Assert(w.closed, qt.Equals, 0)

	w.keyboards[1].press(core.KeyEscape, 27)
	c.Assert(h.State(), qt.Equals, core.StateClosing)
	c.Assert(w.closed, qt.Equals, 1)

	w.keyboards[0].press(core.KeyEscape, 27)
	c.Assert(w.closed, qt.Equals, 1)
}

func TestLoadFailureReleasesEverything(t *testing.T) {
	tests := []struct {
		about string
		setup func(*core.Scene, *gltest.Recorder)
		check func(*qt.C, error)
	}{{
		about: "fragment stage does not compile",
		setup: func(_ *core.Scene, rec *gltest.Recorder) {
			rec.CompileErrors[gfx.FragmentShader] = "0:3: syntax error"
		},
		check: func(c *qt.C, err error) {
			var compileErr *gfx.CompileError
			c.Assert(errors.As(err, &compileErr), qt.IsTrue)
			c.Assert(compileErr.Stage, qt.Equals, gfx.FragmentShader)
			c.Assert(err, qt.ErrorMatches, `fragment shader compilation failed: 0:3: syntax error`)
		},
	}, {
		about: "program does not link",
		setup: func(_ *core.Scene, rec *gltest.Recorder) {
			rec.LinkError = "undefined varying"
		},
		check: func(c *qt.C, err error) {
			var linkErr *gfx.LinkError
			c.Assert(errors.As(err, &linkErr), qt.IsTrue)
		},
	}, {
		about: "texture is missing",
		setup: func(s *core.Scene, _ *gltest.Recorder) {
			s.Texture = "missing.png"
		},
		check: func(c *qt.C, err error) {
			c.Assert(errors.Is(err, assets.ErrNotFound), qt.IsTrue)
		},
	}, {
		about: "texture does not decode",
		setup: func(s *core.Scene, _ *gltest.Recorder) {
			s.Texture = "broken.png"
		},
		check: func(c *qt.C, err error) {
			var decodeErr *gfx.DecodeError
			c.Assert(errors.As(err, &decodeErr), qt.IsTrue)
		},
	}, {
		about: "texture upload reports a driver error",
		setup: func(_ *core.Scene, rec *gltest.Recorder) {
			rec.Errors = []gfx.Enum{gfx.OutOfMemory}
		},
		check: func(c *qt.C, err error) {
			var driverErr *gfx.DriverError
			c.Assert(errors.As(err, &driverErr), qt.IsTrue)
			c.Assert(driverErr.Code, qt.Equals, gfx.OutOfMemory)
		},
	}, {
		about: "wgsl does not translate",
		setup: func(s *core.Scene, _ *gltest.Recorder) {
			s.VertexShader = "broken.wgsl"
		},
		check: func(c *qt.C, err error) {
			var compileErr *gfx.CompileError
			c.Assert(errors.As(err, &compileErr), qt.IsTrue)
			c.Assert(compileErr.Stage, qt.Equals, gfx.VertexShader)
		},
	}, {
		about: "allocation fails",
		setup: func(_ *core.Scene, rec *gltest.Recorder) {
			rec.FailAlloc = true
		},
		check: func(c *qt.C, err error) {
			c.Assert(errors.Is(err, gfx.ErrAllocation), qt.IsTrue)
		},
	}, {
		about: "mesh is empty",
		setup: func(s *core.Scene, _ *gltest.Recorder) {
			s.Mesh = model.Mesh{}
		},
		check: func(c *qt.C, err error) {
			c.Assert(err, qt.ErrorMatches, `host: mesh has no vertices`)
		},
	}}

	for _, test := range tests {
		t.Run(test.about, func(t *testing.T) {
			c := qt.New(t)
			w := newFakeWindow()
			scene := quadScene()
			test.setup(&scene, w.gl)
			src := testAssets(c)
			src["broken.wgsl"] = []byte("fn broken( {")

			h := core.Create(w, src, scene)
			defer h.Dispose()

			err := h.Load()
			c.Assert(err, qt.Not(qt.IsNil))
			test.check(c, err)
			c.Assert(w.gl.Live(), qt.HasLen, 0)
			c.Assert(h.State(), qt.Equals, core.StateCreated)
			for _, kb := range w.keyboards {
				c.Assert(kb.handlers, qt.HasLen, 0)
			}
		})
	}
}

func TestRunDrivesLifecycle(t *testing.T) {
	c := qt.New(t)
	h, w := newHost(c, quadScene())
	w.frames = 10
	w.onFrame = func(frame int) {
		if frame == 1 {
			w.keyboards[0].press(core.KeyEscape, 27)
		}
	}

	c.Assert(h.Run(), qt.IsNil)
	c.Assert(h.State(), qt.Equals, core.StateDisposed)
	c.Assert(w.gl.Count("DrawElements"), qt.Equals, 2)
	c.Assert(w.gl.Live(), qt.HasLen, 0)
	c.Assert(w.closed, qt.Equals, 1)
	c.Assert(w.disposed, qt.Equals, 1)

	h.Dispose()
	c.Assert(w.disposed, qt.Equals, 1)

	err := h.Run()
	c.Assert(errors.Is(err, core.ErrHostState), qt.IsTrue)

	next := core.Create(newFakeWindow(), assets.Memory{}, quadScene())
	defer next.Dispose()
	c.Assert(next, qt.Not(qt.Equals), h)
}

func TestRunReturnsLoadError(t *testing.T) {
	c := qt.New(t)
	h, w := newHost(c, quadScene())
	w.glErr = errors.New("no GL 4.1 context")
	w.frames = 5

	err := h.Run()
	c.Assert(err, qt.ErrorMatches, `create context: no GL 4.1 context`)
	c.Assert(h.State(), qt.Equals, core.StateDisposed)
	c.Assert(w.disposed, qt.Equals, 1)
	c.Assert(w.gl.Calls, qt.HasLen, 0)
}

func TestLoadTwice(t *testing.T) {
	c := qt.New(t)
	h, _ := loaded(c, quadScene())
	c.Assert(errors.Is(h.Load(), core.ErrHostState), qt.IsTrue)
}

func TestRenderBeforeLoadIsIgnored(t *testing.T) {
	c := qt.New(t)
	h, w := newHost(c, quadScene())
	h.Update(0)
	h.Render(0)
	c.Assert(h.State(), qt.Equals, core.StateCreated)
	c.Assert(w.gl.Calls, qt.HasLen, 0)
}

func TestNewScene(t *testing.T) {
	c := qt.New(t)
	cfg := core.DefaultConfiguration().Renderer

	scene, err := core.NewScene(cfg, assets.Memory{})
	c.Assert(err, qt.IsNil)
	c.Assert(scene.Mesh.Indices, qt.HasLen, 6)
	c.Assert(scene.Texture, qt.Equals, "silk.png")
	c.Assert(scene.Sampler, qt.Equals, "uTexture")

	cfg.Mesh = "triangle"
	scene, err = core.NewScene(cfg, assets.Memory{})
	c.Assert(err, qt.IsNil)
	c.Assert(scene.Mesh.VertexCount(), qt.Equals, 3)
	c.Assert(scene.Texture, qt.Equals, "")

	cfg.Mesh = "plane.dae"
	_, err = core.NewScene(cfg, assets.Memory{})
	c.Assert(errors.Is(err, assets.ErrNotFound), qt.IsTrue)

	_, err = core.NewScene(cfg, assets.Memory{"plane.dae": []byte("<COLLADA/>")})
	c.Assert(errors.Is(err, model.ErrNoGeometry), qt.IsTrue)
}
