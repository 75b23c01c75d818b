// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/envy"

	"github.com/devblok/glhost/core"
)

func TestDefaultConfiguration(t *testing.T) {
	c := qt.New(t)
	cfg := core.DefaultConfiguration()
	c.Assert(cfg.Window.Title, qt.Equals, "LearnOpenGL with Go")
	c.Assert(cfg.Window.Width, qt.Equals, 1280)
	c.Assert(cfg.Window.Height, qt.Equals, 720)
	c.Assert(cfg.Validate(), qt.IsNil)
}

func TestLoadConfigurationFile(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "glhost.yaml")
	c.Assert(os.WriteFile(path, []byte(`
window:
  title: Triangle
  width: 800
time:
  fps: 0
renderer:
  mesh: triangle
  clear_color: [0.2, 0.3, 0.3, 1]
debug: true
`), 0644), qt.IsNil)

	envy.Temp(func() {
		cfg, err := core.LoadConfiguration(path)
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Window.Title, qt.Equals, "Triangle")
		c.Assert(cfg.Window.Width, qt.Equals, 800)
		c.Assert(cfg.Window.Height, qt.Equals, 720)
		c.Assert(cfg.Time.FramesPerSecond, qt.Equals, 0)
		c.Assert(cfg.Renderer.Mesh, qt.Equals, "triangle")
		c.Assert(cfg.Renderer.VertexShader, qt.Equals, "shader.vert")
		c.Assert(cfg.Renderer.ClearColor, qt.Equals, glm.Vec4{0.2, 0.3, 0.3, 1})
		c.Assert(cfg.Debug, qt.IsTrue)
	})
}

func TestLoadConfigurationEnvironment(t *testing.T) {
	c := qt.New(t)
	envy.Temp(func() {
		envy.Set(core.EnvTitle, "from env")
		envy.Set(core.EnvWidth, "1024")
		envy.Set(core.EnvHeight, "768")
		envy.Set(core.EnvFPS, "30")
		envy.Set(core.EnvDriver, "glfw")
		envy.Set(core.EnvAssets, "assets.kar")
		envy.Set(core.EnvDebug, "true")

		cfg, err := core.LoadConfiguration("")
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Window, qt.DeepEquals, core.WindowConfiguration{
			Title:  "from env",
			Width:  1024,
			Height: 768,
			Driver: "glfw",
		})
		c.Assert(cfg.Time.FramesPerSecond, qt.Equals, 30)
		c.Assert(cfg.Renderer.Assets, qt.Equals, "assets.kar")
		c.Assert(cfg.Debug, qt.IsTrue)
	})
}

func TestLoadConfigurationErrors(t *testing.T) {
	c := qt.New(t)

	envy.Temp(func() {
		envy.Set(core.EnvWidth, "wide")
		_, err := core.LoadConfiguration("")
		c.Assert(err, qt.ErrorMatches, `GLHOST_WIDTH: .*invalid syntax`)
	})

	envy.Temp(func() {
		envy.Set(core.EnvHeight, "0")
		_, err := core.LoadConfiguration("")
		c.Assert(errors.Is(err, core.ErrConfiguration), qt.IsTrue)
	})

	envy.Temp(func() {
		_, err := core.LoadConfiguration(filepath.Join(c.TempDir(), "missing.yaml"))
		c.Assert(errors.Is(err, os.ErrNotExist), qt.IsTrue)

		bad := filepath.Join(c.TempDir(), "bad.yaml")
		c.Assert(os.WriteFile(bad, []byte("window: [1, 2"), 0644), qt.IsNil)
		_, err = core.LoadConfiguration(bad)
		c.Assert(err, qt.Not(qt.IsNil))
	})
}

func TestValidateWGSLNeedsNoFragmentFile(t *testing.T) {
	c := qt.New(t)
	cfg := core.DefaultConfiguration()
	cfg.Renderer.VertexShader = "quad.wgsl"
	cfg.Renderer.FragmentShader = ""
	c.Assert(cfg.Validate(), qt.IsNil)

	cfg.Renderer.VertexShader = "shader.vert"
	c.Assert(errors.Is(cfg.Validate(), core.ErrConfiguration), qt.IsTrue)
}

func TestLoadEnv(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "test.env")
	c.Assert(os.WriteFile(path, []byte("GLHOST_TEST_LOAD_ENV=loaded\n"), 0644), qt.IsNil)
	c.Cleanup(func() { os.Unsetenv("GLHOST_TEST_LOAD_ENV") })

	c.Assert(core.LoadEnv(path), qt.IsNil)
	c.Assert(envy.Get("GLHOST_TEST_LOAD_ENV", ""), qt.Equals, "loaded")

	c.Assert(core.LoadEnv(filepath.Join(c.TempDir(), "nope.env")), qt.Not(qt.IsNil))
}
