// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvTitle  = "GLHOST_TITLE"
	EnvWidth  = "GLHOST_WIDTH"
	EnvHeight = "GLHOST_HEIGHT"
	EnvFPS    = "GLHOST_FPS"
	EnvDriver = "GLHOST_DRIVER"
	EnvAssets = "GLHOST_ASSETS"
	EnvDebug  = "GLHOST_DEBUG"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Window   WindowConfiguration   `yaml:"window"`
	Time     TimeConfiguration     `yaml:"time"`
	Renderer RendererConfiguration `yaml:"renderer"`
	Debug    bool                  `yaml:"debug"`
}

// WindowConfiguration describes the single window of the session
type WindowConfiguration struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// Driver selects the window backend, "sdl" or "glfw"
	Driver string `yaml:"driver"`
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int `yaml:"fps"`
}

// RendererConfiguration names the assets the scene is built from
type RendererConfiguration struct {
	// Assets is a directory or a .kar archive
	Assets string `yaml:"assets"`

	// Mesh is "quad", "triangle" or the name of a .dae asset
	Mesh           string   `yaml:"mesh"`
	VertexShader   string   `yaml:"vertex_shader"`
	FragmentShader string   `yaml:"fragment_shader"`
	VertexEntry    string   `yaml:"vertex_entry"`
	FragmentEntry  string   `yaml:"fragment_entry"`
	Texture        string   `yaml:"texture"`
	Sampler        string   `yaml:"sampler"`
	ClearColor     glm.Vec4 `yaml:"clear_color"`
}

// DefaultConfiguration returns the tutorial setup: a textured quad in
// a 1280x720 window.
func DefaultConfiguration() Configuration {
	return Configuration{
		Window: WindowConfiguration{
			Title:  "LearnOpenGL with Go",
			Width:  1280,
			Height: 720,
			Driver: "sdl",
		},
		Time: TimeConfiguration{
			FramesPerSecond: 60,
		},
		Renderer: RendererConfiguration{
			Assets:         "resources",
			Mesh:           "quad",
			VertexShader:   "shader.vert",
			FragmentShader: "shader.frag",
			VertexEntry:    "vs_main",
			FragmentEntry:  "fs_main",
			Texture:        "silk.png",
			Sampler:        "uTexture",
			ClearColor:     glm.Vec4{1, 1, 1, 1},
		},
	}
}

// LoadConfiguration layers an optional YAML file and the environment
// over the defaults. An empty path skips the file.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadEnv reads additional dotenv files into the environment. Variables
// already set win over the files.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return err
	}
	envy.Reload()
	return nil
}

func (c *Configuration) applyEnv() error {
	c.Window.Title = envy.Get(EnvTitle, c.Window.Title)
	c.Window.Driver = envy.Get(EnvDriver, c.Window.Driver)
	c.Renderer.Assets = envy.Get(EnvAssets, c.Renderer.Assets)

	for key, dst := range map[string]*int{
		EnvWidth:  &c.Window.Width,
		EnvHeight: &c.Window.Height,
		EnvFPS:    &c.Time.FramesPerSecond,
	} {
		raw := envy.Get(key, "")
		if raw == "" {
			continue
		}
		num, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = num
	}

	if raw := envy.Get(EnvDebug, ""); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebug, err)
		}
		c.Debug = debug
	}
	return nil
}

// Validate checks the configuration for values the host cannot run with.
func (c Configuration) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d: %w", c.Window.Width, c.Window.Height, ErrConfiguration)
	}
	if c.Time.FramesPerSecond < 0 {
		return fmt.Errorf("fps %d: %w", c.Time.FramesPerSecond, ErrConfiguration)
	}
	if c.Renderer.VertexShader == "" {
		return fmt.Errorf("no vertex shader: %w", ErrConfiguration)
	}
	if c.Renderer.FragmentShader == "" && ShaderTypeOf(c.Renderer.VertexShader) != WGSLShaderType {
		return fmt.Errorf("no fragment shader: %w", ErrConfiguration)
	}
	return nil
}

// ErrConfiguration marks values rejected by Validate.
var ErrConfiguration = errors.New("invalid configuration")
