// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"
	"sync"

	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/glhost/assets"
	"github.com/devblok/glhost/gfx"
	"github.com/devblok/glhost/model"
)

// ErrHostState is returned when a lifecycle step is requested out of order.
var ErrHostState = errors.New("host: invalid state")

// Scene is everything the host uploads on load: one mesh, one shader
// program and at most one texture.
type Scene struct {
	Mesh           model.Mesh
	VertexShader   string
	FragmentShader string
	VertexEntry    string
	FragmentEntry  string

	// Texture is an asset name, empty for untextured meshes
	Texture string

	// Sampler is the uniform the texture unit is written to
	Sampler    string
	ClearColor glm.Vec4
}

// NewScene resolves the mesh named by cfg. Meshes without texture
// coordinates get no texture.
func NewScene(cfg RendererConfiguration, src assets.Source) (Scene, error) {
	scene := Scene{
		VertexShader:   cfg.VertexShader,
		FragmentShader: cfg.FragmentShader,
		VertexEntry:    cfg.VertexEntry,
		FragmentEntry:  cfg.FragmentEntry,
		Texture:        cfg.Texture,
		Sampler:        cfg.Sampler,
		ClearColor:     cfg.ClearColor,
	}

	switch cfg.Mesh {
	case "", "quad":
		scene.Mesh = model.Quad()
	case "triangle":
		scene.Mesh = model.Triangle()
	default:
		data, err := src.ReadFile(cfg.Mesh)
		if err != nil {
			return scene, err
		}
		mesh, err := model.ImportCollada(data)
		if err != nil {
			return scene, fmt.Errorf("%s: %w", cfg.Mesh, err)
		}
		scene.Mesh = mesh
	}

	if !scene.Mesh.Textured() {
		scene.Texture = ""
	}
	return scene, nil
}

var (
	instanceMu sync.Mutex
	instance   *Host
)

// Create returns the host of this process, creating it on first use.
// Later calls return the same host and ignore their arguments until
// it is disposed.
func Create(window Window, src assets.Source, scene Scene) *Host {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance == nil {
		instance = &Host{
			window: window,
			assets: src,
			scene:  scene,
		}
	}
	return instance
}

// Host owns the window and the GPU resources of the render session.
// Every method except Create must be called from the thread that owns
// the GL context.
type Host struct {
	window Window
	assets assets.Source
	scene  Scene

	gl       gfx.GL
	state    State
	viewport [2]int

	vertexArray *gfx.VertexArray
	vertices    *gfx.Buffer[float32]
	indices     *gfx.Buffer[uint32]
	program     *gfx.Program
	texture     *gfx.Texture
}

// State returns the lifecycle state.
func (h *Host) State() State {
	return h.state
}

// Viewport returns the extent of the last resize.
func (h *Host) Viewport() (width, height int) {
	return h.viewport[0], h.viewport[1]
}

// Run blocks in the window loop until the window closes, then releases
// everything. Errors from Load end the loop and are returned.
func (h *Host) Run() error {
	if h.state != StateCreated {
		return fmt.Errorf("run in state %s: %w", h.state, ErrHostState)
	}
	err := h.window.Run(h)
	h.Dispose()
	return err
}

// Load acquires the context and builds the resource set. On failure
// nothing built so far stays alive.
func (h *Host) Load() error {
	if h.state != StateCreated {
		return fmt.Errorf("load in state %s: %w", h.state, ErrHostState)
	}

	gl, err := h.window.CreateGL()
	if err != nil {
		return fmt.Errorf("create context: %w", err)
	}
	h.gl = gl

	c := h.scene.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Enable(gfx.Blend)
	gl.BlendFunc(gfx.SrcAlpha, gfx.OneMinusSrcAlpha)
	if h.viewport[0] > 0 && h.viewport[1] > 0 {
		gl.Viewport(0, 0, int32(h.viewport[0]), int32(h.viewport[1]))
	}

	if err := h.build(); err != nil {
		h.release()
		return err
	}

	for _, kb := range h.window.Keyboards() {
		kb.OnKeyDown(h.KeyDown)
	}

	h.state = StateLoaded
	log.WithFields(log.Fields{
		"vertices": h.scene.Mesh.VertexCount(),
		"indices":  len(h.scene.Mesh.Indices),
		"textured": h.texture != nil,
	}).Debug("host: loaded")
	return nil
}

func (h *Host) build() error {
	mesh := h.scene.Mesh
	if mesh.VertexCount() == 0 {
		return errors.New("host: mesh has no vertices")
	}

	var err error
	if h.vertexArray, err = gfx.NewVertexArray(h.gl); err != nil {
		return err
	}
	if h.vertices, err = gfx.NewBuffer(h.gl, gfx.VertexData, mesh.Vertices); err != nil {
		return err
	}
	if mesh.Indexed() {
		if h.indices, err = gfx.NewBuffer(h.gl, gfx.IndexData, mesh.Indices); err != nil {
			return err
		}
	}
	for _, attr := range mesh.Layout {
		h.vertexArray.BindAttribute(attr)
	}

	if h.program, err = h.loadProgram(); err != nil {
		return err
	}
	h.program.Use()

	if h.scene.Texture == "" {
		return nil
	}
	h.program.SetSampler(h.scene.Sampler, 0)
	h.texture, err = h.loadTexture()
	return err
}

func (h *Host) loadProgram() (*gfx.Program, error) {
	vertex, err := h.assets.ReadFile(h.scene.VertexShader)
	if err != nil {
		return nil, err
	}
	if ShaderTypeOf(h.scene.VertexShader) == WGSLShaderType {
		vEntry, fEntry := h.scene.VertexEntry, h.scene.FragmentEntry
		if vEntry == "" {
			vEntry = gfx.DefaultVertexEntry
		}
		if fEntry == "" {
			fEntry = gfx.DefaultFragmentEntry
		}
		return gfx.NewProgramFromWGSL(h.gl, string(vertex), vEntry, fEntry)
	}

	fragment, err := h.assets.ReadFile(h.scene.FragmentShader)
	if err != nil {
		return nil, err
	}
	return gfx.NewProgram(h.gl, string(vertex), string(fragment))
}

func (h *Host) loadTexture() (*gfx.Texture, error) {
	r, err := h.assets.Open(h.scene.Texture)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	tex, err := gfx.NewTexture(h.gl, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", h.scene.Texture, err)
	}
	return tex, nil
}

// Update advances the game state. There is none yet.
func (h *Host) Update(dt float64) {
	if h.state == StateLoaded {
		h.state = StateRunning
	}
}

// Render clears the frame and draws the mesh once.
func (h *Host) Render(dt float64) {
	switch h.state {
	case StateLoaded:
		h.state = StateRunning
	case StateRunning, StateClosing:
	default:
		return
	}

	h.gl.Clear(gfx.ColorBufferBit)
	h.vertexArray.Bind()
	h.program.Use()
	if h.texture != nil {
		h.texture.Bind(0)
	}

	if h.indices != nil {
		h.gl.DrawElements(gfx.Triangles, int32(h.indices.Len()), h.indices.IndexType(), 0)
		return
	}
	h.gl.DrawArrays(gfx.Triangles, 0, int32(h.scene.Mesh.VertexCount()))
}

// Resize sets the viewport to the new framebuffer extent.
func (h *Host) Resize(width, height int) {
	h.viewport = [2]int{width, height}
	if h.gl == nil {
		return
	}
	h.gl.Viewport(0, 0, int32(width), int32(height))
}

// KeyDown closes the window on escape.
func (h *Host) KeyDown(kb Keyboard, key Key, code int) {
	if key != KeyEscape {
		return
	}
	if h.state != StateLoaded && h.state != StateRunning {
		return
	}
	h.state = StateClosing
	log.WithField("code", code).Debug("host: escape pressed, closing")
	h.window.Close()
}

// Dispose releases the GPU resources and the window. It runs once;
// afterwards Create makes a new host.
func (h *Host) Dispose() {
	if h.state == StateDisposed {
		return
	}
	h.release()
	h.window.Dispose()
	h.state = StateDisposed

	instanceMu.Lock()
	if instance == h {
		instance = nil
	}
	instanceMu.Unlock()
}

func (h *Host) release() {
	h.texture.Release()
	h.program.Release()
	h.indices.Release()
	h.vertices.Release()
	h.vertexArray.Release()
	h.texture, h.program, h.indices, h.vertices, h.vertexArray = nil, nil, nil, nil, nil
}
