// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// Program owns one linked shader program. A Program value only exists
// once both stages compiled and the link succeeded.
type Program struct {
	gl        GL
	handle    uint32
	locations map[string]int32
	released  bool
}

// NewProgram compiles the vertex and fragment sources and links them.
// The per-stage shader objects are deleted before returning, whether
// construction succeeded or not.
func NewProgram(gl GL, vertexSource, fragmentSource string) (*Program, error) {
	vs, err := compileStage(gl, VertexShader, vertexSource)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileStage(gl, FragmentShader, fragmentSource)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	handle := gl.CreateProgram()
	if handle == 0 {
		return nil, fmt.Errorf("shader program: %w", ErrAllocation)
	}
	gl.AttachShader(handle, vs)
	gl.AttachShader(handle, fs)
	gl.LinkProgram(handle)
	gl.DetachShader(handle, vs)
	gl.DetachShader(handle, fs)

	if gl.GetProgramiv(handle, LinkStatus) == 0 {
		err := &LinkError{Log: gl.GetProgramInfoLog(handle)}
		gl.DeleteProgram(handle)
		log.WithError(err).Error("shader program rejected by driver")
		return nil, err
	}

	p := &Program{
		gl:        gl,
		handle:    handle,
		locations: make(map[string]int32),
	}
	watchLeak(p, "program", handle, func(p *Program) bool { return p.released })
	log.WithField("handle", handle).Debug("shader program linked")
	return p, nil
}

func compileStage(gl GL, stage Enum, source string) (uint32, error) {
	shader := gl.CreateShader(stage)
	if shader == 0 {
		return 0, fmt.Errorf("%s shader: %w", StageName(stage), ErrAllocation)
	}
	gl.ShaderSource(shader, source)
	gl.CompileShader(shader)

	if gl.GetShaderiv(shader, CompileStatus) == 0 {
		err := &CompileError{Stage: stage, Log: gl.GetShaderInfoLog(shader)}
		gl.DeleteShader(shader)
		log.WithError(err).Error("shader stage rejected by driver")
		return 0, err
	}
	return shader, nil
}

// Use activates the program for subsequent draw calls and uniform sets.
func (p *Program) Use() {
	p.gl.UseProgram(p.handle)
}

// Handle returns the driver handle.
func (p *Program) Handle() uint32 {
	return p.handle
}

// Location resolves a uniform location, asking the driver only the first
// time a name is seen. Missing uniforms are remembered too and report false.
func (p *Program) Location(name string) (int32, bool) {
	loc, ok := p.locations[name]
	if !ok {
		loc = p.gl.GetUniformLocation(p.handle, name)
		p.locations[name] = loc
		if loc < 0 {
			log.WithFields(log.Fields{
				"program": p.handle,
				"uniform": name,
			}).Warn("uniform not found, sets will be ignored")
		}
	}
	return loc, loc >= 0
}

// SetInt sets a scalar integer uniform. The program must be in use.
func (p *Program) SetInt(name string, v int32) {
	if loc, ok := p.Location(name); ok {
		p.gl.Uniform1i(loc, v)
	}
}

// SetSampler points a sampler uniform at a texture unit index.
func (p *Program) SetSampler(name string, unit int) {
	p.SetInt(name, int32(unit))
}

// SetFloat sets a scalar float uniform.
func (p *Program) SetFloat(name string, v float32) {
	if loc, ok := p.Location(name); ok {
		p.gl.Uniform1f(loc, v)
	}
}

// SetVec4 sets a vec4 uniform.
func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if loc, ok := p.Location(name); ok {
		p.gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
}

// SetMat4 sets a mat4 uniform from a column-major matrix.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc, ok := p.Location(name); ok {
		raw := [16]float32(m)
		p.gl.UniformMatrix4fv(loc, false, &raw)
	}
}

// Release deactivates and deletes the program.
func (p *Program) Release() {
	if p == nil || p.released {
		return
	}
	p.gl.UseProgram(0)
	p.gl.DeleteProgram(p.handle)
	p.locations = nil
	p.released = true
	unwatchLeak(p)
	log.WithField("handle", p.handle).Debug("shader program released")
}
