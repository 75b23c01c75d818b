// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gltest provides a recording gfx.GL for tests that need a
// driver but no GPU.
package gltest

import (
	"fmt"
	"sort"

	"github.com/devblok/glhost/gfx"
)

// Call is one recorded driver call.
type Call struct {
	Name string
	Args []interface{}
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// AttribPointer captures a VertexAttribPointer call together with the
// bindings that were current when it was made.
type AttribPointer struct {
	Index       uint32
	Size        int32
	Type        gfx.Enum
	Normalized  bool
	Stride      int32
	Offset      int
	Buffer      uint32
	VertexArray uint32
}

// Recorder records every call in order and tracks binding state.
// Handles are handed out from a single increasing counter, so they are
// unique across kinds.
type Recorder struct {
	Calls []Call

	// FailAlloc makes every Gen*/Create* call return 0.
	FailAlloc bool
	// CompileErrors maps a shader stage to the info log reported when
	// compiling any shader of that stage.
	CompileErrors map[gfx.Enum]string
	// LinkError, when set, fails every link with this info log.
	LinkError string
	// Errors is drained by GetError, one value per call.
	Errors []gfx.Enum

	BoundBuffers     map[gfx.Enum]uint32
	BoundVertexArray uint32
	CurrentProgram   uint32
	ActiveUnit       gfx.Enum
	UnitTextures     map[gfx.Enum]uint32
	Enabled          map[gfx.Enum]bool
	ViewportRect     [4]int32
	ClearRGBA        [4]float32
	AttribPointers   []AttribPointer
	Uploads          map[uint32][]byte
	UniformValues    map[int32]interface{}

	next     uint32
	live     map[uint32]string
	stages   map[uint32]gfx.Enum
	uniforms map[string]int32
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{
		CompileErrors: make(map[gfx.Enum]string),
		BoundBuffers:  make(map[gfx.Enum]uint32),
		UnitTextures:  make(map[gfx.Enum]uint32),
		Enabled:       make(map[gfx.Enum]bool),
		Uploads:       make(map[uint32][]byte),
		UniformValues: make(map[int32]interface{}),
		live:          make(map[uint32]string),
		stages:        make(map[uint32]gfx.Enum),
		uniforms:      make(map[string]int32),
	}
}

// DeclareUniform makes name resolvable in every program and returns
// its location. Undeclared names resolve to -1.
func (r *Recorder) DeclareUniform(name string) int32 {
	if loc, ok := r.uniforms[name]; ok {
		return loc
	}
	loc := int32(len(r.uniforms))
	r.uniforms[name] = loc
	return loc
}

// Count returns how many times the named call was made.
func (r *Recorder) Count(name string) int {
	return len(r.Named(name))
}

// Named returns the recorded calls with the given name.
func (r *Recorder) Named(name string) []Call {
	var calls []Call
	for _, c := range r.Calls {
		if c.Name == name {
			calls = append(calls, c)
		}
	}
	return calls
}

// Names returns the sequence of call names.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the first call with the given name at or
// after from, or -1.
func (r *Recorder) Index(name string, from int) int {
	for i := from; i < len(r.Calls); i++ {
		if r.Calls[i].Name == name {
			return i
		}
	}
	return -1
}

// Reset forgets the recorded calls but keeps binding state and handles.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.AttribPointers = nil
}

// Live returns the handles allocated and not yet deleted, sorted.
func (r *Recorder) Live() []uint32 {
	handles := make([]uint32, 0, len(r.live))
	for h := range r.live {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

// Kind returns the kind of a live handle, or "" if it is not live.
func (r *Recorder) Kind(handle uint32) string {
	return r.live[handle]
}

func (r *Recorder) record(name string, args ...interface{}) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) alloc(kind string) uint32 {
	if r.FailAlloc {
		return 0
	}
	r.next++
	r.live[r.next] = kind
	return r.next
}

func (r *Recorder) free(handle uint32) {
	delete(r.live, handle)
}

func (r *Recorder) GenBuffer() uint32 {
	h := r.alloc("buffer")
	r.record("GenBuffer", h)
	return h
}

func (r *Recorder) DeleteBuffer(buffer uint32) {
	r.record("DeleteBuffer", buffer)
	for target, b := range r.BoundBuffers {
		if b == buffer {
			delete(r.BoundBuffers, target)
		}
	}
	r.free(buffer)
}

func (r *Recorder) BindBuffer(target gfx.Enum, buffer uint32) {
	r.record("BindBuffer", target, buffer)
	r.BoundBuffers[target] = buffer
}

func (r *Recorder) BufferData(target gfx.Enum, data []byte, usage gfx.Enum) {
	r.record("BufferData", target, len(data), usage)
	r.Uploads[r.BoundBuffers[target]] = append([]byte(nil), data...)
}

func (r *Recorder) GenVertexArray() uint32 {
	h := r.alloc("vertex array")
	r.record("GenVertexArray", h)
	return h
}

func (r *Recorder) DeleteVertexArray(array uint32) {
	r.record("DeleteVertexArray", array)
	r.free(array)
}

func (r *Recorder) BindVertexArray(array uint32) {
	r.record("BindVertexArray", array)
	r.BoundVertexArray = array
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record("EnableVertexAttribArray", index)
}

func (r *Recorder) VertexAttribPointer(index uint32, size int32, xtype gfx.Enum, normalized bool, stride int32, offset int) {
	r.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
	r.AttribPointers = append(r.AttribPointers, AttribPointer{
		Index:       index,
		Size:        size,
		Type:        xtype,
		Normalized:  normalized,
		Stride:      stride,
		Offset:      offset,
		Buffer:      r.BoundBuffers[gfx.ArrayBuffer],
		VertexArray: r.BoundVertexArray,
	})
}

func (r *Recorder) CreateShader(stage gfx.Enum) uint32 {
	h := r.alloc("shader")
	r.record("CreateShader", stage, h)
	if h != 0 {
		r.stages[h] = stage
	}
	return h
}

func (r *Recorder) ShaderSource(shader uint32, source string) {
	r.record("ShaderSource", shader, source)
}

func (r *Recorder) CompileShader(shader uint32) {
	r.record("CompileShader", shader)
}

func (r *Recorder) GetShaderiv(shader uint32, pname gfx.Enum) int32 {
	r.record("GetShaderiv", shader, pname)
	msg, failed := r.CompileErrors[r.stages[shader]]
	switch pname {
	case gfx.CompileStatus:
		if failed {
			return 0
		}
		return 1
	case gfx.InfoLogLength:
		return int32(len(msg))
	}
	return 0
}

func (r *Recorder) GetShaderInfoLog(shader uint32) string {
	r.record("GetShaderInfoLog", shader)
	return r.CompileErrors[r.stages[shader]]
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.record("DeleteShader", shader)
	r.free(shader)
}

func (r *Recorder) CreateProgram() uint32 {
	h := r.alloc("program")
	r.record("CreateProgram", h)
	return h
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.record("AttachShader", program, shader)
}

func (r *Recorder) DetachShader(program, shader uint32) {
	r.record("DetachShader", program, shader)
}

func (r *Recorder) LinkProgram(program uint32) {
	r.record("LinkProgram", program)
}

func (r *Recorder) GetProgramiv(program uint32, pname gfx.Enum) int32 {
	r.record("GetProgramiv", program, pname)
	switch pname {
	case gfx.LinkStatus:
		if r.LinkError != "" {
			return 0
		}
		return 1
	case gfx.InfoLogLength:
		return int32(len(r.LinkError))
	}
	return 0
}

func (r *Recorder) GetProgramInfoLog(program uint32) string {
	r.record("GetProgramInfoLog", program)
	return r.LinkError
}

func (r *Recorder) UseProgram(program uint32) {
	r.record("UseProgram", program)
	r.CurrentProgram = program
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram", program)
	r.free(program)
}

func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	r.record("GetUniformLocation", program, name)
	if loc, ok := r.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) Uniform1i(location int32, v int32) {
	r.record("Uniform1i", location, v)
	r.UniformValues[location] = v
}

func (r *Recorder) Uniform1f(location int32, v float32) {
	r.record("Uniform1f", location, v)
	r.UniformValues[location] = v
}

func (r *Recorder) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	r.record("Uniform4f", location, v0, v1, v2, v3)
	r.UniformValues[location] = [4]float32{v0, v1, v2, v3}
}

func (r *Recorder) UniformMatrix4fv(location int32, transpose bool, m *[16]float32) {
	r.record("UniformMatrix4fv", location, transpose)
	r.UniformValues[location] = *m
}

func (r *Recorder) GenTexture() uint32 {
	h := r.alloc("texture")
	r.record("GenTexture", h)
	return h
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.record("DeleteTexture", texture)
	r.free(texture)
}

func (r *Recorder) ActiveTexture(unit gfx.Enum) {
	r.record("ActiveTexture", unit)
	r.ActiveUnit = unit
}

func (r *Recorder) BindTexture(target gfx.Enum, texture uint32) {
	r.record("BindTexture", target, texture)
	r.UnitTextures[r.ActiveUnit] = texture
}

func (r *Recorder) TexImage2D(target gfx.Enum, level int32, internalFormat gfx.Enum, width, height int32, format, xtype gfx.Enum, pixels []byte) {
	r.record("TexImage2D", target, level, internalFormat, width, height, format, xtype, len(pixels))
}

func (r *Recorder) TexSubImage2D(target gfx.Enum, level, xoffset, yoffset, width, height int32, format, xtype gfx.Enum, pixels []byte) {
	r.record("TexSubImage2D", target, level, xoffset, yoffset, width, height, format, xtype, append([]byte(nil), pixels...))
}

func (r *Recorder) TexParameteri(target, pname gfx.Enum, param int32) {
	r.record("TexParameteri", target, pname, param)
}

func (r *Recorder) GenerateMipmap(target gfx.Enum) {
	r.record("GenerateMipmap", target)
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
	r.ClearRGBA = [4]float32{red, green, blue, alpha}
}

func (r *Recorder) Clear(mask gfx.Enum) {
	r.record("Clear", mask)
}

func (r *Recorder) Enable(capability gfx.Enum) {
	r.record("Enable", capability)
	r.Enabled[capability] = true
}

func (r *Recorder) BlendFunc(sfactor, dfactor gfx.Enum) {
	r.record("BlendFunc", sfactor, dfactor)
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
	r.ViewportRect = [4]int32{x, y, width, height}
}

func (r *Recorder) DrawArrays(mode gfx.Enum, first, count int32) {
	r.record("DrawArrays", mode, first, count)
}

func (r *Recorder) DrawElements(mode gfx.Enum, count int32, xtype gfx.Enum, offset int) {
	r.record("DrawElements", mode, count, xtype, offset)
}

func (r *Recorder) GetError() gfx.Enum {
	if len(r.Errors) == 0 {
		return gfx.NoError
	}
	code := r.Errors[0]
	r.Errors = r.Errors[1:]
	return code
}

var _ gfx.GL = (*Recorder)(nil)
