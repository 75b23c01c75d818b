// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package glcore implements gfx.GL on the OpenGL 4.1 core profile.
package glcore

import (
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/glhost/gfx"
)

// Context forwards to the OpenGL functions loaded for the current
// context. It carries no state of its own.
type Context struct{}

// New loads the GL function pointers. A context must be current on the
// calling thread.
func New() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}
	return &Context{}, nil
}

// Info describes the driver behind the current context.
type Info struct {
	Vendor      string `json:"vendor"`
	Renderer    string `json:"renderer"`
	Version     string `json:"version"`
	GLSLVersion string `json:"glsl_version"`
}

// Fields returns the info as log fields.
func (i Info) Fields() log.Fields {
	return log.Fields{
		"vendor":   i.Vendor,
		"renderer": i.Renderer,
		"version":  i.Version,
		"glsl":     i.GLSLVersion,
	}
}

// Info queries the driver identification strings.
func (*Context) Info() Info {
	return Info{
		Vendor:      gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:    gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:     gl.GoStr(gl.GetString(gl.VERSION)),
		GLSLVersion: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(&data[0])
}

func (*Context) GenBuffer() uint32 {
	var b uint32
	gl.GenBuffers(1, &b)
	return b
}

func (*Context) DeleteBuffer(buffer uint32) {
	gl.DeleteBuffers(1, &buffer)
}

func (*Context) BindBuffer(target gfx.Enum, buffer uint32) {
	gl.BindBuffer(uint32(target), buffer)
}

func (*Context) BufferData(target gfx.Enum, data []byte, usage gfx.Enum) {
	gl.BufferData(uint32(target), len(data), ptr(data), uint32(usage))
}

func (*Context) GenVertexArray() uint32 {
	var a uint32
	gl.GenVertexArrays(1, &a)
	return a
}

func (*Context) DeleteVertexArray(array uint32) {
	gl.DeleteVertexArrays(1, &array)
}

func (*Context) BindVertexArray(array uint32) {
	gl.BindVertexArray(array)
}

func (*Context) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (*Context) VertexAttribPointer(index uint32, size int32, xtype gfx.Enum, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, uint32(xtype), normalized, stride, gl.PtrOffset(offset))
}

func (*Context) CreateShader(stage gfx.Enum) uint32 {
	return gl.CreateShader(uint32(stage))
}

func (*Context) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (*Context) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (*Context) GetShaderiv(shader uint32, pname gfx.Enum) int32 {
	var v int32
	gl.GetShaderiv(shader, uint32(pname), &v)
	return v
}

func (*Context) GetShaderInfoLog(shader uint32) string {
	var length int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	msg := strings.Repeat("\x00", int(length+1))
	gl.GetShaderInfoLog(shader, length, nil, gl.Str(msg))
	return strings.TrimRight(msg, "\x00")
}

func (*Context) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (*Context) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (*Context) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (*Context) DetachShader(program, shader uint32) {
	gl.DetachShader(program, shader)
}

func (*Context) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (*Context) GetProgramiv(program uint32, pname gfx.Enum) int32 {
	var v int32
	gl.GetProgramiv(program, uint32(pname), &v)
	return v
}

func (*Context) GetProgramInfoLog(program uint32) string {
	var length int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	msg := strings.Repeat("\x00", int(length+1))
	gl.GetProgramInfoLog(program, length, nil, gl.Str(msg))
	return strings.TrimRight(msg, "\x00")
}

func (*Context) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (*Context) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (*Context) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*Context) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (*Context) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (*Context) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	gl.Uniform4f(location, v0, v1, v2, v3)
}

func (*Context) UniformMatrix4fv(location int32, transpose bool, m *[16]float32) {
	gl.UniformMatrix4fv(location, 1, transpose, &m[0])
}

func (*Context) GenTexture() uint32 {
	var t uint32
	gl.GenTextures(1, &t)
	return t
}

func (*Context) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (*Context) ActiveTexture(unit gfx.Enum) {
	gl.ActiveTexture(uint32(unit))
}

func (*Context) BindTexture(target gfx.Enum, texture uint32) {
	gl.BindTexture(uint32(target), texture)
}

func (*Context) TexImage2D(target gfx.Enum, level int32, internalFormat gfx.Enum, width, height int32, format, xtype gfx.Enum, pixels []byte) {
	gl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0, uint32(format), uint32(xtype), ptr(pixels))
}

func (*Context) TexSubImage2D(target gfx.Enum, level, xoffset, yoffset, width, height int32, format, xtype gfx.Enum, pixels []byte) {
	gl.TexSubImage2D(uint32(target), level, xoffset, yoffset, width, height, uint32(format), uint32(xtype), ptr(pixels))
}

func (*Context) TexParameteri(target, pname gfx.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (*Context) GenerateMipmap(target gfx.Enum) {
	gl.GenerateMipmap(uint32(target))
}

func (*Context) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (*Context) Clear(mask gfx.Enum) {
	gl.Clear(uint32(mask))
}

func (*Context) Enable(capability gfx.Enum) {
	gl.Enable(uint32(capability))
}

func (*Context) BlendFunc(sfactor, dfactor gfx.Enum) {
	gl.BlendFunc(uint32(sfactor), uint32(dfactor))
}

func (*Context) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (*Context) DrawArrays(mode gfx.Enum, first, count int32) {
	gl.DrawArrays(uint32(mode), first, count)
}

func (*Context) DrawElements(mode gfx.Enum, count int32, xtype gfx.Enum, offset int) {
	gl.DrawElements(uint32(mode), count, uint32(xtype), gl.PtrOffset(offset))
}

func (*Context) GetError() gfx.Enum {
	return gfx.Enum(gl.GetError())
}

var _ gfx.GL = (*Context)(nil)
