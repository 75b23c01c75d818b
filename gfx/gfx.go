// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx wraps the GPU resources a single render context owns:
// buffers, vertex arrays, shader programs and textures. Every wrapper
// owns exactly one driver handle and releases it at most once.
//
// All calls must be made from the goroutine that owns the GL context,
// which in practice means the locked main thread.
package gfx

// Releasable defines any GPU-occupying item that can be freed.
type Releasable interface {

	// Release frees the driver handle. Calling it more than
	// once is a no-op.
	Release()
}

// Enum is a driver enumeration value. The constants below carry the
// numeric values of the OpenGL core profile so a driver can pass them
// through unchanged.
type Enum uint32

// Buffer targets and usage.
const (
	ArrayBuffer        Enum = 0x8892
	ElementArrayBuffer Enum = 0x8893
	StaticDraw         Enum = 0x88E4
)

// Component types.
const (
	Byte          Enum = 0x1400
	UnsignedByte  Enum = 0x1401
	Short         Enum = 0x1402
	UnsignedShort Enum = 0x1403
	Int           Enum = 0x1404
	UnsignedInt   Enum = 0x1405
	Float         Enum = 0x1406
)

// Shader stages and status queries.
const (
	FragmentShader Enum = 0x8B30
	VertexShader   Enum = 0x8B31
	CompileStatus  Enum = 0x8B81
	LinkStatus     Enum = 0x8B82
	InfoLogLength  Enum = 0x8B84
)

// Texture targets, formats and parameters.
const (
	Texture2D            Enum = 0x0DE1
	Texture0             Enum = 0x84C0
	RGBA                 Enum = 0x1908
	RGBA8                Enum = 0x8058
	TextureMagFilter     Enum = 0x2800
	TextureMinFilter     Enum = 0x2801
	TextureWrapS         Enum = 0x2802
	TextureWrapT         Enum = 0x2803
	TextureBaseLevel     Enum = 0x813C
	TextureMaxLevel      Enum = 0x813D
	Linear               Enum = 0x2601
	LinearMipmapLinear   Enum = 0x2703
	ClampToEdge          Enum = 0x812F
	ColorBufferBit       Enum = 0x4000
	Blend                Enum = 0x0BE2
	SrcAlpha             Enum = 0x0302
	OneMinusSrcAlpha     Enum = 0x0303
	Triangles            Enum = 0x0004
	NoError              Enum = 0
	InvalidEnum          Enum = 0x0500
	InvalidValue         Enum = 0x0501
	InvalidOperation     Enum = 0x0502
	OutOfMemory          Enum = 0x0505
	InvalidFramebufferOp Enum = 0x0506
)

// MaxMipmapLevel is the last level of the mipmap chain generated for textures.
const MaxMipmapLevel = 8

// GL is the subset of the OpenGL core profile the wrappers drive.
// Signatures take Go slices and strings; the implementation takes
// care of pointers and terminators.
type GL interface {
	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindBuffer(target Enum, buffer uint32)
	BufferData(target Enum, data []byte, usage Enum)

	GenVertexArray() uint32
	DeleteVertexArray(array uint32)
	BindVertexArray(array uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype Enum, normalized bool, stride int32, offset int)

	CreateShader(stage Enum) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname Enum) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform4f(location int32, v0, v1, v2, v3 float32)
	UniformMatrix4fv(location int32, transpose bool, m *[16]float32)

	GenTexture() uint32
	DeleteTexture(texture uint32)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, texture uint32)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, xtype Enum, pixels []byte)
	TexSubImage2D(target Enum, level, xoffset, yoffset, width, height int32, format, xtype Enum, pixels []byte)
	TexParameteri(target, pname Enum, param int32)
	GenerateMipmap(target Enum)

	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Enable(capability Enum)
	BlendFunc(sfactor, dfactor Enum)
	Viewport(x, y, width, height int32)
	DrawArrays(mode Enum, first, count int32)
	DrawElements(mode Enum, count int32, xtype Enum, offset int)
	GetError() Enum
}

// SizeOf returns the byte size of a single component of the given type.
// Unknown types report 0.
func SizeOf(xtype Enum) int {
	switch xtype {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case Int, UnsignedInt, Float:
		return 4
	}
	return 0
}
