// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Attribute describes one attribute slot inside interleaved vertex data.
// Stride and Offset are counted in components of Type, not bytes.
type Attribute struct {
	Slot       uint32
	Components int32
	Type       Enum
	Normalized bool
	Stride     int
	Offset     int
}

// ByteStride returns the distance in bytes between consecutive vertices.
func (a Attribute) ByteStride() int32 {
	return int32(a.Stride * SizeOf(a.Type))
}

// ByteOffset returns the offset in bytes of the attribute in a vertex.
func (a Attribute) ByteOffset() int {
	return a.Offset * SizeOf(a.Type)
}

// VertexArray owns one vertex array object and the attribute layout
// recorded into it.
type VertexArray struct {
	gl         GL
	handle     uint32
	attributes []Attribute
	released   bool
}

// NewVertexArray allocates a vertex array and binds it as current, so
// that following buffer binds and attribute calls are captured by it.
func NewVertexArray(gl GL) (*VertexArray, error) {
	handle := gl.GenVertexArray()
	if handle == 0 {
		return nil, fmt.Errorf("vertex array: %w", ErrAllocation)
	}
	va := &VertexArray{
		gl:     gl,
		handle: handle,
	}
	va.Bind()

	watchLeak(va, "vertex array", handle, func(va *VertexArray) bool { return va.released })
	log.WithField("handle", handle).Debug("vertex array created")
	return va, nil
}

// BindAttribute enables the attribute slot and records its layout
// relative to the currently bound vertex buffer. The right buffer must
// be bound beforehand; this is not checked.
func (va *VertexArray) BindAttribute(a Attribute) {
	va.gl.EnableVertexAttribArray(a.Slot)
	va.gl.VertexAttribPointer(a.Slot, a.Components, a.Type, a.Normalized, a.ByteStride(), a.ByteOffset())
	va.attributes = append(va.attributes, a)
}

// Attributes returns the attribute bindings in the order they were made.
func (va *VertexArray) Attributes() []Attribute {
	return append([]Attribute(nil), va.attributes...)
}

// Bind makes the vertex array current.
func (va *VertexArray) Bind() {
	va.gl.BindVertexArray(va.handle)
}

// Handle returns the driver handle.
func (va *VertexArray) Handle() uint32 {
	return va.handle
}

// Release unbinds and deletes the vertex array.
func (va *VertexArray) Release() {
	if va == nil || va.released {
		return
	}
	va.gl.BindVertexArray(0)
	va.gl.DeleteVertexArray(va.handle)
	va.attributes = nil
	va.released = true
	unwatchLeak(va)
	log.WithField("handle", va.handle).Debug("vertex array released")
}
