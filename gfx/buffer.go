// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"fmt"
	"unsafe"

	log "github.com/sirupsen/logrus"
)

// Element is any fixed-size value a buffer can carry.
type Element interface {
	~float32 | ~int32 | ~uint32 | ~uint16 | ~uint8
}

// BufferKind tells what a buffer feeds: vertex attributes or indices.
type BufferKind int

// Buffer kinds
const (
	VertexData BufferKind = iota
	IndexData
)

// Target returns the driver bind target for the kind.
func (k BufferKind) Target() Enum {
	if k == IndexData {
		return ElementArrayBuffer
	}
	return ArrayBuffer
}

func (k BufferKind) String() string {
	if k == IndexData {
		return "index"
	}
	return "vertex"
}

// Buffer owns one GPU buffer filled once with static data.
// There is no way to update the contents; a new payload needs
// a new Buffer.
type Buffer[T Element] struct {
	gl       GL
	handle   uint32
	kind     BufferKind
	count    int
	released bool
}

// NewBuffer allocates a buffer of the given kind, binds it and uploads data.
func NewBuffer[T Element](gl GL, kind BufferKind, data []T) (*Buffer[T], error) {
	handle := gl.GenBuffer()
	if handle == 0 {
		return nil, fmt.Errorf("%s buffer: %w", kind, ErrAllocation)
	}

	b := &Buffer[T]{
		gl:     gl,
		handle: handle,
		kind:   kind,
		count:  len(data),
	}
	b.Bind()
	gl.BufferData(kind.Target(), bytesOf(data), StaticDraw)

	watchLeak(b, "buffer", handle, func(b *Buffer[T]) bool { return b.released })
	log.WithFields(log.Fields{
		"handle": handle,
		"kind":   kind,
		"bytes":  b.ByteSize(),
	}).Debug("buffer created")
	return b, nil
}

// Bind makes the buffer the active one for its kind.
func (b *Buffer[T]) Bind() {
	b.gl.BindBuffer(b.kind.Target(), b.handle)
}

// Release deletes the GPU buffer.
func (b *Buffer[T]) Release() {
	if b == nil || b.released {
		return
	}
	b.gl.DeleteBuffer(b.handle)
	b.released = true
	unwatchLeak(b)
	log.WithField("handle", b.handle).Debug("buffer released")
}

// Handle returns the driver handle. It is meaningless after Release.
func (b *Buffer[T]) Handle() uint32 {
	return b.handle
}

// Kind returns what the buffer feeds.
func (b *Buffer[T]) Kind() BufferKind {
	return b.kind
}

// Len returns the number of elements uploaded.
func (b *Buffer[T]) Len() int {
	return b.count
}

// ElementSize returns the byte size of one element.
func (b *Buffer[T]) ElementSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// ByteSize returns the size of the uploaded payload.
func (b *Buffer[T]) ByteSize() int {
	return b.count * b.ElementSize()
}

// IndexType returns the component type matching T when the buffer is
// used for indices.
func (b *Buffer[T]) IndexType() Enum {
	switch b.ElementSize() {
	case 1:
		return UnsignedByte
	case 2:
		return UnsignedShort
	}
	return UnsignedInt
}

func bytesOf[T Element](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*int(unsafe.Sizeof(zero)))
}
