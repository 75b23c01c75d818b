// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/glhost/gfx"
	"github.com/devblok/glhost/gfx/gltest"
)

func TestNewBufferUploadsOnce(t *testing.T) {
	c := qt.New(t)
	rec := gltest.New()

	vertices := []float32{-0.5, -0.5, 0, 0, 0.5, 0, 0.5, -0.5, 0}
	b, err := gfx.NewBuffer(rec, gfx.VertexData, vertices)
	c.Assert(err, qt.IsNil)
	defer b.Release()

	c.Assert(b.Len(), qt.Equals, 9)
	c.Assert(b.ElementSize(), qt.Equals, 4)
	c.Assert(b.ByteSize(), qt.Equals, 36)
	c.Assert(rec.Count("BufferData"), qt.Equals, 1)
	c.Assert(rec.Named("BufferData")[0].Args, qt.DeepEquals, []interface{}{gfx.ArrayBuffer, 36, gfx.StaticDraw})
	c.Assert(rec.BoundBuffers[gfx.ArrayBuffer], qt.Equals, b.Handle())
	c.Assert(rec.Uploads[b.Handle()], qt.HasLen, 36)
}

func TestIndexBufferTargetsElementArray(t *testing.T) {
	c := qt.New(t)
	rec := gltest.New()

	b, err := gfx.NewBuffer(rec, gfx.IndexData, []uint32{0, 1, 2, 2, 1, 3})
	c.Assert(err, qt.IsNil)
	defer b.Release()

	c.Assert(rec.BoundBuffers[gfx.ElementArrayBuffer], qt.Equals, b.Handle())
	c.Assert(b.IndexType(), qt.Equals, gfx.UnsignedInt)
	c.Assert(b.ByteSize(), qt.Equals, 24)

	small, err := gfx.NewBuffer(rec, gfx.IndexData, []uint16{0, 1, 2})
	c.Assert(err, qt.IsNil)
	defer small.Release()
	c.Assert(small.IndexType(), qt.Equals, gfx.UnsignedShort)
	c.Assert(small.ByteSize(), qt.Equals, 6)
}

func TestBufferReleaseIsIdempotent(t *testing.T) {
	c := qt.New(t)
	rec := gltest.New()

	b, err := gfx.NewBuffer(rec, gfx.VertexData, []float32{1, 2, 3})
	c.Assert(err, qt.IsNil)

	b.Release()
	b.Release()
	c.Assert(rec.Count("DeleteBuffer"), qt.Equals, 1)
	c.Assert(rec.Live(), qt.HasLen, 0)
}

func TestBufferAllocationFailure(t *testing.T) {
	c := qt.New(t)
	rec := gltest.New()
	rec.FailAlloc = true

	b, err := gfx.NewBuffer(rec, gfx.VertexData, []float32{1})
	c.Assert(b, qt.IsNil)
	c.Assert(errors.Is(err, gfx.ErrAllocation), qt.IsTrue)
	c.Assert(rec.Count("BufferData"), qt.Equals, 0)
}

func BenchmarkNewBuffer(b *testing.B) {
	rec := gltest.New()
	data := make([]float32, 4096)
	for idx := 0; idx < b.N; idx++ {
		buf, _ := gfx.NewBuffer(rec, gfx.VertexData, data)
		buf.Release()
		rec.Reset()
	}
}
