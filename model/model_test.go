// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/glhost/gfx"
	"github.com/devblok/glhost/model"
)

func TestQuad(t *testing.T) {
	c := qt.New(t)
	quad := model.Quad()

	c.Assert(quad.Stride(), qt.Equals, 8)
	c.Assert(quad.VertexCount(), qt.Equals, 4)
	c.Assert(quad.Indexed(), qt.IsTrue)
	c.Assert(quad.Textured(), qt.IsTrue)
	c.Assert(quad.Indices, qt.DeepEquals, []uint32{0, 1, 2, 2, 1, 3})
	c.Assert(quad.Vertices[:8], qt.DeepEquals, []float32{-0.5, 0.5, 0, 0.6, 0.4, 0.8, 0, 1})

	var offsets []int
	for _, a := range quad.Layout {
		offsets = append(offsets, a.ByteOffset())
	}
	c.Assert(offsets, qt.DeepEquals, []int{0, 12, 24})
}

func TestTriangle(t *testing.T) {
	c := qt.New(t)
	tri := model.Triangle()

	c.Assert(tri.Stride(), qt.Equals, 6)
	c.Assert(tri.VertexCount(), qt.Equals, 3)
	c.Assert(tri.Indexed(), qt.IsFalse)
	c.Assert(tri.Textured(), qt.IsFalse)
	c.Assert(tri.Layout, qt.HasLen, 2)
	c.Assert(tri.Vertices[6:9], qt.DeepEquals, []float32{0, 0.5, 0})
}

func TestInterleave(t *testing.T) {
	c := qt.New(t)
	data, layout := model.Interleave([]model.Vertex{
		{Pos: glm.Vec3{1, 2, 3}, Color: glm.Vec3{4, 5, 6}, UV: glm.Vec2{7, 8}},
	}, true)

	c.Assert(data, qt.DeepEquals, []float32{1, 2, 3, 4, 5, 6, 7, 8})
	c.Assert(layout[2], qt.DeepEquals, gfx.Attribute{
		Slot: model.TexCoordSlot, Components: 2, Type: gfx.Float, Stride: 8, Offset: 6,
	})
}

func TestEmptyMesh(t *testing.T) {
	c := qt.New(t)
	var m model.Mesh
	c.Assert(m.Stride(), qt.Equals, 0)
	c.Assert(m.VertexCount(), qt.Equals, 0)
}
