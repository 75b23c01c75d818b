// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package model holds interleaved vertex data ready for upload.
package model

import (
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/glhost/gfx"
)

// Attribute slots used by the built-in shaders.
const (
	PositionSlot uint32 = 0
	ColorSlot    uint32 = 1
	TexCoordSlot uint32 = 2
)

// Vertex is a model vertex
type Vertex struct {
	Pos   glm.Vec3
	Color glm.Vec3
	UV    glm.Vec2
}

// Mesh is interleaved vertex data plus its optional index list
// and the attribute layout describing one vertex.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
	Layout   []gfx.Attribute
}

// Stride returns the number of floats per vertex.
func (m Mesh) Stride() int {
	if len(m.Layout) == 0 {
		return 0
	}
	return m.Layout[0].Stride
}

// VertexCount returns how many whole vertices the mesh holds.
func (m Mesh) VertexCount() int {
	stride := m.Stride()
	if stride == 0 {
		return 0
	}
	return len(m.Vertices) / stride
}

// Indexed reports whether the mesh is drawn through an index buffer.
func (m Mesh) Indexed() bool {
	return len(m.Indices) > 0
}

// Textured reports whether the layout carries texture coordinates.
func (m Mesh) Textured() bool {
	for _, a := range m.Layout {
		if a.Slot == TexCoordSlot {
			return true
		}
	}
	return false
}

// Interleave packs vertices as position, colour and, when withUV is set,
// texture coordinates. The returned layout matches the packing.
func Interleave(vertices []Vertex, withUV bool) ([]float32, []gfx.Attribute) {
	stride := 6
	if withUV {
		stride = 8
	}

	data := make([]float32, 0, len(vertices)*stride)
	for _, v := range vertices {
		data = append(data, v.Pos[:]...)
		data = append(data, v.Color[:]...)
		if withUV {
			data = append(data, v.UV[:]...)
		}
	}

	layout := []gfx.Attribute{
		{Slot: PositionSlot, Components: 3, Type: gfx.Float, Stride: stride, Offset: 0},
		{Slot: ColorSlot, Components: 3, Type: gfx.Float, Stride: stride, Offset: 3},
	}
	if withUV {
		layout = append(layout, gfx.Attribute{Slot: TexCoordSlot, Components: 2, Type: gfx.Float, Stride: stride, Offset: 6})
	}
	return data, layout
}

// Quad returns the textured two-triangle quad.
func Quad() Mesh {
	data, layout := Interleave([]Vertex{
		{Pos: glm.Vec3{-0.5, 0.5, 0}, Color: glm.Vec3{0.6, 0.4, 0.8}, UV: glm.Vec2{0, 1}},
		{Pos: glm.Vec3{0.5, 0.5, 0}, Color: glm.Vec3{0.85, 0.44, 0.84}, UV: glm.Vec2{1, 1}},
		{Pos: glm.Vec3{-0.5, -0.5, 0}, Color: glm.Vec3{0.7, 0.7, 0.9}, UV: glm.Vec2{0, 0}},
		{Pos: glm.Vec3{0.5, -0.5, 0}, Color: glm.Vec3{0.88, 0.69, 0.87}, UV: glm.Vec2{1, 0}},
	}, true)
	return Mesh{
		Vertices: data,
		Indices:  []uint32{0, 1, 2, 2, 1, 3},
		Layout:   layout,
	}
}

// Triangle returns a single untextured, non-indexed triangle.
func Triangle() Mesh {
	data, layout := Interleave([]Vertex{
		{Pos: glm.Vec3{-0.5, -0.5, 0}, Color: glm.Vec3{1, 0, 0}},
		{Pos: glm.Vec3{0, 0.5, 0}, Color: glm.Vec3{0, 1, 0}},
		{Pos: glm.Vec3{0.5, -0.5, 0}, Color: glm.Vec3{0, 0, 1}},
	}, false)
	return Mesh{
		Vertices: data,
		Layout:   layout,
	}
}
